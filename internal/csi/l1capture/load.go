package l1capture

import (
	"fmt"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/fsutil"
	"github.com/banshee-data/presence.report/internal/monitoring"
)

// Loader reads capture files from a FileSystem.
type Loader struct {
	FS     fsutil.FileSystem
	Marker string
}

// NewLoader returns a Loader on the host filesystem using DefaultMarker.
func NewLoader() *Loader {
	return &Loader{FS: fsutil.OSFileSystem{}, Marker: DefaultMarker}
}

// Load reads and parses the capture at path.
func (l *Loader) Load(path string) (*csi.Matrix, ParseStats, error) {
	fsys := l.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	m, stats, err := Parse(f, l.Marker, path)
	if err != nil {
		return nil, stats, err
	}
	if stats.Rejected > 0 || stats.TruncatedRows > 0 {
		monitoring.Logf("capture %s: %d frames kept, %d lines rejected, %d frames truncated to %d subcarriers",
			path, stats.Accepted, stats.Rejected, stats.TruncatedRows, stats.MinRowLen)
	}
	monitoring.Debugf("capture %s: %d x %d (%d lines ignored)", path, stats.Accepted, stats.MinRowLen, stats.Ignored)
	return m, stats, nil
}

// Load reads the capture at path from the host filesystem.
func Load(path string) (*csi.Matrix, error) {
	m, _, err := NewLoader().Load(path)
	return m, err
}

// LoadWithStats is Load that also returns the per-line statistics.
func LoadWithStats(path string) (*csi.Matrix, ParseStats, error) {
	return NewLoader().Load(path)
}

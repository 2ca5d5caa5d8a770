package l1capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/presence.report/internal/csi"
)

// DefaultMarker prefixes every CSI line printed by the receiver firmware.
const DefaultMarker = "CSI_DATA:"

// maxLineBytes bounds a single capture line. Receivers emit at most a few
// hundred values per frame, well under this.
const maxLineBytes = 4 * 1024 * 1024

// ParseStats counts the outcome of every line of a capture.
type ParseStats struct {
	Accepted      int `json:"accepted"`       // marker lines that became frames
	Rejected      int `json:"rejected"`       // marker lines with an empty or non-integer payload
	Ignored       int `json:"ignored"`        // lines without the marker
	MinRowLen     int `json:"min_row_len"`    // subcarriers kept per frame
	MaxRowLen     int `json:"max_row_len"`    // longest accepted frame before truncation
	TruncatedRows int `json:"truncated_rows"` // frames shortened to MinRowLen
}

// Lines returns the total number of lines seen.
func (s ParseStats) Lines() int {
	return s.Accepted + s.Rejected + s.Ignored
}

// EmptyDatasetError reports a capture with no accepted frames.
type EmptyDatasetError struct {
	Source string
	Stats  ParseStats
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("no CSI data found in %s (%d lines, %d rejected)", e.Source, e.Stats.Lines(), e.Stats.Rejected)
}

// Unwrap lets errors.Is match csi.ErrEmptyDataset.
func (e *EmptyDatasetError) Unwrap() error {
	return csi.ErrEmptyDataset
}

// ParseLine decides a single line. It reports qualified=false when the line
// does not carry the marker, and ok=false when it does but the payload is
// empty or any token is not a base-10 integer. A rejected line never yields
// a partial row.
func ParseLine(line, marker string) (row []float64, qualified, ok bool) {
	if marker == "" {
		marker = DefaultMarker
	}
	if !strings.Contains(line, marker) {
		return nil, false, false
	}
	fields := strings.Fields(strings.ReplaceAll(line, marker, ""))
	if len(fields) == 0 {
		return nil, true, false
	}
	row = make([]float64, len(fields))
	for i, tok := range fields {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, true, false
		}
		row[i] = float64(v)
	}
	return row, true, true
}

// Parse reads a capture from r. source names the capture in errors.
// Accepted frames keep their file order and are right-truncated to the
// shortest accepted frame so the result is rectangular.
func Parse(r io.Reader, marker, source string) (*csi.Matrix, ParseStats, error) {
	var stats ParseStats
	var rows [][]float64

	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scan.Scan() {
		row, qualified, ok := ParseLine(scan.Text(), marker)
		switch {
		case !qualified:
			stats.Ignored++
		case !ok:
			stats.Rejected++
		default:
			stats.Accepted++
			rows = append(rows, row)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read %s: %w", source, err)
	}

	if len(rows) == 0 {
		return nil, stats, &EmptyDatasetError{Source: source, Stats: stats}
	}

	stats.MinRowLen, stats.MaxRowLen = len(rows[0]), len(rows[0])
	for _, row := range rows[1:] {
		stats.MinRowLen = min(stats.MinRowLen, len(row))
		stats.MaxRowLen = max(stats.MaxRowLen, len(row))
	}
	for i, row := range rows {
		if len(row) > stats.MinRowLen {
			rows[i] = row[:stats.MinRowLen]
			stats.TruncatedRows++
		}
	}

	m, err := csi.NewMatrix(rows)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to build matrix for %s: %w", source, err)
	}
	return m, stats, nil
}

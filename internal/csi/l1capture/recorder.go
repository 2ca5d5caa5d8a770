package l1capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/presence.report/internal/monitoring"
)

// LineSource delivers console lines to subscribers. serialmux.SerialMux
// satisfies it.
type LineSource interface {
	Subscribe() (string, chan string)
	Unsubscribe(string)
}

// RecordStats counts what a Recorder did with the lines it received.
type RecordStats struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// Recorder copies marker lines from a live console into a capture file.
// It performs no parsing; the batch loader decides which lines are frames.
type Recorder struct {
	Marker string
	w      *bufio.Writer
}

// NewRecorder writes capture lines to w.
func NewRecorder(w io.Writer, marker string) *Recorder {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Recorder{Marker: marker, w: bufio.NewWriter(w)}
}

// Record subscribes to src and writes every line containing the marker
// until ctx is done or the source closes the subscription. The output is
// flushed before returning.
func (r *Recorder) Record(ctx context.Context, src LineSource) (RecordStats, error) {
	var stats RecordStats
	id, lines := src.Subscribe()
	defer src.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return stats, r.flush(stats)
		case line, ok := <-lines:
			if !ok {
				return stats, r.flush(stats)
			}
			if !strings.Contains(line, r.Marker) {
				stats.Skipped++
				continue
			}
			line = strings.TrimRight(line, "\r\n")
			if _, err := r.w.WriteString(line + "\n"); err != nil {
				return stats, fmt.Errorf("failed to write capture line: %w", err)
			}
			stats.Written++
			if stats.Written%1000 == 0 {
				monitoring.Debugf("recorder: %d frames written", stats.Written)
			}
		}
	}
}

func (r *Recorder) flush(stats RecordStats) error {
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush capture: %w", err)
	}
	monitoring.Logf("recorder: %d frame lines written, %d console lines skipped", stats.Written, stats.Skipped)
	return nil
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/presence.report/internal/db"
)

func TestRuns(t *testing.T) {
	runs := []db.RunSummary{
		{ID: "b7c1", CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), Baseline: "Empty Room", Datasets: 3},
		{ID: "a0f2", CreatedAt: time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC), Baseline: "Empty Room", Datasets: 2},
	}
	out := Runs(runs, ASCII)
	assert.Contains(t, out, "b7c1")
	assert.Contains(t, out, "a0f2")
	assert.Contains(t, out, "Empty Room")
	assert.Less(t, strings.Index(out, "b7c1"), strings.Index(out, "a0f2"))

	md := Runs(runs, Markdown)
	assert.True(t, strings.HasPrefix(md, "|"), md)
}

func TestRunDetail(t *testing.T) {
	out := RunDetail([]db.Result{
		{Dataset: "Empty Room", Frames: 200, Label: "NO PERSON DETECTED", Confidence: "HIGH", Baseline: true},
		{Dataset: "Walking", Frames: 200, ZMotion: 9.25, Label: "MULTIPLE PEOPLE / HIGH ACTIVITY", Confidence: "VERY HIGH"},
	}, ASCII)
	assert.Contains(t, out, "Empty Room *")
	assert.Contains(t, out, "+9.250")
	assert.Contains(t, out, "VERY HIGH")
}

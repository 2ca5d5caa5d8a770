// Package testutil provides shared CSI capture fixtures for tests.
//
// Captures are produced as text in the receiver's console format so tests
// exercise the same loader path as real recordings.
package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Marker matches the receiver firmware's line prefix.
const Marker = "CSI_DATA:"

// CaptureLine formats one frame as a console line.
func CaptureLine(values ...int) string {
	var b strings.Builder
	b.WriteString(Marker)
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// CaptureText joins frames into a capture file body.
func CaptureText(rows [][]int) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(CaptureLine(row...))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCapture writes content to dir/name and returns the path.
func WriteCapture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write capture %s: %v", path, err)
	}
	return path
}

// Scene describes a synthetic capture: a static multipath profile plus an
// optional Gaussian disturbance that sweeps across subcarriers.
type Scene struct {
	Frames      int
	Subcarriers int
	// Noise is the amplitude of uniform measurement noise.
	Noise float64
	// BumpAmplitude is the peak of the disturbance; 0 disables it.
	BumpAmplitude float64
	// BumpWidth is the disturbance spread in subcarriers.
	BumpWidth float64
	// SweepPeriod is the number of frames for one full sweep back and forth.
	SweepPeriod int
	Seed        uint64
}

// EmptyRoom is a static scene with light noise.
func EmptyRoom(seed uint64) Scene {
	return Scene{Frames: 200, Subcarriers: 32, Noise: 1, Seed: seed}
}

// Walking is a scene with a strong disturbance sweeping the band.
func Walking(seed uint64) Scene {
	return Scene{Frames: 200, Subcarriers: 32, Noise: 1, BumpAmplitude: 40, BumpWidth: 2, SweepPeriod: 80, Seed: seed}
}

// Rows renders the scene as integer frames.
func (s Scene) Rows() [][]int {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	rows := make([][]int, s.Frames)
	for t := range rows {
		centre := s.centre(t)
		row := make([]int, s.Subcarriers)
		for k := range row {
			v := 20 + 10*math.Sin(float64(k)/3)
			if s.BumpAmplitude > 0 {
				d := (float64(k) - centre) / s.BumpWidth
				v += s.BumpAmplitude * math.Exp(-0.5*d*d)
			}
			v += s.Noise * (2*rng.Float64() - 1)
			row[k] = int(math.Round(v))
		}
		rows[t] = row
	}
	return rows
}

func (s Scene) centre(t int) float64 {
	if s.SweepPeriod <= 0 || s.Subcarriers < 2 {
		return float64(s.Subcarriers) / 2
	}
	phase := float64(t%s.SweepPeriod) / float64(s.SweepPeriod)
	span := float64(s.Subcarriers - 1)
	if phase < 0.5 {
		return 2 * phase * span
	}
	return 2 * (1 - phase) * span
}

// Text renders the scene as a capture body.
func (s Scene) Text() string {
	return CaptureText(s.Rows())
}

// Write renders the scene to dir/name and returns the path.
func (s Scene) Write(t *testing.T, dir, name string) string {
	t.Helper()
	return WriteCapture(t, dir, name, s.Text())
}

// String describes the scene for test names.
func (s Scene) String() string {
	return fmt.Sprintf("%dx%d bump=%.0f period=%d", s.Frames, s.Subcarriers, s.BumpAmplitude, s.SweepPeriod)
}

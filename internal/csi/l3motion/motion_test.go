package l3motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/dsp"
)

func TestCentroid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  []float64
		want float64
	}{
		{"single peak", []float64{0, 0, 5, 0}, 2},
		{"uniform", []float64{1, 1, 1, 1, 1}, 2},
		{"weighted pair", []float64{3, 0, 0, 1}, 0.75},
		{"all zero", []float64{0, 0, 0}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Centroid(tt.row)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestExtract_LengthMatchesFrames(t *testing.T) {
	t.Parallel()

	for _, frames := range []int{1, 2, 7, 64} {
		rows := make([][]float64, frames)
		for i := range rows {
			rows[i] = []float64{float64(i), 1, 0, 2}
		}
		m, err := csi.NewMatrix(rows)
		require.NoError(t, err)
		assert.Len(t, Extract(m), frames)
	}
}

func TestExtract_ZeroFramesYieldZeroCentroid(t *testing.T) {
	t.Parallel()

	m, err := csi.NewMatrix([][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	path := Extract(m)
	for i, v := range path {
		assert.False(t, math.IsNaN(v), "frame %d", i)
		assert.Equal(t, 0.0, v, "frame %d", i)
	}
}

func TestExtract_SmoothsCentroids(t *testing.T) {
	t.Parallel()

	rows := make([][]float64, 30)
	for i := range rows {
		rows[i] = make([]float64, 10)
		rows[i][i%10] = 1
	}
	m, err := csi.NewMatrix(rows)
	require.NoError(t, err)

	raw := Centroids(m)
	assert.Equal(t, 9.0, raw[9])
	assert.Equal(t, 0.0, raw[10])

	want := dsp.MustFilter(dsp.DefaultSigma, dsp.DefaultTruncate).Apply(raw)
	assert.InDeltaSlice(t, want, []float64(Extract(m)), 1e-12)
}

func TestExtract_StaticPeakIsFlat(t *testing.T) {
	t.Parallel()

	rows := make([][]float64, 20)
	for i := range rows {
		rows[i] = []float64{0, 1, 4, 1, 0}
	}
	m, err := csi.NewMatrix(rows)
	require.NoError(t, err)

	for _, v := range Extract(m) {
		assert.InDelta(t, 2, v, 1e-12)
	}
}

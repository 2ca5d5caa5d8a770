package l4features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/presence.report/internal/csi"
)

// Extract aggregates one dataset into its feature triple.
//   - MeanEnergy: mean |x| over the raw matrix
//   - TemporalVariance: variance over every preprocessed entry
//   - MotionVariance: variance of the motion path
func Extract(raw, pre *csi.Matrix, path csi.MotionPath) csi.FeatureTriple {
	return csi.FeatureTriple{
		MeanEnergy:       MeanEnergy(raw),
		TemporalVariance: popVariance(pre.Values()),
		MotionVariance:   popVariance(path),
	}
}

// MeanEnergy returns the mean absolute value over all entries of m.
func MeanEnergy(m *csi.Matrix) float64 {
	return stat.Mean(absolute(m.Values()), nil)
}

// FrameEnergy returns the mean absolute value of each frame of m.
func FrameEnergy(m *csi.Matrix) []float64 {
	out := make([]float64, m.Frames())
	for i := range out {
		out[i] = stat.Mean(absolute(m.Row(i)), nil)
	}
	return out
}

func absolute(x []float64) []float64 {
	for i, v := range x {
		x[i] = math.Abs(v)
	}
	return x
}

// popVariance divides by N, not N-1. An empty sequence has zero variance.
func popVariance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.PopVariance(x, nil)
}

package l3motion

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/dsp"
)

// Centroid returns sum(i*row[i]) / sum(row). A frame with zero total energy
// has centroid 0.
func Centroid(row []float64) float64 {
	total := floats.Sum(row)
	if total == 0 {
		return 0
	}
	var weighted float64
	for i, v := range row {
		weighted += float64(i) * v
	}
	return weighted / total
}

// Centroids returns the unsmoothed centroid of every frame.
func Centroids(pre *csi.Matrix) []float64 {
	out := make([]float64, pre.Frames())
	for i := range out {
		out[i] = Centroid(pre.Row(i))
	}
	return out
}

// Extractor computes motion paths with a fixed smoothing filter.
type Extractor struct {
	filter *dsp.Filter
}

// NewExtractor returns an Extractor smoothing with filter.
func NewExtractor(filter *dsp.Filter) *Extractor {
	return &Extractor{filter: filter}
}

// Extract returns one smoothed centroid per frame of the preprocessed matrix.
func (e *Extractor) Extract(pre *csi.Matrix) csi.MotionPath {
	return csi.MotionPath(e.filter.Apply(Centroids(pre)))
}

// Extract computes the motion path with sigma = 2 smoothing.
func Extract(pre *csi.Matrix) csi.MotionPath {
	return NewExtractor(dsp.MustFilter(dsp.DefaultSigma, dsp.DefaultTruncate)).Extract(pre)
}

package l2preprocess

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/dsp"
)

// Preprocess removes each subcarrier's temporal mean, takes the absolute
// value and smooths every subcarrier along time with sigma = 2 samples.
func Preprocess(m *csi.Matrix) *csi.Matrix {
	return New(dsp.MustFilter(dsp.DefaultSigma, dsp.DefaultTruncate)).Preprocess(m)
}

// PreprocessWithSigma is Preprocess with a custom smoothing spread and the
// default truncation.
func PreprocessWithSigma(m *csi.Matrix, sigma float64) (*csi.Matrix, error) {
	p, err := NewWithSigma(sigma, dsp.DefaultTruncate)
	if err != nil {
		return nil, err
	}
	return p.Preprocess(m), nil
}

// Preprocessor applies the preprocessing chain with a fixed smoothing filter.
type Preprocessor struct {
	filter *dsp.Filter
}

// New returns a Preprocessor using filter for the smoothing step.
func New(filter *dsp.Filter) *Preprocessor {
	return &Preprocessor{filter: filter}
}

// NewWithSigma builds a Preprocessor for a custom smoothing spread.
func NewWithSigma(sigma, truncate float64) (*Preprocessor, error) {
	f, err := dsp.NewFilter(sigma, truncate)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// Preprocess runs Detrend, Rectify and the time-axis smoothing in order.
func (p *Preprocessor) Preprocess(m *csi.Matrix) *csi.Matrix {
	d := detrend(m)
	rectify(d)
	p.filter.ApplyColumns(d)
	return csi.FromDense(d)
}

// Detrend returns m with each column's mean over time subtracted, so every
// column of the result sums to approximately zero.
func Detrend(m *csi.Matrix) *csi.Matrix {
	return csi.FromDense(detrend(m))
}

// Rectify returns the element-wise absolute value of m.
func Rectify(m *csi.Matrix) *csi.Matrix {
	d := m.Dense()
	rectify(d)
	return csi.FromDense(d)
}

func detrend(m *csi.Matrix) *mat.Dense {
	d := m.Dense()
	r, c := d.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, d)
		mean := stat.Mean(col, nil)
		for i := range col {
			col[i] -= mean
		}
		d.SetCol(j, col)
	}
	return d
}

func rectify(d *mat.Dense) {
	d.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, d)
}

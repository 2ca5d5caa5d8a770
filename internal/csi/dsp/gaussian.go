package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultSigma is the smoothing spread, in samples, used by the pipeline.
	DefaultSigma = 2.0
	// DefaultTruncate is the kernel half-width in units of sigma.
	DefaultTruncate = 4.0
)

// GaussianKernel returns normalised Gaussian weights of radius
// int(truncate*sigma+0.5) on each side of the centre.
func GaussianKernel(sigma, truncate float64) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("dsp: sigma must be positive and finite, got %v", sigma)
	}
	if !(truncate > 0) || math.IsInf(truncate, 0) {
		return nil, fmt.Errorf("dsp: truncate must be positive and finite, got %v", truncate)
	}
	radius := int(truncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	s2 := sigma * sigma
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-0.5 * x * x / s2)
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel, nil
}

// Filter smooths a sequence with a Gaussian kernel. Samples beyond either
// edge are mirrored about the edge (d c b a | a b c d | d c b a); for
// sequences shorter than the kernel the mirroring repeats.
type Filter struct {
	kernel []float64
	radius int
}

// NewFilter builds a Filter for the given spread and truncation.
func NewFilter(sigma, truncate float64) (*Filter, error) {
	k, err := GaussianKernel(sigma, truncate)
	if err != nil {
		return nil, err
	}
	return &Filter{kernel: k, radius: len(k) / 2}, nil
}

// MustFilter is NewFilter for constant arguments; it panics on invalid input.
func MustFilter(sigma, truncate float64) *Filter {
	f, err := NewFilter(sigma, truncate)
	if err != nil {
		panic(err)
	}
	return f
}

// Radius returns the kernel half-width in samples.
func (f *Filter) Radius() int { return f.radius }

// Apply returns a smoothed copy of x. x is left untouched.
func (f *Filter) Apply(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		var acc float64
		for k, w := range f.kernel {
			acc += w * x[reflectIndex(i+k-f.radius, n)]
		}
		out[i] = acc
	}
	return out
}

// ApplyColumns smooths every column of m along the row (time) axis in place.
func (f *Filter) ApplyColumns(m *mat.Dense) {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, m)
		m.SetCol(j, f.Apply(col))
	}
}

// reflectIndex maps an out-of-range index onto [0, n) using half-sample
// symmetric reflection with period 2n.
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Smooth applies the default Gaussian filter with the given sigma.
func Smooth(x []float64, sigma float64) ([]float64, error) {
	f, err := NewFilter(sigma, DefaultTruncate)
	if err != nil {
		return nil, err
	}
	return f.Apply(x), nil
}

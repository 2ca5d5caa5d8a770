package dsp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestGaussianKernel(t *testing.T) {
	t.Parallel()

	k, err := GaussianKernel(DefaultSigma, DefaultTruncate)
	require.NoError(t, err)

	assert.Len(t, k, 17, "sigma=2 truncate=4 gives radius 8")
	assert.InDelta(t, 1.0, floats.Sum(k), 1e-12)
	for i := 0; i < len(k)/2; i++ {
		assert.InDelta(t, k[i], k[len(k)-1-i], 1e-15, "kernel must be symmetric")
		assert.Less(t, k[i], k[i+1], "weights rise towards the centre")
	}
	// Ratio between neighbours of the centre is exp(-1/(2*sigma^2)).
	assert.InDelta(t, math.Exp(-1.0/8.0), k[7]/k[8], 1e-12)
}

func TestGaussianKernel_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sigma    float64
		truncate float64
	}{
		{"zero sigma", 0, 4},
		{"negative sigma", -1, 4},
		{"nan sigma", math.NaN(), 4},
		{"inf sigma", math.Inf(1), 4},
		{"zero truncate", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GaussianKernel(tt.sigma, tt.truncate)
			assert.Error(t, err)
		})
	}
}

func TestReflectIndex(t *testing.T) {
	t.Parallel()

	// [a b c] extends as ... c b a | a b c | c b a | a b c ...
	tests := map[int]int{
		-6: 0, -4: 1, -3: 2, -2: 1, -1: 0,
		0: 0, 1: 1, 2: 2,
		3: 2, 4: 1, 5: 0, 6: 0, 7: 1,
	}
	for in, want := range tests {
		assert.Equal(t, want, reflectIndex(in, 3), "index %d", in)
	}
	assert.Equal(t, 0, reflectIndex(-9, 1))
	assert.Equal(t, 0, reflectIndex(9, 1))
}

func TestFilterApply_ConstantSignal(t *testing.T) {
	t.Parallel()

	f := MustFilter(DefaultSigma, DefaultTruncate)
	for _, n := range []int{1, 2, 5, 40} {
		x := make([]float64, n)
		for i := range x {
			x[i] = 7.5
		}
		got := f.Apply(x)
		want := append([]float64(nil), x...)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("n=%d constant signal changed (-want +got):\n%s", n, diff)
		}
	}
}

func TestFilterApply_ImpulseReproducesKernel(t *testing.T) {
	t.Parallel()

	f := MustFilter(DefaultSigma, DefaultTruncate)
	x := make([]float64, 41)
	x[20] = 1
	got := f.Apply(x)

	k, err := GaussianKernel(DefaultSigma, DefaultTruncate)
	require.NoError(t, err)
	want := make([]float64, 41)
	copy(want[20-f.Radius():], k)

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("impulse response mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterApply_EdgeReflection(t *testing.T) {
	t.Parallel()

	f := MustFilter(1, 1) // radius 1, weights {w, c, w}
	k, err := GaussianKernel(1, 1)
	require.NoError(t, err)

	got := f.Apply([]float64{1, 2, 3})
	// First sample sees [a a b] after reflection, last sees [b c c].
	assert.InDelta(t, k[0]*1+k[1]*1+k[2]*2, got[0], 1e-12)
	assert.InDelta(t, k[0]*1+k[1]*2+k[2]*3, got[1], 1e-12)
	assert.InDelta(t, k[0]*2+k[1]*3+k[2]*3, got[2], 1e-12)
}

func TestFilterApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	x := []float64{0, 5, 0, 5, 0}
	orig := append([]float64(nil), x...)
	MustFilter(DefaultSigma, DefaultTruncate).Apply(x)
	assert.Equal(t, orig, x)
	assert.Empty(t, MustFilter(DefaultSigma, DefaultTruncate).Apply(nil))
}

func TestFilterApplyColumns(t *testing.T) {
	t.Parallel()

	f := MustFilter(DefaultSigma, DefaultTruncate)
	m := mat.NewDense(6, 2, []float64{
		0, 1,
		10, 1,
		0, 1,
		0, 1,
		0, 1,
		0, 1,
	})
	col0 := f.Apply([]float64{0, 10, 0, 0, 0, 0})
	f.ApplyColumns(m)

	assert.InDeltaSlice(t, col0, mat.Col(nil, 0, m), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1, 1, 1}, mat.Col(nil, 1, m), 1e-12)
}

func TestSmooth(t *testing.T) {
	t.Parallel()

	_, err := Smooth([]float64{1, 2}, 0)
	assert.Error(t, err)

	got, err := Smooth([]float64{1, 2, 3}, DefaultSigma)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

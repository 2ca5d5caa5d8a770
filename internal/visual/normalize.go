package visual

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/presence.report/internal/csi"
)

// NormalizeForDisplay returns (m - mean) / std over all entries, using the
// population standard deviation. A constant matrix uses std = 1.
func NormalizeForDisplay(m *csi.Matrix) *csi.Matrix {
	values := m.Values()
	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 {
		std = 1
	}
	d := m.Dense()
	d.Apply(func(_, _ int, v float64) float64 { return (v - mean) / std }, d)
	return csi.FromDense(d)
}

// ValueRange returns the smallest and largest entry across all matrices.
// With no matrices it returns (0, 0).
func ValueRange(ms ...*csi.Matrix) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, m := range ms {
		for _, v := range m.Values() {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

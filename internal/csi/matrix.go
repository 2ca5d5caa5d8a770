package csi

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is an immutable frames × subcarriers matrix of CSI values.
// Rows are time frames in capture order and must not be reordered.
// All accessors return copies so a Matrix can be shared between goroutines.
type Matrix struct {
	dense *mat.Dense
}

// NewMatrix builds a Matrix from row slices. The rows are copied.
// It fails with ErrEmptyDataset when rows is empty and rejects ragged input.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("csi: frame 0 has no subcarriers")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("csi: frame %d has %d subcarriers, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Matrix{dense: mat.NewDense(len(rows), cols, data)}, nil
}

// FromDense copies a gonum matrix into a new Matrix.
func FromDense(m mat.Matrix) *Matrix {
	return &Matrix{dense: mat.DenseCopyOf(m)}
}

// Dims returns the number of frames and subcarriers.
func (m *Matrix) Dims() (frames, subcarriers int) {
	return m.dense.Dims()
}

// Frames returns the number of rows.
func (m *Matrix) Frames() int {
	r, _ := m.dense.Dims()
	return r
}

// Subcarriers returns the number of columns.
func (m *Matrix) Subcarriers() int {
	_, c := m.dense.Dims()
	return c
}

// At returns the value of subcarrier j in frame i.
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Row returns a copy of frame i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.dense)
}

// Col returns a copy of subcarrier j across all frames.
func (m *Matrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.dense)
}

// Values returns a row-major copy of every element.
func (m *Matrix) Values() []float64 {
	r, c := m.dense.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.dense.RawRowView(i)...)
	}
	return out
}

// Rows returns a copy of the matrix as row slices.
func (m *Matrix) Rows() [][]float64 {
	r, _ := m.dense.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Dense returns a mutable copy of the underlying gonum matrix.
func (m *Matrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.dense)
}

// Head returns a new Matrix holding the first n frames. n is clamped to
// [1, Frames()].
func (m *Matrix) Head(n int) *Matrix {
	r, c := m.dense.Dims()
	if n >= r {
		return FromDense(m.dense)
	}
	if n < 1 {
		n = 1
	}
	return FromDense(m.dense.Slice(0, n, 0, c))
}

// Equal reports whether both matrices have the same shape and identical values.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	return mat.Equal(m.dense, other.dense)
}

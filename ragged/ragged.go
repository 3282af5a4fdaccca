// Package ragged reconciles per-sample vectors of differing length into a
// rectangular, zero-padded matrix with one column per sample.
package ragged

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Data is either a Flat vector or a Collection of vectors. ToMatrix decides
// what to do based on which one it is handed.
type Data interface {
	isData()
}

// Flat is a single vector that needs no reconciliation.
type Flat []float64

// Collection holds one vector per sample, in canonical sample order. A NaN
// inside a vector marks a missing value.
type Collection struct {
	Labels  []string
	Vectors [][]float64
}

// Matrix is a padded collection: rows are positions (labelled 1..n) and
// columns are samples.
type Matrix struct {
	Dense     *mat.Dense // nil when either dimension is zero
	RowLabels []string
	ColLabels []string
}

func (Flat) isData()       {}
func (Collection) isData() {}
func (*Matrix) isData()    {}

// Len is the number of samples in the collection.
func (c Collection) Len() int { return len(c.Vectors) }

// MaxLen is the length of the longest member.
func (c Collection) MaxLen() int {
	n := 0
	for _, v := range c.Vectors {
		if len(v) > n {
			n = len(v)
		}
	}

	return n
}

// Extend maps missing values to zero and right-pads v with zeros until it is
// n long. It never truncates, and always returns a fresh slice.
func Extend(v []float64, n int) []float64 {
	if n < len(v) {
		n = len(v)
	}

	out := make([]float64, n)
	for i, x := range v {
		if math.IsNaN(x) {
			continue
		}
		out[i] = x
	}

	return out
}

// ToMatrix pads a Collection into a Matrix. A Flat vector (or an already
// padded Matrix) is returned unchanged.
func ToMatrix(d Data) (Data, error) {
	switch v := d.(type) {
	case Flat:
		return v, nil
	case *Matrix:
		return v, nil
	case Collection:
		return Pad(v)
	case nil:
		return nil, fmt.Errorf("ragged: nil input")
	}

	return nil, fmt.Errorf("ragged: unsupported input %T", d)
}

// Pad extends every member of c to the longest member's length and assembles
// them column-wise.
func Pad(c Collection) (*Matrix, error) {
	if len(c.Labels) != len(c.Vectors) {
		return nil, fmt.Errorf("ragged: %d labels for %d vectors", len(c.Labels), len(c.Vectors))
	}

	rows, cols := c.MaxLen(), c.Len()

	out := &Matrix{
		RowLabels: make([]string, rows),
		ColLabels: append([]string(nil), c.Labels...),
	}
	for i := range out.RowLabels {
		out.RowLabels[i] = strconv.Itoa(i + 1)
	}

	if rows == 0 || cols == 0 {
		return out, nil
	}

	out.Dense = mat.NewDense(rows, cols, nil)
	for j, v := range c.Vectors {
		out.Dense.SetCol(j, Extend(v, rows))
	}

	return out, nil
}

// Rows returns the number of positions.
func (m *Matrix) Rows() int { return len(m.RowLabels) }

// Cols returns the number of samples.
func (m *Matrix) Cols() int { return len(m.ColLabels) }

// At returns the value at position i for sample j.
func (m *Matrix) At(i, j int) float64 {
	return m.Dense.At(i, j)
}

// Col returns a copy of sample j's padded vector.
func (m *Matrix) Col(j int) []float64 {
	if m.Dense == nil {
		return make([]float64, m.Rows())
	}
	return mat.Col(nil, j, m.Dense)
}

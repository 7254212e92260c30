// Package labels - Dense label maps and raw-id to train-id mapping.
package labels

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Array is a 2D map of class ids stored row-major in an int32 dense tensor
// of shape (height, width).
type Array struct {
	t *tensor.Dense
}

// New creates a zero-filled label array.
//
// Arguments:
// - width: Number of columns.
// - height: Number of rows.
//
// Returns:
// - The label array.
func New(width, height int) *Array {
	return &Array{
		t: tensor.New(tensor.WithShape(height, width), tensor.WithBacking(make([]int32, width*height))),
	}
}

// FromSlice wraps data as a label array without copying it.
//
// Arguments:
// - width: Number of columns.
// - height: Number of rows.
// - data: Row-major class ids, len(data) must equal width*height.
//
// Returns:
// - The label array.
// - An error if the dimensions do not match the data.
func FromSlice(width, height int, data []int32) (*Array, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid label array size %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, errors.Errorf("label data has %d values, want %d for %dx%d", len(data), width*height, width, height)
	}
	return &Array{
		t: tensor.New(tensor.WithShape(height, width), tensor.WithBacking(data)),
	}, nil
}

// Width returns the number of columns.
func (a *Array) Width() int {
	return a.t.Shape()[1]
}

// Height returns the number of rows.
func (a *Array) Height() int {
	return a.t.Shape()[0]
}

// Len returns the number of pixels.
func (a *Array) Len() int {
	return a.t.Shape().TotalSize()
}

// Flat returns the row-major backing slice. Writes go through to the array.
func (a *Array) Flat() []int32 {
	return a.t.Data().([]int32)
}

// At returns the class id at column x, row y.
func (a *Array) At(x, y int) int32 {
	return a.Flat()[y*a.Width()+x]
}

// Set stores the class id at column x, row y.
func (a *Array) Set(x, y int, v int32) {
	a.Flat()[y*a.Width()+x] = v
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{t: a.t.Clone().(*tensor.Dense)}
}

// SameShape reports whether both arrays have identical dimensions.
func (a *Array) SameShape(other *Array) bool {
	return a.t.Shape().Eq(other.t.Shape())
}

// Tensor exposes the underlying dense tensor.
func (a *Array) Tensor() *tensor.Dense {
	return a.t
}

package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Dense is a row-major n-dimensional tensor of float64 values.
// shape holds the axis lengths, stride the flat-offset step per axis, and
// data the product-of-axes elements in row-major order.
type Dense struct {
	shape  []int     // axis lengths, rank == len(shape)
	stride []int     // stride[i] = product of shape[i+1:]
	data   []float64 // flat backing storage, length == product(shape)
}

// NewDense creates a tensor of the given shape initialized to zeros.
// Returns ErrBadShape if no axes are given or any axis is ≤ 0.
// Complexity: O(product(shape)) time and memory.
func NewDense(shape ...int) (*Dense, error) {
	if len(shape) == 0 {
		return nil, ErrBadShape
	}
	size := 1
	for _, n := range shape {
		if n <= 0 {
			return nil, ErrBadShape
		}
		size *= n
	}

	t := &Dense{
		shape:  append([]int(nil), shape...),
		stride: make([]int, len(shape)),
		data:   make([]float64, size),
	}
	// stride[i] = product of all later axes; last axis varies fastest
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		t.stride[i] = acc
		acc *= shape[i]
	}

	return t, nil
}

// FromFlat creates a tensor of the given shape from a copy of data laid out
// in row-major order. Returns ErrBadShape for an invalid shape and
// ErrDataLength when len(data) does not equal the product of the axes.
// Complexity: O(len(data)).
func FromFlat(data []float64, shape ...int) (*Dense, error) {
	t, err := NewDense(shape...)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("got %d values for shape %v: %w", len(data), shape, ErrDataLength)
	}
	copy(t.data, data)

	return t, nil
}

// Rank returns the number of axes. Complexity: O(1).
func (t *Dense) Rank() int {
	return len(t.shape)
}

// Shape returns a copy of the axis lengths. Complexity: O(rank).
func (t *Dense) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Size returns the total number of elements. Complexity: O(1).
func (t *Dense) Size() int {
	return len(t.data)
}

// offsetOf computes the flat offset for a full multi-index, or returns
// ErrRankMismatch / ErrOutOfRange. Complexity: O(rank).
func (t *Dense) offsetOf(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("got %d indices for rank %d: %w", len(idx), len(t.shape), ErrRankMismatch)
	}
	off := 0
	for i, j := range idx {
		if j < 0 || j >= t.shape[i] {
			return 0, fmt.Errorf("index %d on axis %d of length %d: %w", j, i, t.shape[i], ErrOutOfRange)
		}
		off += j * t.stride[i]
	}

	return off, nil
}

// At retrieves the element at the given multi-index.
// Complexity: O(rank).
func (t *Dense) At(idx ...int) (float64, error) {
	off, err := t.offsetOf(idx)
	if err != nil {
		return 0, err
	}

	return t.data[off], nil
}

// Set assigns v at the given multi-index.
// Complexity: O(rank).
func (t *Dense) Set(v float64, idx ...int) error {
	off, err := t.offsetOf(idx)
	if err != nil {
		return err
	}
	t.data[off] = v

	return nil
}

// Flat retrieves the element at the given flat row-major offset.
// Complexity: O(1).
func (t *Dense) Flat(i int) (float64, error) {
	if i < 0 || i >= len(t.data) {
		return 0, fmt.Errorf("flat offset %d of %d elements: %w", i, len(t.data), ErrOutOfRange)
	}

	return t.data[i], nil
}

// Fill assigns v to every element. Complexity: O(size).
func (t *Dense) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Clone returns a deep copy of the tensor.
// Complexity: O(size) time and memory.
func (t *Dense) Clone() *Dense {
	cp := &Dense{
		shape:  append([]int(nil), t.shape...),
		stride: append([]int(nil), t.stride...),
		data:   make([]float64, len(t.data)),
	}
	copy(cp.data, t.data)

	return cp
}

// Equal reports whether o has the same shape and every element within eps
// of the corresponding element of t. Complexity: O(size).
func (t *Dense) Equal(o *Dense, eps float64) bool {
	if o == nil || len(t.shape) != len(o.shape) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range t.data {
		if math.Abs(t.data[i]-o.data[i]) > eps {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for easy debugging: the shape followed by
// the flat row-major values. Complexity: O(size).
func (t *Dense) String() string {
	var b strings.Builder
	b.WriteString("tensor(")
	for i, n := range t.shape {
		if i > 0 {
			b.WriteString("×")
		}
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteString(")[")
	for i, v := range t.data {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g", v)
	}
	b.WriteString("]")

	return b.String()
}

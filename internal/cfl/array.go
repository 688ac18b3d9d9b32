package cfl

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// MaxDims is the dimension count BART headers are written with.
const MaxDims = 16

// ErrMalformed marks headers or data files that do not follow the container layout.
var ErrMalformed = errors.New("malformed container")

// Array is a multi-dimensional complex array stored in column-major order.
type Array struct {
	Dims []int
	Data []complex64
}

// New allocates a zeroed array with the given shape.
func New(dims ...int) (Array, error) {
	n, err := elements(dims)
	if err != nil {
		return Array{}, err
	}
	return Array{Dims: slices.Clone(dims), Data: make([]complex64, n)}, nil
}

// Len returns the number of samples implied by the shape.
func (a Array) Len() int {
	n, _ := elements(a.Dims)
	return n
}

// Shape returns the dimensions with trailing singleton entries removed; at
// least one entry is always kept.
func (a Array) Shape() []int {
	return trimSingletons(a.Dims)
}

// Validate reports whether the shape is storable and matches the sample count.
func (a Array) Validate() error {
	n, err := elements(a.Dims)
	if err != nil {
		return err
	}
	if len(a.Data) != n {
		return fmt.Errorf("array holds %d samples, shape %v needs %d", len(a.Data), a.Dims, n)
	}
	return nil
}

// Equal reports whether both arrays have the same shape and bit-identical samples.
func (a Array) Equal(b Array) bool {
	if !slices.Equal(a.Shape(), b.Shape()) || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if math.Float32bits(real(a.Data[i])) != math.Float32bits(real(b.Data[i])) ||
			math.Float32bits(imag(a.Data[i])) != math.Float32bits(imag(b.Data[i])) {
			return false
		}
	}
	return true
}

func elements(dims []int) (int, error) {
	if len(dims) == 0 {
		return 0, errors.New("array shape is empty")
	}
	if len(dims) > MaxDims {
		return 0, fmt.Errorf("array has %d dimensions, at most %d supported", len(dims), MaxDims)
	}
	n := 1
	for i, d := range dims {
		if d < 1 {
			return 0, fmt.Errorf("dimension %d has size %d", i, d)
		}
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("shape %v overflows", dims)
		}
		n *= d
	}
	return n, nil
}

func trimSingletons(dims []int) []int {
	end := len(dims)
	for end > 1 && dims[end-1] == 1 {
		end--
	}
	return slices.Clone(dims[:end])
}

package cfl_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ecalib/internal/cfl"
)

func TestNewRejectsInvalidShapes(t *testing.T) {
	for _, dims := range [][]int{nil, {0}, {2, -1}, make([]int, cfl.MaxDims+1)} {
		if _, err := cfl.New(dims...); err == nil {
			t.Errorf("expected error for dims %v", dims)
		}
	}
}

func TestShapeTrimsTrailingSingletons(t *testing.T) {
	tests := []struct {
		dims []int
		want []int
	}{
		{[]int{4, 3, 1, 1}, []int{4, 3}},
		{[]int{1, 1}, []int{1}},
		{[]int{1, 5}, []int{1, 5}},
		{[]int{2, 1, 3, 1}, []int{2, 1, 3}},
	}
	for _, tt := range tests {
		arr := cfl.Array{Dims: tt.dims}
		if diff := cmp.Diff(tt.want, arr.Shape()); diff != "" {
			t.Errorf("Shape(%v) mismatch (-want +got):\n%s", tt.dims, diff)
		}
	}
}

func TestEqualComparesBits(t *testing.T) {
	nan := float32(math.NaN())
	a := cfl.Array{Dims: []int{2, 1}, Data: []complex64{complex(nan, 0), 1}}
	b := cfl.Array{Dims: []int{2}, Data: []complex64{complex(nan, 0), 1}}
	if !a.Equal(b) {
		t.Fatal("expected equal arrays with identical NaN bits")
	}
	c := cfl.Array{Dims: []int{2}, Data: []complex64{complex(float32(math.Copysign(0, -1)), 0), 1}}
	d := cfl.Array{Dims: []int{2}, Data: []complex64{0, 1}}
	if c.Equal(d) {
		t.Fatal("expected -0 and +0 to differ bitwise")
	}
}

func TestSummarize(t *testing.T) {
	arr := cfl.Array{Dims: []int{4}, Data: []complex64{complex(3, 4), complex(0, 1), 0, complex(float32(math.Inf(1)), 0)}}
	s := cfl.Summarize(arr)
	if s.Elements != 4 || s.NonFinite != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.MaxMagnitude != 5 {
		t.Fatalf("unexpected max: %v", s.MaxMagnitude)
	}
	if math.Abs(s.MeanMagnitude-2) > 1e-9 {
		t.Fatalf("unexpected mean: %v", s.MeanMagnitude)
	}
	if s.StdMagnitude <= 0 {
		t.Fatalf("expected positive spread: %v", s.StdMagnitude)
	}

	if empty := cfl.Summarize(cfl.Array{}); empty.Elements != 0 || empty.MaxMagnitude != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

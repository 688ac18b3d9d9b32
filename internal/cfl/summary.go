package cfl

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds magnitude statistics of an array.
type Summary struct {
	Elements      int
	MeanMagnitude float64
	StdMagnitude  float64
	MaxMagnitude  float64
	NonFinite     int
}

// Summarize computes magnitude statistics over the finite samples of arr.
func Summarize(arr Array) Summary {
	summary := Summary{Elements: len(arr.Data)}
	mags := make([]float64, 0, len(arr.Data))
	for _, v := range arr.Data {
		m := cmplx.Abs(complex128(v))
		if cmplx.IsNaN(complex128(v)) || cmplx.IsInf(complex128(v)) {
			summary.NonFinite++
			continue
		}
		mags = append(mags, m)
	}
	if len(mags) == 0 {
		return summary
	}
	summary.MaxMagnitude = floats.Max(mags)
	if len(mags) == 1 {
		summary.MeanMagnitude = mags[0]
		return summary
	}
	summary.MeanMagnitude, summary.StdMagnitude = stat.MeanStdDev(mags, nil)
	return summary
}

// Package grid provides 2D sampling grids shared by the pulse and
// crystal packages: evenly spaced coordinate axes and smooth
// resampling of scalar meshes between grids.
//
// All 2D data in this module is stored as data[ix][iy]: the first
// index runs along the x axis, the second along y.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// ErrBadAxis is returned when a coordinate axis has fewer than two
// samples or is not strictly increasing.
var ErrBadAxis = errors.New("grid: axis must be strictly increasing with at least 2 samples")

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n <= 1 {
		return []float64{start}
	}

	step := (end - start) / float64(n-1)

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = start + float64(i)*step
	}
	return x
}

// AxesEqual reports whether two coordinate axes are identical,
// sample by sample.
func AxesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Alloc2D returns an nx by ny mesh of zeros.
func Alloc2D(nx, ny int) [][]float64 {
	m := make([][]float64, nx)
	for i := range m {
		m[i] = make([]float64, ny)
	}
	return m
}

// Copy2D returns a deep copy of a mesh.
func Copy2D(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i := range src {
		out[i] = make([]float64, len(src[i]))
		copy(out[i], src[i])
	}
	return out
}

func checkAxis(a []float64) error {
	if len(a) < 2 {
		return ErrBadAxis
	}
	for i := 1; i < len(a); i++ {
		if a[i] <= a[i-1] {
			return ErrBadAxis
		}
	}
	return nil
}

// ResampleBicubic resamples src, sampled on the axes (srcX, srcY),
// onto the axes (dstX, dstY) using cubic splines fitted along each
// axis in turn. Destination samples whose x or y coordinate falls
// outside the covered range of the source grid are set to zero;
// each of the four sides is clipped independently.
//
// When the source and destination axes are identical the source data
// is returned unchanged (as a copy) with no interpolation.
func ResampleBicubic(srcX, srcY []float64, src [][]float64, dstX, dstY []float64) ([][]float64, error) {
	if len(src) != len(srcX) {
		return nil, fmt.Errorf("grid: mesh has %d rows, x axis has %d samples", len(src), len(srcX))
	}
	for i := range src {
		if len(src[i]) != len(srcY) {
			return nil, fmt.Errorf("grid: mesh row %d has %d columns, y axis has %d samples", i, len(src[i]), len(srcY))
		}
	}

	if AxesEqual(srcX, dstX) && AxesEqual(srcY, dstY) {
		return Copy2D(src), nil
	}

	if err := checkAxis(srcX); err != nil {
		return nil, err
	}
	if err := checkAxis(srcY); err != nil {
		return nil, err
	}

	// Pass 1: spline along y for every source row, evaluated at dstY.
	mid := Alloc2D(len(srcX), len(dstY))
	for i := range srcX {
		var s interp.NaturalCubic
		if err := s.Fit(srcY, src[i]); err != nil {
			return nil, fmt.Errorf("grid: y spline fit: %w", err)
		}
		for j, y := range dstY {
			mid[i][j] = s.Predict(y)
		}
	}

	// Pass 2: spline along x for every destination column.
	out := Alloc2D(len(dstX), len(dstY))
	col := make([]float64, len(srcX))
	for j := range dstY {
		for i := range srcX {
			col[i] = mid[i][j]
		}
		var s interp.NaturalCubic
		if err := s.Fit(srcX, col); err != nil {
			return nil, fmt.Errorf("grid: x spline fit: %w", err)
		}
		for i, x := range dstX {
			out[i][j] = s.Predict(x)
		}
	}

	// The splines extrapolate beyond the fitted range; anything the
	// source grid never covered is zero, not an extrapolation.
	xMin, xMax := srcX[0], srcX[len(srcX)-1]
	yMin, yMax := srcY[0], srcY[len(srcY)-1]
	for i, x := range dstX {
		if x > xMax || x < xMin {
			for j := range dstY {
				out[i][j] = 0.0
			}
		}
	}
	for j, y := range dstY {
		if y > yMax || y < yMin {
			for i := range dstX {
				out[i][j] = 0.0
			}
		}
	}

	return out, nil
}

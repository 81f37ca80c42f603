package crystal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/apex-photonics/crystalprop/optics"
)

// IndexProfile is the output of an external thermal solver: sampled
// longitudinal arrays n0(z) and n2(z) for the whole crystal, already
// sign/scale-corrected for the duct convention n(r) = n0 - n2 r^2/2.
type IndexProfile struct {
	Z  []float64 // longitudinal sample positions [m], strictly increasing
	N0 []float64
	N2 []float64 // [1/m^2]
}

// ApplyIndexProfile fits cubic splines to the profile arrays,
// samples them at each slice's longitudinal center, and applies the
// index-assignment policy keyed by the configured pump direction:
// left keeps the arrays as computed, right reverses them, and dual
// symmetrizes - n0 as the mean of the array and its reverse, n2 as
// their sum. The n2 sum (no halving) models double absorption of the
// quadratic term and is intentional.
//
// When set is true the sampled values are written into the slices.
// The per-slice arrays are returned either way.
func (c *Crystal) ApplyIndexProfile(p IndexProfile, set bool) (n0, n2 []float64, err error) {
	if len(p.Z) != len(p.N0) || len(p.Z) != len(p.N2) {
		return nil, nil, errors.New("crystal: index profile arrays have different lengths")
	}

	var n0Fit, n2Fit interp.NaturalCubic
	if err := n0Fit.Fit(p.Z, p.N0); err != nil {
		return nil, nil, fmt.Errorf("crystal: n0 profile spline: %w", err)
	}
	if err := n2Fit.Fit(p.Z, p.N2); err != nil {
		return nil, nil, fmt.Errorf("crystal: n2 profile spline: %w", err)
	}

	n0 = make([]float64, c.NSlice)
	n2 = make([]float64, c.NSlice)
	sliceLength := c.Length / float64(c.NSlice)
	for j := 0; j < c.NSlice; j++ {
		zc := sliceLength * (float64(j) + 0.5)
		n0[j] = n0Fit.Predict(zc)
		n2[j] = n2Fit.Predict(zc)
	}

	switch c.params.Pump.Type {
	case PumpLeft:
		// As computed.
	case PumpRight:
		reverse(n0)
		reverse(n2)
	case PumpDual:
		n0r := reversed(n0)
		n2r := reversed(n2)
		for j := range n0 {
			n0[j] = (n0[j] + n0r[j]) / 2.0
			n2[j] = n2[j] + n2r[j]
		}
	}

	if set {
		for _, s := range c.Slices {
			s.N0 = n0[s.SliceIndex]
			s.N2 = n2[s.SliceIndex]
		}
	}
	return n0, n2, nil
}

// FullABCD composes the aggregate ABCD matrix of a gain-free crystal
// from per-segment duct matrices, multiplied in propagation order
// M_{n-1} * ... * M_0. The determinant is 1 up to rounding for any
// valid profile.
func FullABCD(length float64, n0, n2 []float64) (optics.ABCD, error) {
	if len(n0) != len(n2) || len(n0) == 0 {
		return optics.ABCD{}, errors.New("crystal: n0 and n2 must be equal-length, non-empty arrays")
	}
	n := len(n0)
	dz := length / float64(n)

	total := optics.Identity()
	for j := 0; j < n; j++ {
		k := n - j - 1
		gamma := math.Sqrt(n2[k] / n0[k])
		m := optics.ABCD{
			A: math.Cos(gamma * dz),
			B: dz / n0[k] * optics.Sinc(gamma*dz),
			C: -n0[k] * gamma * math.Sin(gamma*dz),
			D: math.Cos(gamma * dz),
		}
		total = total.Mul(m)
	}
	return total, nil
}

func reverse(a []float64) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

func reversed(a []float64) []float64 {
	out := append([]float64(nil), a...)
	reverse(out)
	return out
}

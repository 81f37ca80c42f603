// Package optics provides the paraxial transform kernels used by the
// crystal package: 2x2 ABCD ray matrices, a separable 2D linear
// canonical transform (LCT) for sampled complex wavefields, and a
// small ray-optics beamline (thin lens and free drift elements) that
// propagates a wavefront in place.
package optics

import "math"

// ABCD is a 2x2 real ray matrix [[A, B], [C, D]] describing one
// paraxial optical element. Composition of elements is the matrix
// product in propagation order, and Det is 1 for any lossless system.
type ABCD struct {
	A, B, C, D float64
}

// Identity returns the identity matrix.
func Identity() ABCD { return ABCD{A: 1, D: 1} }

// Drift returns the ray matrix of free-space propagation over length l.
func Drift(l float64) ABCD { return ABCD{A: 1, B: l, C: 0, D: 1} }

// ThinLens returns the ray matrix of a thin lens with focal length f.
func ThinLens(f float64) ABCD { return ABCD{A: 1, B: 0, C: -1 / f, D: 1} }

// Duct returns the ray matrix of a quadratic index duct
// n(r) = n0 - n2 r^2 / 2 of length l. The gamma -> 0 limit (n2 = 0)
// reduces exactly to a drift of length l.
func Duct(n0, n2, l float64) ABCD {
	gamma := math.Sqrt(n2 / n0)
	return ABCD{
		A: math.Cos(gamma * l),
		B: l * Sinc(gamma*l),
		C: -gamma * math.Sin(gamma*l),
		D: math.Cos(gamma * l),
	}
}

// Mul returns the matrix product m * o.
func (m ABCD) Mul(o ABCD) ABCD {
	return ABCD{
		A: m.A*o.A + m.B*o.C,
		B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C,
		D: m.C*o.B + m.D*o.D,
	}
}

// Det returns the determinant A*D - B*C.
func (m ABCD) Det() float64 { return m.A*m.D - m.B*m.C }

// Sinc returns sin(x)/x with the removable singularity at 0 filled in.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	return math.Sin(x) / x
}

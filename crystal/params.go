package crystal

import "fmt"

// Crystal-level defaults, matching a 20 cm Ti:sapphire rod pumped at
// 532 nm.
const (
	defaultNSlice = 50
	defaultN0     = 1.75
	defaultN2     = 0.001
	defaultLength = 0.2
	defaultLScale = 1.0

	defaultRadialN2Factor = 1.3
)

// Default fixed ABCD coefficients for the fixed-matrix strategy.
const (
	defaultA = 0.99765495
	defaultB = 1.41975385
	defaultC = -0.0023775
	defaultD = 0.99896716
)

// PumpType selects the pump beam geometry.
type PumpType int

const (
	// PumpDual pumps symmetrically from both ends. It is the zero
	// value, so an unset pump block gets the default geometry.
	PumpDual PumpType = iota
	// PumpLeft pumps from the slice-index-0 end of the crystal.
	PumpLeft
	// PumpRight pumps from the opposite end.
	PumpRight
)

// ParsePumpType maps a configuration string to a PumpType.
func ParsePumpType(s string) (PumpType, error) {
	switch s {
	case "left":
		return PumpLeft, nil
	case "right":
		return PumpRight, nil
	case "dual":
		return PumpDual, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPumpType, s)
}

func (t PumpType) String() string {
	switch t {
	case PumpLeft:
		return "left"
	case PumpRight:
		return "right"
	case PumpDual:
		return "dual"
	}
	return fmt.Sprintf("PumpType(%d)", int(t))
}

// PumpParams configures the pump-deposited population inversion of a
// slice.
type PumpParams struct {
	NCells        int     // inversion mesh samples per axis
	MeshExtent    float64 // mesh half-width [m] (crystal radius)
	CrystalAlpha  float64 // absorption coefficient [1/m]
	PumpWaist     float64 // [m]
	Wavelength    float64 // pump wavelength [m]
	Energy        float64 // pump pulse energy onto the crystal [J]
	Type          PumpType
	GaussianOrder float64 // super-Gaussian order of the transverse profile
	OffsetX       float64 // transverse pump offset [m]
	OffsetY       float64 // transverse pump offset [m]
	RepRate       float64 // [Hz]
}

// DefaultPumpParams returns the default dual-end 532 nm pump block.
func DefaultPumpParams() PumpParams {
	return PumpParams{
		NCells:        64,
		MeshExtent:    0.005,
		CrystalAlpha:  120.0,
		PumpWaist:     0.00164,
		Wavelength:    532.0e-9,
		Energy:        0.0211,
		Type:          PumpDual,
		GaussianOrder: 2.0,
		OffsetX:       0.0,
		OffsetY:       0.0,
		RepRate:       1.0e3,
	}
}

// Params is the crystal-level configuration surface. N0 and N2 are
// per-slice arrays; leave them nil (and NSlice zero) to take the
// defaults. Zero-valued scalar fields are filled in by the defaults
// resolver.
type Params struct {
	N0     []float64
	N2     []float64
	Length float64
	NSlice int
	LScale float64

	// Fixed ABCD coefficients, used only by ModeFixedABCD and
	// independent of N0/N2.
	A, B, C, D float64

	RadialN2Factor float64
	Pump           PumpParams
}

// DefaultParams returns a fully populated default configuration with
// N0/N2 left nil (meaning "not given").
func DefaultParams() Params {
	return Params{
		Length:         defaultLength,
		NSlice:         0,
		LScale:         defaultLScale,
		A:              defaultA,
		B:              defaultB,
		C:              defaultC,
		D:              defaultD,
		RadialN2Factor: defaultRadialN2Factor,
		Pump:           DefaultPumpParams(),
	}
}

// uniform returns an n-element array filled with v.
func uniform(v float64, n int) []float64 {
	a := make([]float64, n)
	for i := range a {
		a[i] = v
	}
	return a
}

// withDefaults layers the fixed defaults under any zero-valued
// scalar fields of a user-supplied Params.
func (p Params) withDefaults() Params {
	if p.Length == 0 {
		p.Length = defaultLength
	}
	if p.LScale == 0 {
		p.LScale = defaultLScale
	}
	if p.A == 0 && p.B == 0 && p.C == 0 && p.D == 0 {
		p.A, p.B, p.C, p.D = defaultA, defaultB, defaultC, defaultD
	}
	if p.RadialN2Factor == 0 {
		p.RadialN2Factor = defaultRadialN2Factor
	}
	d := DefaultPumpParams()
	if p.Pump.NCells == 0 {
		p.Pump.NCells = d.NCells
	}
	if p.Pump.MeshExtent == 0 {
		p.Pump.MeshExtent = d.MeshExtent
	}
	if p.Pump.CrystalAlpha == 0 {
		p.Pump.CrystalAlpha = d.CrystalAlpha
	}
	if p.Pump.PumpWaist == 0 {
		p.Pump.PumpWaist = d.PumpWaist
	}
	if p.Pump.Wavelength == 0 {
		p.Pump.Wavelength = d.Wavelength
	}
	if p.Pump.Energy == 0 {
		p.Pump.Energy = d.Energy
	}
	if p.Pump.GaussianOrder == 0 {
		p.Pump.GaussianOrder = d.GaussianOrder
	}
	if p.Pump.RepRate == 0 {
		p.Pump.RepRate = d.RepRate
	}
	return p
}

// resolveSliceParams turns a crystal-level Params into a fully
// validated configuration with one n0/n2 pair per slice. Rules, in
// priority order:
//
//  1. none of {NSlice, N0, N2} given: full defaults.
//  2. NSlice given: missing n0/n2 arrays are broadcast from the
//     default scalar; user-supplied arrays of the wrong length are a
//     fatal ErrParamLength.
//  3. n0/n2 given without NSlice: the slice count is the shorter of
//     the two array lengths when that is below the default count.
//
// Any negative n2 entry is a fatal ErrNegativeN2 before any slice is
// constructed.
func resolveSliceParams(p Params) (Params, error) {
	p = p.withDefaults()

	n0Given := len(p.N0) > 0
	n2Given := len(p.N2) > 0
	nsliceGiven := p.NSlice > 0

	switch {
	case !nsliceGiven && !n0Given && !n2Given:
		p.NSlice = defaultNSlice
		p.N0 = uniform(defaultN0, p.NSlice)
		p.N2 = uniform(defaultN2, p.NSlice)

	case nsliceGiven:
		if !n0Given {
			p.N0 = uniform(defaultN0, p.NSlice)
		} else if len(p.N0) != p.NSlice {
			return p, fmt.Errorf("%w: len(n0)=%d, nslice=%d", ErrParamLength, len(p.N0), p.NSlice)
		}
		if !n2Given {
			p.N2 = uniform(defaultN2, p.NSlice)
		} else if len(p.N2) != p.NSlice {
			return p, fmt.Errorf("%w: len(n2)=%d, nslice=%d", ErrParamLength, len(p.N2), p.NSlice)
		}

	default:
		// n0 and/or n2 given without an explicit slice count.
		p.NSlice = defaultNSlice
		if !n0Given {
			p.N0 = uniform(defaultN0, defaultNSlice)
		}
		if !n2Given {
			p.N2 = uniform(defaultN2, defaultNSlice)
		}
		if len(p.N0) < p.NSlice || len(p.N2) < p.NSlice {
			p.NSlice = min(len(p.N0), len(p.N2))
		}
	}

	for _, v := range p.N2 {
		if v < 0 {
			return p, fmt.Errorf("%w: %g", ErrNegativeN2, v)
		}
	}
	return p, nil
}

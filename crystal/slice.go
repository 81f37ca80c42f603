package crystal

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/apex-photonics/crystalprop/grid"
	"github.com/apex-photonics/crystalprop/optics"
)

// Wavelength-dependent stimulated-emission cross-section of
// Ti:sapphire (P. F. Moulton, 1986): wavelength [m] against
// cross-section [m^2].
var (
	crossSectionWavelengths = []float64{
		600e-9, 625e-9, 650e-9, 700e-9, 750e-9, 800e-9,
		850e-9, 900e-9, 950e-9, 1000e-9, 1025e-9, 1050e-9,
	}
	crossSectionValues = []float64{
		0.0 * 4.8e-23, 0.02 * 4.8e-23, 0.075 * 4.8e-23, 0.437 * 4.8e-23,
		0.845 * 4.8e-23, 0.99 * 4.8e-23, 0.815 * 4.8e-23, 0.6 * 4.8e-23,
		0.415 * 4.8e-23, 0.276 * 4.8e-23, 0.255 * 4.8e-23, 0.247 * 4.8e-23,
	}
)

// CrystalSlice is one longitudinal slice of a gain crystal. All
// fields are fixed at construction except the population-inversion
// mesh, which accumulates energy extraction in place every time the
// gain model runs against a pulse sub-slice.
type CrystalSlice struct {
	Length     float64 // slice length [m]
	SliceIndex int     // 0-based position along the nominal propagation direction
	N0         float64 // on-axis index
	N2         float64 // quadratic index coefficient [1/m^2], >= 0
	LScale     float64 // length scale factor for LCT propagation

	// Fixed ABCD coefficients, used only by ModeFixedABCD.
	FixedABCD optics.ABCD

	RadialN2Factor float64
	Pump           PumpParams

	// mesh is the 2D excited-state density [1/m^3], mutated only by
	// CalcGain. nsliceTotal is the slice count of the owning crystal.
	mesh        [][]float64
	nsliceTotal int

	crossSection interp.NaturalCubic
}

// newCrystalSlice builds one slice from resolved crystal parameters.
// The population-inversion mesh is computed here, once.
func newCrystalSlice(p Params, index int) (*CrystalSlice, error) {
	s := &CrystalSlice{
		Length:         p.Length / float64(p.NSlice),
		SliceIndex:     index,
		N0:             p.N0[index],
		N2:             p.N2[index],
		LScale:         p.LScale,
		FixedABCD:      optics.ABCD{A: p.A, B: p.B, C: p.C, D: p.D},
		RadialN2Factor: p.RadialN2Factor,
		Pump:           p.Pump,
		nsliceTotal:    p.NSlice,
	}
	if err := s.crossSection.Fit(crossSectionWavelengths, crossSectionValues); err != nil {
		return nil, fmt.Errorf("crystal: cross-section spline: %w", err)
	}
	mesh, err := buildInversionMesh(s.Pump, s.Length, s.SliceIndex, s.nsliceTotal)
	if err != nil {
		return nil, err
	}
	s.mesh = mesh
	return s, nil
}

// CrossSection returns the stimulated-emission cross-section [m^2]
// at the given wavelength [m], from the tabulated spline.
func (s *CrystalSlice) CrossSection(lambda float64) float64 {
	return s.crossSection.Predict(lambda)
}

// InversionMesh returns a copy of the current excited-state density
// mesh.
func (s *CrystalSlice) InversionMesh() [][]float64 {
	return grid.Copy2D(s.mesh)
}

// meshAxis returns the shared x/y coordinate axis of the inversion
// mesh.
func (s *CrystalSlice) meshAxis() []float64 {
	return grid.Linspace(-s.Pump.MeshExtent, s.Pump.MeshExtent, s.Pump.NCells)
}

// cloneWithZeroN2 returns an independent copy of the slice with the
// quadratic index forced to zero, for the radial-n2 blend.
func (s *CrystalSlice) cloneWithZeroN2() *CrystalSlice {
	c := *s
	c.N2 = 0.0
	c.mesh = grid.Copy2D(s.mesh)
	return &c
}

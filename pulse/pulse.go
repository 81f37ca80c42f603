package pulse

import (
	"errors"
	"fmt"
	"math"

	"github.com/apex-photonics/crystalprop/grid"
)

// HcEVum is h*c expressed in eV*um, used to convert photon energies
// to wavelengths: lambda [m] = HcEVum / E[eV] * 1e-6.
const HcEVum = 1.23984198

// Directions supported by slice-by-slice propagation. Anything else
// is rejected with ErrDirection.
const (
	DirectionForward  = 0.0
	DirectionReversed = 180.0
)

// ErrDirection is returned when a pulse carries a propagation
// direction other than 0 or 180 degrees.
var ErrDirection = errors.New("pulse: propagation direction must be 0 or 180 degrees")

// phaseEdgeThreshold is the relative intensity below which edge phase
// is discarded during mesh cleanup.
const phaseEdgeThreshold = 1.0e-4

// PhotonMesh is a 2D photon-count mesh with its own coordinate axes.
// It starts out aligned with the owning slice's wavefront grid.
type PhotonMesh struct {
	X, Y []float64
	Mesh [][]float64
}

// DeepCopy returns an independent copy of the photon mesh.
func (m *PhotonMesh) DeepCopy() *PhotonMesh {
	out := &PhotonMesh{
		X:    append([]float64(nil), m.X...),
		Y:    append([]float64(nil), m.Y...),
		Mesh: grid.Copy2D(m.Mesh),
	}
	return out
}

// Slice is one wavelength sub-band of a pulse.
type Slice struct {
	Wfr            *Wavefront
	NPhotons       *PhotonMesh
	Lambda0        float64 // central wavelength [m]
	PhotonEnergyEV float64

	// homeMesh is the construction-time grid; ResizeMesh restores
	// the wavefront to it after each crystal slice.
	homeMesh Grid
}

// DeepCopy returns an independent copy of the slice.
func (s *Slice) DeepCopy() *Slice {
	return &Slice{
		Wfr:            s.Wfr.DeepCopy(),
		NPhotons:       s.NPhotons.DeepCopy(),
		Lambda0:        s.Lambda0,
		PhotonEnergyEV: s.PhotonEnergyEV,
		homeMesh:       s.homeMesh,
	}
}

// TotalPhotons sums the photon-count mesh.
func (s *Slice) TotalPhotons() float64 {
	sum := 0.0
	for i := range s.NPhotons.Mesh {
		for j := range s.NPhotons.Mesh[i] {
			sum += s.NPhotons.Mesh[i][j]
		}
	}
	return sum
}

// Pulse is an ordered sequence of wavelength sub-slices moving in a
// single direction through a beamline.
type Pulse struct {
	Slices         []*Slice
	Direction      float64 // 0 (forward) or 180 (reversed) degrees
	PhotonEnergyEV float64 // representative photon energy for the whole pulse
}

// Wavelength converts the representative photon energy to meters.
func (p *Pulse) Wavelength() float64 {
	return HcEVum / p.PhotonEnergyEV * 1e-6
}

// CheckDirection validates the pulse direction.
func (p *Pulse) CheckDirection() error {
	if p.Direction != DirectionForward && p.Direction != DirectionReversed {
		return fmt.Errorf("%w (got %g)", ErrDirection, p.Direction)
	}
	return nil
}

// DeepCopy returns an independent copy of the pulse.
func (p *Pulse) DeepCopy() *Pulse {
	out := &Pulse{
		Slices:         make([]*Slice, len(p.Slices)),
		Direction:      p.Direction,
		PhotonEnergyEV: p.PhotonEnergyEV,
	}
	for i, s := range p.Slices {
		out.Slices[i] = s.DeepCopy()
	}
	return out
}

// ResizeMesh restores every sub-slice wavefront to its
// construction-time grid. Propagation kernels are free to change the
// mesh extent and resolution; this pulls the field back onto the
// working grid so the photon mesh stays aligned.
func (p *Pulse) ResizeMesh() error {
	for _, s := range p.Slices {
		if s.Wfr.Mesh == s.homeMesh {
			continue
		}
		if err := s.Wfr.Resample(s.homeMesh); err != nil {
			return err
		}
	}
	return nil
}

// FlattenPhaseEdges strips phase from negligible-intensity cells in
// every sub-slice.
func (p *Pulse) FlattenPhaseEdges() {
	for _, s := range p.Slices {
		s.Wfr.flattenPhaseEdges(phaseEdgeThreshold)
	}
}

// N2Copies holds the two propagated copies blended by
// CombineN2Variation: one propagated with the slice's full quadratic
// index, one with the quadratic term forced to zero.
type N2Copies struct {
	N2Max  *Pulse
	N2Zero *Pulse
}

// CombineN2Variation blends the two propagated pulse copies to
// approximate a radially varying quadratic index: inside the pumped
// region the full-n2 propagation dominates, outside it the zero-n2
// propagation does. The crossover radius is factor times the pump
// waist, centered on the transverse pump offsets.
func CombineN2Variation(copies N2Copies, factor, waist, offsetX, offsetY float64) (*Pulse, error) {
	if len(copies.N2Max.Slices) != len(copies.N2Zero.Slices) {
		return nil, errors.New("pulse: n2 copies have different slice counts")
	}
	out := copies.N2Max.DeepCopy()
	for k, s := range out.Slices {
		zeroSlice := copies.N2Zero.Slices[k]
		zw := zeroSlice.Wfr
		if zw.Mesh != s.Wfr.Mesh {
			zw = zw.DeepCopy()
			if err := zw.Resample(s.Wfr.Mesh); err != nil {
				return nil, err
			}
		}
		xs, ys := s.Wfr.Mesh.XAxis(), s.Wfr.Mesh.YAxis()
		r0 := factor * waist
		for i, x := range xs {
			for j, y := range ys {
				dx := x - offsetX
				dy := y - offsetY
				wgt := math.Exp(-2.0 * (dx*dx + dy*dy) / (r0 * r0))
				s.Wfr.Ex[i][j] = complex(wgt, 0)*s.Wfr.Ex[i][j] + complex(1.0-wgt, 0)*zw.Ex[i][j]
				s.Wfr.Ey[i][j] = complex(wgt, 0)*s.Wfr.Ey[i][j] + complex(1.0-wgt, 0)*zw.Ey[i][j]
			}
		}
	}
	return out, nil
}

package crystal

import (
	"math"

	"github.com/apex-photonics/crystalprop/grid"
	"github.com/apex-photonics/crystalprop/pulse"
)

// degeneracyFactor accounts for the transition degeneracy of the
// gain medium in the saturable-gain law.
const degeneracyFactor = 1.67

// CalcGain applies the saturable single-pass gain of this slice to
// one pulse sub-slice: the sub-slice's photon mesh is multiplied by
// the per-cell energy gain, the field amplitude by its square root
// (phase unchanged), and the extracted energy is subtracted from the
// slice's population-inversion mesh.
//
// The inversion-mesh update is a deliberate side effect on the
// crystal slice: it accumulates across every sub-slice and every
// propagation call, so gain computation is not pure.
func (s *CrystalSlice) CalcGain(ps *pulse.Slice) (*pulse.Slice, error) {
	wfr := ps.Wfr
	mesh := wfr.Mesh
	pulseX, pulseY := mesh.XAxis(), mesh.YAxis()

	// Interpolate the excited-state density onto the pulse grid.
	inversion, err := grid.ResampleBicubic(s.meshAxis(), s.meshAxis(), s.mesh, pulseX, pulseY)
	if err != nil {
		return nil, err
	}

	crossSec := s.CrossSection(ps.Lambda0)

	// Incident photon areal density [1/m^2].
	cellArea := mesh.CellArea()
	nIncident := grid.Alloc2D(mesh.Nx, mesh.Ny)
	for i := range nIncident {
		for j := range nIncident[i] {
			nIncident[i][j] = ps.NPhotons.Mesh[i][j] / cellArea
		}
	}

	// Saturable gain per cell. Cells with no incident photons keep
	// gain 0 rather than dividing by zero.
	energyGain := grid.Alloc2D(mesh.Nx, mesh.Ny)
	for i := range energyGain {
		for j := range energyGain[i] {
			n := nIncident[i][j]
			if n <= 0 {
				continue
			}
			energyGain[i][j] = 1.0 / (degeneracyFactor * crossSec * n) *
				math.Log(1.0+math.Exp(crossSec*inversion[i][j]*s.Length)*
					(math.Exp(degeneracyFactor*crossSec*n)-1.0))
		}
	}

	// Change to the population inversion on the pulse grid, then
	// resampled onto the inversion mesh and accumulated in place.
	changePop := grid.Alloc2D(mesh.Nx, mesh.Ny)
	for i := range changePop {
		for j := range changePop[i] {
			changePop[i][j] = -degeneracyFactor * nIncident[i][j] * (energyGain[i][j] - 1.0) / s.Length
		}
	}
	changeOnMesh, err := grid.ResampleBicubic(pulseX, pulseY, changePop, s.meshAxis(), s.meshAxis())
	if err != nil {
		return nil, err
	}
	for i := range s.mesh {
		for j := range s.mesh[i] {
			s.mesh[i][j] += changeOnMesh[i][j]
		}
	}

	// Amplify the photon counts and the field amplitude.
	for i := range ps.NPhotons.Mesh {
		for j := range ps.NPhotons.Mesh[i] {
			ps.NPhotons.Mesh[i][j] *= energyGain[i][j]
		}
	}
	for i := range wfr.Ex {
		for j := range wfr.Ex[i] {
			amp := complex(math.Sqrt(energyGain[i][j]), 0)
			wfr.Ex[i][j] *= amp
			wfr.Ey[i][j] *= amp
		}
	}

	return ps, nil
}

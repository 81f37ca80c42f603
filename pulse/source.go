package pulse

import (
	"errors"
	"math"
)

const elementaryCharge = 1.602176634e-19 // [C], converts eV to J

// GaussianSource describes a simple coherent seed pulse: a Gaussian
// transverse profile sampled on a square mesh, split into NSlices
// wavelength sub-bands that share the representative photon energy.
type GaussianSource struct {
	PhotonEnergyEV float64 // representative photon energy [eV]
	PulseEnergy    float64 // total pulse energy [J]
	Waist          float64 // 1/e^2 intensity radius [m]
	MeshExtent     float64 // mesh half-width [m]
	NCells         int     // samples per axis
	NSlices        int     // wavelength sub-slices
	Direction      float64 // 0 or 180 degrees
}

// NewGaussianPulse builds a pulse from a GaussianSource description.
// The photon mesh of each sub-slice is normalized so that the summed
// photon count over all sub-slices matches the pulse energy.
func NewGaussianPulse(src GaussianSource) (*Pulse, error) {
	if src.PhotonEnergyEV <= 0 || src.Waist <= 0 || src.MeshExtent <= 0 {
		return nil, errors.New("pulse: photon energy, waist and mesh extent must be positive")
	}
	if src.NCells < 2 {
		return nil, errors.New("pulse: need at least 2 mesh cells per axis")
	}
	if src.NSlices < 1 {
		src.NSlices = 1
	}

	p := &Pulse{
		Direction:      src.Direction,
		PhotonEnergyEV: src.PhotonEnergyEV,
	}
	if err := p.CheckDirection(); err != nil {
		return nil, err
	}

	g := Grid{
		XStart: -src.MeshExtent, XFin: src.MeshExtent, Nx: src.NCells,
		YStart: -src.MeshExtent, YFin: src.MeshExtent, Ny: src.NCells,
	}
	totalPhotons := src.PulseEnergy / (src.PhotonEnergyEV * elementaryCharge)
	photonsPerSlice := totalPhotons / float64(src.NSlices)
	lambda0 := HcEVum / src.PhotonEnergyEV * 1e-6

	for k := 0; k < src.NSlices; k++ {
		w := NewWavefront(g)
		xs, ys := g.XAxis(), g.YAxis()
		intensitySum := 0.0
		for i, x := range xs {
			for j, y := range ys {
				amp := math.Exp(-(x*x + y*y) / (src.Waist * src.Waist))
				w.Ex[i][j] = complex(amp, 0)
				intensitySum += amp * amp
			}
		}

		// Photon counts follow the field intensity cell by cell.
		photons := &PhotonMesh{X: xs, Y: ys, Mesh: make([][]float64, g.Nx)}
		for i := range photons.Mesh {
			photons.Mesh[i] = make([]float64, g.Ny)
			for j := range photons.Mesh[i] {
				amp := real(w.Ex[i][j])
				photons.Mesh[i][j] = photonsPerSlice * amp * amp / intensitySum
			}
		}

		p.Slices = append(p.Slices, &Slice{
			Wfr:            w,
			NPhotons:       photons,
			Lambda0:        lambda0,
			PhotonEnergyEV: src.PhotonEnergyEV,
			homeMesh:       g,
		})
	}
	return p, nil
}

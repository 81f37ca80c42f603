// Package pulse provides the coherent laser pulse representation
// consumed by the crystal package: a set of wavelength sub-slices,
// each owning a 2D complex field with horizontal and vertical
// polarization components on a rectangular grid, plus a photon-count
// mesh aligned to the same grid.
package pulse

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/apex-photonics/crystalprop/grid"
)

// Polarization selects one transverse field component.
type Polarization int

const (
	Horizontal Polarization = iota
	Vertical
)

// Grid describes a rectangular sampling mesh: start/end/count per axis.
type Grid struct {
	XStart, XFin float64
	Nx           int
	YStart, YFin float64
	Ny           int
}

// XAxis returns the Nx sample coordinates along x.
func (g Grid) XAxis() []float64 { return grid.Linspace(g.XStart, g.XFin, g.Nx) }

// YAxis returns the Ny sample coordinates along y.
func (g Grid) YAxis() []float64 { return grid.Linspace(g.YStart, g.YFin, g.Ny) }

// Dx returns the sample spacing along x.
func (g Grid) Dx() float64 { return (g.XFin - g.XStart) / float64(g.Nx-1) }

// Dy returns the sample spacing along y.
func (g Grid) Dy() float64 { return (g.YFin - g.YStart) / float64(g.Ny-1) }

// CellArea returns the area assigned to one mesh cell when converting
// photon counts to areal densities.
func (g Grid) CellArea() float64 {
	return ((g.XFin - g.XStart) / float64(g.Nx)) * ((g.YFin - g.YStart) / float64(g.Ny))
}

// Wavefront is a sampled 2D complex field with horizontal (Ex) and
// vertical (Ey) polarization components. Data layout is [ix][iy].
type Wavefront struct {
	Mesh Grid
	Ex   [][]complex128
	Ey   [][]complex128
}

// NewWavefront allocates a zero field on the given mesh.
func NewWavefront(g Grid) *Wavefront {
	return &Wavefront{
		Mesh: g,
		Ex:   allocC2D(g.Nx, g.Ny),
		Ey:   allocC2D(g.Nx, g.Ny),
	}
}

// NewWavefrontFromInterleaved builds a wavefront from two flat arrays
// of interleaved real/imaginary samples (re0, im0, re1, im1, ...) in
// x-major order, given explicit grid bounds and counts.
func NewWavefrontFromInterleaved(ex, ey []float64, g Grid) (*Wavefront, error) {
	n := g.Nx * g.Ny
	if len(ex) != 2*n || len(ey) != 2*n {
		return nil, fmt.Errorf("pulse: interleaved array length %d/%d does not match %dx%d mesh", len(ex), len(ey), g.Nx, g.Ny)
	}
	w := NewWavefront(g)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			k := 2 * (i*g.Ny + j)
			w.Ex[i][j] = complex(ex[k], ex[k+1])
			w.Ey[i][j] = complex(ey[k], ey[k+1])
		}
	}
	return w, nil
}

// Component returns the live 2D complex field of one polarization.
func (w *Wavefront) Component(pol Polarization) [][]complex128 {
	if pol == Horizontal {
		return w.Ex
	}
	return w.Ey
}

// SetComponent replaces one polarization component. The new data must
// match the wavefront mesh.
func (w *Wavefront) SetComponent(pol Polarization, field [][]complex128) error {
	if len(field) != w.Mesh.Nx || (len(field) > 0 && len(field[0]) != w.Mesh.Ny) {
		return errors.New("pulse: component shape does not match wavefront mesh")
	}
	if pol == Horizontal {
		w.Ex = field
	} else {
		w.Ey = field
	}
	return nil
}

// RealImag extracts one polarization component as two real 2D arrays.
func (w *Wavefront) RealImag(pol Polarization) (re, im [][]float64) {
	src := w.Component(pol)
	re = grid.Alloc2D(w.Mesh.Nx, w.Mesh.Ny)
	im = grid.Alloc2D(w.Mesh.Nx, w.Mesh.Ny)
	for i := range src {
		for j := range src[i] {
			re[i][j] = real(src[i][j])
			im[i][j] = imag(src[i][j])
		}
	}
	return re, im
}

// Interleaved flattens one polarization component to the interleaved
// real/imaginary form accepted by NewWavefrontFromInterleaved.
func (w *Wavefront) Interleaved(pol Polarization) []float64 {
	src := w.Component(pol)
	out := make([]float64, 2*w.Mesh.Nx*w.Mesh.Ny)
	for i := range src {
		for j := range src[i] {
			k := 2 * (i*w.Mesh.Ny + j)
			out[k] = real(src[i][j])
			out[k+1] = imag(src[i][j])
		}
	}
	return out
}

// TotalEnergy returns the discrete field energy sum |Ex|^2+|Ey|^2
// times the cell area.
func (w *Wavefront) TotalEnergy() float64 {
	area := w.Mesh.CellArea()
	sum := 0.0
	for i := range w.Ex {
		for j := range w.Ex[i] {
			ex := w.Ex[i][j]
			ey := w.Ey[i][j]
			sum += real(ex)*real(ex) + imag(ex)*imag(ex) + real(ey)*real(ey) + imag(ey)*imag(ey)
		}
	}
	return sum * area
}

// DeepCopy returns an independent copy of the wavefront.
func (w *Wavefront) DeepCopy() *Wavefront {
	out := NewWavefront(w.Mesh)
	for i := range w.Ex {
		copy(out.Ex[i], w.Ex[i])
		copy(out.Ey[i], w.Ey[i])
	}
	return out
}

// Resample interpolates both field components onto a new mesh with
// smooth (bicubic) interpolation of the real and imaginary parts,
// zero-filling any destination cell outside the current mesh.
func (w *Wavefront) Resample(target Grid) error {
	if target == w.Mesh {
		return nil
	}
	srcX, srcY := w.Mesh.XAxis(), w.Mesh.YAxis()
	dstX, dstY := target.XAxis(), target.YAxis()

	for _, pol := range []Polarization{Horizontal, Vertical} {
		re, im := w.RealImag(pol)
		reOut, err := grid.ResampleBicubic(srcX, srcY, re, dstX, dstY)
		if err != nil {
			return err
		}
		imOut, err := grid.ResampleBicubic(srcX, srcY, im, dstX, dstY)
		if err != nil {
			return err
		}
		field := allocC2D(target.Nx, target.Ny)
		for i := range field {
			for j := range field[i] {
				field[i][j] = complex(reOut[i][j], imOut[i][j])
			}
		}
		if pol == Horizontal {
			w.Ex = field
		} else {
			w.Ey = field
		}
	}
	w.Mesh = target
	return nil
}

// flattenPhaseEdges strips the phase from cells whose intensity is
// negligible relative to the mesh peak. Low-amplitude cells at the
// mesh edge otherwise carry wrapped phase noise into the next
// propagation step.
func (w *Wavefront) flattenPhaseEdges(relThreshold float64) {
	peak := 0.0
	for i := range w.Ex {
		for j := range w.Ex[i] {
			v := cmplx.Abs(w.Ex[i][j]) + cmplx.Abs(w.Ey[i][j])
			if v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		return
	}
	cut := peak * relThreshold
	for i := range w.Ex {
		for j := range w.Ex[i] {
			if cmplx.Abs(w.Ex[i][j])+cmplx.Abs(w.Ey[i][j]) < cut {
				w.Ex[i][j] = complex(cmplx.Abs(w.Ex[i][j]), 0)
				w.Ey[i][j] = complex(cmplx.Abs(w.Ey[i][j]), 0)
			}
		}
	}
}

func allocC2D(nx, ny int) [][]complex128 {
	m := make([][]complex128, nx)
	for i := range m {
		m[i] = make([]complex128, ny)
	}
	return m
}

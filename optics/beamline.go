package optics

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/apex-photonics/crystalprop/pulse"
)

// Element is one beamline component acting on a wavefront in place.
type Element interface {
	Apply(w *pulse.Wavefront, lambda float64) error
}

// PropParams is the per-element propagation parameter vector: mesh
// range and resolution rescale factors applied before the element
// acts. A factor of 1 leaves the mesh unchanged.
type PropParams struct {
	RangeX, ResolutionX float64
	RangeY, ResolutionY float64
}

// DefaultPropParams returns the no-rescale parameter vector.
func DefaultPropParams() PropParams {
	return PropParams{RangeX: 1, ResolutionX: 1, RangeY: 1, ResolutionY: 1}
}

// Lens is a thin lens with separate horizontal and vertical focal
// lengths, applied as a quadratic phase mask.
type Lens struct {
	Fx, Fy float64
}

// Apply multiplies the field by the thin-lens phase.
func (l Lens) Apply(w *pulse.Wavefront, lambda float64) error {
	if l.Fx == 0 || l.Fy == 0 {
		return errors.New("optics: lens focal length is zero")
	}
	xs, ys := w.Mesh.XAxis(), w.Mesh.YAxis()
	for i, x := range xs {
		for j, y := range ys {
			phase := -math.Pi / lambda * (x*x/l.Fx + y*y/l.Fy)
			m := cmplx.Exp(complex(0, phase))
			w.Ex[i][j] *= m
			w.Ey[i][j] *= m
		}
	}
	return nil
}

// FreeDrift is free-space propagation over a fixed length, evaluated
// with the Fresnel transfer function in the spatial-frequency domain.
type FreeDrift struct {
	L float64
}

// Apply propagates both field components in place. The plane-wave
// phase exp(ikL) is dropped: it is a constant that cancels whenever
// intensity is formed, and keeping it out makes the on-axis plane
// wave an exact fixed point of the drift.
func (d FreeDrift) Apply(w *pulse.Wavefront, lambda float64) error {
	nx, ny := w.Mesh.Nx, w.Mesh.Ny
	if nx < 2 || ny < 2 {
		return errors.New("optics: drift needs at least a 2x2 mesh")
	}
	fx := freqAxis(nx, w.Mesh.Dx())
	fy := freqAxis(ny, w.Mesh.Dy())

	for _, field := range [][][]complex128{w.Ex, w.Ey} {
		fft2InPlace(field, true)
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				phase := -math.Pi * lambda * d.L * (fx[i]*fx[i] + fy[j]*fy[j])
				field[i][j] *= cmplx.Exp(complex(0, phase))
			}
		}
		fft2InPlace(field, false)
		// Forward then inverse multiplies by nx*ny.
		scale := complex(1.0/float64(nx*ny), 0)
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				field[i][j] *= scale
			}
		}
	}
	return nil
}

// Beamline chains elements with their propagation parameter vectors.
type Beamline struct {
	elems  []Element
	params []PropParams
}

// NewBeamline builds the composition of elements; params must be the
// same length as elems.
func NewBeamline(elems []Element, params []PropParams) (*Beamline, error) {
	if len(elems) != len(params) {
		return nil, errors.New("optics: element and parameter counts differ")
	}
	return &Beamline{elems: elems, params: params}, nil
}

// Propagate runs the wavefront through every element in order,
// mutating it in place.
func (b *Beamline) Propagate(w *pulse.Wavefront, lambda float64) error {
	for k, e := range b.elems {
		if err := rescaleMesh(w, b.params[k]); err != nil {
			return err
		}
		if err := e.Apply(w, lambda); err != nil {
			return err
		}
	}
	return nil
}

// rescaleMesh grows or shrinks the mesh range and sample counts per
// the parameter vector, resampling the field onto the new grid.
func rescaleMesh(w *pulse.Wavefront, p PropParams) error {
	if (p.RangeX == 1 || p.RangeX == 0) && (p.ResolutionX == 1 || p.ResolutionX == 0) &&
		(p.RangeY == 1 || p.RangeY == 0) && (p.ResolutionY == 1 || p.ResolutionY == 0) {
		return nil
	}
	g := w.Mesh
	target := pulse.Grid{
		XStart: g.XStart * nonzero(p.RangeX),
		XFin:   g.XFin * nonzero(p.RangeX),
		Nx:     scaledCount(g.Nx, nonzero(p.RangeX)*nonzero(p.ResolutionX)),
		YStart: g.YStart * nonzero(p.RangeY),
		YFin:   g.YFin * nonzero(p.RangeY),
		Ny:     scaledCount(g.Ny, nonzero(p.RangeY)*nonzero(p.ResolutionY)),
	}
	return w.Resample(target)
}

func nonzero(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

func scaledCount(n int, f float64) int {
	m := int(math.Round(float64(n) * f))
	if m < 2 {
		m = 2
	}
	return m
}

// freqAxis returns the FFT spatial-frequency samples in the
// unshifted (wrapped) order produced by the transform.
func freqAxis(n int, pitch float64) []float64 {
	f := make([]float64, n)
	df := 1.0 / (float64(n) * pitch)
	for j := range f {
		if j <= (n-1)/2 {
			f[j] = float64(j) * df
		} else {
			f[j] = float64(j-n) * df
		}
	}
	return f
}

// fft2InPlace runs forward or inverse FFTs over both indices of a
// rectangular complex mesh, rows then columns.
func fft2InPlace(a [][]complex128, forward bool) {
	h := len(a)
	w := len(a[0])

	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	// rows
	tmp := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(tmp, a[y])
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		copy(a[y], tmp)
	}

	// cols
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = a[y][x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			a[y][x] = col[y]
		}
	}
}

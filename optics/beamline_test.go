package optics

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/apex-photonics/crystalprop/pulse"
)

func planeWave(g pulse.Grid) *pulse.Wavefront {
	w := pulse.NewWavefront(g)
	for i := range w.Ex {
		for j := range w.Ex[i] {
			w.Ex[i][j] = 1
		}
	}
	return w
}

func TestFreeDriftPlaneWaveFixedPoint(t *testing.T) {
	g := pulse.Grid{XStart: -0.005, XFin: 0.005, Nx: 16, YStart: -0.005, YFin: 0.005, Ny: 16}
	w := planeWave(g)

	d := FreeDrift{L: 0.5}
	if err := d.Apply(w, 800e-9); err != nil {
		t.Fatal(err)
	}

	// The on-axis plane wave is the DC spatial frequency; with the
	// plane-wave phase dropped it must come back unchanged.
	for i := range w.Ex {
		for j := range w.Ex[i] {
			if cmplx.Abs(w.Ex[i][j]-1) > 1e-12 {
				t.Fatalf("Ex[%d][%d] = %v after drift, want 1", i, j, w.Ex[i][j])
			}
			if cmplx.Abs(w.Ey[i][j]) > 1e-12 {
				t.Fatalf("Ey[%d][%d] = %v after drift, want 0", i, j, w.Ey[i][j])
			}
		}
	}
}

func TestFreeDriftConservesEnergy(t *testing.T) {
	g := pulse.Grid{XStart: -0.004, XFin: 0.004, Nx: 32, YStart: -0.004, YFin: 0.004, Ny: 32}
	w := pulse.NewWavefront(g)
	xs, ys := g.XAxis(), g.YAxis()
	for i, x := range xs {
		for j, y := range ys {
			w.Ex[i][j] = complex(math.Exp(-(x*x+y*y)/(0.001*0.001)), 0)
		}
	}
	before := w.TotalEnergy()

	if err := (FreeDrift{L: 0.2}).Apply(w, 800e-9); err != nil {
		t.Fatal(err)
	}
	after := w.TotalEnergy()
	if rel := math.Abs(after-before) / before; rel > 1e-10 {
		t.Errorf("drift energy %g -> %g (rel %g)", before, after, rel)
	}
}

func TestLensPhaseOnly(t *testing.T) {
	g := pulse.Grid{XStart: -0.002, XFin: 0.002, Nx: 16, YStart: -0.002, YFin: 0.002, Ny: 16}
	w := planeWave(g)
	before := w.TotalEnergy()

	l := Lens{Fx: 0.5, Fy: 0.75}
	if err := l.Apply(w, 800e-9); err != nil {
		t.Fatal(err)
	}

	// A thin lens is a pure phase mask.
	for i := range w.Ex {
		for j := range w.Ex[i] {
			if math.Abs(cmplx.Abs(w.Ex[i][j])-1) > 1e-12 {
				t.Fatalf("|Ex[%d][%d]| = %g after lens, want 1", i, j, cmplx.Abs(w.Ex[i][j]))
			}
		}
	}
	if after := w.TotalEnergy(); math.Abs(after-before)/before > 1e-12 {
		t.Errorf("lens changed energy %g -> %g", before, after)
	}

	// Apply the conjugate lens: the phase cancels back to a plane wave.
	conj := Lens{Fx: -0.5, Fy: -0.75}
	if err := conj.Apply(w, 800e-9); err != nil {
		t.Fatal(err)
	}
	for i := range w.Ex {
		for j := range w.Ex[i] {
			if cmplx.Abs(w.Ex[i][j]-1) > 1e-12 {
				t.Fatalf("Ex[%d][%d] = %v after conjugate lens, want 1", i, j, w.Ex[i][j])
			}
		}
	}
}

func TestLensZeroFocalLength(t *testing.T) {
	g := pulse.Grid{XStart: -1, XFin: 1, Nx: 4, YStart: -1, YFin: 1, Ny: 4}
	if err := (Lens{Fx: 0, Fy: 1}).Apply(pulse.NewWavefront(g), 800e-9); err == nil {
		t.Fatal("expected an error for a zero focal length")
	}
}

func TestNewBeamlineLengthMismatch(t *testing.T) {
	if _, err := NewBeamline([]Element{FreeDrift{L: 1}}, nil); err == nil {
		t.Fatal("expected an error when parameter count differs from element count")
	}
}

func TestBeamlinePropagatesInOrder(t *testing.T) {
	g := pulse.Grid{XStart: -0.005, XFin: 0.005, Nx: 16, YStart: -0.005, YFin: 0.005, Ny: 16}
	w := planeWave(g)

	bl, err := NewBeamline(
		[]Element{FreeDrift{L: 0.1}, FreeDrift{L: 0.1}},
		[]PropParams{DefaultPropParams(), DefaultPropParams()},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := bl.Propagate(w, 800e-9); err != nil {
		t.Fatal(err)
	}
	for i := range w.Ex {
		for j := range w.Ex[i] {
			if cmplx.Abs(w.Ex[i][j]-1) > 1e-12 {
				t.Fatalf("Ex[%d][%d] = %v after two drifts, want 1", i, j, w.Ex[i][j])
			}
		}
	}
}

func TestRescaleMeshGrowsRange(t *testing.T) {
	g := pulse.Grid{XStart: -0.002, XFin: 0.002, Nx: 16, YStart: -0.002, YFin: 0.002, Ny: 16}
	w := planeWave(g)

	p := DefaultPropParams()
	p.RangeX, p.RangeY = 2.0, 2.0
	p.ResolutionX, p.ResolutionY = 1.0, 1.0
	if err := rescaleMesh(w, p); err != nil {
		t.Fatal(err)
	}
	if w.Mesh.XStart != -0.004 || w.Mesh.XFin != 0.004 {
		t.Errorf("x bounds = [%g, %g], want [-0.004, 0.004]", w.Mesh.XStart, w.Mesh.XFin)
	}
	if w.Mesh.Nx != 32 || w.Mesh.Ny != 32 {
		t.Errorf("sample counts = %dx%d, want 32x32", w.Mesh.Nx, w.Mesh.Ny)
	}

	// Cells outside the old mesh are zero-filled.
	xs := w.Mesh.XAxis()
	for i, x := range xs {
		if x > 0.002+1e-12 {
			mid := w.Mesh.Ny / 2
			if w.Ex[i][mid] != 0 {
				t.Fatalf("Ex[%d][%d] = %v outside the old mesh, want 0", i, mid, w.Ex[i][mid])
			}
		}
	}
}

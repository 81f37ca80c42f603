package optics

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestAbscissaeCentered(t *testing.T) {
	even := Abscissae(4, 0.5)
	wantEven := []float64{-1.0, -0.5, 0.0, 0.5}
	for i := range wantEven {
		if even[i] != wantEven[i] {
			t.Errorf("even[%d] = %g, want %g", i, even[i], wantEven[i])
		}
	}

	odd := Abscissae(5, 1.0)
	wantOdd := []float64{-2, -1, 0, 1, 2}
	for i := range wantOdd {
		if odd[i] != wantOdd[i] {
			t.Errorf("odd[%d] = %g, want %g", i, odd[i], wantOdd[i])
		}
	}

	// Index n/2 is coordinate zero on either parity.
	if even[2] != 0 || odd[2] != 0 {
		t.Error("center sample is not at coordinate zero")
	}
}

func signalEnergy1D(f []complex128, pitch float64) float64 {
	sum := 0.0
	for _, v := range f {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum * pitch
}

func gaussian2D(n int, dt, w float64) [][]complex128 {
	x := Abscissae(n, dt)
	sig := make([][]complex128, n)
	for i := range sig {
		sig[i] = make([]complex128, n)
		for j := range sig[i] {
			r2 := x[i]*x[i] + x[j]*x[j]
			sig[i][j] = complex(math.Exp(-r2/(w*w)), 0)
		}
	}
	return sig
}

func TestLCT2DEnergyConservation(t *testing.T) {
	const n = 64
	dt := 2.0 * 0.005 / float64(n-1)
	sig := gaussian2D(n, dt, 0.002)

	in := 0.0
	for i := range sig {
		in += signalEnergy1D(sig[i], dt*dt)
	}

	m := Drift(0.02 * 800e-9)
	du, dv, out, err := ApplyLCT2DSep(m, m, dt, dt, sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != n || len(out[0]) != n {
		t.Fatalf("output shape %dx%d, want %dx%d", len(out), len(out[0]), n, n)
	}

	wantDu := math.Abs(m.B) / (float64(n) * dt)
	if math.Abs(du-wantDu) > 1e-20 || math.Abs(dv-wantDu) > 1e-20 {
		t.Errorf("output pitch = %g, %g, want %g", du, dv, wantDu)
	}

	got := 0.0
	for i := range out {
		got += signalEnergy1D(out[i], du*dv)
	}
	if rel := math.Abs(got-in) / in; rel > 1e-10 {
		t.Errorf("energy not conserved: in %g, out %g (rel %g)", in, got, rel)
	}
}

func offsetGaussian2D(n int, dt, w, x0 float64) [][]complex128 {
	x := Abscissae(n, dt)
	sig := make([][]complex128, n)
	for i := range sig {
		sig[i] = make([]complex128, n)
		for j := range sig[i] {
			dx := x[i] - x0
			r2 := dx*dx + x[j]*x[j]
			sig[i][j] = complex(math.Exp(-r2/(w*w)), 0)
		}
	}
	return sig
}

// centroidX is the |signal|^2-weighted mean coordinate along the
// first index.
func centroidX(sig [][]complex128, pitch float64) float64 {
	x := Abscissae(len(sig), pitch)
	num, den := 0.0, 0.0
	for i := range sig {
		for _, v := range sig[i] {
			p := real(v)*real(v) + imag(v)*imag(v)
			num += p * x[i]
			den += p
		}
	}
	return num / den
}

func TestLCT2DNegativeB(t *testing.T) {
	const n = 64
	dt := 0.01
	sig := offsetGaussian2D(n, dt, 0.05, 0.12)

	in := 0.0
	for i := range sig {
		in += signalEnergy1D(sig[i], dt*dt)
	}

	m := ABCD{A: 1, B: -0.02, C: 0, D: 1}
	du, dv, out, err := ApplyLCT2DSep(m, m, dt, dt, sig)
	if err != nil {
		t.Fatal(err)
	}
	got := 0.0
	for i := range out {
		got += signalEnergy1D(out[i], du*dv)
	}
	if rel := math.Abs(got-in) / in; rel > 1e-10 {
		t.Errorf("energy not conserved for B < 0: in %g, out %g (rel %g)", in, got, rel)
	}

	// A drift, forward or backward, carries no transverse momentum:
	// the beam spreads but its centroid stays on the same side.
	if c := centroidX(out, du); math.Abs(c-0.12) > 0.02 {
		t.Errorf("centroid after B < 0 drift = %g, want 0.12", c)
	}
}

func TestLCTDriftRoundTrip(t *testing.T) {
	const n = 64
	dt := 0.01
	sig := offsetGaussian2D(n, dt, 0.05, 0.12)

	fwd := Drift(0.02)
	du, dv, mid, err := ApplyLCT2DSep(fwd, fwd, dt, dt, sig)
	if err != nil {
		t.Fatal(err)
	}

	back := Drift(-0.02)
	du2, dv2, out, err := ApplyLCT2DSep(back, back, du, dv, mid)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(du2-dt) > 1e-15 || math.Abs(dv2-dt) > 1e-15 {
		t.Fatalf("round-trip pitch = %g, %g, want %g", du2, dv2, dt)
	}

	// Backward drift inverts the forward one sample for sample; a
	// mirrored result would put the peak on the opposite side.
	maxDiff := 0.0
	for i := range out {
		for j := range out[i] {
			if d := cmplx.Abs(out[i][j] - sig[i][j]); d > maxDiff {
				maxDiff = d
			}
		}
	}
	if maxDiff > 1e-9 {
		t.Errorf("round trip does not restore the input: max diff %g", maxDiff)
	}
	if c := centroidX(out, du2); math.Abs(c-0.12) > 1e-6 {
		t.Errorf("round-trip centroid = %g, want 0.12", c)
	}
}

func TestLCTScalingBranch(t *testing.T) {
	const n = 16
	dt := 0.1
	sig := gaussian2D(n, dt, 0.4)

	in := 0.0
	for i := range sig {
		in += signalEnergy1D(sig[i], dt*dt)
	}

	// B = 0: pure scaling with a chirp. Each sample keeps its index,
	// magnified by sqrt(D), on a pitch dt/D.
	m := ABCD{A: 0.5, B: 0, C: -0.1, D: 2.0}
	du, dv, out, err := ApplyLCT2DSep(m, m, dt, dt, sig)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(du-dt/2.0) > 1e-15 || math.Abs(dv-dt/2.0) > 1e-15 {
		t.Errorf("scaling pitch = %g, %g, want %g", du, dv, dt/2.0)
	}
	for i := range out {
		for j := range out[i] {
			want := 2.0 * cmplx.Abs(sig[i][j]) // sqrt(D) per axis
			if math.Abs(cmplx.Abs(out[i][j])-want) > 1e-12 {
				t.Fatalf("|out[%d][%d]| = %g, want %g", i, j, cmplx.Abs(out[i][j]), want)
			}
		}
	}

	got := 0.0
	for i := range out {
		got += signalEnergy1D(out[i], du*dv)
	}
	if rel := math.Abs(got-in) / in; rel > 1e-12 {
		t.Errorf("energy not conserved on scaling branch: in %g, out %g", in, got)
	}
}

func TestLCTScalingNegativeDInverts(t *testing.T) {
	// A = D = -1, B = 0 is a unit-determinant image inverter: the
	// signal comes back mirrored through the center sample. On an odd
	// grid every sample has a partner and the flip is exact.
	const n = 17
	dt := 0.1
	sig := offsetGaussian2D(n, dt, 0.3, 0.3)
	m := ABCD{A: -1, B: 0, C: 0, D: -1}
	du, dv, out, err := ApplyLCT2DSep(m, m, dt, dt, sig)
	if err != nil {
		t.Fatal(err)
	}
	if du != dt || dv != dt {
		t.Fatalf("inverter pitch = %g, %g, want %g", du, dv, dt)
	}
	for i := range out {
		for j := range out[i] {
			if out[i][j] != sig[n-1-i][n-1-j] {
				t.Fatalf("out[%d][%d] = %v, want mirrored sample %v",
					i, j, out[i][j], sig[n-1-i][n-1-j])
			}
		}
	}

	// On an even grid the first sample's mirror lies outside the grid
	// and stays zero; the rest flip as on the odd grid.
	even := offsetGaussian2D(8, dt, 0.3, 0.1)
	_, _, outE, err := ApplyLCT2DSep(m, m, dt, dt, even)
	if err != nil {
		t.Fatal(err)
	}
	for j := range outE[0] {
		if outE[0][j] != 0 {
			t.Fatalf("outE[0][%d] = %v, want 0", j, outE[0][j])
		}
	}
	if outE[3][5] != even[5][3] {
		t.Errorf("outE[3][5] = %v, want %v", outE[3][5], even[5][3])
	}
}

func TestLCTScalingDegenerateD(t *testing.T) {
	sig := gaussian2D(8, 0.1, 0.3)
	m := ABCD{A: 1, B: 0, C: 0, D: 0}
	if _, _, _, err := ApplyLCT2DSep(m, m, 0.1, 0.1, sig); err == nil {
		t.Fatal("expected an error for the scaling branch with D = 0")
	}
}

func TestLCTRejectsRaggedSignal(t *testing.T) {
	sig := [][]complex128{make([]complex128, 4), make([]complex128, 3)}
	if _, _, _, err := ApplyLCT2DSep(Drift(1), Drift(1), 0.1, 0.1, sig); err == nil {
		t.Fatal("expected an error for a ragged signal")
	}
}

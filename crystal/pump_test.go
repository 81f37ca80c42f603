package crystal

import (
	"errors"
	"math"
	"testing"
)

func TestDualPumpIsSumOfSides(t *testing.T) {
	pump := DefaultPumpParams()
	pump.NCells = 16
	const (
		nslice      = 5
		sliceIndex  = 1
		sliceLength = 0.2 / nslice
	)

	pump.Type = PumpLeft
	left, err := buildInversionMesh(pump, sliceLength, sliceIndex, nslice)
	if err != nil {
		t.Fatal(err)
	}
	pump.Type = PumpRight
	right, err := buildInversionMesh(pump, sliceLength, sliceIndex, nslice)
	if err != nil {
		t.Fatal(err)
	}
	pump.Type = PumpDual
	dual, err := buildInversionMesh(pump, sliceLength, sliceIndex, nslice)
	if err != nil {
		t.Fatal(err)
	}

	for i := range dual {
		for j := range dual[i] {
			want := left[i][j] + right[i][j]
			if math.Abs(dual[i][j]-want) > 1e-9*want {
				t.Fatalf("dual[%d][%d] = %g, want left+right = %g", i, j, dual[i][j], want)
			}
		}
	}
}

func TestLeftRightMirrorSymmetry(t *testing.T) {
	// The right-pumped mesh of slice j equals the left-pumped mesh of
	// slice n-1-j: the pump depth is mirrored through the crystal
	// center.
	pump := DefaultPumpParams()
	pump.NCells = 8
	const (
		nslice      = 4
		sliceLength = 0.05
	)

	for j := 0; j < nslice; j++ {
		pump.Type = PumpRight
		right, err := buildInversionMesh(pump, sliceLength, j, nslice)
		if err != nil {
			t.Fatal(err)
		}
		pump.Type = PumpLeft
		mirror, err := buildInversionMesh(pump, sliceLength, nslice-j-1, nslice)
		if err != nil {
			t.Fatal(err)
		}
		for ix := range right {
			for iy := range right[ix] {
				if right[ix][iy] != mirror[ix][iy] {
					t.Fatalf("slice %d: right[%d][%d] = %g, left mirror = %g", j, ix, iy, right[ix][iy], mirror[ix][iy])
				}
			}
		}
	}
}

func TestPumpTransverseSymmetry(t *testing.T) {
	// With zero offsets the deposition depends only on radius: the
	// mesh is invariant under (x, y) -> (-x, -y).
	pump := DefaultPumpParams()
	pump.NCells = 32
	pump.Type = PumpDual

	mesh, err := buildInversionMesh(pump, 0.04, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	n := pump.NCells
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b := mesh[i][j], mesh[n-1-i][n-1-j]
			if math.Abs(a-b) > 1e-12*math.Max(a, b) {
				t.Fatalf("mesh[%d][%d] = %g, mesh[%d][%d] = %g", i, j, a, n-1-i, n-1-j, b)
			}
		}
	}

	// Peak deposition sits on the pump axis at the mesh center and
	// decays monotonically toward the edge along the axis.
	c := n / 2
	for i := c; i < n-1; i++ {
		if mesh[i+1][c] > mesh[i][c] {
			t.Fatalf("deposition grows off axis at [%d][%d]", i+1, c)
		}
	}
}

func TestPumpOffsetsShiftPeak(t *testing.T) {
	pump := DefaultPumpParams()
	pump.NCells = 33
	pump.Type = PumpLeft
	pump.OffsetX = 0.002

	mesh, err := buildInversionMesh(pump, 0.04, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	// Peak moves to the cell nearest x = 0.002.
	peakI := 0
	peak := 0.0
	c := pump.NCells / 2
	for i := range mesh {
		if mesh[i][c] > peak {
			peak = mesh[i][c]
			peakI = i
		}
	}
	axis := (&CrystalSlice{Pump: pump}).meshAxis()
	if math.Abs(axis[peakI]-0.002) > pump.MeshExtent*2/float64(pump.NCells-1) {
		t.Errorf("peak at x = %g, want near 0.002", axis[peakI])
	}
}

func TestPumpDepositionIsPure(t *testing.T) {
	pump := DefaultPumpParams()
	pump.NCells = 8
	a, err := buildInversionMesh(pump, 0.004, 3, 50)
	if err != nil {
		t.Fatal(err)
	}
	b, err := buildInversionMesh(pump, 0.004, 3, 50)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatal("two builds with identical inputs differ")
			}
		}
	}
}

func TestBuildInversionMeshUnknownType(t *testing.T) {
	pump := DefaultPumpParams()
	pump.Type = PumpType(99)
	if _, err := buildInversionMesh(pump, 0.004, 0, 50); !errors.Is(err, ErrUnknownPumpType) {
		t.Fatalf("err = %v, want ErrUnknownPumpType", err)
	}
}

func TestBeerLambertDecayAlongCrystal(t *testing.T) {
	// For a left pump, deeper slices receive less deposition on axis.
	pump := DefaultPumpParams()
	pump.NCells = 9
	pump.Type = PumpLeft
	const (
		nslice      = 10
		sliceLength = 0.02
	)
	c := pump.NCells / 2
	prev := math.Inf(1)
	for j := 0; j < nslice; j++ {
		mesh, err := buildInversionMesh(pump, sliceLength, j, nslice)
		if err != nil {
			t.Fatal(err)
		}
		if mesh[c][c] >= prev {
			t.Fatalf("slice %d on-axis deposition %g did not decay (previous %g)", j, mesh[c][c], prev)
		}
		prev = mesh[c][c]
	}
}

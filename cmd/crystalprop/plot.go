package main

import (
	"image/color"
	"math/cmplx"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"github.com/apex-photonics/crystalprop/crystal"
	"github.com/apex-photonics/crystalprop/pulse"
)

func styleFonts(p *plot.Plot) {
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)
}

// plotInversionProfile writes the radial population-inversion
// profile of one crystal slice (a cut through the mesh center)
// before and after the pass.
func plotInversionProfile(dir string, s *crystal.CrystalSlice, before, after [][]float64, axis []float64) error {
	p := plot.New()
	styleFonts(p)
	p.Title.Text = "Population inversion, central cut"
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "excited-state density [1/m^3]"
	p.Add(plotter.NewGrid())

	mid := len(axis) / 2
	beforePts := make(plotter.XYs, len(axis))
	afterPts := make(plotter.XYs, len(axis))
	for i, x := range axis {
		beforePts[i] = plotter.XY{X: x, Y: before[i][mid]}
		afterPts[i] = plotter.XY{X: x, Y: after[i][mid]}
	}

	beforeLine, err := plotter.NewLine(beforePts)
	if err != nil {
		return err
	}
	beforeLine.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255} // blue
	afterLine, err := plotter.NewLine(afterPts)
	if err != nil {
		return err
	}
	afterLine.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255} // red
	afterLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(beforeLine, afterLine)
	p.Legend.Add("before pass", beforeLine)
	p.Legend.Add("after pass", afterLine)

	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(dir, "inversion_profile.png"))
}

// plotIntensityCut writes the on-axis intensity cut of the first
// pulse sub-slice after the pass.
func plotIntensityCut(dir string, ps *pulse.Slice) error {
	p := plot.New()
	styleFonts(p)
	p.Title.Text = "Output intensity, on-axis cut"
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "|E|^2 (arbitrary units)"
	p.Add(plotter.NewGrid())

	xs := ps.Wfr.Mesh.XAxis()
	mid := ps.Wfr.Mesh.Ny / 2
	pts := make(plotter.XYs, len(xs))
	for i, x := range xs {
		ex := ps.Wfr.Ex[i][mid]
		ey := ps.Wfr.Ey[i][mid]
		pts[i] = plotter.XY{X: x, Y: cmplx.Abs(ex)*cmplx.Abs(ex) + cmplx.Abs(ey)*cmplx.Abs(ey)}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255} // blue
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(dir, "output_intensity.png"))
}

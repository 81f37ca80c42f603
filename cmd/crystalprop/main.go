// Command crystalprop runs a single pass of a seed pulse through a
// pumped gain crystal described by a json5 parameter file, reports
// the photon totals per pulse sub-slice, and optionally writes
// diagnostic plots.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/apex-photonics/crystalprop/crystal"
	"github.com/apex-photonics/crystalprop/grid"
	"github.com/apex-photonics/crystalprop/pulse"
)

func main() {
	programStart := time.Now()

	args := os.Args
	if len(args) != 2 {
		fmt.Println("\n\tWrong number of arguments.\n\tUsage: crystalprop <parameter-file>")
		os.Exit(1)
	}
	path := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tAttempt to read input file %q failed: %w", path, err))
		os.Exit(2)
	}

	cfg, msg, ok := parseConfig(data)
	if !ok {
		fmt.Printf("\n\tProblem in parameter file: %s\n", msg)
		os.Exit(3)
	}

	cryst, err := crystal.New(cfg.Crystal)
	if err != nil {
		fmt.Println(fmt.Errorf("building crystal: %w", err))
		os.Exit(4)
	}
	fmt.Printf("Crystal: length %g m in %d slices, pump type %s\n",
		cryst.Length, cryst.NSlice, cfg.Crystal.Pump.Type)

	lp, err := pulse.NewGaussianPulse(cfg.Seed)
	if err != nil {
		fmt.Println(fmt.Errorf("building seed pulse: %w", err))
		os.Exit(4)
	}
	photonsIn := totalPhotons(lp)
	fmt.Printf("Seed pulse: %g eV, %d sub-slice(s), %.4g photons\n",
		lp.PhotonEnergyEV, len(lp.Slices), photonsIn)

	var meshBefore [][]float64
	probeSlice := cryst.Slices[len(cryst.Slices)/2]
	if cfg.PlotDir != "" {
		meshBefore = probeSlice.InversionMesh()
	}

	lp, err = cryst.Propagate(lp, cfg.Mode, crystal.PropagateOptions{
		CalcGain: cfg.CalcGain,
		RadialN2: cfg.RadialN2,
	})
	if err != nil {
		fmt.Println(fmt.Errorf("propagation failed: %w", err))
		os.Exit(5)
	}

	photonsOut := totalPhotons(lp)
	fmt.Printf("Propagation mode %q, calc_gain=%v, radial_n2=%v\n", cfg.Mode, cfg.CalcGain, cfg.RadialN2)
	for i, s := range lp.Slices {
		fmt.Printf("  sub-slice %d: %.4g photons\n", i, s.TotalPhotons())
	}
	if photonsIn > 0 {
		fmt.Printf("Single-pass photon gain: %.4f\n", photonsOut/photonsIn)
	}

	if cfg.PlotDir != "" {
		if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
			fmt.Println(fmt.Errorf("creating plot dir: %w", err))
			os.Exit(6)
		}
		axis := crystalMeshAxis(cfg.Crystal)
		if err := plotInversionProfile(cfg.PlotDir, probeSlice, meshBefore, probeSlice.InversionMesh(), axis); err != nil {
			fmt.Println(fmt.Errorf("writing inversion plot: %w", err))
			os.Exit(6)
		}
		if err := plotIntensityCut(cfg.PlotDir, lp.Slices[0]); err != nil {
			fmt.Println(fmt.Errorf("writing intensity plot: %w", err))
			os.Exit(6)
		}
		fmt.Printf("Plots written to %s\n", cfg.PlotDir)
	}

	fmt.Printf("Done in %v\n", time.Since(programStart))
}

func totalPhotons(lp *pulse.Pulse) float64 {
	sum := 0.0
	for _, s := range lp.Slices {
		sum += s.TotalPhotons()
	}
	return sum
}

func crystalMeshAxis(p crystal.Params) []float64 {
	return grid.Linspace(-p.Pump.MeshExtent, p.Pump.MeshExtent, p.Pump.NCells)
}

package crystal

import (
	"fmt"
	"math"

	"github.com/apex-photonics/crystalprop/optics"
	"github.com/apex-photonics/crystalprop/pulse"
)

// PropMode selects the propagation strategy for one crystal slice.
// The set is closed: every variant has a handler, and the two
// intentionally-unimplemented ones fail loudly when invoked.
type PropMode int

const (
	// ModeFixedABCD propagates with the slice's stored ABCD
	// coefficients, wavelength- and scale-corrected, via the LCT.
	ModeFixedABCD PropMode = iota
	// ModeN0N2LCT derives the ABCD matrix from n0, n2 and the slice
	// length (index duct) and applies it via the LCT.
	ModeN0N2LCT
	// ModeN0N2Beamline uses the same duct matrix, decomposed into a
	// lens-drift-lens sequence on the ray beamline.
	ModeN0N2Beamline
	// ModeGainOnly runs the gain model on every sub-slice with no
	// field propagation.
	ModeGainOnly
	// ModeAttenuate is defined but not implemented.
	ModeAttenuate
	// ModePlaceholder is defined but not implemented.
	ModePlaceholder
	// ModeDefault is the enclosing element's passthrough behavior.
	ModeDefault
)

// ParsePropMode maps a configuration string to a PropMode.
func ParsePropMode(s string) (PropMode, error) {
	switch s {
	case "abcd_lct":
		return ModeFixedABCD, nil
	case "n0n2_lct":
		return ModeN0N2LCT, nil
	case "n0n2_beamline":
		return ModeN0N2Beamline, nil
	case "gain_calc":
		return ModeGainOnly, nil
	case "attenuate":
		return ModeAttenuate, nil
	case "placeholder":
		return ModePlaceholder, nil
	case "default":
		return ModeDefault, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPropMode, s)
}

func (m PropMode) String() string {
	switch m {
	case ModeFixedABCD:
		return "abcd_lct"
	case ModeN0N2LCT:
		return "n0n2_lct"
	case ModeN0N2Beamline:
		return "n0n2_beamline"
	case ModeGainOnly:
		return "gain_calc"
	case ModeAttenuate:
		return "attenuate"
	case ModePlaceholder:
		return "placeholder"
	case ModeDefault:
		return "default"
	}
	return fmt.Sprintf("PropMode(%d)", int(m))
}

// Propagate pushes a pulse through this slice with the selected
// strategy, optionally running the gain model on each sub-slice
// first.
func (s *CrystalSlice) Propagate(lp *pulse.Pulse, mode PropMode, calcGain bool) (*pulse.Pulse, error) {
	switch mode {
	case ModeFixedABCD:
		return s.propagateLCT(lp, s.fixedMatrix(lp.Wavelength()), calcGain)
	case ModeN0N2LCT:
		return s.propagateLCT(lp, s.ductMatrix(lp.Wavelength()), calcGain)
	case ModeN0N2Beamline:
		return s.propagateBeamline(lp, calcGain)
	case ModeGainOnly:
		return s.propagateGainOnly(lp)
	case ModeAttenuate, ModePlaceholder:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode.String())
	case ModeDefault:
		// Passthrough defined by the enclosing optical element.
		return lp, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPropMode, mode.String())
}

// fixedMatrix returns the slice's stored ABCD coefficients with the
// off-diagonal terms corrected for wavelength and length scale, as
// the LCT kernel expects.
func (s *CrystalSlice) fixedMatrix(lambda float64) optics.ABCD {
	ls2 := s.LScale * s.LScale
	return optics.ABCD{
		A: s.FixedABCD.A,
		B: s.FixedABCD.B * lambda / ls2,
		C: s.FixedABCD.C / lambda * ls2,
		D: s.FixedABCD.D,
	}
}

// ductMatrix derives the wavelength/scale-corrected ABCD matrix from
// n0, n2 and the slice length. The gamma -> 0 limit is exact: for
// n2 = 0 the matrix is a pure drift [[1, L lambda / l^2], [0, 1]].
func (s *CrystalSlice) ductMatrix(lambda float64) optics.ABCD {
	gamma := math.Sqrt(s.N2 / s.N0)
	ls2 := s.LScale * s.LScale
	return optics.ABCD{
		A: math.Cos(gamma * s.Length),
		B: s.Length * optics.Sinc(gamma*s.Length) * lambda / ls2,
		C: -gamma * math.Sin(gamma*s.Length) / lambda * ls2,
		D: math.Cos(gamma * s.Length),
	}
}

// propagateLCT transforms every sub-slice field with the 2D LCT
// kernel, the same matrix on both transverse axes.
func (s *CrystalSlice) propagateLCT(lp *pulse.Pulse, m optics.ABCD, calcGain bool) (*pulse.Pulse, error) {
	for _, ps := range lp.Slices {
		if calcGain {
			if _, err := s.CalcGain(ps); err != nil {
				return nil, err
			}
		}

		wfr := ps.Wfr
		dxScale := wfr.Mesh.Dx() / s.LScale
		dyScale := wfr.Mesh.Dy() / s.LScale

		dxOut, dyOut, exOut, err := optics.ApplyLCT2DSep(m, m, dxScale, dyScale, wfr.Ex)
		if err != nil {
			return nil, err
		}
		_, _, eyOut, err := optics.ApplyLCT2DSep(m, m, dxScale, dyScale, wfr.Ey)
		if err != nil {
			return nil, err
		}

		// Rebuild the mesh bounds from the kernel's abscissae; extent
		// and resolution may differ from the input.
		hx := dxOut * s.LScale
		hy := dyOut * s.LScale
		nx := len(exOut)
		ny := len(exOut[0])
		xv := optics.Abscissae(nx, hx)
		yv := optics.Abscissae(ny, hy)

		out := pulse.NewWavefront(pulse.Grid{
			XStart: xv[0], XFin: xv[nx-1], Nx: nx,
			YStart: yv[0], YFin: yv[ny-1], Ny: ny,
		})
		if err := out.SetComponent(pulse.Horizontal, exOut); err != nil {
			return nil, err
		}
		if err := out.SetComponent(pulse.Vertical, eyOut); err != nil {
			return nil, err
		}
		ps.Wfr = out
	}
	return lp, nil
}

// propagateBeamline decomposes the duct matrix into a thin lens, a
// drift and a second thin lens and delegates to the ray beamline.
// When n2 is exactly zero the decomposition is skipped and the slice
// is a single drift of length L/n0; the gamma formula is never
// evaluated in that branch.
func (s *CrystalSlice) propagateBeamline(lp *pulse.Pulse, calcGain bool) (*pulse.Pulse, error) {
	for _, ps := range lp.Slices {
		if calcGain {
			if _, err := s.CalcGain(ps); err != nil {
				return nil, err
			}
		}

		var bl *optics.Beamline
		var err error
		if s.N2 == 0 {
			bl, err = optics.NewBeamline(
				[]optics.Element{optics.FreeDrift{L: s.Length / s.N0}},
				[]optics.PropParams{optics.DefaultPropParams()},
			)
		} else {
			gamma := math.Sqrt(s.N2 / s.N0)
			a := math.Cos(gamma * s.Length)
			b := math.Sin(gamma*s.Length) / gamma
			d := a
			f1 := b / (1.0 - a)
			f2 := b / (1.0 - d)
			bl, err = optics.NewBeamline(
				[]optics.Element{
					optics.Lens{Fx: f1, Fy: f1},
					optics.FreeDrift{L: b},
					optics.Lens{Fx: f2, Fy: f2},
				},
				[]optics.PropParams{
					optics.DefaultPropParams(),
					optics.DefaultPropParams(),
					optics.DefaultPropParams(),
				},
			)
		}
		if err != nil {
			return nil, err
		}
		if err := bl.Propagate(ps.Wfr, ps.Lambda0); err != nil {
			return nil, err
		}
	}
	return lp, nil
}

// propagateGainOnly runs the gain update on every sub-slice,
// regardless of any calc-gain flag, with no field propagation.
func (s *CrystalSlice) propagateGainOnly(lp *pulse.Pulse) (*pulse.Pulse, error) {
	for _, ps := range lp.Slices {
		if _, err := s.CalcGain(ps); err != nil {
			return nil, err
		}
	}
	return lp, nil
}

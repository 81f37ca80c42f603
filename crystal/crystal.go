// Package crystal models a single pass of a coherent optical pulse
// through a longitudinally sliced, optically pumped gain crystal. A
// Crystal is an ordered list of CrystalSlice values; a pulse is
// propagated slice by slice with a selectable ABCD/LCT strategy,
// optionally coupling the pulse photon density back into each
// slice's population-inversion mesh through the saturable gain
// model.
package crystal

import (
	"fmt"

	"github.com/apex-photonics/crystalprop/pulse"
)

// Crystal is an ordered sequence of slices spanning the full crystal
// length.
type Crystal struct {
	Length float64
	NSlice int
	LScale float64
	Slices []*CrystalSlice

	params Params
}

// New resolves the crystal-level parameters into per-slice
// configurations and builds every slice, including its
// population-inversion mesh. Negative n2 values or mismatched
// parameter array lengths fail here, before any slice exists.
func New(p Params) (*Crystal, error) {
	resolved, err := resolveSliceParams(p)
	if err != nil {
		return nil, err
	}
	c := &Crystal{
		Length: resolved.Length,
		NSlice: resolved.NSlice,
		LScale: resolved.LScale,
		params: resolved,
	}
	for j := 0; j < resolved.NSlice; j++ {
		s, err := newCrystalSlice(resolved, j)
		if err != nil {
			return nil, err
		}
		c.Slices = append(c.Slices, s)
	}
	return c, nil
}

// PropagateOptions control one crystal pass.
type PropagateOptions struct {
	// CalcGain couples the pulse to the population inversion through
	// the saturable gain model in each slice.
	CalcGain bool
	// RadialN2 approximates a radially varying quadratic index by
	// blending full-n2 and zero-n2 propagations of each slice. Only
	// supported with ModeN0N2LCT.
	RadialN2 bool
}

// Propagate runs the pulse through every slice in order: forward for
// direction 0, reversed for direction 180. After each slice the
// pulse mesh is restored to its working grid and edge phase noise is
// stripped.
func (c *Crystal) Propagate(lp *pulse.Pulse, mode PropMode, opts PropagateOptions) (*pulse.Pulse, error) {
	if err := lp.CheckDirection(); err != nil {
		return nil, err
	}

	order := make([]*CrystalSlice, len(c.Slices))
	copy(order, c.Slices)
	if lp.Direction == pulse.DirectionReversed {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	var err error
	for _, s := range order {
		if opts.RadialN2 {
			lp, err = c.propagateRadialN2(s, lp, mode, opts.CalcGain)
		} else {
			lp, err = s.Propagate(lp, mode, opts.CalcGain)
		}
		if err != nil {
			return nil, err
		}
		if err = lp.ResizeMesh(); err != nil {
			return nil, err
		}
		lp.FlattenPhaseEdges()
	}
	return lp, nil
}

// propagateRadialN2 propagates two deep copies of the pulse through
// the slice, one with the true n2 and one with n2 forced to zero,
// and blends the results radially about the pump axis.
func (c *Crystal) propagateRadialN2(s *CrystalSlice, lp *pulse.Pulse, mode PropMode, calcGain bool) (*pulse.Pulse, error) {
	if mode != ModeN0N2LCT {
		return nil, fmt.Errorf("%w (got %q)", ErrRadialN2Mode, mode.String())
	}

	copies := pulse.N2Copies{
		N2Max:  lp.DeepCopy(),
		N2Zero: lp.DeepCopy(),
	}
	zeroSlice := s.cloneWithZeroN2()

	var err error
	copies.N2Max, err = s.Propagate(copies.N2Max, mode, calcGain)
	if err != nil {
		return nil, err
	}
	copies.N2Zero, err = zeroSlice.Propagate(copies.N2Zero, mode, calcGain)
	if err != nil {
		return nil, err
	}

	return pulse.CombineN2Variation(copies, s.RadialN2Factor, s.Pump.PumpWaist, s.Pump.OffsetX, s.Pump.OffsetY)
}

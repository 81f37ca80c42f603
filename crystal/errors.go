package crystal

import "errors"

// Configuration errors, raised before any simulation step.
var (
	// ErrNegativeN2 indicates a negative quadratic index coefficient
	// anywhere in the crystal's n2 array.
	ErrNegativeN2 = errors.New("crystal: negative n2 value")

	// ErrParamLength indicates an n0/n2 array whose length does not
	// match an explicitly given slice count.
	ErrParamLength = errors.New("crystal: n0/n2 array length does not match nslice")

	// ErrUnknownPumpType indicates an unrecognized pump geometry name.
	ErrUnknownPumpType = errors.New("crystal: unknown pump type")

	// ErrUnknownPropMode indicates a propagation mode name that does
	// not match any variant, supported or otherwise.
	ErrUnknownPropMode = errors.New("crystal: unknown propagation mode")
)

// Unsupported-mode errors, raised at call time.
var (
	// ErrUnsupportedMode indicates a propagation mode that is part of
	// the interface surface but intentionally not implemented.
	ErrUnsupportedMode = errors.New("crystal: propagation mode not supported")

	// ErrRadialN2Mode indicates a radial-n2 blend requested with a
	// strategy other than the n0n2 LCT one.
	ErrRadialN2Mode = errors.New("crystal: radial n2 blend only implemented for the n0n2 LCT mode")
)

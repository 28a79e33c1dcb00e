package mass

import "errors"

// Error taxonomy for the evidence engine. All failure modes surfaced to
// callers wrap one of these sentinels so they can be discriminated with
// errors.Is.
var (
	// ErrFrameMismatch is returned when two operands declare frames of
	// discernment with different element sets.
	ErrFrameMismatch = errors.New("frames of discernment are incompatible")

	// ErrTotalConflict is returned when normalization is requested but all
	// mass sits on the empty set (K=1). This is a legitimate evidential
	// outcome - the sources are fully contradictory - not an arithmetic
	// failure.
	ErrTotalConflict = errors.New("total conflict: all mass assigned to the empty set")

	// ErrDogmaticInput is returned when canonical decomposition is requested
	// on a mass function it is undefined for.
	ErrDogmaticInput = errors.New("canonical decomposition undefined for this mass function")

	// ErrInvalidReliability is returned for a discount rate outside [0,1].
	ErrInvalidReliability = errors.New("reliability factor outside [0,1]")

	// ErrInvalidPartition is returned when theta-contextual discounting is
	// given a partition that does not exactly cover the frame or whose
	// blocks overlap.
	ErrInvalidPartition = errors.New("partition does not exactly cover the frame")

	// ErrValidation is returned for malformed input: negative, NaN or
	// infinite masses, unknown labels, or elements outside the declared
	// frame.
	ErrValidation = errors.New("invalid input")
)

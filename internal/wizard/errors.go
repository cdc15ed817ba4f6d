package wizard

import "errors"

var (
	// ErrMissingPrerequisite is returned when a step cannot be left yet.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrInvalidTransition is returned for an output that does not belong to
	// the current step, or a Back from the first step.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrGenerationInFlight is returned when Generate is called while a
	// previous generation is still running.
	ErrGenerationInFlight = errors.New("generation already in progress")

	// ErrGenerationFailed wraps generator errors.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationCancelled is returned to a generation whose result was
	// discarded because the user navigated away.
	ErrGenerationCancelled = errors.New("generation cancelled")
)

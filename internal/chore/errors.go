package chore

import (
	"errors"

	"github.com/fernwell/choreboard/internal/generate"
)

// Sentinel errors for the lifecycle operations. Callers match them with
// errors.Is; the wrapped message carries the chore id and attempted action.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidData       = errors.New("invalid chore data")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPointAllocation   = errors.New("point allocation failed")
	ErrPointDeduction    = errors.New("point deduction failed")
	ErrGeneration        = errors.New("instance generation failed")

	// ErrInvalidPattern is the generator's sentinel, re-exported so callers
	// of the service only need this package's errors.
	ErrInvalidPattern = generate.ErrInvalidPattern
)

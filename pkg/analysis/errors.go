package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is returned when the requested target fails the
// safe-identifier validation. Surfaced before any side effect.
var ErrInvalidTarget = errors.New("invalid target")

// InvalidTargetError carries the rejected target string.
type InvalidTargetError struct {
	Target string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target format: %q", e.Target)
}

func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

func (e *InvalidTargetError) Is(target error) bool { return target == ErrInvalidTarget }

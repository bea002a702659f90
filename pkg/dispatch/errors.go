package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotAllowed is returned when a batch contains a command that references
// no allow-listed tool. The whole batch is rejected before anything runs.
var ErrNotAllowed = errors.New("command not allowed")

// NotAllowedError identifies the offending command and its leading token.
type NotAllowedError struct {
	Command string
	Token   string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("command not allowed: %s", e.Token)
}

func (e *NotAllowedError) Unwrap() error { return ErrNotAllowed }

func (e *NotAllowedError) Is(target error) bool { return target == ErrNotAllowed }

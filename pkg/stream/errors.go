package stream

import (
	"errors"
	"fmt"
)

// ErrStreamHalted is returned by Step on the exact call where a HALT
// decision commits. It is a terminal signal, not a failure: the emitted
// characters returned alongside it are valid and must be delivered.
var ErrStreamHalted = errors.New("stream: halted")

// CallbackFailure wraps an error raised by a Callback (either returned
// directly or synthesized from a malformed ActionDecision). Once surfaced,
// the stream has already halted; any characters emitted before the
// offending match are still valid and were already returned to the caller.
type CallbackFailure struct {
	Keyword       string
	CallbackIndex int
	Err           error
}

func (e *CallbackFailure) Error() string {
	return fmt.Sprintf("stream: callback %d bound to keyword %q failed: %v", e.CallbackIndex, e.Keyword, e.Err)
}

func (e *CallbackFailure) Unwrap() error { return e.Err }

var errMalformedDecision = errors.New("callback returned a malformed decision")

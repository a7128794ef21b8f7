package playback

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is wrapped by errors returned for operations that
// are not valid in the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// TransitionError reports an operation attempted from a state that does
// not allow it. The Player is in StateError when this is returned.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while in the '%s' state", e.Op, e.State)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

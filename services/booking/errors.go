package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound      = errors.New("booking session not found or expired")
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrStepMismatch         = errors.New("selection does not belong to the current step")
	ErrStepIncomplete       = errors.New("current step is incomplete")
	ErrAtFirstStep          = errors.New("already at the first step")
	ErrAtLastStep           = errors.New("summary step cannot advance, submit instead")
	ErrNotOnSummary         = errors.New("submission is only possible from the summary step")
	ErrIncompleteSelection  = errors.New("selection is incomplete")
	ErrSlotCrossesMidnight  = errors.New("slot must end after it starts on the same day")
	ErrUnknownService       = errors.New("service is not offered by this partner")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrSessionConflict      = errors.New("booking session changed in the meantime, reload and retry")
)

// CompositionError means a selection reached the composer in a state the
// gate should have prevented. It is a programming error, not a user error.
type CompositionError struct {
	Field string
	Err   error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose booking request: %s: %v", e.Field, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

// TransitionError reports a submission state change outside the table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid submission transition %s -> %s", e.From, e.To)
}

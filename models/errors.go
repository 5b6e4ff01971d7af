package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is wrapped by validation errors for non-positive area sizes.
	ErrInvalidDimensions = errors.New("dimensions must be positive")
	// ErrMaxTriggers is returned when a cell already holds MaxTriggersPerCell triggers.
	ErrMaxTriggers = errors.New("max triggers reached")
	// ErrNothingToCrop is the no-op outcome of cropping an area without content.
	ErrNothingToCrop = errors.New("nothing to crop")
	// ErrNoTriggerSelected is returned when no trigger is at the selected index.
	ErrNoTriggerSelected = errors.New("no trigger selected")
	// ErrUnknownTriggerType is returned for a trigger_type outside the known kinds.
	ErrUnknownTriggerType = errors.New("unknown trigger type")
)

// ValidationError reports malformed user input. The operation that produced it
// leaves all state unchanged.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

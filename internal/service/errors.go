package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("ticket %w", ErrNotFound)
	ErrCapacityExceeded = errors.New("no more tickets available for this event")
	ErrAlreadyRedeemed  = errors.New("ticket has already been redeemed")
	ErrOutOfWindow      = errors.New("ticket can only be redeemed during the event's duration")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

const (
	msgMissingFields      = "Missing required fields."
	msgStartInPast        = "Start date must not be in the past."
	msgEndBeforeStart     = "End date must not be before start date."
	msgTicketsOutOfRange  = "The number of total tickets must be between 1 and 300."
	msgTicketsBelowSold   = "You cannot reduce total tickets below tickets sold."
	msgCannotDeleteActive = "You can't delete an event with sold tickets or before it ends."
)

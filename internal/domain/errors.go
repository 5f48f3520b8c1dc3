package domain

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrCapacity         = errors.New("seat capacity exceeded")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrTimeout          = errors.New("deadline exceeded")
)

package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every failed Chunk Store read via errors.Is.
var ErrUnavailable = errors.New("chunk store unavailable")

// Error is an upstream Chunk Store failure. It carries no partial result.
type Error struct {
	Op     string
	RoomID string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chunk store %s (room %s): %v", e.Op, e.RoomID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}

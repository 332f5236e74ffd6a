package minkowski

import (
	"errors"
	"fmt"
)

var (
	// ErrMapNotFound is returned when a coordinate map key does not resolve
	// to a registered map.
	ErrMapNotFound = errors.New("coordinate map not found")
	// ErrEmptyCoordinates is returned when a batch holds no coordinates.
	ErrEmptyCoordinates = errors.New("empty coordinate batch")
)

// ErrCoordinateSizeMismatch indicates a coordinate batch whose layout does
// not match the manager's coordinate size.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCoordinateSizeMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrCoordinateSizeMismatch) Error() string {
	return fmt.Sprintf("coordinate size mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrCoordinateSizeMismatch) Unwrap() error { return e.cause }

// ErrStrideLengthMismatch indicates a stride vector whose length is not
// coordinate size - 1.
type ErrStrideLengthMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrStrideLengthMismatch) Error() string {
	return fmt.Sprintf("stride length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrStrideLengthMismatch) Unwrap() error { return e.cause }

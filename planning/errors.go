/*
errors.go - Error types for the planning repository

PURPOSE:
  The engine itself never fails: saturation and partial allocation are
  warnings carried in its return values. Errors exist only at the
  persistence boundary, and live here so store implementations share
  one vocabulary.

USAGE:
  if errors.Is(err, planning.ErrOrderNotFound) { ... }
*/
package planning

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned when a referenced order doesn't exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrChecklistNotFound is returned when no checklist entry exists
	// for an (order, date) pair.
	ErrChecklistNotFound = errors.New("checklist entry not found")
)

// OrderNotFoundError carries the missing order's ID.
type OrderNotFoundError struct {
	ID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found: %s", e.ID)
}

func (e *OrderNotFoundError) Unwrap() error {
	return ErrOrderNotFound
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrChecklistNotFound)
}

package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)

// MileageRegressionError reports a new mileage-bearing entry that would make
// the odometer go backwards relative to the vehicle's last known state. It
// carries enough context for the caller to show what was attempted against
// what is recorded.
type MileageRegressionError struct {
	Attempted     int
	LastKnownKm   int
	LastKnownDate time.Time
}

func (e *MileageRegressionError) Error() string {
	return fmt.Sprintf(
		"mileage %d is lower than the last recorded %d on %s",
		e.Attempted, e.LastKnownKm, e.LastKnownDate.Format("2006-01-02"),
	)
}

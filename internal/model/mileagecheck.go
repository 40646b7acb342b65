package model

import (
	"time"

	"github.com/google/uuid"
)

// MileageCheck is a manual odometer attestation, independent of any trip.
type MileageCheck struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicleId"`
	UserID    uuid.UUID `json:"userId"`
	Date      time.Time `json:"date"`
	Km        int       `json:"km"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type FuelingRecord struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicleId"`
	UserID    uuid.UUID `json:"userId"`
	Date      time.Time `json:"date"`
	Liters    float64   `json:"liters"`
	Cost      float64   `json:"cost"`
	Mileage   int       `json:"mileage"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`

	VehiclePlate string `json:"vehiclePlate,omitempty"`
	VehicleName  string `json:"vehicleName,omitempty"`
}

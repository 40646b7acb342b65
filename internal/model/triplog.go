package model

import (
	"time"

	"github.com/google/uuid"
)

// TripLog is one vehicle usage session. FinalKm is nil while the trip is
// still open; an open trip contributes its InitialKm to mileage resolution.
type TripLog struct {
	ID                 uuid.UUID  `json:"id"`
	VehicleID          uuid.UUID  `json:"vehicleId"`
	UserID             uuid.UUID  `json:"userId"`
	Date               time.Time  `json:"date"`
	InitialKm          int        `json:"initialKm"`
	FinalKm            *int       `json:"finalKm"`
	StartTime          string     `json:"startTime"`
	EndTime            *string    `json:"endTime"`
	Route              *string    `json:"route"`
	Notes              *string    `json:"notes"`
	HasAnomaly         bool       `json:"hasAnomaly"`
	AnomalyDescription *string    `json:"anomalyDescription"`
	IsResolved         bool       `json:"isResolved"`
	ResolvedAt         *time.Time `json:"resolvedAt"`
	CreatedAt          time.Time  `json:"createdAt"`

	// Populated by list queries that join the vehicle.
	VehiclePlate string `json:"vehiclePlate,omitempty"`
	VehicleName  string `json:"vehicleName,omitempty"`
}

// Mileage is the reading this log contributes to the odometer timeline:
// FinalKm when the trip is closed, InitialKm otherwise.
func (l *TripLog) Mileage() int {
	if l.FinalKm != nil {
		return *l.FinalKm
	}
	return l.InitialKm
}

// UnresolvedAnomaly is the shape shown in the maintenance form when picking
// which reported anomalies a maintenance event fixes.
type UnresolvedAnomaly struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Reporter    string    `json:"reporter"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleStatusActive       VehicleStatus = "ACTIVE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

type OwnershipType string

const (
	OwnershipOwned  OwnershipType = "OWNED"
	OwnershipRental OwnershipType = "RENTAL"
)

const DefaultServiceIntervalKm = 15000

type Vehicle struct {
	ID                uuid.UUID     `json:"id"`
	Plate             string        `json:"plate"`
	Name              string        `json:"name"`
	Type              string        `json:"type"`
	Status            VehicleStatus `json:"status"`
	OwnershipType     OwnershipType `json:"ownershipType"`
	ServiceIntervalKm int           `json:"serviceIntervalKm"`
	RegistrationDate  *time.Time    `json:"registrationDate"`
	// CurrentAnomaly is a cached projection over the unresolved anomaly
	// logs of this vehicle; it is written only by the anomaly tracking
	// code paths, never by vehicle CRUD.
	CurrentAnomaly *string   `json:"currentAnomaly"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ActiveVehicle is the slim listing used by trip-start forms.
type ActiveVehicle struct {
	ID          uuid.UUID `json:"id"`
	Plate       string    `json:"plate"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	LastMileage int       `json:"lastMileage"`
}

// FleetVehicle is a vehicle annotated with the service data shown in the
// fleet list.
type FleetVehicle struct {
	Vehicle
	LastServiceKm int         `json:"lastServiceKm"`
	LastKnownKm   int         `json:"lastKnownKm"`
	ServiceBand   ServiceBand `json:"serviceBand"`
}

func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleStatusActive, VehicleStatusMaintenance, VehicleStatusOutOfService:
		return true
	}
	return false
}

func ValidOwnershipType(o OwnershipType) bool {
	return o == OwnershipOwned || o == OwnershipRental
}

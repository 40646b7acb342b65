package model

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceType string

const (
	MaintenanceTagliando MaintenanceType = "TAGLIANDO"
	MaintenanceGomme     MaintenanceType = "GOMME"
	MaintenanceMeccanica MaintenanceType = "MECCANICA"
	MaintenanceRevisione MaintenanceType = "REVISIONE"
	MaintenanceAltro     MaintenanceType = "ALTRO"
)

type TireType string

const (
	TireEstive          TireType = "ESTIVE"
	TireInvernali       TireType = "INVERNALI"
	TireQuattroStagioni TireType = "QUATTRO_STAGIONI"
)

type MaintenanceRecord struct {
	ID        uuid.UUID       `json:"id"`
	VehicleID uuid.UUID       `json:"vehicleId"`
	Date      time.Time       `json:"date"`
	Type      MaintenanceType `json:"type"`
	Cost      *float64        `json:"cost"`
	Mileage   int             `json:"mileage"`
	Notes     *string         `json:"notes"`
	// Tire fields carry meaning only for GOMME records; the storage
	// location only when the tires are seasonal.
	TireType            *TireType `json:"tireType"`
	TireStorageLocation *string   `json:"tireStorageLocation"`
	CreatedAt           time.Time `json:"createdAt"`
}

func ValidMaintenanceType(t MaintenanceType) bool {
	switch t {
	case MaintenanceTagliando, MaintenanceGomme, MaintenanceMeccanica,
		MaintenanceRevisione, MaintenanceAltro:
		return true
	}
	return false
}

func ValidTireType(t TireType) bool {
	switch t {
	case TireEstive, TireInvernali, TireQuattroStagioni:
		return true
	}
	return false
}

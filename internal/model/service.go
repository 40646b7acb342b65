package model

import "time"

// ServiceBand classifies how close a vehicle is to its next service.
type ServiceBand string

const (
	ServiceRegular ServiceBand = "REGULAR"
	ServiceDueSoon ServiceBand = "DUE_SOON"
	ServiceOverdue ServiceBand = "OVERDUE"
)

// ServiceStatus is the derived service/revision projection for a vehicle.
// NextRevisionDate is nil when the vehicle has neither a REVISIONE record
// nor a registration date.
type ServiceStatus struct {
	NextServiceKm    int         `json:"nextServiceKm"`
	KmToService      int         `json:"kmToService"`
	Band             ServiceBand `json:"band"`
	NextRevisionDate *time.Time  `json:"nextRevisionDate"`
}

// VehicleSheet is the data behind the printable per-vehicle PDF.
type VehicleSheet struct {
	Vehicle     Vehicle
	LastKnown   LastKnownMileage
	Status      ServiceStatus
	History     []HistoryEntry
	GeneratedAt time.Time
}

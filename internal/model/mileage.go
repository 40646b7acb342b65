package model

import "time"

// LastKnownMileage is the resolved odometer state of a vehicle across the
// four event streams (trip logs, fuelings, maintenance, mileage checks).
// A vehicle with no records resolves to Km 0 with a zero AsOf.
type LastKnownMileage struct {
	Km   int       `json:"km"`
	AsOf time.Time `json:"asOf"`
}

// MileageStats are the derived, read-only statistics shown on the vehicle
// detail page. AvgConsumption is liters per 100 km and nil when fewer than
// two fuelings exist or they span no distance.
type MileageStats struct {
	LastKnown      LastKnownMileage `json:"lastKnown"`
	AnnualAvgKm    int              `json:"annualAvgKm"`
	AvgConsumption *float64         `json:"avgConsumption"`
}

// HistoryEntryKind tags the entries of the merged vehicle timeline.
type HistoryEntryKind string

const (
	HistoryTripLog      HistoryEntryKind = "LOG"
	HistoryRefuel       HistoryEntryKind = "REFUEL"
	HistoryMaintenance  HistoryEntryKind = "MAINTENANCE"
	HistoryMileageCheck HistoryEntryKind = "MILEAGE_CHECK"
)

// HistoryEntry is one row of the merged per-vehicle timeline.
type HistoryEntry struct {
	Kind        HistoryEntryKind `json:"kind"`
	Date        time.Time        `json:"date"`
	Mileage     int              `json:"mileage"`
	UserName    *string          `json:"userName"`
	Description string           `json:"description"`

	TripLog      *TripLog           `json:"tripLog,omitempty"`
	Fueling      *FuelingRecord     `json:"fueling,omitempty"`
	Maintenance  *MaintenanceRecord `json:"maintenance,omitempty"`
	MileageCheck *MileageCheck      `json:"mileageCheck,omitempty"`
}

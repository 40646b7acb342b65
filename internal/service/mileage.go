package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

// Per-stream readers used by the mileage resolver. Each Latest returns the
// most recent record by date (stream-specific tie-break) or nil when the
// vehicle has no records in that stream.
type TripLogStream interface {
	Latest(ctx context.Context, vehicleID uuid.UUID) (*model.TripLog, error)
}

type FuelingStream interface {
	Latest(ctx context.Context, vehicleID uuid.UUID) (*model.FuelingRecord, error)
	ListByMileage(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error)
}

type MaintenanceStream interface {
	Latest(ctx context.Context, vehicleID uuid.UUID) (*model.MaintenanceRecord, error)
}

type MileageCheckStream interface {
	Latest(ctx context.Context, vehicleID uuid.UUID) (*model.MileageCheck, error)
}

type VehicleReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	FirstEventDate(ctx context.Context, id uuid.UUID) (*time.Time, error)
}

// MileageService resolves the single odometer timeline of a vehicle out of
// the four independent event streams and validates new entries against it.
type MileageService struct {
	vehicles VehicleReader
	trips    TripLogStream
	fuelings FuelingStream
	works    MaintenanceStream
	checks   MileageCheckStream
	now      func() time.Time
}

func NewMileageService(
	vehicles VehicleReader,
	trips TripLogStream,
	fuelings FuelingStream,
	works MaintenanceStream,
	checks MileageCheckStream,
) *MileageService {
	return &MileageService{
		vehicles: vehicles,
		trips:    trips,
		fuelings: fuelings,
		works:    works,
		checks:   checks,
		now:      time.Now,
	}
}

type mileageCandidate struct {
	date time.Time
	km   int
}

// ResolveLastKnown computes the vehicle's last known mileage: across the
// latest record of each stream, the one with the latest date wins; streams
// tied on the date contribute the maximum mileage among them. A vehicle with
// no records resolves to zero.
func (s *MileageService) ResolveLastKnown(ctx context.Context, vehicleID uuid.UUID) (model.LastKnownMileage, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.LastKnownMileage{}, ErrNotFound
		}
		return model.LastKnownMileage{}, err
	}
	return s.resolve(ctx, vehicleID)
}

func (s *MileageService) resolve(ctx context.Context, vehicleID uuid.UUID) (model.LastKnownMileage, error) {
	var candidates []mileageCandidate

	log, err := s.trips.Latest(ctx, vehicleID)
	if err != nil {
		return model.LastKnownMileage{}, err
	}
	if log != nil {
		candidates = append(candidates, mileageCandidate{date: log.Date, km: log.Mileage()})
	}

	fueling, err := s.fuelings.Latest(ctx, vehicleID)
	if err != nil {
		return model.LastKnownMileage{}, err
	}
	if fueling != nil {
		candidates = append(candidates, mileageCandidate{date: fueling.Date, km: fueling.Mileage})
	}

	work, err := s.works.Latest(ctx, vehicleID)
	if err != nil {
		return model.LastKnownMileage{}, err
	}
	if work != nil {
		candidates = append(candidates, mileageCandidate{date: work.Date, km: work.Mileage})
	}

	check, err := s.checks.Latest(ctx, vehicleID)
	if err != nil {
		return model.LastKnownMileage{}, err
	}
	if check != nil {
		candidates = append(candidates, mileageCandidate{date: check.Date, km: check.Km})
	}

	return pickLastKnown(candidates), nil
}

// pickLastKnown selects the candidate with the latest date; candidates on
// that same date never regress the result below the maximum among them.
func pickLastKnown(candidates []mileageCandidate) model.LastKnownMileage {
	var last model.LastKnownMileage
	for _, c := range candidates {
		switch {
		case c.date.After(last.AsOf):
			last = model.LastKnownMileage{Km: c.km, AsOf: c.date}
		case c.date.Equal(last.AsOf) && c.km > last.Km:
			last.Km = c.km
		}
	}
	return last
}

// ValidateEntry checks a new mileage-bearing entry against the resolved
// state. Entries dated on or after the last known date must not regress the
// odometer; backdated entries are accepted as-is and are not checked against
// the records chronologically around them.
func (s *MileageService) ValidateEntry(ctx context.Context, vehicleID uuid.UUID, date time.Time, km int) error {
	last, err := s.resolve(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !date.Before(last.AsOf) && km < last.Km {
		return &MileageRegressionError{
			Attempted:     km,
			LastKnownKm:   last.Km,
			LastKnownDate: last.AsOf,
		}
	}
	return nil
}

// Stats computes the derived read-only statistics for the vehicle detail
// page.
func (s *MileageService) Stats(ctx context.Context, vehicleID uuid.UUID) (*model.MileageStats, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	last, err := s.resolve(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	first, err := s.vehicles.FirstEventDate(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	fuelings, err := s.fuelings.ListByMileage(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return &model.MileageStats{
		LastKnown:      last,
		AnnualAvgKm:    annualAverageKm(last.Km, first, s.now()),
		AvgConsumption: averageConsumption(fuelings),
	}, nil
}

// annualAverageKm projects the total mileage onto a yearly rate. Histories
// spanning under 30 days are too noisy to extrapolate and clamp to the raw
// mileage.
func annualAverageKm(lastKnownKm int, firstDate *time.Time, now time.Time) int {
	if firstDate == nil {
		return lastKnownKm
	}
	days := now.Sub(*firstDate).Hours() / 24
	if days < 30 {
		return lastKnownKm
	}
	return int(math.Round(float64(lastKnownKm) / (days / 365)))
}

// averageConsumption computes liters per 100 km over the fueling history in
// odometer order. The earliest fueling only anchors the distance, so its
// liters are excluded. Nil when fewer than two fuelings exist or they span
// no distance.
func averageConsumption(fuelings []model.FuelingRecord) *float64 {
	if len(fuelings) < 2 {
		return nil
	}
	distance := fuelings[len(fuelings)-1].Mileage - fuelings[0].Mileage
	if distance <= 0 {
		return nil
	}
	var liters float64
	for _, f := range fuelings[1:] {
		liters += f.Liters
	}
	result := liters / float64(distance) * 100
	return &result
}

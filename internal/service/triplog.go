package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

const tripLogListLimit = 50

var timeOfDayRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

type TripLogStore interface {
	Create(ctx context.Context, l model.TripLog) (*model.TripLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TripLog, error)
	Update(ctx context.Context, l model.TripLog) (*model.TripLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.TripLog, error)
	ListUnresolved(ctx context.Context, vehicleID uuid.UUID) ([]model.UnresolvedAnomaly, error)
	CountUnresolved(ctx context.Context, vehicleID, excludeID uuid.UUID) (int64, error)
	OldestUnresolved(ctx context.Context, vehicleID, excludeID uuid.UUID) (*model.TripLog, error)
}

type VehicleBannerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	SetCurrentAnomaly(ctx context.Context, id uuid.UUID, banner *string) error
}

type MileageValidator interface {
	ValidateEntry(ctx context.Context, vehicleID uuid.UUID, date time.Time, km int) error
}

// TripLogService owns trip logs and the anomaly banner transitions tied to
// them.
type TripLogService struct {
	logs     TripLogStore
	vehicles VehicleBannerStore
	mileage  MileageValidator
	now      func() time.Time
}

func NewTripLogService(logs TripLogStore, vehicles VehicleBannerStore, mileage MileageValidator) *TripLogService {
	return &TripLogService{logs: logs, vehicles: vehicles, mileage: mileage, now: time.Now}
}

type CreateTripLogInput struct {
	VehicleID          uuid.UUID
	Date               time.Time
	InitialKm          int
	FinalKm            *int
	StartTime          string
	EndTime            *string
	Route              *string
	Notes              *string
	HasAnomaly         bool
	AnomalyDescription *string
}

type UpdateTripLogInput struct {
	FinalKm            *int
	EndTime            *string
	Route              *string
	Notes              *string
	HasAnomaly         *bool
	AnomalyDescription *string
	IsResolved         *bool
}

func (s *TripLogService) Create(ctx context.Context, principal model.Principal, input CreateTripLogInput) (*model.TripLog, error) {
	if input.VehicleID == uuid.Nil {
		return nil, fmt.Errorf("%w: vehicle is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.InitialKm < 0 {
		return nil, fmt.Errorf("%w: initial km must not be negative", ErrInvalidInput)
	}
	if input.FinalKm != nil && *input.FinalKm < input.InitialKm {
		return nil, fmt.Errorf("%w: final km must be greater than or equal to initial km", ErrInvalidInput)
	}
	if !timeOfDayRe.MatchString(input.StartTime) {
		return nil, fmt.Errorf("%w: start time must be HH:mm", ErrInvalidInput)
	}
	if input.EndTime != nil && !timeOfDayRe.MatchString(*input.EndTime) {
		return nil, fmt.Errorf("%w: end time must be HH:mm", ErrInvalidInput)
	}

	if _, err := s.vehicles.GetByID(ctx, input.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reading := input.InitialKm
	if input.FinalKm != nil {
		reading = *input.FinalKm
	}
	if err := s.mileage.ValidateEntry(ctx, input.VehicleID, input.Date, reading); err != nil {
		return nil, err
	}

	// Last reporter wins for the banner text; older unresolved anomalies
	// stay in the unresolved set regardless.
	if input.HasAnomaly && input.AnomalyDescription != nil && *input.AnomalyDescription != "" {
		if err := s.vehicles.SetCurrentAnomaly(ctx, input.VehicleID, input.AnomalyDescription); err != nil {
			return nil, err
		}
	}

	return s.logs.Create(ctx, model.TripLog{
		VehicleID:          input.VehicleID,
		UserID:             principal.UserID,
		Date:               input.Date,
		InitialKm:          input.InitialKm,
		FinalKm:            input.FinalKm,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		Route:              input.Route,
		Notes:              input.Notes,
		HasAnomaly:         input.HasAnomaly,
		AnomalyDescription: input.AnomalyDescription,
	})
}

// List returns the caller's recent logs; admins may ask for another user's.
func (s *TripLogService) List(ctx context.Context, principal model.Principal, userID *uuid.UUID) ([]model.TripLog, error) {
	target := principal.UserID
	if principal.IsAdmin() && userID != nil {
		target = *userID
	}
	return s.logs.ListByUser(ctx, target, tripLogListLimit)
}

func (s *TripLogService) ListUnresolvedAnomalies(ctx context.Context, vehicleID uuid.UUID) ([]model.UnresolvedAnomaly, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.logs.ListUnresolved(ctx, vehicleID)
}

func (s *TripLogService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateTripLogInput) (*model.TripLog, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && log.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}

	if input.FinalKm != nil && *input.FinalKm < log.InitialKm {
		return nil, fmt.Errorf("%w: final km must be greater than or equal to initial km", ErrInvalidInput)
	}
	if input.EndTime != nil && !timeOfDayRe.MatchString(*input.EndTime) {
		return nil, fmt.Errorf("%w: end time must be HH:mm", ErrInvalidInput)
	}

	if input.FinalKm != nil {
		log.FinalKm = input.FinalKm
	}
	if input.EndTime != nil {
		log.EndTime = input.EndTime
	}
	if input.Route != nil {
		log.Route = input.Route
	}
	if input.Notes != nil {
		log.Notes = input.Notes
	}
	if input.HasAnomaly != nil {
		log.HasAnomaly = *input.HasAnomaly
	}
	if input.AnomalyDescription != nil {
		log.AnomalyDescription = input.AnomalyDescription
	}

	if log.HasAnomaly && input.AnomalyDescription != nil && *input.AnomalyDescription != "" {
		if err := s.vehicles.SetCurrentAnomaly(ctx, log.VehicleID, input.AnomalyDescription); err != nil {
			return nil, err
		}
	}

	if input.IsResolved != nil && *input.IsResolved && !log.IsResolved {
		log.IsResolved = true
		resolvedAt := s.now()
		log.ResolvedAt = &resolvedAt
		if err := s.refreshBanner(ctx, log.VehicleID, log.ID); err != nil {
			return nil, err
		}
	}

	return s.logs.Update(ctx, *log)
}

// ReportAnomaly flags a log with an anomaly description and overwrites the
// vehicle banner with it.
func (s *TripLogService) ReportAnomaly(ctx context.Context, id uuid.UUID, description string) (*model.TripLog, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	log.HasAnomaly = true
	log.AnomalyDescription = &description
	log.IsResolved = false
	log.ResolvedAt = nil

	if err := s.vehicles.SetCurrentAnomaly(ctx, log.VehicleID, &description); err != nil {
		return nil, err
	}
	return s.logs.Update(ctx, *log)
}

// ResolveAnomaly closes a reported anomaly and recomputes the banner.
// Resolving an already-resolved log is a no-op that keeps the original
// resolution timestamp.
func (s *TripLogService) ResolveAnomaly(ctx context.Context, id uuid.UUID, resolvedAt time.Time) (*model.TripLog, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if log.IsResolved {
		return log, nil
	}

	log.IsResolved = true
	if resolvedAt.IsZero() {
		resolvedAt = s.now()
	}
	log.ResolvedAt = &resolvedAt

	if err := s.refreshBanner(ctx, log.VehicleID, log.ID); err != nil {
		return nil, err
	}
	return s.logs.Update(ctx, *log)
}

// refreshBanner recomputes the cached banner assuming the given log is no
// longer part of the unresolved set: cleared when nothing remains, otherwise
// the oldest remaining description.
func (s *TripLogService) refreshBanner(ctx context.Context, vehicleID, excludeID uuid.UUID) error {
	count, err := s.logs.CountUnresolved(ctx, vehicleID, excludeID)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.vehicles.SetCurrentAnomaly(ctx, vehicleID, nil)
	}
	oldest, err := s.logs.OldestUnresolved(ctx, vehicleID, excludeID)
	if err != nil {
		return err
	}
	if oldest == nil || oldest.AnomalyDescription == nil {
		return s.vehicles.SetCurrentAnomaly(ctx, vehicleID, nil)
	}
	return s.vehicles.SetCurrentAnomaly(ctx, vehicleID, oldest.AnomalyDescription)
}

// Delete removes a log; only admins or the owner may delete it.
func (s *TripLogService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !principal.IsAdmin() && log.UserID != principal.UserID {
		return ErrPermissionDenied
	}
	return s.logs.Delete(ctx, id)
}

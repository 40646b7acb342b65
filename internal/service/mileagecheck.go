package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type MileageCheckStore interface {
	Create(ctx context.Context, c model.MileageCheck) (*model.MileageCheck, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MileageCheck, error)
}

// MileageCheckService records manual odometer attestations.
type MileageCheckService struct {
	checks   MileageCheckStore
	vehicles VehicleReader
	mileage  MileageValidator
}

func NewMileageCheckService(checks MileageCheckStore, vehicles VehicleReader, mileage MileageValidator) *MileageCheckService {
	return &MileageCheckService{checks: checks, vehicles: vehicles, mileage: mileage}
}

type MileageCheckInput struct {
	Date  time.Time
	Km    int
	Notes *string
}

func (s *MileageCheckService) Create(ctx context.Context, principal model.Principal, vehicleID uuid.UUID, input MileageCheckInput) (*model.MileageCheck, error) {
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.Km < 0 {
		return nil, fmt.Errorf("%w: km must not be negative", ErrInvalidInput)
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.mileage.ValidateEntry(ctx, vehicleID, input.Date, input.Km); err != nil {
		return nil, err
	}

	return s.checks.Create(ctx, model.MileageCheck{
		VehicleID: vehicleID,
		UserID:    principal.UserID,
		Date:      input.Date,
		Km:        input.Km,
		Notes:     input.Notes,
	})
}

func (s *MileageCheckService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MileageCheck, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.checks.ListByVehicle(ctx, vehicleID)
}

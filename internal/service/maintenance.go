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

type MaintenanceStore interface {
	CreateWithResolutions(ctx context.Context, rec model.MaintenanceRecord, resolvedIDs []uuid.UUID) (*model.MaintenanceRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error)
	Update(ctx context.Context, rec model.MaintenanceRecord) (*model.MaintenanceRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error)
}

// MaintenanceService records maintenance events and drives the transactional
// resolution of reported anomalies.
type MaintenanceService struct {
	records  MaintenanceStore
	vehicles VehicleReader
	mileage  MileageValidator
}

func NewMaintenanceService(records MaintenanceStore, vehicles VehicleReader, mileage MileageValidator) *MaintenanceService {
	return &MaintenanceService{records: records, vehicles: vehicles, mileage: mileage}
}

type MaintenanceInput struct {
	Date                time.Time
	Type                model.MaintenanceType
	Cost                *float64
	Mileage             int
	Notes               *string
	TireType            *model.TireType
	TireStorageLocation *string
	ResolvedAnomalyIDs  []uuid.UUID
}

func (s *MaintenanceService) Create(ctx context.Context, vehicleID uuid.UUID, input MaintenanceInput) (*model.MaintenanceRecord, error) {
	rec, err := s.buildRecord(vehicleID, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.mileage.ValidateEntry(ctx, vehicleID, rec.Date, rec.Mileage); err != nil {
		return nil, err
	}

	saved, err := s.records.CreateWithResolutions(ctx, *rec, input.ResolvedAnomalyIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resolved trip log", ErrNotFound)
		}
		return nil, err
	}
	return saved, nil
}

func (s *MaintenanceService) Update(ctx context.Context, id uuid.UUID, input MaintenanceInput) (*model.MaintenanceRecord, error) {
	existing, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec, err := s.buildRecord(existing.VehicleID, input)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return s.records.Update(ctx, *rec)
}

func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *MaintenanceService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.records.ListByVehicle(ctx, vehicleID)
}

// buildRecord validates the input and conditions the tire fields: they are
// kept only on GOMME records, and the storage location only for seasonal
// tires.
func (s *MaintenanceService) buildRecord(vehicleID uuid.UUID, input MaintenanceInput) (*model.MaintenanceRecord, error) {
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !model.ValidMaintenanceType(input.Type) {
		return nil, fmt.Errorf("%w: invalid maintenance type", ErrInvalidInput)
	}
	if input.Mileage <= 0 {
		return nil, fmt.Errorf("%w: mileage must be positive", ErrInvalidInput)
	}
	if input.Cost != nil && *input.Cost < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}

	rec := &model.MaintenanceRecord{
		VehicleID: vehicleID,
		Date:      input.Date,
		Type:      input.Type,
		Cost:      input.Cost,
		Mileage:   input.Mileage,
		Notes:     input.Notes,
	}

	if input.Type == model.MaintenanceGomme {
		if input.TireType != nil {
			if !model.ValidTireType(*input.TireType) {
				return nil, fmt.Errorf("%w: invalid tire type", ErrInvalidInput)
			}
			rec.TireType = input.TireType
			if *input.TireType != model.TireQuattroStagioni {
				rec.TireStorageLocation = input.TireStorageLocation
			}
		}
	}

	return rec, nil
}

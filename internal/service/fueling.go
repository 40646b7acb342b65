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

type FuelingStore interface {
	Create(ctx context.Context, f model.FuelingRecord) (*model.FuelingRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FuelingRecord, error)
	Update(ctx context.Context, f model.FuelingRecord) (*model.FuelingRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error)
	ListForPeriod(ctx context.Context, from, to time.Time, vehicleIDs []uuid.UUID) ([]model.FuelingRecord, error)
}

// FuelingExporter renders a fueling listing as a spreadsheet.
type FuelingExporter interface {
	Generate(records []model.FuelingRecord, from, to time.Time) ([]byte, error)
}

type FuelingService struct {
	fuelings FuelingStore
	vehicles VehicleReader
	mileage  MileageValidator
	exporter FuelingExporter
}

func NewFuelingService(fuelings FuelingStore, vehicles VehicleReader, mileage MileageValidator, exporter FuelingExporter) *FuelingService {
	return &FuelingService{fuelings: fuelings, vehicles: vehicles, mileage: mileage, exporter: exporter}
}

type FuelingInput struct {
	Date    time.Time
	Liters  float64
	Cost    float64
	Mileage int
	Notes   *string
}

func validateFuelingInput(input FuelingInput) error {
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.Liters <= 0 {
		return fmt.Errorf("%w: liters must be positive", ErrInvalidInput)
	}
	if input.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	if input.Mileage <= 0 {
		return fmt.Errorf("%w: mileage must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *FuelingService) Create(ctx context.Context, principal model.Principal, vehicleID uuid.UUID, input FuelingInput) (*model.FuelingRecord, error) {
	if err := validateFuelingInput(input); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.mileage.ValidateEntry(ctx, vehicleID, input.Date, input.Mileage); err != nil {
		return nil, err
	}

	return s.fuelings.Create(ctx, model.FuelingRecord{
		VehicleID: vehicleID,
		UserID:    principal.UserID,
		Date:      input.Date,
		Liters:    input.Liters,
		Cost:      input.Cost,
		Mileage:   input.Mileage,
		Notes:     input.Notes,
	})
}

func (s *FuelingService) Update(ctx context.Context, id uuid.UUID, input FuelingInput) (*model.FuelingRecord, error) {
	if err := validateFuelingInput(input); err != nil {
		return nil, err
	}

	existing, err := s.fuelings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing.Date = input.Date
	existing.Liters = input.Liters
	existing.Cost = input.Cost
	existing.Mileage = input.Mileage
	existing.Notes = input.Notes
	return s.fuelings.Update(ctx, *existing)
}

func (s *FuelingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.fuelings.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *FuelingService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.fuelings.ListByVehicle(ctx, vehicleID)
}

func (s *FuelingService) ListForPeriod(ctx context.Context, from, to time.Time, vehicleIDs []uuid.UUID) ([]model.FuelingRecord, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: start date must be before or equal to end date", ErrInvalidInput)
	}
	return s.fuelings.ListForPeriod(ctx, from, to, vehicleIDs)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// Export renders the filtered fueling listing as an xlsx attachment.
func (s *FuelingService) Export(ctx context.Context, from, to time.Time, vehicleIDs []uuid.UUID) (*ExportResult, error) {
	records, err := s.ListForPeriod(ctx, from, to, vehicleIDs)
	if err != nil {
		return nil, err
	}

	content, err := s.exporter.Generate(records, from, to)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("rifornimenti-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

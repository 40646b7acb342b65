package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type fakeFuelingStore struct {
	records map[uuid.UUID]*model.FuelingRecord
}

func newFakeFuelingStore() *fakeFuelingStore {
	return &fakeFuelingStore{records: map[uuid.UUID]*model.FuelingRecord{}}
}

func (f *fakeFuelingStore) Create(_ context.Context, rec model.FuelingRecord) (*model.FuelingRecord, error) {
	rec.ID = uuid.New()
	f.records[rec.ID] = &rec
	copied := rec
	return &copied, nil
}

func (f *fakeFuelingStore) GetByID(_ context.Context, id uuid.UUID) (*model.FuelingRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeFuelingStore) Update(_ context.Context, rec model.FuelingRecord) (*model.FuelingRecord, error) {
	if _, ok := f.records[rec.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f.records[rec.ID] = &rec
	copied := rec
	return &copied, nil
}

func (f *fakeFuelingStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeFuelingStore) ListByVehicle(_ context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error) {
	var result []model.FuelingRecord
	for _, rec := range f.records {
		if rec.VehicleID == vehicleID {
			result = append(result, *rec)
		}
	}
	return result, nil
}

func (f *fakeFuelingStore) ListForPeriod(_ context.Context, from, to time.Time, vehicleIDs []uuid.UUID) ([]model.FuelingRecord, error) {
	var result []model.FuelingRecord
	for _, rec := range f.records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		if len(vehicleIDs) > 0 {
			found := false
			for _, id := range vehicleIDs {
				if rec.VehicleID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, *rec)
	}
	return result, nil
}

type fakeExporter struct{ periods [][2]time.Time }

func (f *fakeExporter) Generate(_ []model.FuelingRecord, from, to time.Time) ([]byte, error) {
	f.periods = append(f.periods, [2]time.Time{from, to})
	return []byte("xlsx"), nil
}

func fuelingFixture() (*FuelingService, *fakeFuelingStore, *fakeExporter, *model.Vehicle) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	store := newFakeFuelingStore()
	exporter := &fakeExporter{}
	svc := NewFuelingService(store, &fakeVehicles{vehicle: vehicle}, &fakeMileageValidator{}, exporter)
	return svc, store, exporter, vehicle
}

func TestCreateFuelingValidation(t *testing.T) {
	svc, _, _, vehicle := fuelingFixture()
	principal := employee()

	valid := FuelingInput{Date: day("2025-03-10"), Liters: 42.5, Cost: 80, Mileage: 50100}

	cases := []struct {
		name   string
		mutate func(*FuelingInput)
	}{
		{"missing date", func(in *FuelingInput) { in.Date = time.Time{} }},
		{"zero liters", func(in *FuelingInput) { in.Liters = 0 }},
		{"negative cost", func(in *FuelingInput) { in.Cost = -1 }},
		{"zero mileage", func(in *FuelingInput) { in.Mileage = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), principal, vehicle.ID, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	rec, err := svc.Create(context.Background(), principal, vehicle.ID, valid)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, rec.UserID)
	assert.Equal(t, vehicle.ID, rec.VehicleID)
}

func TestCreateFuelingUnknownVehicle(t *testing.T) {
	svc, _, _, _ := fuelingFixture()

	_, err := svc.Create(context.Background(), employee(), uuid.New(), FuelingInput{
		Date: day("2025-03-10"), Liters: 42.5, Mileage: 50100,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForPeriodValidation(t *testing.T) {
	svc, _, _, _ := fuelingFixture()

	_, err := svc.ListForPeriod(context.Background(), time.Time{}, day("2025-03-31"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListForPeriod(context.Background(), day("2025-03-31"), day("2025-03-01"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportFuelings(t *testing.T) {
	svc, _, exporter, vehicle := fuelingFixture()

	_, err := svc.Create(context.Background(), employee(), vehicle.ID, FuelingInput{
		Date: day("2025-03-10"), Liters: 42.5, Mileage: 50100,
	})
	require.NoError(t, err)

	result, err := svc.Export(context.Background(), day("2025-03-01"), day("2025-03-31"), nil)
	require.NoError(t, err)
	assert.Equal(t, "rifornimenti-20250301-20250331.xlsx", result.FileName)
	assert.Equal(t, []byte("xlsx"), result.Content)
	require.Len(t, exporter.periods, 1)
}

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

type fakeMaintenanceStore struct {
	records        map[uuid.UUID]*model.MaintenanceRecord
	resolvedIDs    []uuid.UUID
	failResolution bool
}

func newFakeMaintenanceStore() *fakeMaintenanceStore {
	return &fakeMaintenanceStore{records: map[uuid.UUID]*model.MaintenanceRecord{}}
}

func (f *fakeMaintenanceStore) CreateWithResolutions(_ context.Context, rec model.MaintenanceRecord, resolvedIDs []uuid.UUID) (*model.MaintenanceRecord, error) {
	if f.failResolution {
		return nil, gorm.ErrRecordNotFound
	}
	rec.ID = uuid.New()
	f.records[rec.ID] = &rec
	f.resolvedIDs = append(f.resolvedIDs, resolvedIDs...)
	copied := rec
	return &copied, nil
}

func (f *fakeMaintenanceStore) GetByID(_ context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeMaintenanceStore) Update(_ context.Context, rec model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	if _, ok := f.records[rec.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f.records[rec.ID] = &rec
	copied := rec
	return &copied, nil
}

func (f *fakeMaintenanceStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeMaintenanceStore) ListByVehicle(_ context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	var result []model.MaintenanceRecord
	for _, rec := range f.records {
		if rec.VehicleID == vehicleID {
			result = append(result, *rec)
		}
	}
	return result, nil
}

func maintenanceFixture() (*MaintenanceService, *fakeMaintenanceStore, *model.Vehicle) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	store := newFakeMaintenanceStore()
	svc := NewMaintenanceService(store, &fakeVehicles{vehicle: vehicle}, &fakeMileageValidator{})
	return svc, store, vehicle
}

func TestCreateMaintenanceValidation(t *testing.T) {
	svc, _, vehicle := maintenanceFixture()

	valid := MaintenanceInput{
		Date:    day("2025-03-10"),
		Type:    model.MaintenanceTagliando,
		Mileage: 50000,
	}

	cases := []struct {
		name   string
		mutate func(*MaintenanceInput)
	}{
		{"missing date", func(in *MaintenanceInput) { in.Date = time.Time{} }},
		{"invalid type", func(in *MaintenanceInput) { in.Type = "CARROZZERIA" }},
		{"zero mileage", func(in *MaintenanceInput) { in.Mileage = 0 }},
		{"negative cost", func(in *MaintenanceInput) { in.Cost = ptr(-1.0) }},
		{"invalid tire type", func(in *MaintenanceInput) { in.Type = model.MaintenanceGomme; in.TireType = ptr(model.TireType("CHIODATE")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), vehicle.ID, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	rec, err := svc.Create(context.Background(), vehicle.ID, valid)
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceTagliando, rec.Type)
}

func TestCreateMaintenanceTireFields(t *testing.T) {
	svc, _, vehicle := maintenanceFixture()

	// seasonal tires keep their storage location
	rec, err := svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:                day("2025-03-10"),
		Type:                model.MaintenanceGomme,
		Mileage:             50000,
		TireType:            ptr(model.TireInvernali),
		TireStorageLocation: ptr("warehouse B"),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.TireType)
	assert.Equal(t, model.TireInvernali, *rec.TireType)
	require.NotNil(t, rec.TireStorageLocation)
	assert.Equal(t, "warehouse B", *rec.TireStorageLocation)

	// all-season tires are never stored away
	rec, err = svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:                day("2025-03-10"),
		Type:                model.MaintenanceGomme,
		Mileage:             50000,
		TireType:            ptr(model.TireQuattroStagioni),
		TireStorageLocation: ptr("warehouse B"),
	})
	require.NoError(t, err)
	assert.Nil(t, rec.TireStorageLocation)

	// tire fields are dropped entirely for other maintenance types
	rec, err = svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:                day("2025-03-10"),
		Type:                model.MaintenanceMeccanica,
		Mileage:             50000,
		TireType:            ptr(model.TireEstive),
		TireStorageLocation: ptr("warehouse B"),
	})
	require.NoError(t, err)
	assert.Nil(t, rec.TireType)
	assert.Nil(t, rec.TireStorageLocation)
}

func TestCreateMaintenancePassesResolutions(t *testing.T) {
	svc, store, vehicle := maintenanceFixture()

	resolved := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:               day("2025-03-10"),
		Type:               model.MaintenanceMeccanica,
		Mileage:            50000,
		ResolvedAnomalyIDs: resolved,
	})
	require.NoError(t, err)
	assert.Equal(t, resolved, store.resolvedIDs)
}

func TestCreateMaintenanceUnknownResolvedLog(t *testing.T) {
	svc, store, vehicle := maintenanceFixture()
	store.failResolution = true

	_, err := svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:               day("2025-03-10"),
		Type:               model.MaintenanceMeccanica,
		Mileage:            50000,
		ResolvedAnomalyIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMaintenanceClearsTireFieldsOnTypeChange(t *testing.T) {
	svc, _, vehicle := maintenanceFixture()

	rec, err := svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:                day("2025-03-10"),
		Type:                model.MaintenanceGomme,
		Mileage:             50000,
		TireType:            ptr(model.TireInvernali),
		TireStorageLocation: ptr("warehouse B"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), rec.ID, MaintenanceInput{
		Date:    day("2025-03-10"),
		Type:    model.MaintenanceTagliando,
		Mileage: 50000,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TireType)
	assert.Nil(t, updated.TireStorageLocation)
}

func TestMaintenanceRegressionPropagates(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	regression := &MileageRegressionError{Attempted: 40000, LastKnownKm: 50000, LastKnownDate: day("2025-03-01")}
	svc := NewMaintenanceService(newFakeMaintenanceStore(), &fakeVehicles{vehicle: vehicle}, &fakeMileageValidator{err: regression})

	_, err := svc.Create(context.Background(), vehicle.ID, MaintenanceInput{
		Date:    day("2025-03-10"),
		Type:    model.MaintenanceTagliando,
		Mileage: 40000,
	})
	var got *MileageRegressionError
	assert.ErrorAs(t, err, &got)
}

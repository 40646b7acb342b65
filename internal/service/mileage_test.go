package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matte1240/app-mezzi/internal/model"
)

func newMileageFixture(vehicle *model.Vehicle) (*MileageService, *fakeVehicles, *fakeTripStream, *fakeFuelingStream, *fakeWorkStream, *fakeCheckStream) {
	vehicles := &fakeVehicles{vehicle: vehicle}
	trips := &fakeTripStream{}
	fuelings := &fakeFuelingStream{}
	works := &fakeWorkStream{}
	checks := &fakeCheckStream{}
	svc := NewMileageService(vehicles, trips, fuelings, works, checks)
	return svc, vehicles, trips, fuelings, works, checks
}

func TestResolveLastKnownLatestDateWins(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, trips, fuelings, works, checks := newMileageFixture(vehicle)

	trips.latest = &model.TripLog{Date: day("2025-03-10"), InitialKm: 50000, FinalKm: ptr(50120)}
	fuelings.latest = &model.FuelingRecord{Date: day("2025-03-12"), Mileage: 50180}
	works.latest = &model.MaintenanceRecord{Date: day("2025-02-01"), Mileage: 49000}
	checks.latest = &model.MileageCheck{Date: day("2025-03-01"), Km: 49900}

	last, err := svc.ResolveLastKnown(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 50180, last.Km)
	assert.Equal(t, day("2025-03-12"), last.AsOf)
}

func TestResolveLastKnownSameDateTakesMaxKm(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, trips, fuelings, _, _ := newMileageFixture(vehicle)

	// refuel mid-trip: both streams dated the same day
	trips.latest = &model.TripLog{Date: day("2025-03-10"), InitialKm: 50000, FinalKm: ptr(50120)}
	fuelings.latest = &model.FuelingRecord{Date: day("2025-03-10"), Mileage: 50060}

	last, err := svc.ResolveLastKnown(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 50120, last.Km)
	assert.Equal(t, day("2025-03-10"), last.AsOf)
}

func TestResolveLastKnownOpenTripUsesInitialKm(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, trips, _, _, _ := newMileageFixture(vehicle)

	trips.latest = &model.TripLog{Date: day("2025-03-10"), InitialKm: 50000}

	last, err := svc.ResolveLastKnown(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000, last.Km)
}

func TestResolveLastKnownNoRecords(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, _, _, _ := newMileageFixture(vehicle)

	last, err := svc.ResolveLastKnown(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, last.Km)
	assert.True(t, last.AsOf.IsZero())
}

func TestResolveLastKnownUnknownVehicle(t *testing.T) {
	svc, _, _, _, _, _ := newMileageFixture(&model.Vehicle{ID: uuid.New()})

	_, err := svc.ResolveLastKnown(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateEntryRejectsRegression(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, fuelings, _, _ := newMileageFixture(vehicle)
	fuelings.latest = &model.FuelingRecord{Date: day("2025-03-12"), Mileage: 50180}

	err := svc.ValidateEntry(context.Background(), vehicle.ID, day("2025-03-15"), 50100)
	var regression *MileageRegressionError
	require.ErrorAs(t, err, &regression)
	assert.Equal(t, 50100, regression.Attempted)
	assert.Equal(t, 50180, regression.LastKnownKm)
	assert.Equal(t, day("2025-03-12"), regression.LastKnownDate)
}

func TestValidateEntryAcceptsEqualKm(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, fuelings, _, _ := newMileageFixture(vehicle)
	fuelings.latest = &model.FuelingRecord{Date: day("2025-03-12"), Mileage: 50180}

	assert.NoError(t, svc.ValidateEntry(context.Background(), vehicle.ID, day("2025-03-15"), 50180))
}

func TestValidateEntrySkipsBackdatedEntries(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, fuelings, _, _ := newMileageFixture(vehicle)
	fuelings.latest = &model.FuelingRecord{Date: day("2025-03-12"), Mileage: 50180}

	// dated before the last known record: accepted without any check
	assert.NoError(t, svc.ValidateEntry(context.Background(), vehicle.ID, day("2025-03-01"), 10))
}

func TestStatsAnnualAverage(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, vehicles, _, fuelings, _, checks := newMileageFixture(vehicle)

	first := day("2024-01-01")
	vehicles.firstEvent = &first
	checks.latest = &model.MileageCheck{Date: day("2025-01-01"), Km: 14600}
	fuelings.latest = &model.FuelingRecord{Date: day("2024-06-01"), Mileage: 7000}
	svc.now = func() time.Time { return day("2025-01-01") }

	stats, err := svc.Stats(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 14600, stats.LastKnown.Km)
	// 366 days of history, 14600 km -> ~14560 km/year
	assert.InDelta(t, 14560, stats.AnnualAvgKm, 1)
}

func TestStatsShortHistoryClampsToLastKnown(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, vehicles, _, _, _, checks := newMileageFixture(vehicle)

	first := day("2025-03-01")
	vehicles.firstEvent = &first
	checks.latest = &model.MileageCheck{Date: day("2025-03-10"), Km: 500}
	svc.now = func() time.Time { return day("2025-03-15") }

	stats, err := svc.Stats(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, stats.AnnualAvgKm)
}

func TestStatsConsumption(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, fuelings, _, _ := newMileageFixture(vehicle)

	fuelings.byMileage = []model.FuelingRecord{
		{Mileage: 50000, Liters: 40},
		{Mileage: 50500, Liters: 35},
		{Mileage: 51000, Liters: 30},
	}

	stats, err := svc.Stats(context.Background(), vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, stats.AvgConsumption)
	// 65 liters over 1000 km, the first fueling only anchors the distance
	assert.InDelta(t, 6.5, *stats.AvgConsumption, 0.001)
}

func TestStatsConsumptionEdgeCases(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	svc, _, _, fuelings, _, _ := newMileageFixture(vehicle)

	fuelings.byMileage = []model.FuelingRecord{{Mileage: 50000, Liters: 40}}
	stats, err := svc.Stats(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, stats.AvgConsumption)

	fuelings.byMileage = []model.FuelingRecord{
		{Mileage: 50000, Liters: 40},
		{Mileage: 50000, Liters: 35},
	}
	stats, err = svc.Stats(context.Background(), vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, stats.AvgConsumption)
}

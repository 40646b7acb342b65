package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type fakeTripLogStore struct {
	logs map[uuid.UUID]*model.TripLog
}

func newFakeTripLogStore(logs ...*model.TripLog) *fakeTripLogStore {
	store := &fakeTripLogStore{logs: map[uuid.UUID]*model.TripLog{}}
	for _, l := range logs {
		store.logs[l.ID] = l
	}
	return store
}

func (f *fakeTripLogStore) Create(_ context.Context, l model.TripLog) (*model.TripLog, error) {
	l.ID = uuid.New()
	f.logs[l.ID] = &l
	copied := l
	return &copied, nil
}

func (f *fakeTripLogStore) GetByID(_ context.Context, id uuid.UUID) (*model.TripLog, error) {
	l, ok := f.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeTripLogStore) Update(_ context.Context, l model.TripLog) (*model.TripLog, error) {
	if _, ok := f.logs[l.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f.logs[l.ID] = &l
	copied := l
	return &copied, nil
}

func (f *fakeTripLogStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.logs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeTripLogStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.TripLog, error) {
	var result []model.TripLog
	for _, l := range f.logs {
		if l.UserID == userID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeTripLogStore) unresolved(vehicleID, excludeID uuid.UUID) []*model.TripLog {
	var result []*model.TripLog
	for _, l := range f.logs {
		if l.VehicleID == vehicleID && l.HasAnomaly && !l.IsResolved && l.ID != excludeID {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (f *fakeTripLogStore) ListUnresolved(_ context.Context, vehicleID uuid.UUID) ([]model.UnresolvedAnomaly, error) {
	var result []model.UnresolvedAnomaly
	for _, l := range f.unresolved(vehicleID, uuid.Nil) {
		desc := ""
		if l.AnomalyDescription != nil {
			desc = *l.AnomalyDescription
		}
		result = append(result, model.UnresolvedAnomaly{ID: l.ID, Date: l.Date, Description: desc})
	}
	return result, nil
}

func (f *fakeTripLogStore) CountUnresolved(_ context.Context, vehicleID, excludeID uuid.UUID) (int64, error) {
	return int64(len(f.unresolved(vehicleID, excludeID))), nil
}

func (f *fakeTripLogStore) OldestUnresolved(_ context.Context, vehicleID, excludeID uuid.UUID) (*model.TripLog, error) {
	unresolved := f.unresolved(vehicleID, excludeID)
	if len(unresolved) == 0 {
		return nil, nil
	}
	copied := *unresolved[0]
	return &copied, nil
}

func tripLogFixture() (*TripLogService, *fakeTripLogStore, *fakeVehicles, *model.Vehicle) {
	vehicle := &model.Vehicle{ID: uuid.New(), Plate: "AB123CD", Status: model.VehicleStatusActive}
	vehicles := &fakeVehicles{vehicle: vehicle}
	store := newFakeTripLogStore()
	svc := NewTripLogService(store, vehicles, &fakeMileageValidator{})
	return svc, store, vehicles, vehicle
}

func employee() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleEmployee}
}

func admin() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
}

func TestCreateTripLogValidation(t *testing.T) {
	svc, _, _, vehicle := tripLogFixture()
	principal := employee()

	valid := CreateTripLogInput{
		VehicleID: vehicle.ID,
		Date:      day("2025-03-10"),
		InitialKm: 100,
		StartTime: "08:30",
	}

	cases := []struct {
		name   string
		mutate func(*CreateTripLogInput)
	}{
		{"missing vehicle", func(in *CreateTripLogInput) { in.VehicleID = uuid.Nil }},
		{"missing date", func(in *CreateTripLogInput) { in.Date = time.Time{} }},
		{"negative initial km", func(in *CreateTripLogInput) { in.InitialKm = -1 }},
		{"final below initial", func(in *CreateTripLogInput) { in.FinalKm = ptr(50) }},
		{"bad start time", func(in *CreateTripLogInput) { in.StartTime = "8h30" }},
		{"bad end time", func(in *CreateTripLogInput) { in.EndTime = ptr("25:00") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), principal, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	log, err := svc.Create(context.Background(), principal, valid)
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, log.UserID)
}

func TestCreateTripLogUnknownVehicle(t *testing.T) {
	svc, _, _, _ := tripLogFixture()

	_, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID: uuid.New(),
		Date:      day("2025-03-10"),
		StartTime: "08:30",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTripLogRegressionPropagates(t *testing.T) {
	vehicle := &model.Vehicle{ID: uuid.New()}
	vehicles := &fakeVehicles{vehicle: vehicle}
	regression := &MileageRegressionError{Attempted: 90, LastKnownKm: 100, LastKnownDate: day("2025-03-01")}
	svc := NewTripLogService(newFakeTripLogStore(), vehicles, &fakeMileageValidator{err: regression})

	_, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID: vehicle.ID,
		Date:      day("2025-03-10"),
		InitialKm: 90,
		StartTime: "08:30",
	})
	var got *MileageRegressionError
	assert.ErrorAs(t, err, &got)
}

func TestCreateTripLogSetsBannerOnAnomaly(t *testing.T) {
	svc, _, vehicles, vehicle := tripLogFixture()

	_, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID:          vehicle.ID,
		Date:               day("2025-03-10"),
		InitialKm:          100,
		StartTime:          "08:30",
		HasAnomaly:         true,
		AnomalyDescription: ptr("strange noise"),
	})
	require.NoError(t, err)
	require.NotNil(t, vehicles.lastBanner())
	assert.Equal(t, "strange noise", *vehicles.lastBanner())
}

func TestCreateTripLogLastReporterWins(t *testing.T) {
	svc, _, vehicles, vehicle := tripLogFixture()

	for _, desc := range []string{"first fault", "second fault"} {
		_, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
			VehicleID:          vehicle.ID,
			Date:               day("2025-03-10"),
			InitialKm:          100,
			StartTime:          "08:30",
			HasAnomaly:         true,
			AnomalyDescription: ptr(desc),
		})
		require.NoError(t, err)
	}
	require.NotNil(t, vehicles.lastBanner())
	assert.Equal(t, "second fault", *vehicles.lastBanner())
}

func TestUpdateTripLogPermission(t *testing.T) {
	svc, store, _, vehicle := tripLogFixture()
	owner := employee()

	log, err := svc.Create(context.Background(), owner, CreateTripLogInput{
		VehicleID: vehicle.ID,
		Date:      day("2025-03-10"),
		InitialKm: 100,
		StartTime: "08:30",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), employee(), log.ID, UpdateTripLogInput{FinalKm: ptr(150)})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(context.Background(), admin(), log.ID, UpdateTripLogInput{FinalKm: ptr(150)})
	require.NoError(t, err)
	require.NotNil(t, updated.FinalKm)
	assert.Equal(t, 150, *updated.FinalKm)
	assert.Equal(t, 150, store.logs[log.ID].Mileage())
}

func TestResolveAnomalyClearsBannerWhenLast(t *testing.T) {
	svc, _, vehicles, vehicle := tripLogFixture()

	log, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID:          vehicle.ID,
		Date:               day("2025-03-10"),
		InitialKm:          100,
		StartTime:          "08:30",
		HasAnomaly:         true,
		AnomalyDescription: ptr("flat tire"),
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveAnomaly(context.Background(), log.ID, day("2025-03-11"))
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, day("2025-03-11"), *resolved.ResolvedAt)
	assert.Nil(t, vehicles.lastBanner())
}

func TestResolveAnomalyFallsBackToOldestRemaining(t *testing.T) {
	svc, _, vehicles, vehicle := tripLogFixture()

	var logs []*model.TripLog
	for _, entry := range []struct {
		date string
		desc string
	}{
		{"2025-03-01", "oldest fault"},
		{"2025-03-05", "middle fault"},
		{"2025-03-10", "newest fault"},
	} {
		log, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
			VehicleID:          vehicle.ID,
			Date:               day(entry.date),
			InitialKm:          100,
			StartTime:          "08:30",
			HasAnomaly:         true,
			AnomalyDescription: ptr(entry.desc),
		})
		require.NoError(t, err)
		logs = append(logs, log)
	}

	// the banner shows the newest report until something is resolved
	require.NotNil(t, vehicles.lastBanner())
	assert.Equal(t, "newest fault", *vehicles.lastBanner())

	_, err := svc.ResolveAnomaly(context.Background(), logs[0].ID, day("2025-03-12"))
	require.NoError(t, err)
	require.NotNil(t, vehicles.lastBanner())
	assert.Equal(t, "middle fault", *vehicles.lastBanner())
}

func TestResolveAnomalyIdempotent(t *testing.T) {
	svc, store, _, vehicle := tripLogFixture()

	log, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID:          vehicle.ID,
		Date:               day("2025-03-10"),
		InitialKm:          100,
		StartTime:          "08:30",
		HasAnomaly:         true,
		AnomalyDescription: ptr("flat tire"),
	})
	require.NoError(t, err)

	first, err := svc.ResolveAnomaly(context.Background(), log.ID, day("2025-03-11"))
	require.NoError(t, err)

	second, err := svc.ResolveAnomaly(context.Background(), log.ID, day("2025-03-20"))
	require.NoError(t, err)
	assert.Equal(t, first.ResolvedAt, second.ResolvedAt)
	assert.Equal(t, day("2025-03-11"), *store.logs[log.ID].ResolvedAt)
}

func TestReportAnomalyReopensLog(t *testing.T) {
	svc, _, vehicles, vehicle := tripLogFixture()

	log, err := svc.Create(context.Background(), employee(), CreateTripLogInput{
		VehicleID: vehicle.ID,
		Date:      day("2025-03-10"),
		InitialKm: 100,
		StartTime: "08:30",
	})
	require.NoError(t, err)

	reported, err := svc.ReportAnomaly(context.Background(), log.ID, "brakes squeal")
	require.NoError(t, err)
	assert.True(t, reported.HasAnomaly)
	assert.False(t, reported.IsResolved)
	assert.Nil(t, reported.ResolvedAt)
	require.NotNil(t, vehicles.lastBanner())
	assert.Equal(t, "brakes squeal", *vehicles.lastBanner())

	_, err = svc.ReportAnomaly(context.Background(), log.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteTripLogPermission(t *testing.T) {
	svc, store, _, vehicle := tripLogFixture()
	owner := employee()

	log, err := svc.Create(context.Background(), owner, CreateTripLogInput{
		VehicleID: vehicle.ID,
		Date:      day("2025-03-10"),
		InitialKm: 100,
		StartTime: "08:30",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), employee(), log.ID), ErrPermissionDenied)
	require.NoError(t, svc.Delete(context.Background(), owner, log.ID))
	assert.Empty(t, store.logs)
}

func TestListTripLogsScopedToCaller(t *testing.T) {
	svc, _, _, vehicle := tripLogFixture()
	first := employee()
	second := employee()

	for _, p := range []model.Principal{first, first, second} {
		_, err := svc.Create(context.Background(), p, CreateTripLogInput{
			VehicleID: vehicle.ID,
			Date:      day("2025-03-10"),
			InitialKm: 100,
			StartTime: "08:30",
		})
		require.NoError(t, err)
	}

	logs, err := svc.List(context.Background(), first, nil)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// employees cannot list someone else's logs
	logs, err = svc.List(context.Background(), second, &first.UserID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	// admins can
	logs, err = svc.List(context.Background(), admin(), &first.UserID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

// fakeVehicles backs VehicleReader and VehicleBannerStore in tests. Banner
// writes are recorded in order.
type fakeVehicles struct {
	vehicle    *model.Vehicle
	firstEvent *time.Time
	banners    []*string
}

func (f *fakeVehicles) GetByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	if f.vehicle == nil || f.vehicle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	v := *f.vehicle
	return &v, nil
}

func (f *fakeVehicles) FirstEventDate(context.Context, uuid.UUID) (*time.Time, error) {
	return f.firstEvent, nil
}

func (f *fakeVehicles) SetCurrentAnomaly(_ context.Context, _ uuid.UUID, banner *string) error {
	f.banners = append(f.banners, banner)
	if f.vehicle != nil {
		f.vehicle.CurrentAnomaly = banner
	}
	return nil
}

func (f *fakeVehicles) lastBanner() *string {
	if len(f.banners) == 0 {
		return nil
	}
	return f.banners[len(f.banners)-1]
}

type fakeTripStream struct{ latest *model.TripLog }

func (f *fakeTripStream) Latest(context.Context, uuid.UUID) (*model.TripLog, error) {
	return f.latest, nil
}

type fakeFuelingStream struct {
	latest    *model.FuelingRecord
	byMileage []model.FuelingRecord
}

func (f *fakeFuelingStream) Latest(context.Context, uuid.UUID) (*model.FuelingRecord, error) {
	return f.latest, nil
}

func (f *fakeFuelingStream) ListByMileage(context.Context, uuid.UUID) ([]model.FuelingRecord, error) {
	return f.byMileage, nil
}

type fakeWorkStream struct{ latest *model.MaintenanceRecord }

func (f *fakeWorkStream) Latest(context.Context, uuid.UUID) (*model.MaintenanceRecord, error) {
	return f.latest, nil
}

type fakeCheckStream struct{ latest *model.MileageCheck }

func (f *fakeCheckStream) Latest(context.Context, uuid.UUID) (*model.MileageCheck, error) {
	return f.latest, nil
}

// fakeMileageValidator satisfies MileageValidator with a canned result.
type fakeMileageValidator struct{ err error }

func (f *fakeMileageValidator) ValidateEntry(context.Context, uuid.UUID, time.Time, int) error {
	return f.err
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func ptr[T any](v T) *T { return &v }

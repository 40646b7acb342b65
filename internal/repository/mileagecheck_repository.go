package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type MileageCheckRepository struct {
	db *gorm.DB
}

func NewMileageCheckRepository(db *gorm.DB) *MileageCheckRepository {
	return &MileageCheckRepository{db: db}
}

const mileageCheckColumns = `
	id, vehicle_id, user_id, date, km, notes, created_at
`

func (r *MileageCheckRepository) Create(ctx context.Context, c model.MileageCheck) (*model.MileageCheck, error) {
	var saved model.MileageCheck
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO mileage_checks (vehicle_id, user_id, date, km, notes)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+mileageCheckColumns,
		c.VehicleID, c.UserID, c.Date, c.Km, c.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *MileageCheckRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MileageCheck, error) {
	var checks []model.MileageCheck
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+mileageCheckColumns+`
		FROM mileage_checks
		WHERE vehicle_id = ?
		ORDER BY date DESC, km DESC
	`, vehicleID).Scan(&checks).Error
	if err != nil {
		return nil, err
	}
	return checks, nil
}

// Latest returns the most recent check by date, ties broken by km
// descending. Nil when the vehicle has none.
func (r *MileageCheckRepository) Latest(ctx context.Context, vehicleID uuid.UUID) (*model.MileageCheck, error) {
	var c model.MileageCheck
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+mileageCheckColumns+`
		FROM mileage_checks
		WHERE vehicle_id = ?
		ORDER BY date DESC, km DESC
		LIMIT 1
	`, vehicleID).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

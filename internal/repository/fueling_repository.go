package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type FuelingRepository struct {
	db *gorm.DB
}

func NewFuelingRepository(db *gorm.DB) *FuelingRepository {
	return &FuelingRepository{db: db}
}

const fuelingColumns = `
	id, vehicle_id, user_id, date, liters, cost, mileage, notes, created_at
`

func (r *FuelingRepository) Create(ctx context.Context, f model.FuelingRecord) (*model.FuelingRecord, error) {
	var saved model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO fueling_records (vehicle_id, user_id, date, liters, cost, mileage, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+fuelingColumns,
		f.VehicleID, f.UserID, f.Date, f.Liters, f.Cost, f.Mileage, f.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *FuelingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.FuelingRecord, error) {
	var f model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+fuelingColumns+` FROM fueling_records WHERE id = ? LIMIT 1
	`, id).Scan(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

func (r *FuelingRepository) Update(ctx context.Context, f model.FuelingRecord) (*model.FuelingRecord, error) {
	var saved model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		UPDATE fueling_records SET
			date = ?, liters = ?, cost = ?, mileage = ?, notes = ?
		WHERE id = ?
		RETURNING `+fuelingColumns,
		f.Date, f.Liters, f.Cost, f.Mileage, f.Notes, f.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *FuelingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM fueling_records WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FuelingRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error) {
	var records []model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+fuelingColumns+`
		FROM fueling_records
		WHERE vehicle_id = ?
		ORDER BY date DESC, mileage DESC
	`, vehicleID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListForPeriod returns fuelings in [from, to] across the fleet, optionally
// restricted to the given vehicles, with the vehicle identity joined in.
func (r *FuelingRepository) ListForPeriod(ctx context.Context, from, to time.Time, vehicleIDs []uuid.UUID) ([]model.FuelingRecord, error) {
	query := `
		SELECT
			f.id, f.vehicle_id, f.user_id, f.date, f.liters, f.cost,
			f.mileage, f.notes, f.created_at,
			v.plate AS vehicle_plate,
			v.name AS vehicle_name
		FROM fueling_records f
		JOIN vehicles v ON v.id = f.vehicle_id
		WHERE f.date >= ? AND f.date <= ?
	`
	args := []interface{}{from, to}
	if len(vehicleIDs) > 0 {
		query += ` AND f.vehicle_id = ANY(?)`
		args = append(args, vehicleIDs)
	}
	query += ` ORDER BY f.date DESC, f.mileage DESC`

	var records []model.FuelingRecord
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Latest returns the most recent fueling by date, ties broken by mileage
// descending. Nil when the vehicle has none.
func (r *FuelingRepository) Latest(ctx context.Context, vehicleID uuid.UUID) (*model.FuelingRecord, error) {
	var f model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+fuelingColumns+`
		FROM fueling_records
		WHERE vehicle_id = ?
		ORDER BY date DESC, mileage DESC
		LIMIT 1
	`, vehicleID).Scan(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == uuid.Nil {
		return nil, nil
	}
	return &f, nil
}

// ListByMileage returns all fuelings of a vehicle in odometer order, for the
// consumption statistics.
func (r *FuelingRepository) ListByMileage(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error) {
	var records []model.FuelingRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+fuelingColumns+`
		FROM fueling_records
		WHERE vehicle_id = ?
		ORDER BY mileage ASC
	`, vehicleID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

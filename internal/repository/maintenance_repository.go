package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `
	id, vehicle_id, date, type, cost, mileage, notes, tire_type,
	tire_storage_location, created_at
`

// CreateWithResolutions records a maintenance event and closes the given
// anomaly logs in one transaction: the record is created, the logs are
// linked and stamped resolved with the maintenance date (already-resolved
// logs keep their original resolved_at), and the vehicle's anomaly banner is
// recomputed. A missing log id aborts the whole operation.
func (r *MaintenanceRepository) CreateWithResolutions(ctx context.Context, rec model.MaintenanceRecord, resolvedIDs []uuid.UUID) (*model.MaintenanceRecord, error) {
	var saved model.MaintenanceRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO maintenance_records (
				vehicle_id, date, type, cost, mileage, notes,
				tire_type, tire_storage_location
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+maintenanceColumns,
			rec.VehicleID, rec.Date, rec.Type, rec.Cost, rec.Mileage,
			rec.Notes, rec.TireType, rec.TireStorageLocation,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		if len(resolvedIDs) == 0 {
			return nil
		}

		var matching int64
		if err := tx.Raw(`
			SELECT COUNT(*) FROM trip_logs
			WHERE id = ANY(?) AND vehicle_id = ?
		`, resolvedIDs, rec.VehicleID).Scan(&matching).Error; err != nil {
			return err
		}
		if matching != int64(len(resolvedIDs)) {
			return gorm.ErrRecordNotFound
		}

		for _, logID := range resolvedIDs {
			if err := tx.Exec(`
				INSERT INTO maintenance_resolved_logs (maintenance_id, trip_log_id)
				VALUES (?, ?)
			`, saved.ID, logID).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec(`
			UPDATE trip_logs
			SET is_resolved = TRUE,
				resolved_at = COALESCE(resolved_at, ?)
			WHERE id = ANY(?)
		`, rec.Date, resolvedIDs).Error; err != nil {
			return err
		}

		return recomputeAnomalyBanner(tx, rec.VehicleID)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// recomputeAnomalyBanner rewrites the cached banner from the unresolved
// anomaly set: null when empty, otherwise the oldest description.
func recomputeAnomalyBanner(tx *gorm.DB, vehicleID uuid.UUID) error {
	var banner *string
	err := tx.Raw(`
		SELECT anomaly_description
		FROM trip_logs
		WHERE vehicle_id = ?
			AND has_anomaly
			AND NOT is_resolved
		ORDER BY date ASC
		LIMIT 1
	`, vehicleID).Scan(&banner).Error
	if err != nil {
		return err
	}
	return tx.Exec(`
		UPDATE vehicles SET current_anomaly = ?, updated_at = NOW() WHERE id = ?
	`, banner, vehicleID).Error
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = ? LIMIT 1
	`, id).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, rec model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	var saved model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		UPDATE maintenance_records SET
			date = ?, type = ?, cost = ?, mileage = ?, notes = ?,
			tire_type = ?, tire_storage_location = ?
		WHERE id = ?
		RETURNING `+maintenanceColumns,
		rec.Date, rec.Type, rec.Cost, rec.Mileage, rec.Notes,
		rec.TireType, rec.TireStorageLocation, rec.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM maintenance_records WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MaintenanceRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	var records []model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+maintenanceColumns+`
		FROM maintenance_records
		WHERE vehicle_id = ?
		ORDER BY date DESC
	`, vehicleID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Latest returns the most recent maintenance record by date, ties broken by
// mileage descending. Nil when the vehicle has none.
func (r *MaintenanceRepository) Latest(ctx context.Context, vehicleID uuid.UUID) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+maintenanceColumns+`
		FROM maintenance_records
		WHERE vehicle_id = ?
		ORDER BY date DESC, mileage DESC
		LIMIT 1
	`, vehicleID).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, nil
	}
	return &rec, nil
}

// LatestByType returns the most recent record of one maintenance type, nil
// when none exists.
func (r *MaintenanceRepository) LatestByType(ctx context.Context, vehicleID uuid.UUID, t model.MaintenanceType) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+maintenanceColumns+`
		FROM maintenance_records
		WHERE vehicle_id = ? AND type = ?
		ORDER BY date DESC, mileage DESC
		LIMIT 1
	`, vehicleID, t).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, nil
	}
	return &rec, nil
}

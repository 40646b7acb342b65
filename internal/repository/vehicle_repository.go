package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `
	id, plate, name, type, status, ownership_type, service_interval_km,
	registration_date, current_anomaly, notes, created_at, updated_at
`

func (r *VehicleRepository) Create(ctx context.Context, v model.Vehicle) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicles (
			plate, name, type, status, ownership_type,
			service_interval_km, registration_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+vehicleColumns,
		v.Plate, v.Name, v.Type, v.Status, v.OwnershipType,
		v.ServiceIntervalKm, v.RegistrationDate, v.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+vehicleColumns+` FROM vehicles WHERE id = ? LIMIT 1
	`, id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+vehicleColumns+` FROM vehicles WHERE plate = ? LIMIT 1
	`, plate).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC
	`).Scan(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListActive returns ACTIVE vehicles with the reading of their most recent
// trip log, for trip-start forms.
func (r *VehicleRepository) ListActive(ctx context.Context) ([]model.ActiveVehicle, error) {
	var rows []model.ActiveVehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			v.id,
			v.plate,
			v.name,
			v.type,
			COALESCE((
				SELECT COALESCE(l.final_km, l.initial_km)
				FROM trip_logs l
				WHERE l.vehicle_id = v.id
				ORDER BY l.date DESC, l.final_km DESC NULLS LAST
				LIMIT 1
			), 0) AS last_mileage
		FROM vehicles v
		WHERE v.status = 'ACTIVE'
		ORDER BY v.plate ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LastServiceKm returns the mileage of the most recent TAGLIANDO record per
// vehicle, 0 where none exists.
func (r *VehicleRepository) LastServiceKm(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		VehicleID uuid.UUID
		Mileage   int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (vehicle_id) vehicle_id, mileage
		FROM maintenance_records
		WHERE type = 'TAGLIANDO'
		ORDER BY vehicle_id, date DESC, mileage DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		result[row.VehicleID] = row.Mileage
	}
	return result, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v model.Vehicle) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		UPDATE vehicles SET
			plate = ?,
			name = ?,
			type = ?,
			status = ?,
			ownership_type = ?,
			service_interval_km = ?,
			registration_date = ?,
			notes = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING `+vehicleColumns,
		v.Plate, v.Name, v.Type, v.Status, v.OwnershipType,
		v.ServiceIntervalKm, v.RegistrationDate, v.Notes, v.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

// Delete removes the vehicle; events and documents go with it via FK
// cascades.
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FirstEventDate returns the earliest record date across the four event
// streams of a vehicle, nil when it has no history at all.
func (r *VehicleRepository) FirstEventDate(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	var first *time.Time
	err := r.db.WithContext(ctx).Raw(`
		SELECT MIN(date) FROM (
			SELECT date FROM trip_logs WHERE vehicle_id = ?
			UNION ALL
			SELECT date FROM fueling_records WHERE vehicle_id = ?
			UNION ALL
			SELECT date FROM maintenance_records WHERE vehicle_id = ?
			UNION ALL
			SELECT date FROM mileage_checks WHERE vehicle_id = ?
		) events
	`, id, id, id, id).Scan(&first).Error
	if err != nil {
		return nil, err
	}
	return first, nil
}

// SetCurrentAnomaly writes the cached anomaly banner. A nil banner clears it.
func (r *VehicleRepository) SetCurrentAnomaly(ctx context.Context, id uuid.UUID, banner *string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE vehicles SET current_anomaly = ?, updated_at = NOW() WHERE id = ?
	`, banner, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

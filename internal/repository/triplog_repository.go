package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type TripLogRepository struct {
	db *gorm.DB
}

func NewTripLogRepository(db *gorm.DB) *TripLogRepository {
	return &TripLogRepository{db: db}
}

const tripLogColumns = `
	id, vehicle_id, user_id, date, initial_km, final_km, start_time, end_time,
	route, notes, has_anomaly, anomaly_description, is_resolved, resolved_at,
	created_at
`

func (r *TripLogRepository) Create(ctx context.Context, l model.TripLog) (*model.TripLog, error) {
	var saved model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO trip_logs (
			vehicle_id, user_id, date, initial_km, final_km, start_time,
			end_time, route, notes, has_anomaly, anomaly_description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+tripLogColumns,
		l.VehicleID, l.UserID, l.Date, l.InitialKm, l.FinalKm, l.StartTime,
		l.EndTime, l.Route, l.Notes, l.HasAnomaly, l.AnomalyDescription,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TripLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TripLog, error) {
	var l model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+tripLogColumns+` FROM trip_logs WHERE id = ? LIMIT 1
	`, id).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *TripLogRepository) Update(ctx context.Context, l model.TripLog) (*model.TripLog, error) {
	var saved model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		UPDATE trip_logs SET
			final_km = ?,
			end_time = ?,
			route = ?,
			notes = ?,
			has_anomaly = ?,
			anomaly_description = ?,
			is_resolved = ?,
			resolved_at = ?
		WHERE id = ?
		RETURNING `+tripLogColumns,
		l.FinalKm, l.EndTime, l.Route, l.Notes, l.HasAnomaly,
		l.AnomalyDescription, l.IsResolved, l.ResolvedAt, l.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *TripLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM trip_logs WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser returns the user's most recent logs with the vehicle identity
// joined in.
func (r *TripLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.TripLog, error) {
	var logs []model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			l.id, l.vehicle_id, l.user_id, l.date, l.initial_km, l.final_km,
			l.start_time, l.end_time, l.route, l.notes, l.has_anomaly,
			l.anomaly_description, l.is_resolved, l.resolved_at, l.created_at,
			v.plate AS vehicle_plate,
			v.name AS vehicle_name
		FROM trip_logs l
		JOIN vehicles v ON v.id = l.vehicle_id
		WHERE l.user_id = ?
		ORDER BY l.date DESC, l.final_km DESC NULLS LAST
		LIMIT ?
	`, userID, limit).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *TripLogRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.TripLog, error) {
	var logs []model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+tripLogColumns+`
		FROM trip_logs
		WHERE vehicle_id = ?
		ORDER BY date DESC, final_km DESC NULLS LAST
	`, vehicleID).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// Latest returns the most recent log by date, ties broken by final_km
// descending. Nil when the vehicle has no logs.
func (r *TripLogRepository) Latest(ctx context.Context, vehicleID uuid.UUID) (*model.TripLog, error) {
	var l model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+tripLogColumns+`
		FROM trip_logs
		WHERE vehicle_id = ?
		ORDER BY date DESC, final_km DESC NULLS LAST
		LIMIT 1
	`, vehicleID).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

// CountUnresolved counts unresolved anomaly logs for the vehicle, optionally
// excluding one log id (uuid.Nil excludes nothing).
func (r *TripLogRepository) CountUnresolved(ctx context.Context, vehicleID, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM trip_logs
		WHERE vehicle_id = ?
			AND has_anomaly
			AND NOT is_resolved
			AND id <> ?
	`, vehicleID, excludeID).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// OldestUnresolved returns the oldest unresolved anomaly log for the vehicle,
// optionally excluding one id. Nil when none remain.
func (r *TripLogRepository) OldestUnresolved(ctx context.Context, vehicleID, excludeID uuid.UUID) (*model.TripLog, error) {
	var l model.TripLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+tripLogColumns+`
		FROM trip_logs
		WHERE vehicle_id = ?
			AND has_anomaly
			AND NOT is_resolved
			AND id <> ?
		ORDER BY date ASC
		LIMIT 1
	`, vehicleID, excludeID).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

// ListUnresolved returns the open anomaly reports of a vehicle with the
// reporter's name, for the maintenance form.
func (r *TripLogRepository) ListUnresolved(ctx context.Context, vehicleID uuid.UUID) ([]model.UnresolvedAnomaly, error) {
	var rows []model.UnresolvedAnomaly
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			l.id,
			l.date,
			COALESCE(l.anomaly_description, '') AS description,
			u.name AS reporter
		FROM trip_logs l
		JOIN users u ON u.id = l.user_id
		WHERE l.vehicle_id = ?
			AND l.has_anomaly
			AND NOT l.is_resolved
		ORDER BY l.date ASC
	`, vehicleID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `
	id, vehicle_id, document_type, title, year, file_url, file_type,
	expiry_date, notes, created_at
`

func (r *DocumentRepository) Create(ctx context.Context, d model.VehicleDocument) (*model.VehicleDocument, error) {
	var saved model.VehicleDocument
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicle_documents (
			vehicle_id, document_type, title, year, file_url, file_type,
			expiry_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+documentColumns,
		d.VehicleID, d.DocumentType, d.Title, d.Year, d.FileURL, d.FileType,
		d.ExpiryDate, d.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VehicleDocument, error) {
	var d model.VehicleDocument
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+` FROM vehicle_documents WHERE id = ? LIMIT 1
	`, id).Scan(&d).Error
	if err != nil {
		return nil, err
	}
	if d.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *DocumentRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error) {
	var docs []model.VehicleDocument
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM vehicle_documents
		WHERE vehicle_id = ?
		ORDER BY created_at DESC
	`, vehicleID).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FileURLsByVehicle returns the stored file locations of a vehicle's
// documents, used for best-effort cleanup before a cascading delete.
func (r *DocumentRepository) FileURLsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT file_url FROM vehicle_documents WHERE vehicle_id = ?
	`, vehicleID).Scan(&urls).Error
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM vehicle_documents WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

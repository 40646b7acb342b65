package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

var allowedDocumentFileTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

type DocumentStore interface {
	Create(ctx context.Context, d model.VehicleDocument) (*model.VehicleDocument, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.VehicleDocument, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileStore persists uploaded document files and serves their URLs.
type FileStore interface {
	Save(fileName string, data []byte) (string, error)
	Remove(fileURL string) error
}

type DocumentService struct {
	docs     DocumentStore
	vehicles VehicleReader
	files    FileStore
	log      zerolog.Logger
}

func NewDocumentService(docs DocumentStore, vehicles VehicleReader, files FileStore, log zerolog.Logger) *DocumentService {
	return &DocumentService{docs: docs, vehicles: vehicles, files: files, log: log}
}

type UploadDocumentInput struct {
	DocumentType model.DocumentType
	Title        string
	Year         *int
	FileName     string
	ContentType  string
	Data         []byte
	ExpiryDate   *time.Time
	Notes        *string
}

func (s *DocumentService) Upload(ctx context.Context, vehicleID uuid.UUID, input UploadDocumentInput) (*model.VehicleDocument, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if _, ok := allowedDocumentFileTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type, use PDF or images", ErrInvalidInput)
	}
	if !model.ValidDocumentType(input.DocumentType) {
		return nil, fmt.Errorf("%w: invalid document type", ErrInvalidInput)
	}

	title, err := documentTitle(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fileURL, err := s.files.Save(input.FileName, input.Data)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Create(ctx, model.VehicleDocument{
		VehicleID:    vehicleID,
		DocumentType: input.DocumentType,
		Title:        title,
		Year:         input.Year,
		FileURL:      fileURL,
		FileType:     input.ContentType,
		ExpiryDate:   input.ExpiryDate,
		Notes:        input.Notes,
	})
	if err != nil {
		// the record is the source of truth; drop the orphan file
		if removeErr := s.files.Remove(fileURL); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			s.log.Warn().Err(removeErr).Str("file", fileURL).Msg("failed to clean up orphan file")
		}
		return nil, err
	}
	return doc, nil
}

// documentTitle derives the stored title: fixed for the registration
// booklet, year-stamped for insurance, caller-provided otherwise.
func documentTitle(input UploadDocumentInput) (string, error) {
	switch input.DocumentType {
	case model.DocumentLibretto:
		return "Libretto di Circolazione", nil
	case model.DocumentAssicurazione:
		if input.Year == nil {
			return "", fmt.Errorf("%w: year is required for insurance documents", ErrInvalidInput)
		}
		return fmt.Sprintf("Assicurazione %d", *input.Year), nil
	default:
		if input.Title == "" {
			return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		return input.Title, nil
	}
}

func (s *DocumentService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.docs.ListByVehicle(ctx, vehicleID)
}

// Delete removes the record and then the stored file best-effort: a missing
// file is ignored, any other failure is logged and does not undo the delete.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.files.Remove(doc.FileURL); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("file", doc.FileURL).Msg("failed to delete document file")
	}

	return s.docs.Delete(ctx, id)
}

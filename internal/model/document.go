package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentLibretto      DocumentType = "LIBRETTO_CIRCOLAZIONE"
	DocumentAssicurazione DocumentType = "ASSICURAZIONE"
	DocumentAltro         DocumentType = "ALTRO"
)

type VehicleDocument struct {
	ID           uuid.UUID    `json:"id"`
	VehicleID    uuid.UUID    `json:"vehicleId"`
	DocumentType DocumentType `json:"documentType"`
	Title        string       `json:"title"`
	Year         *int         `json:"year"`
	FileURL      string       `json:"fileUrl"`
	FileType     string       `json:"fileType"`
	ExpiryDate   *time.Time   `json:"expiryDate"`
	Notes        *string      `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentLibretto, DocumentAssicurazione, DocumentAltro:
		return true
	}
	return false
}

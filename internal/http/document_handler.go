package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matte1240/app-mezzi/internal/model"
	"github.com/matte1240/app-mezzi/internal/service"
)

func (h *Handler) uploadDocument(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	var year *int
	if raw := strings.TrimSpace(c.PostForm("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = &parsed
	}

	var expiry *string
	if raw := strings.TrimSpace(c.PostForm("expiryDate")); raw != "" {
		expiry = &raw
	}
	expiryDate, err := parseOptionalDate(expiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiryDate"})
		return
	}

	var notes *string
	if raw := strings.TrimSpace(c.PostForm("notes")); raw != "" {
		notes = &raw
	}

	doc, err := h.docs.Upload(c.Request.Context(), vehicleID, service.UploadDocumentInput{
		DocumentType: model.DocumentType(c.PostForm("documentType")),
		Title:        c.PostForm("title"),
		Year:         year,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
		ExpiryDate:   expiryDate,
		Notes:        notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	docs, err := h.docs.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.docs.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

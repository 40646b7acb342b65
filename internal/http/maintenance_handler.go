package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matte1240/app-mezzi/internal/model"
	"github.com/matte1240/app-mezzi/internal/service"
)

type maintenanceRequest struct {
	Date                string   `json:"date" binding:"required"`
	Type                string   `json:"type" binding:"required"`
	Cost                *float64 `json:"cost"`
	Mileage             int      `json:"mileage" binding:"required"`
	Notes               *string  `json:"notes"`
	TireType            *string  `json:"tireType"`
	TireStorageLocation *string  `json:"tireStorageLocation"`
	ResolvedAnomalyIDs  []string `json:"resolvedAnomalyIds"`
}

func (h *Handler) maintenanceInput(c *gin.Context) (*service.MaintenanceInput, bool) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return nil, false
	}

	var tireType *model.TireType
	if req.TireType != nil {
		t := model.TireType(*req.TireType)
		tireType = &t
	}

	resolved := make([]uuid.UUID, 0, len(req.ResolvedAnomalyIDs))
	for _, raw := range req.ResolvedAnomalyIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolvedAnomalyIds"})
			return nil, false
		}
		resolved = append(resolved, id)
	}

	return &service.MaintenanceInput{
		Date:                date,
		Type:                model.MaintenanceType(req.Type),
		Cost:                req.Cost,
		Mileage:             req.Mileage,
		Notes:               req.Notes,
		TireType:            tireType,
		TireStorageLocation: req.TireStorageLocation,
		ResolvedAnomalyIDs:  resolved,
	}, true
}

func (h *Handler) createMaintenance(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}
	input, ok := h.maintenanceInput(c)
	if !ok {
		return
	}

	record, err := h.works.Create(c.Request.Context(), vehicleID, *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) updateMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	input, ok := h.maintenanceInput(c)
	if !ok {
		return
	}

	record, err := h.works.Update(c.Request.Context(), id, *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.works.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listMaintenance(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	records, err := h.works.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

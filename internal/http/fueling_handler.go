package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matte1240/app-mezzi/internal/http/middleware"
	"github.com/matte1240/app-mezzi/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type fuelingRequest struct {
	Date    string  `json:"date" binding:"required"`
	Liters  float64 `json:"liters" binding:"required"`
	Cost    float64 `json:"cost"`
	Mileage int     `json:"mileage" binding:"required"`
	Notes   *string `json:"notes"`
}

func (h *Handler) fuelingInput(c *gin.Context) (*service.FuelingInput, bool) {
	var req fuelingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return nil, false
	}

	return &service.FuelingInput{
		Date:    date,
		Liters:  req.Liters,
		Cost:    req.Cost,
		Mileage: req.Mileage,
		Notes:   req.Notes,
	}, true
}

func (h *Handler) createFueling(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}
	input, ok := h.fuelingInput(c)
	if !ok {
		return
	}

	record, err := h.fuelings.Create(c.Request.Context(), principal, vehicleID, *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) updateFueling(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	input, ok := h.fuelingInput(c)
	if !ok {
		return
	}

	record, err := h.fuelings.Update(c.Request.Context(), id, *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteFueling(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.fuelings.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listVehicleFuelings(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	records, err := h.fuelings.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) fuelingPeriod(c *gin.Context) (from, to time.Time, vehicleIDs []uuid.UUID, ok bool) {
	var err error
	from, err = parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return from, to, nil, false
	}
	to, err = parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return from, to, nil, false
	}

	for _, raw := range strings.Split(c.Query("vehicleIds"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicleIds"})
			return from, to, nil, false
		}
		vehicleIDs = append(vehicleIDs, id)
	}
	return from, to, vehicleIDs, true
}

func (h *Handler) listFuelings(c *gin.Context) {
	from, to, vehicleIDs, ok := h.fuelingPeriod(c)
	if !ok {
		return
	}

	records, err := h.fuelings.ListForPeriod(c.Request.Context(), from, to, vehicleIDs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) exportFuelings(c *gin.Context) {
	from, to, vehicleIDs, ok := h.fuelingPeriod(c)
	if !ok {
		return
	}

	result, err := h.fuelings.Export(c.Request.Context(), from, to, vehicleIDs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

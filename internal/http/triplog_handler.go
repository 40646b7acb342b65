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

type createTripLogRequest struct {
	VehicleID          string  `json:"vehicleId" binding:"required"`
	Date               string  `json:"date" binding:"required"`
	InitialKm          int     `json:"initialKm"`
	FinalKm            *int    `json:"finalKm"`
	StartTime          string  `json:"startTime" binding:"required"`
	EndTime            *string `json:"endTime"`
	Route              *string `json:"route"`
	Notes              *string `json:"notes"`
	HasAnomaly         bool    `json:"hasAnomaly"`
	AnomalyDescription *string `json:"anomalyDescription"`
}

func (h *Handler) createTripLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createTripLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicleID, err := uuid.Parse(strings.TrimSpace(req.VehicleID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicleId"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	log, err := h.trips.Create(c.Request.Context(), principal, service.CreateTripLogInput{
		VehicleID:          vehicleID,
		Date:               date,
		InitialKm:          req.InitialKm,
		FinalKm:            req.FinalKm,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Route:              req.Route,
		Notes:              req.Notes,
		HasAnomaly:         req.HasAnomaly,
		AnomalyDescription: req.AnomalyDescription,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *Handler) listTripLogs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var userID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("userId")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = &parsed
	}

	logs, err := h.trips.List(c.Request.Context(), principal, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

type updateTripLogRequest struct {
	FinalKm            *int    `json:"finalKm"`
	EndTime            *string `json:"endTime"`
	Route              *string `json:"route"`
	Notes              *string `json:"notes"`
	HasAnomaly         *bool   `json:"hasAnomaly"`
	AnomalyDescription *string `json:"anomalyDescription"`
	IsResolved         *bool   `json:"isResolved"`
}

func (h *Handler) updateTripLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateTripLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.trips.Update(c.Request.Context(), principal, id, service.UpdateTripLogInput{
		FinalKm:            req.FinalKm,
		EndTime:            req.EndTime,
		Route:              req.Route,
		Notes:              req.Notes,
		HasAnomaly:         req.HasAnomaly,
		AnomalyDescription: req.AnomalyDescription,
		IsResolved:         req.IsResolved,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) deleteTripLog(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.trips.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reportAnomalyRequest struct {
	Description string `json:"description" binding:"required"`
}

func (h *Handler) reportAnomaly(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reportAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.trips.ReportAnomaly(c.Request.Context(), id, req.Description)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

type resolveAnomalyRequest struct {
	ResolvedAt *string `json:"resolvedAt"`
}

func (h *Handler) resolveAnomaly(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// the body is optional; without it the resolution is stamped now
	var req resolveAnomalyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resolvedAt, err := parseOptionalDate(req.ResolvedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolvedAt"})
		return
	}
	when := time.Now()
	if resolvedAt != nil {
		when = *resolvedAt
	}

	log, err := h.trips.ResolveAnomaly(c.Request.Context(), id, when)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) listUnresolvedAnomalies(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	anomalies, err := h.trips.ListUnresolvedAnomalies(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, anomalies)
}

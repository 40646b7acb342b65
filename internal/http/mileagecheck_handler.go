package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matte1240/app-mezzi/internal/http/middleware"
	"github.com/matte1240/app-mezzi/internal/service"
)

type mileageCheckRequest struct {
	Date  string  `json:"date" binding:"required"`
	Km    int     `json:"km"`
	Notes *string `json:"notes"`
}

func (h *Handler) createMileageCheck(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req mileageCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	check, err := h.checks.Create(c.Request.Context(), principal, vehicleID, service.MileageCheckInput{
		Date:  date,
		Km:    req.Km,
		Notes: req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, check)
}

func (h *Handler) listMileageChecks(c *gin.Context) {
	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	checks, err := h.checks.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matte1240/app-mezzi/internal/model"
	"github.com/matte1240/app-mezzi/internal/service"
)

type vehicleRequest struct {
	Plate             string  `json:"plate" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	Type              string  `json:"type" binding:"required"`
	Status            string  `json:"status"`
	OwnershipType     string  `json:"ownershipType"`
	ServiceIntervalKm int     `json:"serviceIntervalKm"`
	RegistrationDate  *string `json:"registrationDate"`
	Notes             *string `json:"notes"`
}

func (h *Handler) vehicleInput(c *gin.Context) (*service.VehicleInput, bool) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	registration, err := parseOptionalDate(req.RegistrationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registrationDate"})
		return nil, false
	}

	return &service.VehicleInput{
		Plate:             req.Plate,
		Name:              req.Name,
		Type:              req.Type,
		Status:            model.VehicleStatus(req.Status),
		OwnershipType:     model.OwnershipType(req.OwnershipType),
		ServiceIntervalKm: req.ServiceIntervalKm,
		RegistrationDate:  registration,
		Notes:             req.Notes,
	}, true
}

func (h *Handler) createVehicle(c *gin.Context) {
	input, ok := h.vehicleInput(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicles.Create(c.Request.Context(), *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	input, ok := h.vehicleInput(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicles.Update(c.Request.Context(), id, *input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// listVehicles returns the fleet list with derived service annotations.
func (h *Handler) listVehicles(c *gin.Context) {
	fleet, err := h.vehicles.FleetList(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fleet)
}

func (h *Handler) listActiveVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.ListActive(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) getVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.vehicles.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) vehicleHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	history, err := h.vehicles.History(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) vehicleMileage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	stats, err := h.mileage.Stats(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) vehicleServiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	status, err := h.vehicles.ServiceStatus(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) vehicleSheet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.vehicles.Sheet(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matte1240/app-mezzi/internal/http/middleware"
	"github.com/matte1240/app-mezzi/internal/service"
)

type Handler struct {
	users    *service.UserService
	vehicles *service.VehicleService
	trips    *service.TripLogService
	fuelings *service.FuelingService
	works    *service.MaintenanceService
	checks   *service.MileageCheckService
	docs     *service.DocumentService
	mileage  *service.MileageService
	log      zerolog.Logger
}

func NewHandler(
	users *service.UserService,
	vehicles *service.VehicleService,
	trips *service.TripLogService,
	fuelings *service.FuelingService,
	works *service.MaintenanceService,
	checks *service.MileageCheckService,
	docs *service.DocumentService,
	mileage *service.MileageService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		users:    users,
		vehicles: vehicles,
		trips:    trips,
		fuelings: fuelings,
		works:    works,
		checks:   checks,
		docs:     docs,
		mileage:  mileage,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.POST("/auth/login", h.login)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/users", h.listUsers)
	admin.POST("/users", h.createUser)

	protected.GET("/vehicles", h.listVehicles)
	admin.POST("/vehicles", h.createVehicle)
	protected.GET("/vehicles/active", h.listActiveVehicles)
	protected.GET("/vehicles/:id", h.getVehicle)
	admin.PUT("/vehicles/:id", h.updateVehicle)
	admin.DELETE("/vehicles/:id", h.deleteVehicle)
	protected.GET("/vehicles/:id/history", h.vehicleHistory)
	protected.GET("/vehicles/:id/mileage", h.vehicleMileage)
	protected.GET("/vehicles/:id/service-status", h.vehicleServiceStatus)
	protected.GET("/vehicles/:id/sheet.pdf", h.vehicleSheet)
	protected.GET("/vehicles/:id/anomalies", h.listUnresolvedAnomalies)

	protected.GET("/trip-logs", h.listTripLogs)
	protected.POST("/trip-logs", h.createTripLog)
	protected.PUT("/trip-logs/:id", h.updateTripLog)
	protected.DELETE("/trip-logs/:id", h.deleteTripLog)
	protected.POST("/trip-logs/:id/anomaly", h.reportAnomaly)
	protected.POST("/trip-logs/:id/resolve", h.resolveAnomaly)

	protected.GET("/vehicles/:id/refueling", h.listVehicleFuelings)
	protected.POST("/vehicles/:id/refueling", h.createFueling)
	admin.GET("/refueling", h.listFuelings)
	admin.GET("/refueling/export", h.exportFuelings)
	admin.PUT("/refueling/:id", h.updateFueling)
	admin.DELETE("/refueling/:id", h.deleteFueling)

	protected.GET("/vehicles/:id/mileage-checks", h.listMileageChecks)
	protected.POST("/vehicles/:id/mileage-checks", h.createMileageCheck)

	protected.GET("/vehicles/:id/maintenance", h.listMaintenance)
	admin.POST("/vehicles/:id/maintenance", h.createMaintenance)
	admin.PUT("/maintenance/:id", h.updateMaintenance)
	admin.DELETE("/maintenance/:id", h.deleteMaintenance)

	protected.GET("/vehicles/:id/documents", h.listDocuments)
	admin.POST("/vehicles/:id/documents", h.uploadDocument)
	admin.DELETE("/documents/:id", h.deleteDocument)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var regression *service.MileageRegressionError
	switch {
	case errors.As(err, &regression):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         regression.Error(),
			"code":          "MILEAGE_REGRESSION",
			"attempted":     regression.Attempted,
			"lastKnown":     regression.LastKnownKm,
			"lastKnownDate": regression.LastKnownDate.Format("2006-01-02"),
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

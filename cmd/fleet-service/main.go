package main

import (
	"fmt"
	"os"

	"github.com/matte1240/app-mezzi/internal/auth"
	"github.com/matte1240/app-mezzi/internal/config"
	"github.com/matte1240/app-mezzi/internal/db"
	"github.com/matte1240/app-mezzi/internal/excel"
	httphandler "github.com/matte1240/app-mezzi/internal/http"
	"github.com/matte1240/app-mezzi/internal/http/middleware"
	"github.com/matte1240/app-mezzi/internal/logger"
	"github.com/matte1240/app-mezzi/internal/pdf"
	"github.com/matte1240/app-mezzi/internal/repository"
	"github.com/matte1240/app-mezzi/internal/service"
	"github.com/matte1240/app-mezzi/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg.DB.DSN, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.ConnMaxLifetime, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	fileStore, err := storage.NewLocalStore(cfg.Fleet.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file storage")
	}

	userRepo := repository.NewUserRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	tripLogRepo := repository.NewTripLogRepository(database)
	fuelingRepo := repository.NewFuelingRepository(database)
	maintenanceRepo := repository.NewMaintenanceRepository(database)
	mileageCheckRepo := repository.NewMileageCheckRepository(database)
	documentRepo := repository.NewDocumentRepository(database)

	mileageService := service.NewMileageService(vehicleRepo, tripLogRepo, fuelingRepo, maintenanceRepo, mileageCheckRepo)
	tripLogService := service.NewTripLogService(tripLogRepo, vehicleRepo, mileageService)
	fuelingService := service.NewFuelingService(fuelingRepo, vehicleRepo, mileageService, excel.NewGenerator())
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, vehicleRepo, mileageService)
	mileageCheckService := service.NewMileageCheckService(mileageCheckRepo, vehicleRepo, mileageService)
	documentService := service.NewDocumentService(documentRepo, vehicleRepo, fileStore, log)
	vehicleService := service.NewVehicleService(
		vehicleRepo,
		maintenanceRepo,
		tripLogRepo,
		fuelingRepo,
		mileageCheckRepo,
		documentRepo,
		userRepo,
		fileStore,
		mileageService,
		pdf.NewGenerator(),
		cfg.Fleet.DueSoonKm,
		cfg.Fleet.FleetDueSoonKm,
		log,
	)

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(userRepo, tokenIssuer)

	handler := httphandler.NewHandler(
		userService,
		vehicleService,
		tripLogService,
		fuelingService,
		maintenanceService,
		mileageCheckService,
		documentService,
		mileageService,
		log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, fileStore.Dir())

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleet service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

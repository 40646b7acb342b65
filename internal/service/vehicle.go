package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/model"
)

type VehicleStore interface {
	Create(ctx context.Context, v model.Vehicle) (*model.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	List(ctx context.Context) ([]model.Vehicle, error)
	ListActive(ctx context.Context) ([]model.ActiveVehicle, error)
	LastServiceKm(ctx context.Context) (map[uuid.UUID]int, error)
	FirstEventDate(ctx context.Context, id uuid.UUID) (*time.Time, error)
	Update(ctx context.Context, v model.Vehicle) (*model.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MaintenanceHistory interface {
	LatestByType(ctx context.Context, vehicleID uuid.UUID, t model.MaintenanceType) (*model.MaintenanceRecord, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error)
}

type TripLogHistory interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.TripLog, error)
}

type FuelingHistory interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelingRecord, error)
}

type MileageCheckHistory interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.MileageCheck, error)
}

type DocumentFiles interface {
	FileURLsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]string, error)
}

type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// FileRemover deletes a stored document file by its URL. Missing files are
// reported as fs.ErrNotExist.
type FileRemover interface {
	Remove(fileURL string) error
}

type MileageResolver interface {
	ResolveLastKnown(ctx context.Context, vehicleID uuid.UUID) (model.LastKnownMileage, error)
}

// SheetGenerator renders the printable vehicle sheet.
type SheetGenerator interface {
	Generate(sheet model.VehicleSheet) ([]byte, error)
}

// VehicleService owns vehicle CRUD plus the derived service-status and
// history projections.
type VehicleService struct {
	vehicles VehicleStore
	works    MaintenanceHistory
	trips    TripLogHistory
	fuelings FuelingHistory
	checks   MileageCheckHistory
	docs     DocumentFiles
	users    UserLister
	files    FileRemover
	mileage  MileageResolver
	sheets   SheetGenerator
	log      zerolog.Logger

	dueSoonKm      int
	fleetDueSoonKm int
	now            func() time.Time
}

func NewVehicleService(
	vehicles VehicleStore,
	works MaintenanceHistory,
	trips TripLogHistory,
	fuelings FuelingHistory,
	checks MileageCheckHistory,
	docs DocumentFiles,
	users UserLister,
	files FileRemover,
	mileage MileageResolver,
	sheets SheetGenerator,
	dueSoonKm, fleetDueSoonKm int,
	log zerolog.Logger,
) *VehicleService {
	return &VehicleService{
		vehicles:       vehicles,
		works:          works,
		trips:          trips,
		fuelings:       fuelings,
		checks:         checks,
		docs:           docs,
		users:          users,
		files:          files,
		mileage:        mileage,
		sheets:         sheets,
		log:            log,
		dueSoonKm:      dueSoonKm,
		fleetDueSoonKm: fleetDueSoonKm,
		now:            time.Now,
	}
}

type VehicleInput struct {
	Plate             string
	Name              string
	Type              string
	Status            model.VehicleStatus
	OwnershipType     model.OwnershipType
	ServiceIntervalKm int
	RegistrationDate  *time.Time
	Notes             *string
}

func (s *VehicleService) Create(ctx context.Context, input VehicleInput) (*model.Vehicle, error) {
	if err := validateVehicleInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.vehicles.GetByPlate(ctx, input.Plate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a vehicle with this plate already exists", ErrConflict)
	}

	return s.vehicles.Create(ctx, model.Vehicle{
		Plate:             input.Plate,
		Name:              input.Name,
		Type:              input.Type,
		Status:            input.Status,
		OwnershipType:     input.OwnershipType,
		ServiceIntervalKm: input.ServiceIntervalKm,
		RegistrationDate:  input.RegistrationDate,
		Notes:             input.Notes,
	})
}

func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*model.Vehicle, error) {
	if err := validateVehicleInput(&input); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	withPlate, err := s.vehicles.GetByPlate(ctx, input.Plate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if withPlate != nil && withPlate.ID != id {
		return nil, fmt.Errorf("%w: another vehicle with this plate already exists", ErrConflict)
	}

	vehicle.Plate = input.Plate
	vehicle.Name = input.Name
	vehicle.Type = input.Type
	vehicle.Status = input.Status
	vehicle.OwnershipType = input.OwnershipType
	vehicle.ServiceIntervalKm = input.ServiceIntervalKm
	vehicle.RegistrationDate = input.RegistrationDate
	vehicle.Notes = input.Notes

	return s.vehicles.Update(ctx, *vehicle)
}

func (s *VehicleService) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *VehicleService) ListActive(ctx context.Context) ([]model.ActiveVehicle, error) {
	return s.vehicles.ListActive(ctx)
}

// Delete removes the vehicle with its events and documents. Document files
// are removed best-effort first: a missing file is ignored, any other
// failure is logged and does not block the delete.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vehicles.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	urls, err := s.docs.FileURLsByVehicle(ctx, id)
	if err != nil {
		return err
	}
	for _, url := range urls {
		if err := s.files.Remove(url); err != nil {
			s.log.Warn().Err(err).Str("file", url).Msg("failed to delete document file")
		}
	}

	return s.vehicles.Delete(ctx, id)
}

// ServiceStatus computes the derived due projection for the vehicle detail
// page, using the detail-page due-soon threshold.
func (s *VehicleService) ServiceStatus(ctx context.Context, id uuid.UUID) (*model.ServiceStatus, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	last, err := s.mileage.ResolveLastKnown(ctx, id)
	if err != nil {
		return nil, err
	}

	lastService, err := s.works.LatestByType(ctx, id, model.MaintenanceTagliando)
	if err != nil {
		return nil, err
	}
	lastServiceKm := 0
	if lastService != nil {
		lastServiceKm = lastService.Mileage
	}

	lastRevision, err := s.works.LatestByType(ctx, id, model.MaintenanceRevisione)
	if err != nil {
		return nil, err
	}
	var lastRevisionDate *time.Time
	if lastRevision != nil {
		lastRevisionDate = &lastRevision.Date
	}

	nextService := lastServiceKm + vehicle.ServiceIntervalKm
	kmToService := nextService - last.Km

	return &model.ServiceStatus{
		NextServiceKm:    nextService,
		KmToService:      kmToService,
		Band:             dueBand(kmToService, s.dueSoonKm),
		NextRevisionDate: nextRevisionDate(lastRevisionDate, vehicle.RegistrationDate, s.now()),
	}, nil
}

// FleetList annotates every vehicle with its service data, using the wider
// fleet-list due-soon threshold.
func (s *VehicleService) FleetList(ctx context.Context) ([]model.FleetVehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	serviceKms, err := s.vehicles.LastServiceKm(ctx)
	if err != nil {
		return nil, err
	}

	fleet := make([]model.FleetVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		last, err := s.mileage.ResolveLastKnown(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		lastServiceKm := serviceKms[v.ID]
		kmToService := lastServiceKm + v.ServiceIntervalKm - last.Km
		fleet = append(fleet, model.FleetVehicle{
			Vehicle:       v,
			LastServiceKm: lastServiceKm,
			LastKnownKm:   last.Km,
			ServiceBand:   dueBand(kmToService, s.fleetDueSoonKm),
		})
	}
	return fleet, nil
}

// History merges the four event streams of a vehicle into one timeline,
// newest first.
func (s *VehicleService) History(ctx context.Context, id uuid.UUID) ([]model.HistoryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	logs, err := s.trips.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	fuelings, err := s.fuelings.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	works, err := s.works.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	checks, err := s.checks.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	nameOf := func(id uuid.UUID) *string {
		if name, ok := names[id]; ok {
			return &name
		}
		return nil
	}

	entries := make([]model.HistoryEntry, 0, len(logs)+len(fuelings)+len(works)+len(checks))
	for i := range logs {
		l := logs[i]
		desc := ""
		if l.Route != nil {
			desc = *l.Route
		}
		entries = append(entries, model.HistoryEntry{
			Kind:        model.HistoryTripLog,
			Date:        l.Date,
			Mileage:     l.Mileage(),
			UserName:    nameOf(l.UserID),
			Description: desc,
			TripLog:     &l,
		})
	}
	for i := range fuelings {
		f := fuelings[i]
		entries = append(entries, model.HistoryEntry{
			Kind:        model.HistoryRefuel,
			Date:        f.Date,
			Mileage:     f.Mileage,
			UserName:    nameOf(f.UserID),
			Description: fmt.Sprintf("%.2f L", f.Liters),
			Fueling:     &f,
		})
	}
	for i := range works {
		w := works[i]
		entries = append(entries, model.HistoryEntry{
			Kind:        model.HistoryMaintenance,
			Date:        w.Date,
			Mileage:     w.Mileage,
			Description: string(w.Type),
			Maintenance: &w,
		})
	}
	for i := range checks {
		c := checks[i]
		entries = append(entries, model.HistoryEntry{
			Kind:         model.HistoryMileageCheck,
			Date:         c.Date,
			Mileage:      c.Km,
			UserName:     nameOf(c.UserID),
			MileageCheck: &c,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// sheetHistoryLimit caps the timeline rows printed on the vehicle sheet.
const sheetHistoryLimit = 20

// Sheet renders the printable PDF for a vehicle.
func (s *VehicleService) Sheet(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	last, err := s.mileage.ResolveLastKnown(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := s.ServiceStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(history) > sheetHistoryLimit {
		history = history[:sheetHistoryLimit]
	}

	content, err := s.sheets.Generate(model.VehicleSheet{
		Vehicle:     *vehicle,
		LastKnown:   last,
		Status:      *status,
		History:     history,
		GeneratedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("scheda-%s.pdf", vehicle.Plate),
		Content:  content,
	}, nil
}

func validateVehicleInput(input *VehicleInput) error {
	if input.Plate == "" {
		return fmt.Errorf("%w: plate is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = model.VehicleStatusActive
	}
	if !model.ValidVehicleStatus(input.Status) {
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if input.OwnershipType == "" {
		input.OwnershipType = model.OwnershipOwned
	}
	if !model.ValidOwnershipType(input.OwnershipType) {
		return fmt.Errorf("%w: invalid ownership type", ErrInvalidInput)
	}
	if input.ServiceIntervalKm == 0 {
		input.ServiceIntervalKm = model.DefaultServiceIntervalKm
	}
	if input.ServiceIntervalKm < 0 {
		return fmt.Errorf("%w: service interval must be positive", ErrInvalidInput)
	}
	return nil
}

func dueBand(kmToService, dueSoonKm int) model.ServiceBand {
	switch {
	case kmToService < 0:
		return model.ServiceOverdue
	case kmToService < dueSoonKm:
		return model.ServiceDueSoon
	default:
		return model.ServiceRegular
	}
}

// nextRevisionDate projects the next legal revision: two years after the
// last one, or for never-revised vehicles four years after registration and
// then every two years until the date lands in the future. Unknown when
// neither anchor exists.
func nextRevisionDate(lastRevision, registration *time.Time, now time.Time) *time.Time {
	if lastRevision != nil {
		next := lastRevision.AddDate(2, 0, 0)
		return &next
	}
	if registration == nil {
		return nil
	}
	next := registration.AddDate(4, 0, 0)
	for next.Before(now) {
		next = next.AddDate(2, 0, 0)
	}
	return &next
}

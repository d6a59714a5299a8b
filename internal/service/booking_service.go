package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/entities"
	apperrors "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/errors"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
)

// BookingStore is the persistence surface the booking flow needs.
// *repository.AppointmentRepository satisfies it.
type BookingStore interface {
	CreateBooking(ctx context.Context, req *entities.BookingRequest) (string, error)
	GetAppointment(ctx context.Context, id string) (*entities.AppointmentDetails, error)
	GetAppointmentsByDate(ctx context.Context, from, to time.Time) ([]entities.AppointmentDetails, error)
	GetAppointmentsByCustomer(ctx context.Context, customerID string) ([]entities.AppointmentDetails, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
	CountOverlapping(ctx context.Context, slot entities.Slot) (int, error)
}

// CatalogStore is the service-catalog surface. *repository.ServiceRepository
// satisfies it.
type CatalogStore interface {
	GetActiveServices(ctx context.Context) ([]db.Service, error)
	GetServiceByID(ctx context.Context, id string) (*db.Service, error)
	GetServicesByIDs(ctx context.Context, ids []string) ([]db.Service, error)
}

type BookingService struct {
	store   BookingStore
	catalog CatalogStore
	log     *zap.Logger
}

func NewBookingService(store BookingStore, catalog CatalogStore, log *zap.Logger) *BookingService {
	return &BookingService{store: store, catalog: catalog, log: log}
}

// CreateBooking validates the payload, normalizes the duration against the
// catalog and runs the transactional booking write. On success it returns the
// composed appointment.
func (s *BookingService) CreateBooking(ctx context.Context, req *entities.BookingRequest) (*entities.AppointmentDetails, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	duration, err := s.resolveDuration(ctx, req.Appointment)
	if err != nil {
		return nil, err
	}
	req.Appointment.Duration = duration

	id, err := s.store.CreateBooking(ctx, req)
	if errors.Is(err, repository.ErrSlotTaken) {
		return nil, apperrors.Conflict("Selected time slot is not available")
	}
	if err != nil {
		s.log.Error("booking transaction failed", zap.Error(err))
		return nil, apperrors.Internal("Failed to create appointment")
	}

	details, err := s.store.GetAppointment(ctx, id)
	if err != nil || details == nil {
		s.log.Error("failed to load created appointment", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to create appointment")
	}
	return details, nil
}

// CheckAvailability reports whether the slot can be booked. Fail-closed: a
// data-layer error is logged and reported as unavailable rather than risking
// a double booking.
func (s *BookingService) CheckAvailability(ctx context.Context, start time.Time, durationMinutes int) bool {
	count, err := s.store.CountOverlapping(ctx, entities.Slot{Start: start, Duration: durationMinutes})
	if err != nil {
		s.log.Error("availability check failed, treating slot as unavailable", zap.Error(err))
		return false
	}
	return count == 0
}

// GetAppointment returns the composed appointment for the id.
func (s *BookingService) GetAppointment(ctx context.Context, id string) (*entities.AppointmentDetails, error) {
	details, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		s.log.Error("failed to fetch appointment", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch appointment")
	}
	if details == nil {
		return nil, apperrors.NotFound("Appointment not found")
	}
	return details, nil
}

// GetAppointmentsByDate lists the appointments starting on the given calendar
// day (UTC), ascending by start time.
func (s *BookingService) GetAppointmentsByDate(ctx context.Context, day time.Time) ([]entities.AppointmentDetails, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	appointments, err := s.store.GetAppointmentsByDate(ctx, from, to)
	if err != nil {
		s.log.Error("failed to list appointments by date", zap.Time("day", from), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch appointments")
	}
	return appointments, nil
}

// GetAppointmentsByCustomer lists a customer's appointments, newest first.
func (s *BookingService) GetAppointmentsByCustomer(ctx context.Context, customerID string) ([]entities.AppointmentDetails, error) {
	appointments, err := s.store.GetAppointmentsByCustomer(ctx, customerID)
	if err != nil {
		s.log.Error("failed to list customer appointments", zap.String("customer", customerID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch appointments")
	}
	return appointments, nil
}

// UpdateStatus moves an appointment to the given status and returns the
// refreshed composed record. The status value is validated before the row's
// existence is checked.
func (s *BookingService) UpdateStatus(ctx context.Context, id, status string) (*entities.AppointmentDetails, error) {
	if !db.ValidStatus(status) {
		return nil, apperrors.BadRequest("Invalid status")
	}

	err := s.store.UpdateAppointmentStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		s.log.Error("failed to update appointment status", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to update appointment status")
	}

	return s.GetAppointment(ctx, id)
}

// resolveDuration computes the appointment duration as the sum of the
// selected services' catalog durations. The client-supplied duration is only
// trusted when no services are selected.
func (s *BookingService) resolveDuration(ctx context.Context, appt *entities.AppointmentInput) (int, error) {
	if len(appt.ServiceIDs) == 0 {
		return appt.Duration, nil
	}

	services, err := s.catalog.GetServicesByIDs(ctx, appt.ServiceIDs)
	if err != nil {
		s.log.Error("failed to resolve booking services", zap.Error(err))
		return 0, apperrors.Internal("Failed to create appointment")
	}

	byID := make(map[string]db.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	total := 0
	for _, id := range appt.ServiceIDs {
		svc, ok := byID[id]
		if !ok {
			return 0, apperrors.BadRequest("Unknown service: " + id)
		}
		total += svc.Duration
	}
	return total, nil
}

func validateBookingRequest(req *entities.BookingRequest) error {
	if req.Customer == nil || req.Vehicle == nil || req.Appointment == nil {
		return apperrors.BadRequest("Customer, vehicle and appointment are required")
	}
	if req.Customer.Name == "" || req.Customer.Phone == "" {
		return apperrors.BadRequest("Customer name and phone are required")
	}
	if req.Vehicle.Year == "" || req.Vehicle.Make == "" || req.Vehicle.Model == "" {
		return apperrors.BadRequest("Vehicle year, make and model are required")
	}
	appt := req.Appointment
	if !db.ValidServiceType(appt.ServiceType) {
		return apperrors.BadRequest("Service type must be 'shop' or 'mobile'")
	}
	if appt.AppointmentDate.IsZero() {
		return apperrors.BadRequest("Appointment date is required")
	}
	if appt.Duration <= 0 && len(appt.ServiceIDs) == 0 {
		return apperrors.BadRequest("Appointment duration or services are required")
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/entities"
	apperrors "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/errors"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
)

// AdminStore is the persistence surface of the admin listing and edits.
// *repository.AppointmentRepository satisfies it.
type AdminStore interface {
	ListAppointments(ctx context.Context, date, status string) ([]entities.AppointmentDetails, error)
	UpdateAppointment(ctx context.Context, id string, upd repository.AppointmentUpdate) error
	GetAppointment(ctx context.Context, id string) (*entities.AppointmentDetails, error)
}

type AdminService struct {
	store AdminStore
	log   *zap.Logger
}

func NewAdminService(store AdminStore, log *zap.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

// ListAppointments lists appointments with optional day (YYYY-MM-DD) and
// status filters, newest first.
func (s *AdminService) ListAppointments(ctx context.Context, date, status string) ([]entities.AppointmentDetails, error) {
	if status != "" && !db.ValidStatus(status) {
		return nil, apperrors.BadRequest("Invalid status")
	}
	appointments, err := s.store.ListAppointments(ctx, date, status)
	if err != nil {
		s.log.Error("admin listing failed", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch appointments")
	}
	if appointments == nil {
		appointments = []entities.AppointmentDetails{}
	}
	return appointments, nil
}

// UpdateAppointment applies an admin edit and returns the refreshed record.
func (s *AdminService) UpdateAppointment(ctx context.Context, id string, upd repository.AppointmentUpdate) (*entities.AppointmentDetails, error) {
	if upd.Status != nil && !db.ValidStatus(*upd.Status) {
		return nil, apperrors.BadRequest("Invalid status")
	}

	err := s.store.UpdateAppointment(ctx, id, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		s.log.Error("admin update failed", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to update appointment")
	}

	details, err := s.store.GetAppointment(ctx, id)
	if err != nil || details == nil {
		s.log.Error("failed to reload updated appointment", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to update appointment")
	}
	return details, nil
}

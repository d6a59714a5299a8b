package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
)

// stalePendingAge is how long a pending appointment may sit unconfirmed
// before the sweep cancels it.
const stalePendingAge = 30 * 24 * time.Hour

// JobStore is the persistence surface of the background sweeps.
// *repository.JobRepository satisfies it.
type JobStore interface {
	GetElapsedAppointmentIDs(ctx context.Context) ([]string, error)
	UpdateAppointmentStatuses(ctx context.Context, ids []string, newStatus string) (int64, error)
	CancelPendingOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type JobService struct {
	store JobStore
	log   *zap.Logger
}

func NewJobService(store JobStore, log *zap.Logger) *JobService {
	return &JobService{store: store, log: log}
}

// CompleteElapsedAppointments marks confirmed and in-progress appointments
// whose slot has fully elapsed as completed.
func (s *JobService) CompleteElapsedAppointments(ctx context.Context) error {
	ids, err := s.store.GetElapsedAppointmentIDs(ctx)
	if err != nil {
		s.log.Error("sweep: failed to find elapsed appointments", zap.Error(err))
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	updated, err := s.store.UpdateAppointmentStatuses(ctx, ids, db.StatusCompleted)
	if err != nil {
		s.log.Error("sweep: failed to complete elapsed appointments", zap.Error(err))
		return err
	}
	s.log.Info("sweep: completed elapsed appointments", zap.Int64("count", updated))
	return nil
}

// CancelStalePending cancels pending appointments that were never confirmed.
func (s *JobService) CancelStalePending(ctx context.Context) error {
	cancelled, err := s.store.CancelPendingOlderThan(ctx, time.Now().UTC().Add(-stalePendingAge))
	if err != nil {
		s.log.Error("sweep: failed to cancel stale pending appointments", zap.Error(err))
		return err
	}
	if cancelled > 0 {
		s.log.Info("sweep: cancelled stale pending appointments", zap.Int64("count", cancelled))
	}
	return nil
}

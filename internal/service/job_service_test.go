package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
)

type fakeJobStore struct {
	elapsedIDs   []string
	updated      map[string]string
	cancelBefore time.Time
	failElapsed  error
}

func (f *fakeJobStore) GetElapsedAppointmentIDs(ctx context.Context) ([]string, error) {
	return f.elapsedIDs, f.failElapsed
}

func (f *fakeJobStore) UpdateAppointmentStatuses(ctx context.Context, ids []string, newStatus string) (int64, error) {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	for _, id := range ids {
		f.updated[id] = newStatus
	}
	return int64(len(ids)), nil
}

func (f *fakeJobStore) CancelPendingOlderThan(ctx context.Context, before time.Time) (int64, error) {
	f.cancelBefore = before
	return 2, nil
}

func TestCompleteElapsedAppointments(t *testing.T) {
	store := &fakeJobStore{elapsedIDs: []string{"appt-1", "appt-2"}}
	svc := NewJobService(store, zap.NewNop())

	if err := svc.CompleteElapsedAppointments(context.Background()); err != nil {
		t.Fatalf("CompleteElapsedAppointments: %v", err)
	}
	if store.updated["appt-1"] != db.StatusCompleted || store.updated["appt-2"] != db.StatusCompleted {
		t.Fatalf("expected both appointments completed, got %v", store.updated)
	}
}

func TestCompleteElapsedAppointmentsNothingToDo(t *testing.T) {
	store := &fakeJobStore{}
	svc := NewJobService(store, zap.NewNop())

	if err := svc.CompleteElapsedAppointments(context.Background()); err != nil {
		t.Fatalf("CompleteElapsedAppointments: %v", err)
	}
	if len(store.updated) != 0 {
		t.Fatalf("expected no updates, got %v", store.updated)
	}
}

func TestCompleteElapsedAppointmentsPropagatesError(t *testing.T) {
	store := &fakeJobStore{failElapsed: errors.New("db down")}
	svc := NewJobService(store, zap.NewNop())

	if err := svc.CompleteElapsedAppointments(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCancelStalePendingCutoff(t *testing.T) {
	store := &fakeJobStore{}
	svc := NewJobService(store, zap.NewNop())

	if err := svc.CancelStalePending(context.Background()); err != nil {
		t.Fatalf("CancelStalePending: %v", err)
	}

	cutoff := time.Now().UTC().Add(-stalePendingAge)
	if diff := store.cancelBefore.Sub(cutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff %v not near expected %v", store.cancelBefore, cutoff)
	}
}

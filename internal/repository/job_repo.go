package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetElapsedAppointmentIDs returns ids of confirmed or in-progress
// appointments whose slot has fully elapsed.
func (r *JobRepository) GetElapsedAppointmentIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT id FROM appointments
		WHERE status IN ('confirmed', 'in_progress')
		  AND appointment_date + make_interval(mins => duration) < NOW()`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying elapsed appointments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateAppointmentStatuses moves a batch of appointments to newStatus.
func (r *JobRepository) UpdateAppointmentStatuses(ctx context.Context, ids []string, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id::text = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating appointment statuses: %w", err)
	}
	return result.RowsAffected()
}

// CancelPendingOlderThan cancels pending appointments created before the
// given time and returns how many were touched.
func (r *JobRepository) CancelPendingOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE appointments SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1`
	result, err := r.DB.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale pending appointments: %w", err)
	}
	return result.RowsAffected()
}

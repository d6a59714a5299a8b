package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
)

type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(database *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: database}
}

const serviceSelect = `
	SELECT id, name, COALESCE(description, ''), duration,
	       COALESCE(base_price::text, ''), available_for_mobile, is_active
	FROM services`

// GetActiveServices returns the bookable catalog.
func (r *ServiceRepository) GetActiveServices(ctx context.Context) ([]db.Service, error) {
	rows, err := r.DB.QueryContext(ctx, serviceSelect+` WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// GetServiceByID returns one catalog entry, or nil if the id is unknown.
func (r *ServiceRepository) GetServiceByID(ctx context.Context, id string) (*db.Service, error) {
	row := r.DB.QueryRowContext(ctx, serviceSelect+` WHERE id::text = $1`, id)
	var s db.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Duration,
		&s.BasePrice, &s.AvailableForMobile, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying service: %w", err)
	}
	return &s, nil
}

// GetServicesByIDs returns the catalog entries for the given ids. Unknown ids
// are simply absent from the result.
func (r *ServiceRepository) GetServicesByIDs(ctx context.Context, ids []string) ([]db.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.QueryContext(ctx, serviceSelect+` WHERE id::text = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying services by ids: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

func scanServices(rows *sql.Rows) ([]db.Service, error) {
	var services []db.Service
	for rows.Next() {
		var s db.Service
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Duration,
			&s.BasePrice, &s.AvailableForMobile, &s.IsActive)
		if err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/entities"
)

// ErrSlotTaken is returned by CreateBooking when the requested time slot
// overlaps an existing non-cancelled appointment.
var ErrSlotTaken = errors.New("time slot already booked")

// ErrNotFound is returned when the target row does not exist.
var ErrNotFound = errors.New("not found")

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

const overlapQuery = `
	SELECT COUNT(*)
	FROM appointments
	WHERE status <> 'cancelled'
	  AND appointment_date < $2
	  AND appointment_date + make_interval(mins => duration) > $1`

// CountOverlapping counts non-cancelled appointments whose interval
// [appointment_date, appointment_date+duration) overlaps the given slot.
func (r *AppointmentRepository) CountOverlapping(ctx context.Context, slot entities.Slot) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, overlapQuery, slot.Start, slot.End()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping appointments: %w", err)
	}
	return count, nil
}

// CreateBooking runs the whole booking write path in one transaction:
// lookup-or-create the customer by phone, insert the vehicle, check the slot,
// insert the appointment with status pending and link the selected services.
// A conflict rolls everything back and returns ErrSlotTaken, so a rejected
// booking leaves no rows behind. An advisory lock on the appointment's
// calendar day serializes concurrent bookings for the same day.
func (r *AppointmentRepository) CreateBooking(ctx context.Context, req *entities.BookingRequest) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	appt := req.Appointment
	day := appt.AppointmentDate.UTC().Format("2006-01-02")
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, day); err != nil {
		return "", fmt.Errorf("error taking booking day lock: %w", err)
	}

	var customerID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM customers WHERE phone = $1`, req.Customer.Phone).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		customerID = uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO customers (id, name, phone, email, address)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))`,
			customerID, req.Customer.Name, req.Customer.Phone, req.Customer.Email, req.Customer.Address)
	}
	if err != nil {
		return "", fmt.Errorf("error resolving customer: %w", err)
	}

	vehicleID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vehicles (id, customer_id, year, make, model, license_plate, vin)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))`,
		vehicleID, customerID, req.Vehicle.Year, req.Vehicle.Make, req.Vehicle.Model,
		req.Vehicle.LicensePlate, req.Vehicle.VIN)
	if err != nil {
		return "", fmt.Errorf("error creating vehicle: %w", err)
	}

	slot := entities.Slot{Start: appt.AppointmentDate, Duration: appt.Duration}
	var conflicts int
	if err := tx.QueryRowContext(ctx, overlapQuery, slot.Start, slot.End()).Scan(&conflicts); err != nil {
		return "", fmt.Errorf("error checking slot availability: %w", err)
	}
	if conflicts > 0 {
		return "", ErrSlotTaken
	}

	appointmentID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments
		(id, customer_id, vehicle_id, service_type, appointment_date, duration, status,
		 service_location, notes, estimated_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, '')::numeric)`,
		appointmentID, customerID, vehicleID, appt.ServiceType, appt.AppointmentDate,
		appt.Duration, db.StatusPending, appt.ServiceLocation, appt.Notes, appt.EstimatedPrice)
	if err != nil {
		return "", fmt.Errorf("error creating appointment: %w", err)
	}

	for _, serviceID := range appt.ServiceIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO appointment_services (id, appointment_id, service_id)
			VALUES ($1, $2, $3)`,
			uuid.NewString(), appointmentID, serviceID)
		if err != nil {
			return "", fmt.Errorf("error linking service %s: %w", serviceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error committing booking: %w", err)
	}
	return appointmentID, nil
}

const appointmentSelect = `
	SELECT
		a.id, a.customer_id, a.vehicle_id, a.service_type, a.appointment_date,
		a.duration, a.status,
		COALESCE(a.service_location, ''), COALESCE(a.notes, ''),
		COALESCE(a.estimated_price::text, ''), COALESCE(a.actual_price::text, ''),
		a.created_at, a.updated_at,
		c.id, c.name, c.phone, COALESCE(c.email, ''), COALESCE(c.address, ''), c.created_at,
		v.id, v.customer_id, v.year, v.make, v.model,
		COALESCE(v.license_plate, ''), COALESCE(v.vin, ''), v.created_at
	FROM appointments a
	JOIN customers c ON a.customer_id = c.id
	JOIN vehicles v ON a.vehicle_id = v.id`

func scanAppointmentDetails(row interface{ Scan(...any) error }) (*entities.AppointmentDetails, error) {
	var d entities.AppointmentDetails
	err := row.Scan(
		&d.ID, &d.Appointment.CustomerID, &d.VehicleID, &d.ServiceType, &d.AppointmentDate,
		&d.Duration, &d.Status,
		&d.ServiceLocation, &d.Notes,
		&d.EstimatedPrice, &d.ActualPrice,
		&d.Appointment.CreatedAt, &d.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Phone, &d.Customer.Email,
		&d.Customer.Address, &d.Customer.CreatedAt,
		&d.Vehicle.ID, &d.Vehicle.CustomerID, &d.Vehicle.Year, &d.Vehicle.Make, &d.Vehicle.Model,
		&d.Vehicle.LicensePlate, &d.Vehicle.VIN, &d.Vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetAppointment returns one composed appointment, or nil if the id is unknown.
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (*entities.AppointmentDetails, error) {
	row := r.DB.QueryRowContext(ctx, appointmentSelect+` WHERE a.id::text = $1`, id)
	details, err := scanAppointmentDetails(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}
	if err := r.attachServices(ctx, []*entities.AppointmentDetails{details}); err != nil {
		return nil, err
	}
	return details, nil
}

// GetAppointmentsByDate returns composed appointments starting within
// [from, to), ascending by start time.
func (r *AppointmentRepository) GetAppointmentsByDate(ctx context.Context, from, to time.Time) ([]entities.AppointmentDetails, error) {
	query := appointmentSelect + `
		WHERE a.appointment_date >= $1 AND a.appointment_date < $2
		ORDER BY a.appointment_date ASC`
	return r.queryAppointments(ctx, query, from, to)
}

// GetAppointmentsByCustomer returns the customer's composed appointments,
// most recent first.
func (r *AppointmentRepository) GetAppointmentsByCustomer(ctx context.Context, customerID string) ([]entities.AppointmentDetails, error) {
	query := appointmentSelect + `
		WHERE a.customer_id::text = $1
		ORDER BY a.appointment_date DESC`
	return r.queryAppointments(ctx, query, customerID)
}

// ListAppointments is the admin listing with optional day and status filters,
// newest first.
func (r *AppointmentRepository) ListAppointments(ctx context.Context, date, status string) ([]entities.AppointmentDetails, error) {
	query := appointmentSelect + ` WHERE 1=1`
	args := []any{}
	idx := 1

	if date != "" {
		query += " AND DATE(a.appointment_date AT TIME ZONE 'UTC') = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND a.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY a.appointment_date DESC"

	return r.queryAppointments(ctx, query, args...)
}

func (r *AppointmentRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]entities.AppointmentDetails, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var refs []*entities.AppointmentDetails
	for rows.Next() {
		details, err := scanAppointmentDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		refs = append(refs, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointments: %w", err)
	}

	if err := r.attachServices(ctx, refs); err != nil {
		return nil, err
	}

	appointments := make([]entities.AppointmentDetails, 0, len(refs))
	for _, ref := range refs {
		appointments = append(appointments, *ref)
	}
	return appointments, nil
}

// attachServices loads the junction rows joined with their catalog entries
// for all given appointments in one query.
func (r *AppointmentRepository) attachServices(ctx context.Context, appointments []*entities.AppointmentDetails) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]string, 0, len(appointments))
	byID := make(map[string]*entities.AppointmentDetails, len(appointments))
	for _, a := range appointments {
		a.Services = []entities.LinkedService{}
		ids = append(ids, a.ID)
		byID[a.ID] = a
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT
			aps.id, aps.appointment_id, aps.service_id,
			s.id, s.name, COALESCE(s.description, ''), s.duration,
			COALESCE(s.base_price::text, ''), s.available_for_mobile, s.is_active
		FROM appointment_services aps
		JOIN services s ON aps.service_id = s.id
		WHERE aps.appointment_id::text = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error querying appointment services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ls entities.LinkedService
		err := rows.Scan(
			&ls.ID, &ls.AppointmentID, &ls.ServiceID,
			&ls.Service.ID, &ls.Service.Name, &ls.Service.Description, &ls.Service.Duration,
			&ls.Service.BasePrice, &ls.Service.AvailableForMobile, &ls.Service.IsActive,
		)
		if err != nil {
			return fmt.Errorf("error scanning appointment service: %w", err)
		}
		if a, ok := byID[ls.AppointmentID]; ok {
			a.Services = append(a.Services, ls)
		}
	}
	return rows.Err()
}

// UpdateAppointmentStatus sets the status and refreshes updated_at.
// Returns ErrNotFound when the id does not exist.
func (r *AppointmentRepository) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id::text = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppointmentUpdate carries the optional admin-editable fields; nil means
// leave unchanged.
type AppointmentUpdate struct {
	Status      *string
	Notes       *string
	ActualPrice *string
}

// UpdateAppointment applies an admin update. Returns ErrNotFound when the id
// does not exist.
func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, id string, upd AppointmentUpdate) error {
	query := `UPDATE appointments SET updated_at = NOW()`
	args := []any{id}
	idx := 2

	if upd.Status != nil {
		query += `, status = $` + strconv.Itoa(idx)
		args = append(args, *upd.Status)
		idx++
	}
	if upd.Notes != nil {
		query += `, notes = NULLIF($` + strconv.Itoa(idx) + `, '')`
		args = append(args, *upd.Notes)
		idx++
	}
	if upd.ActualPrice != nil {
		query += `, actual_price = NULLIF($` + strconv.Itoa(idx) + `, '')::numeric`
		args = append(args, *upd.ActualPrice)
		idx++
	}
	query += ` WHERE id::text = $1`

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating appointment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

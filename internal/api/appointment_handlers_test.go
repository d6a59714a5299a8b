package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/entities"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/service"
)

// memStore is an in-memory stand-in for the appointment repository, honoring
// its contract: phone dedup, interval overlap, all-or-nothing booking writes.
type memStore struct {
	appointments     map[string]*entities.AppointmentDetails
	customersByPhone map[string]db.Customer
	catalog          map[string]db.Service
	nextID           int
}

func newMemStore() *memStore {
	return &memStore{
		appointments:     make(map[string]*entities.AppointmentDetails),
		customersByPhone: make(map[string]db.Customer),
		catalog: map[string]db.Service{
			"svc-oil": {
				ID:                 "svc-oil",
				Name:               "Oil Change & Maintenance",
				Duration:           45,
				BasePrice:          "60.00",
				AvailableForMobile: true,
				IsActive:           true,
			},
			"svc-align": {
				ID:       "svc-align",
				Name:     "Wheel Alignment",
				Duration: 60,
				IsActive: true,
			},
		},
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) CreateBooking(ctx context.Context, req *entities.BookingRequest) (string, error) {
	slot := entities.Slot{Start: req.Appointment.AppointmentDate, Duration: req.Appointment.Duration}
	for _, existing := range m.appointments {
		if existing.Status == db.StatusCancelled {
			continue
		}
		if slot.Overlaps(entities.Slot{Start: existing.AppointmentDate, Duration: existing.Duration}) {
			return "", repository.ErrSlotTaken
		}
	}

	customer, ok := m.customersByPhone[req.Customer.Phone]
	if !ok {
		customer = db.Customer{ID: m.id("cust"), Name: req.Customer.Name, Phone: req.Customer.Phone}
		m.customersByPhone[req.Customer.Phone] = customer
	}

	details := &entities.AppointmentDetails{
		Appointment: db.Appointment{
			ID:              m.id("appt"),
			CustomerID:      customer.ID,
			ServiceType:     req.Appointment.ServiceType,
			AppointmentDate: req.Appointment.AppointmentDate,
			Duration:        req.Appointment.Duration,
			Status:          db.StatusPending,
		},
		Customer: customer,
		Vehicle: db.Vehicle{
			ID:         m.id("veh"),
			CustomerID: customer.ID,
			Year:       req.Vehicle.Year,
			Make:       req.Vehicle.Make,
			Model:      req.Vehicle.Model,
		},
	}
	details.VehicleID = details.Vehicle.ID
	for _, sid := range req.Appointment.ServiceIDs {
		details.Services = append(details.Services, entities.LinkedService{
			AppointmentService: db.AppointmentService{
				ID:            m.id("link"),
				AppointmentID: details.ID,
				ServiceID:     sid,
			},
			Service: m.catalog[sid],
		})
	}
	m.appointments[details.ID] = details
	return details.ID, nil
}

func (m *memStore) GetAppointment(ctx context.Context, id string) (*entities.AppointmentDetails, error) {
	return m.appointments[id], nil
}

func (m *memStore) GetAppointmentsByDate(ctx context.Context, from, to time.Time) ([]entities.AppointmentDetails, error) {
	var out []entities.AppointmentDetails
	for _, a := range m.appointments {
		if !a.AppointmentDate.Before(from) && a.AppointmentDate.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetAppointmentsByCustomer(ctx context.Context, customerID string) ([]entities.AppointmentDetails, error) {
	var out []entities.AppointmentDetails
	for _, a := range m.appointments {
		if a.Appointment.CustomerID == customerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	a, ok := m.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memStore) CountOverlapping(ctx context.Context, slot entities.Slot) (int, error) {
	count := 0
	for _, a := range m.appointments {
		if a.Status == db.StatusCancelled {
			continue
		}
		if slot.Overlaps(entities.Slot{Start: a.AppointmentDate, Duration: a.Duration}) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) GetActiveServices(ctx context.Context) ([]db.Service, error) {
	var out []db.Service
	for _, s := range m.catalog {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetServiceByID(ctx context.Context, id string) (*db.Service, error) {
	s, ok := m.catalog[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) GetServicesByIDs(ctx context.Context, ids []string) ([]db.Service, error) {
	var out []db.Service
	for _, id := range ids {
		if s, ok := m.catalog[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestRouter(store *memStore) *mux.Router {
	logger := zap.NewNop()
	bookingSvc := service.NewBookingService(store, store, logger)
	catalogSvc := service.NewCatalogService(store, logger)

	appointmentHandler := NewAppointmentHandler(bookingSvc)
	serviceHandler := NewServiceHandler(catalogSvc)

	r := mux.NewRouter()
	r.HandleFunc("/api/services", serviceHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/services/{id}", serviceHandler.GetService).Methods("GET")
	r.HandleFunc("/api/appointments", appointmentHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/check-availability", appointmentHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/appointments/date/{date}", appointmentHandler.GetAppointmentsByDate).Methods("GET")
	r.HandleFunc("/api/appointments/customer/{id}", appointmentHandler.GetAppointmentsByCustomer).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", appointmentHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{id}/status", appointmentHandler.UpdateStatus).Methods("PATCH")
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const bookingBody = `{
	"customer": {"name": "John Smith", "phone": "3135550123"},
	"vehicle": {"year": "2020", "make": "Honda", "model": "Civic"},
	"appointment": {
		"serviceType": "shop",
		"appointmentDate": "2026-09-07T12:00:00Z",
		"duration": 60,
		"serviceIds": ["svc-oil"]
	}
}`

func TestBookingEndToEnd(t *testing.T) {
	r := newTestRouter(newMemStore())

	// Book noon next Monday.
	rec := doRequest(t, r, http.MethodPost, "/api/appointments", bookingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created entities.AppointmentDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created appointment: %v", err)
	}
	if created.Status != db.StatusPending {
		t.Fatalf("expected status pending, got %q", created.Status)
	}
	if len(created.Services) != 1 || created.Services[0].ServiceID != "svc-oil" {
		t.Fatalf("expected one linked service svc-oil, got %+v", created.Services)
	}

	// Same slot again conflicts.
	rec = doRequest(t, r, http.MethodPost, "/api/appointments", bookingBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double booking, got %d", rec.Code)
	}

	// The date listing holds exactly the one appointment.
	rec = doRequest(t, r, http.MethodGet, "/api/appointments/date/2026-09-07", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed []entities.AppointmentDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected exactly the created appointment, got %+v", listed)
	}

	// Round-trip by id returns the same composed record.
	rec = doRequest(t, r, http.MethodGet, "/api/appointments/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fetched entities.AppointmentDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode fetched appointment: %v", err)
	}
	if fetched.Customer.ID != created.Customer.ID || fetched.Vehicle.ID != created.Vehicle.ID {
		t.Fatalf("round-trip mismatch: %+v vs %+v", fetched, created)
	}
}

func TestCreateAppointmentMissingSection(t *testing.T) {
	r := newTestRouter(newMemStore())

	body := `{"customer": {"name": "John Smith", "phone": "3135550123"}}`
	rec := doRequest(t, r, http.MethodPost, "/api/appointments", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAppointmentBadJSON(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodPost, "/api/appointments", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetAppointmentNotFound(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodGet, "/api/appointments/appt-unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodPost, "/api/appointments", bookingBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking failed: %d", rec.Code)
	}
	var created entities.AppointmentDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Invalid value fails even for an unknown id.
	rec = doRequest(t, r, http.MethodPatch, "/api/appointments/appt-unknown/status", `{"status": "done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPatch, "/api/appointments/appt-unknown/status", `{"status": "confirmed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPatch, "/api/appointments/"+created.ID+"/status", `{"status": "confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated entities.AppointmentDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != db.StatusConfirmed {
		t.Fatalf("expected confirmed, got %q", updated.Status)
	}
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodPost, "/api/appointments/check-availability", `{"duration": 60}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", rec.Code)
	}

	body := `{"date": "2026-09-07T12:00:00Z", "duration": 60}`
	rec = doRequest(t, r, http.MethodPost, "/api/appointments/check-availability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp entities.AvailabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Available {
		t.Fatalf("expected empty calendar to be available")
	}

	if rec = doRequest(t, r, http.MethodPost, "/api/appointments", bookingBody); rec.Code != http.StatusCreated {
		t.Fatalf("booking failed: %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPost, "/api/appointments/check-availability", body)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available {
		t.Fatalf("expected occupied slot to be unavailable")
	}
}

func TestGetAppointmentsByDateBadDate(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodGet, "/api/appointments/date/not-a-date", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListServicesEndpoint(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doRequest(t, r, http.MethodGet, "/api/services", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var services []db.Service
	if err := json.Unmarshal(rec.Body.Bytes(), &services); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}

	rec = doRequest(t, r, http.MethodGet, "/api/services/svc-missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/entities"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/service"
)

type AppointmentHandler struct {
	Service *service.BookingService
}

func NewAppointmentHandler(svc *service.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	details, err := h.Service.CreateBooking(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, details)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	details, err := h.Service.GetAppointment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *AppointmentHandler) GetAppointmentsByDate(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(mux.Vars(r)["date"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid date format"})
		return
	}

	appointments, err := h.Service.GetAppointmentsByDate(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) GetAppointmentsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]

	appointments, err := h.Service.GetAppointmentsByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	details, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *AppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}
	if req.Date.IsZero() || req.Duration <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Date and duration are required"})
		return
	}

	available := h.Service.CheckAvailability(r.Context(), req.Date, req.Duration)
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{Available: available})
}

// parseDay accepts a calendar day as YYYY-MM-DD or a full RFC 3339 timestamp.
func parseDay(raw string) (time.Time, error) {
	if day, err := time.Parse("2006-01-02", raw); err == nil {
		return day, nil
	}
	return time.Parse(time.RFC3339, raw)
}

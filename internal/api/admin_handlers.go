package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/repository"
	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/service"
)

type AdminHandler struct {
	Service *service.AdminService
	Auth    service.AdminAuthService
}

func NewAdminHandler(svc *service.AdminService, auth service.AdminAuthService) *AdminHandler {
	return &AdminHandler{Service: svc, Auth: auth}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AdminHandler) CreateAdminUser(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.Auth.CreateAdmin(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin user created"})
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")

	appointments, err := h.Service.ListAppointments(r.Context(), date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

func (h *AdminHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	details, err := h.Service.UpdateAppointment(r.Context(), id, repository.AppointmentUpdate{
		Status:      req.Status,
		Notes:       req.Notes,
		ActualPrice: req.ActualPrice,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

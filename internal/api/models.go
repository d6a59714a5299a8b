package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/errors"
)

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type AdminUpdateRequest struct {
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	ActualPrice *string `json:"actualPrice"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP responses. Anything that is not an
// HTTPError is reported as a plain 500.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, ErrorResponse{Message: httpErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}

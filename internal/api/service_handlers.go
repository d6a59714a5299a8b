package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/service"
)

type ServiceHandler struct {
	Catalog *service.CatalogService
}

func NewServiceHandler(catalog *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{Catalog: catalog}
}

func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Catalog.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Catalog.GetService(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

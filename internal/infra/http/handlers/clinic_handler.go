package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

type clinicService interface {
	Create(ctx context.Context, scope *usecase.Scope, input usecase.CreateClinicInput) (*entity.Clinic, error)
	List(ctx context.Context, scope *usecase.Scope) ([]*entity.Clinic, error)
	AssignManager(ctx context.Context, scope *usecase.Scope, input usecase.AssignManagerInput) (*entity.ManagerAssignment, error)
}

type ClinicHandler struct {
	Scopes  ScopeResolver
	Clinics clinicService
}

func NewClinicHandler(scopes ScopeResolver, clinics clinicService) *ClinicHandler {
	return &ClinicHandler{Scopes: scopes, Clinics: clinics}
}

// CreateHandler (POST /clinics)
func (h *ClinicHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	var input usecase.CreateClinicInput
	if !decodeJSON(w, r, &input) {
		return
	}

	clinic, err := h.Clinics.Create(r.Context(), scope, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, clinic)
}

// ListHandler (GET /clinics)
func (h *ClinicHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	clinics, err := h.Clinics.List(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, clinics)
}

// AssignManagerHandler (PUT /clinics/{id}/manager) body: {"email": "..."}
func (h *ClinicHandler) AssignManagerHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	var input usecase.AssignManagerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ClinicID = chi.URLParam(r, "id")

	assignment, err := h.Clinics.AssignManager(r.Context(), scope, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

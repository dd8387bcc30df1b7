package handlers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

const maxImportSize = 5 << 20

type patientRegistrar interface {
	Execute(ctx context.Context, scope *usecase.Scope, input usecase.RegisterPatientInput) (*usecase.RegisterPatientOutput, error)
}

type patientActivator interface {
	Execute(ctx context.Context, scope *usecase.Scope, patientID string) (*usecase.ActivatePatientOutput, error)
}

type patientDeleter interface {
	Execute(ctx context.Context, scope *usecase.Scope, patientID string) error
}

type patientQuerier interface {
	Get(ctx context.Context, scope *usecase.Scope, patientID string) (*entity.Patient, error)
	List(ctx context.Context, scope *usecase.Scope, input usecase.ListPatientsInput) ([]*entity.Patient, error)
}

type patientImporter interface {
	Execute(ctx context.Context, scope *usecase.Scope, r io.Reader) (*usecase.ImportPatientsOutput, error)
}

type PatientHandler struct {
	Scopes   ScopeResolver
	Register patientRegistrar
	Activate patientActivator
	Remove   patientDeleter
	Query    patientQuerier
	Import   patientImporter
}

func NewPatientHandler(
	scopes ScopeResolver,
	register patientRegistrar,
	activate patientActivator,
	remove patientDeleter,
	query patientQuerier,
	importer patientImporter,
) *PatientHandler {
	return &PatientHandler{
		Scopes:   scopes,
		Register: register,
		Activate: activate,
		Remove:   remove,
		Query:    query,
		Import:   importer,
	}
}

type PatientListResponse struct {
	Data  []*entity.Patient `json:"data"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CreateHandler (POST /patients)
func (h *PatientHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	var input usecase.RegisterPatientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.Register.Execute(r.Context(), scope, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

// ListHandler (GET /patients?search=&active=&page=&limit=)
func (h *PatientHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	q := r.URL.Query()
	input := usecase.ListPatientsInput{Search: q.Get("search")}

	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "active deve ser true ou false")
			return
		}
		input.Active = &active
	}
	input.Page, _ = strconv.Atoi(q.Get("page"))
	input.Limit, _ = strconv.Atoi(q.Get("limit"))

	patients, err := h.Query.List(r.Context(), scope, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, limit := usecase.Paginate(input.Page, input.Limit)
	writeJSON(w, http.StatusOK, PatientListResponse{Data: patients, Page: page, Limit: limit})
}

// GetHandler (GET /patients/{id})
func (h *PatientHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	patient, err := h.Query.Get(r.Context(), scope, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, patient)
}

// DeleteHandler (DELETE /patients/{id})
func (h *PatientHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	if err := h.Remove.Execute(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateHandler (POST /patients/{id}/activate)
func (h *PatientHandler) ActivateHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	output, err := h.Activate.Execute(r.Context(), scope, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordPatientActivation(string(output.Kind))
	writeJSON(w, http.StatusOK, output)
}

// ImportHandler (POST /patients/import) accepts a raw text/csv body or a
// multipart form with a "file" field.
func (h *PatientHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var body io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "campo 'file' ausente: "+err.Error())
			return
		}
		defer file.Close()
		body = file
	}

	output, err := h.Import.Execute(r.Context(), scope, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

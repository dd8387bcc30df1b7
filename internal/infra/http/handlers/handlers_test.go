package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

const (
	clinicID  = "6f1c2a5e-8b44-4d2c-9a0e-0d6a1b2c3d4e"
	patientID = "1b7d9e1a-4c2f-4f0e-8a6d-2e3f4a5b6c7d"
)

var managerScope = &usecase.Scope{Role: entity.RoleManager, UserID: "u-1", Email: "gestor@clinica.com", ClinicIDs: []string{clinicID}}

type fakeResolver struct {
	scope *usecase.Scope
	err   error
}

func (f fakeResolver) Resolve(_ context.Context, session *entity.Session) (*usecase.Scope, error) {
	if session == nil {
		return nil, &usecase.DomainError{Code: "UNAUTHORIZED", Message: "sessão ausente", Err: entity.ErrUnauthorized}
	}
	return f.scope, f.err
}

type MockRegistrar struct{ mock.Mock }

func (m *MockRegistrar) Execute(ctx context.Context, scope *usecase.Scope, input usecase.RegisterPatientInput) (*usecase.RegisterPatientOutput, error) {
	args := m.Called(ctx, scope, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RegisterPatientOutput), args.Error(1)
}

type MockActivator struct{ mock.Mock }

func (m *MockActivator) Execute(ctx context.Context, scope *usecase.Scope, id string) (*usecase.ActivatePatientOutput, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ActivatePatientOutput), args.Error(1)
}

type MockDeleter struct{ mock.Mock }

func (m *MockDeleter) Execute(ctx context.Context, scope *usecase.Scope, id string) error {
	return m.Called(ctx, scope, id).Error(0)
}

type MockQuerier struct{ mock.Mock }

func (m *MockQuerier) Get(ctx context.Context, scope *usecase.Scope, id string) (*entity.Patient, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Patient), args.Error(1)
}

func (m *MockQuerier) List(ctx context.Context, scope *usecase.Scope, input usecase.ListPatientsInput) ([]*entity.Patient, error) {
	args := m.Called(ctx, scope, input)
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

type MockImporter struct{ mock.Mock }

func (m *MockImporter) Execute(ctx context.Context, scope *usecase.Scope, r io.Reader) (*usecase.ImportPatientsOutput, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, scope, string(body))
	return args.Get(0).(*usecase.ImportPatientsOutput), args.Error(1)
}

type MockReports struct{ mock.Mock }

func (m *MockReports) Summary(ctx context.Context, scope *usecase.Scope, from, to time.Time) (*usecase.Summary, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Summary), args.Error(1)
}

func (m *MockReports) Monthly(ctx context.Context, scope *usecase.Scope, year int) ([]usecase.MonthlyRevenue, error) {
	args := m.Called(ctx, scope, year)
	return args.Get(0).([]usecase.MonthlyRevenue), args.Error(1)
}

// withSession mimics the auth middleware.
func withSession(r *http.Request) *http.Request {
	s := &entity.Session{UserID: "u-1", Email: "gestor@clinica.com", Role: entity.RoleManager}
	return r.WithContext(middleware.WithSession(r.Context(), s))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func newPatientHandler() (*PatientHandler, *MockRegistrar, *MockActivator, *MockDeleter, *MockQuerier, *MockImporter) {
	reg, act, del, qry, imp := new(MockRegistrar), new(MockActivator), new(MockDeleter), new(MockQuerier), new(MockImporter)
	h := NewPatientHandler(fakeResolver{scope: managerScope}, reg, act, del, qry, imp)
	return h, reg, act, del, qry, imp
}

func TestPatientCreateHandler_Created(t *testing.T) {
	h, reg, _, _, _, _ := newPatientHandler()
	reg.On("Execute", mock.Anything, managerScope, mock.MatchedBy(func(in usecase.RegisterPatientInput) bool {
		return in.Name == "Maria" && in.NumberCards == 2
	})).Return(&usecase.RegisterPatientOutput{ID: patientID, Name: "Maria"}, nil)

	body := `{"name":"Maria","cpf":"52998224725","card_type":"personal","number_cards":2}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	h.CreateHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var out usecase.RegisterPatientOutput
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, patientID, out.ID)
	reg.AssertExpectations(t)
}

func TestPatientCreateHandler_InvalidJSON(t *testing.T) {
	h, reg, _, _, _, _ := newPatientHandler()

	req := withSession(httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader("{nope")))
	rec := httptest.NewRecorder()

	h.CreateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, rec).Error)
	reg.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestPatientHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", entity.ErrPatientNotFound, http.StatusNotFound},
		{"forbidden", &usecase.DomainError{Code: "FORBIDDEN", Message: "fora do escopo", Err: entity.ErrForbidden}, http.StatusForbidden},
		{"conflict", entity.ErrPatientAlreadyExists, http.StatusConflict},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _, _, qry, _ := newPatientHandler()
			qry.On("Get", mock.Anything, managerScope, patientID).Return(nil, tt.err)

			req := withURLParam(withSession(httptest.NewRequest(http.MethodGet, "/patients/"+patientID, nil)), "id", patientID)
			rec := httptest.NewRecorder()

			h.GetHandler(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, decodeError(t, rec).Message, assert.AnError.Error())
			}
		})
	}
}

func TestPatientHandler_NoSession(t *testing.T) {
	h, _, _, _, _, _ := newPatientHandler()

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()

	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPatientListHandler_ParsesQuery(t *testing.T) {
	h, _, _, _, qry, _ := newPatientHandler()
	active := true
	qry.On("List", mock.Anything, managerScope, usecase.ListPatientsInput{Search: "mar", Active: &active, Page: 2, Limit: 10}).
		Return([]*entity.Patient{{ID: patientID, Name: "Maria"}}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/patients?search=mar&active=true&page=2&limit=10", nil))
	rec := httptest.NewRecorder()

	h.ListHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out PatientListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Len(t, out.Data, 1)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 10, out.Limit)
}

func TestPatientListHandler_BadActiveFlag(t *testing.T) {
	h, _, _, _, _, _ := newPatientHandler()

	req := withSession(httptest.NewRequest(http.MethodGet, "/patients?active=talvez", nil))
	rec := httptest.NewRecorder()

	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatientActivateHandler(t *testing.T) {
	h, _, act, _, _, _ := newPatientHandler()
	exp := time.Date(2026, 1, 11, 3, 0, 0, 0, time.UTC)
	act.On("Execute", mock.Anything, managerScope, patientID).Return(&usecase.ActivatePatientOutput{
		PatientID:      patientID,
		Kind:           entity.ActivationEarlyRenewal,
		IsActive:       true,
		ExpirationDate: exp,
		DaysRemaining:  41,
	}, nil)

	req := withURLParam(withSession(httptest.NewRequest(http.MethodPost, "/patients/"+patientID+"/activate", nil)), "id", patientID)
	rec := httptest.NewRecorder()

	h.ActivateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.ActivatePatientOutput
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, entity.ActivationEarlyRenewal, out.Kind)
	assert.True(t, out.ExpirationDate.Equal(exp))
}

func TestPatientDeleteHandler(t *testing.T) {
	h, _, _, del, _, _ := newPatientHandler()
	del.On("Execute", mock.Anything, managerScope, patientID).Return(nil)

	req := withURLParam(withSession(httptest.NewRequest(http.MethodDelete, "/patients/"+patientID, nil)), "id", patientID)
	rec := httptest.NewRecorder()

	h.DeleteHandler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	del.AssertExpectations(t)
}

func TestPatientImportHandler_RawCSV(t *testing.T) {
	h, _, _, _, _, imp := newPatientHandler()
	csv := "name,cpf\nMaria,52998224725\n"
	imp.On("Execute", mock.Anything, managerScope, csv).Return(&usecase.ImportPatientsOutput{Imported: 1}, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/patients/import", strings.NewReader(csv)))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	h.ImportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	imp.AssertExpectations(t)
}

func TestPatientImportHandler_Multipart(t *testing.T) {
	h, _, _, _, _, imp := newPatientHandler()
	csv := "name,cpf\nMaria,52998224725\n"
	imp.On("Execute", mock.Anything, managerScope, csv).Return(&usecase.ImportPatientsOutput{Imported: 1}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "pacientes.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(csv))
	require.NoError(t, mw.Close())

	req := withSession(httptest.NewRequest(http.MethodPost, "/patients/import", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.ImportHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	imp.AssertExpectations(t)
}

func TestPublicRegistrationHandler_RateLimited(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, (*usecase.Scope)(nil), mock.Anything).
		Return(&usecase.RegisterPatientOutput{ID: patientID}, nil)
	h := NewPublicRegistrationHandler(reg, 2)

	body := `{"name":"Maria","seller_id":"s-1"}`
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/public/patients", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.Handle(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	reg.AssertNumberOfCalls(t, "Execute", 2)
}

func TestDashboardSummaryHandler_DefaultRange(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	reports := new(MockReports)
	h := NewDashboardHandler(fakeResolver{scope: managerScope}, reports, loc)
	h.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, loc) }

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	to := time.Date(2025, 3, 16, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	reports.On("Summary", mock.Anything, managerScope, from, to).Return(&usecase.Summary{}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))
	rec := httptest.NewRecorder()

	h.SummaryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	reports.AssertExpectations(t)
}

func TestDashboardSummaryHandler_ExplicitRange(t *testing.T) {
	reports := new(MockReports)
	h := NewDashboardHandler(fakeResolver{scope: managerScope}, reports, time.UTC)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	reports.On("Summary", mock.Anything, managerScope, from, to).Return(&usecase.Summary{}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/summary?from=2025-01-01&to=2025-01-31", nil))
	rec := httptest.NewRecorder()

	h.SummaryHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	reports.AssertExpectations(t)
}

func TestDashboardSummaryHandler_BadDate(t *testing.T) {
	h := NewDashboardHandler(fakeResolver{scope: managerScope}, new(MockReports), time.UTC)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/summary?from=01/01/2025", nil))
	rec := httptest.NewRecorder()

	h.SummaryHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardMonthlyHandler(t *testing.T) {
	reports := new(MockReports)
	h := NewDashboardHandler(fakeResolver{scope: managerScope}, reports, time.UTC)
	reports.On("Monthly", mock.Anything, managerScope, 2024).Return(make([]usecase.MonthlyRevenue, 12), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/monthly?year=2024", nil))
	rec := httptest.NewRecorder()

	h.MonthlyHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Year   int                      `json:"year"`
		Months []usecase.MonthlyRevenue `json:"months"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 2024, out.Year)
	assert.Len(t, out.Months, 12)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeConn struct{ closed bool }

func (f fakeConn) IsClosed() bool { return f.closed }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     pinger
		mq     connectionState
		status int
	}{
		{"all healthy", fakePinger{}, fakeConn{}, http.StatusOK},
		{"queue not configured", fakePinger{}, nil, http.StatusOK},
		{"database down", fakePinger{err: assert.AnError}, fakeConn{}, http.StatusServiceUnavailable},
		{"queue closed", fakePinger{}, fakeConn{closed: true}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.mq)
			rec := httptest.NewRecorder()

			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

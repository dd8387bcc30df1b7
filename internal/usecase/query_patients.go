package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type QueryPatientsUseCase struct {
	Patients entity.PatientRepositoryInterface
}

func NewQueryPatientsUseCase(patients entity.PatientRepositoryInterface) *QueryPatientsUseCase {
	return &QueryPatientsUseCase{Patients: patients}
}

func (uc *QueryPatientsUseCase) Get(ctx context.Context, scope *Scope, patientID string) (*entity.Patient, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionPatientRead) {
		return nil, errForbidden("papel sem permissão para consultar pacientes")
	}
	if !IsValidUUID(patientID) {
		return nil, errValidation("validation failed: id: must be a valid UUID")
	}

	patient, err := uc.Patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao buscar paciente")
	}
	if !scope.Allows(patient) {
		return nil, errForbidden("paciente fora do escopo do usuário")
	}
	return patient, nil
}

func (uc *QueryPatientsUseCase) List(ctx context.Context, scope *Scope, input ListPatientsInput) ([]*entity.Patient, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionPatientRead) {
		return nil, errForbidden("papel sem permissão para consultar pacientes")
	}

	page, limit := Paginate(input.Page, input.Limit)

	filter := scope.PatientFilter()
	filter.Search = strings.TrimSpace(input.Search)
	filter.Active = input.Active
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	if len(filter.ClinicIDs) == 0 {
		return []*entity.Patient{}, nil
	}

	patients, err := uc.Patients.List(ctx, filter)
	if err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao listar pacientes")
	}
	return patients, nil
}

// Paginate clamps page to >= 1 and limit to [1, 100], defaulting to 20.
func Paginate(page, limit int) (int, int) {
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return page, limit
}

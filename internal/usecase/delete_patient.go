package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type DeletePatientUseCase struct {
	Patients entity.PatientRepositoryInterface
}

func NewDeletePatientUseCase(patients entity.PatientRepositoryInterface) *DeletePatientUseCase {
	return &DeletePatientUseCase{Patients: patients}
}

func (uc *DeletePatientUseCase) Execute(ctx context.Context, scope *Scope, patientID string) error {
	if scope == nil {
		return errUnauthorized()
	}
	if !scope.Can(entity.PermissionPatientWrite) {
		return errForbidden("papel sem permissão para remover pacientes")
	}
	if !IsValidUUID(patientID) {
		return errValidation("validation failed: id: must be a valid UUID")
	}

	patient, err := uc.Patients.FindByID(ctx, patientID)
	if err != nil {
		return fromRepository(err, "DATABASE_ERROR", "falha ao buscar paciente")
	}
	if !scope.Allows(patient) {
		return errForbidden("paciente fora do escopo do usuário")
	}

	if err := uc.Patients.Delete(ctx, patient.ID); err != nil {
		return fromRepository(err, "DATABASE_ERROR", "falha ao remover paciente")
	}

	slog.Info("patient deleted", "patient_id", patient.ID, "by", scope.UserID)
	return nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

type ActivatePatientUseCase struct {
	Patients  entity.PatientRepositoryInterface
	Publisher NotificationPublisher
	Calendar  entity.Calendar
	Now       Clock
}

func NewActivatePatientUseCase(
	patients entity.PatientRepositoryInterface,
	publisher NotificationPublisher,
	calendar entity.Calendar,
) *ActivatePatientUseCase {
	return &ActivatePatientUseCase{
		Patients:  patients,
		Publisher: publisher,
		Calendar:  calendar,
	}
}

// Execute activates or renews the patient. The scope check happens before
// any write, so a rejected call leaves the record untouched.
func (uc *ActivatePatientUseCase) Execute(ctx context.Context, scope *Scope, patientID string) (*ActivatePatientOutput, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionPatientWrite) {
		return nil, errForbidden("papel sem permissão para ativar pacientes")
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

	res := patient.Activate(uc.Calendar, uc.Now.now())

	if err := uc.Patients.UpdateSubscription(ctx, patient); err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao ativar paciente")
	}

	slog.Info("patient activated",
		"patient_id", patient.ID,
		"kind", res.Kind,
		"expiration_date", res.ExpirationDate,
		"days_remaining", res.DaysRemaining,
		"by", scope.UserID,
	)

	uc.notify(ctx, patient, res)

	return &ActivatePatientOutput{
		PatientID:      patient.ID,
		Kind:           res.Kind,
		IsActive:       patient.IsActive,
		ActiveAt:       patient.ActiveAt,
		ReactivatedAt:  patient.ReactivatedAt,
		ExpirationDate: res.ExpirationDate,
		DaysRemaining:  res.DaysRemaining,
	}, nil
}

// notify never fails the activation: the record is already saved.
func (uc *ActivatePatientUseCase) notify(ctx context.Context, p *entity.Patient, res entity.ActivationResult) {
	if uc.Publisher == nil {
		return
	}

	kind := queue.KindActivation
	if res.Kind.IsRenewal() {
		kind = queue.KindRenewal
	}

	payload := queue.NotificationPayload{
		Kind:           kind,
		PatientID:      p.ID,
		Name:           p.Name,
		Phone:          p.Phone,
		Email:          p.Email,
		ExpirationDate: res.ExpirationDate,
		DaysRemaining:  res.DaysRemaining,
		Origin:         "ACTIVATION_ENDPOINT",
	}

	if err := uc.Publisher.PublishNotification(ctx, payload); err != nil {
		slog.Warn("patient activated but notification was not queued", "patient_id", p.ID, "error", err)
	}
}

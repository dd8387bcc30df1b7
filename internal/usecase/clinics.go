package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type ClinicUseCase struct {
	Clinics     entity.ClinicRepositoryInterface
	Memberships entity.MembershipRepositoryInterface
	Managers    entity.ManagerRepositoryInterface
}

func NewClinicUseCase(
	clinics entity.ClinicRepositoryInterface,
	memberships entity.MembershipRepositoryInterface,
	managers entity.ManagerRepositoryInterface,
) *ClinicUseCase {
	return &ClinicUseCase{
		Clinics:     clinics,
		Memberships: memberships,
		Managers:    managers,
	}
}

// Create stores the clinic and links its creator to it. If the membership
// cannot be written the clinic is removed again.
func (uc *ClinicUseCase) Create(ctx context.Context, scope *Scope, input CreateClinicInput) (*entity.Clinic, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionClinicWrite) {
		return nil, errForbidden("apenas administradores podem criar clínicas")
	}
	if len(strings.TrimSpace(input.Name)) < 3 {
		return nil, errValidation("validation failed: name: must have at least 3 characters")
	}

	clinic, err := entity.NewClinic(strings.TrimSpace(input.Name), input.CNPJ, input.Phone)
	if err != nil {
		return nil, errValidation(err.Error())
	}

	membership := &entity.ClinicMembership{
		UserID:    scope.UserID,
		ClinicID:  clinic.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	txn := NewTransaction()

	txn.AddOperation("create_clinic", func(ctx context.Context) error {
		return uc.Clinics.Create(ctx, clinic)
	})
	txn.AddCompensation("delete_clinic", func(ctx context.Context) error {
		return uc.Clinics.Delete(ctx, clinic.ID)
	})

	txn.AddOperation("add_membership", func(ctx context.Context) error {
		return uc.Memberships.Add(ctx, membership)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist clinic and membership: " + err.Error(),
			Err:     err,
		}
	}

	slog.Info("clinic created", "clinic_id", clinic.ID, "by", scope.UserID)
	return clinic, nil
}

func (uc *ClinicUseCase) List(ctx context.Context, scope *Scope) ([]*entity.Clinic, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if len(scope.ClinicIDs) == 0 {
		return []*entity.Clinic{}, nil
	}

	clinics, err := uc.Clinics.ListByIDs(ctx, scope.ClinicIDs)
	if err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao listar clínicas")
	}
	return clinics, nil
}

// AssignManager points a gestor e-mail at a clinic the admin can see.
func (uc *ClinicUseCase) AssignManager(ctx context.Context, scope *Scope, input AssignManagerInput) (*entity.ManagerAssignment, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionClinicWrite) {
		return nil, errForbidden("apenas administradores podem definir gestores")
	}

	var errs []ValidationError
	if !IsValidUUID(input.ClinicID) {
		errs = append(errs, ValidationError{"clinic_id", "must be a valid UUID"})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}
	if err := joinValidationErrors(errs); err != nil {
		return nil, err
	}

	if !scope.AllowsClinic(input.ClinicID) {
		return nil, errForbidden("clínica fora do escopo do usuário")
	}

	assignment := &entity.ManagerAssignment{
		Email:     email,
		ClinicID:  input.ClinicID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uc.Managers.Upsert(ctx, assignment); err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao salvar gestor")
	}

	slog.Info("manager assigned", "email", email, "clinic_id", input.ClinicID, "by", scope.UserID)
	return assignment, nil
}

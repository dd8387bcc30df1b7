package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type RegisterPatientUseCase struct {
	Patients entity.PatientRepositoryInterface
	Sellers  entity.SellerRepositoryInterface
}

func NewRegisterPatientUseCase(patients entity.PatientRepositoryInterface, sellers entity.SellerRepositoryInterface) *RegisterPatientUseCase {
	return &RegisterPatientUseCase{Patients: patients, Sellers: sellers}
}

// Execute registers an inactive patient. A nil scope is the public
// self-service form; otherwise the caller's scope bounds the seller and
// clinic the patient may be attributed to.
func (uc *RegisterPatientUseCase) Execute(ctx context.Context, scope *Scope, input RegisterPatientInput) (*RegisterPatientOutput, error) {
	if err := joinValidationErrors(ValidateRegisterPatientInput(input)); err != nil {
		return nil, err
	}

	if scope != nil {
		if !scope.Can(entity.PermissionPatientWrite) {
			return nil, errForbidden("papel sem permissão para cadastrar pacientes")
		}
		if scope.Role == entity.RoleSeller {
			if input.SellerID != "" && input.SellerID != scope.SellerID {
				return nil, errForbidden("vendedor só pode cadastrar pacientes próprios")
			}
			input.SellerID = scope.SellerID
		}
	}

	if input.SellerID == "" {
		return nil, errValidation("validation failed: seller_id: is required")
	}

	seller, err := uc.Sellers.FindByID(ctx, input.SellerID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &DomainError{Code: "SELLER_NOT_FOUND", Message: err.Error(), Err: err}
		}
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao buscar vendedor")
	}

	if input.ClinicID != "" && input.ClinicID != seller.ClinicID {
		return nil, errValidation("validation failed: seller_id: does not belong to clinic_id")
	}
	if scope != nil && !scope.AllowsClinic(seller.ClinicID) {
		return nil, errForbidden("clínica fora do escopo do usuário")
	}

	address := entity.Address{
		Street:     input.Street,
		Number:     input.Number,
		Complement: input.Complement,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
	}

	patient, err := entity.NewPatient(
		strings.TrimSpace(input.Name),
		CleanCPF(input.CPF),
		input.Phone,
		strings.TrimSpace(input.Email),
		input.BirthDate,
		seller.ClinicID,
		seller.ID,
		entity.CardType(input.CardType),
		input.NumberCards,
		address,
	)
	if err != nil {
		return nil, errValidation(err.Error())
	}

	if err := uc.Patients.Create(ctx, patient); err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao salvar paciente")
	}

	return &RegisterPatientOutput{
		ID:       patient.ID,
		Name:     patient.Name,
		ClinicID: patient.ClinicID,
		SellerID: patient.SellerID,
		Msg:      "Cadastro realizado com sucesso!",
	}, nil
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type SellerUseCase struct {
	Sellers entity.SellerRepositoryInterface
}

func NewSellerUseCase(sellers entity.SellerRepositoryInterface) *SellerUseCase {
	return &SellerUseCase{Sellers: sellers}
}

func (uc *SellerUseCase) Create(ctx context.Context, scope *Scope, input CreateSellerInput) (*entity.Seller, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionSellerWrite) {
		return nil, errForbidden("papel sem permissão para cadastrar vendedores")
	}
	if err := joinValidationErrors(ValidateCreateSellerInput(input)); err != nil {
		return nil, err
	}
	if !scope.AllowsClinic(input.ClinicID) {
		return nil, errForbidden("clínica fora do escopo do usuário")
	}

	seller, err := entity.NewSeller(
		input.ClinicID,
		strings.TrimSpace(input.Name),
		strings.ToLower(strings.TrimSpace(input.Email)),
		input.Phone,
		CleanCPF(input.CPF),
	)
	if err != nil {
		return nil, errValidation(err.Error())
	}

	if err := uc.Sellers.Create(ctx, seller); err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao salvar vendedor")
	}

	slog.Info("seller created", "seller_id", seller.ID, "clinic_id", seller.ClinicID, "by", scope.UserID)
	return seller, nil
}

// List returns the sellers of the scope's clinics. A seller only sees itself.
func (uc *SellerUseCase) List(ctx context.Context, scope *Scope) ([]*entity.Seller, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}
	if !scope.Can(entity.PermissionSellerRead) {
		return nil, errForbidden("papel sem permissão para consultar vendedores")
	}

	if scope.Role == entity.RoleSeller {
		seller, err := uc.Sellers.FindByID(ctx, scope.SellerID)
		if err != nil {
			return nil, fromRepository(err, "DATABASE_ERROR", "falha ao buscar vendedor")
		}
		return []*entity.Seller{seller}, nil
	}

	if len(scope.ClinicIDs) == 0 {
		return []*entity.Seller{}, nil
	}

	sellers, err := uc.Sellers.ListByClinicIDs(ctx, scope.ClinicIDs)
	if err != nil {
		return nil, fromRepository(err, "DATABASE_ERROR", "falha ao listar vendedores")
	}
	return sellers, nil
}

func (uc *SellerUseCase) Delete(ctx context.Context, scope *Scope, sellerID string) error {
	if scope == nil {
		return errUnauthorized()
	}
	if !scope.Can(entity.PermissionSellerWrite) {
		return errForbidden("papel sem permissão para remover vendedores")
	}
	if !IsValidUUID(sellerID) {
		return errValidation("validation failed: id: must be a valid UUID")
	}

	seller, err := uc.Sellers.FindByID(ctx, sellerID)
	if err != nil {
		return fromRepository(err, "DATABASE_ERROR", "falha ao buscar vendedor")
	}
	if !scope.AllowsClinic(seller.ClinicID) {
		return errForbidden("vendedor fora do escopo do usuário")
	}

	if err := uc.Sellers.Delete(ctx, seller.ID); err != nil {
		return fromRepository(err, "DATABASE_ERROR", "falha ao remover vendedor")
	}

	slog.Info("seller deleted", "seller_id", seller.ID, "by", scope.UserID)
	return nil
}

package usecase

import (
	"context"
	"errors"
	"slices"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

// Scope is the set of clinics (and, for sellers, the seller) a session may
// read or mutate.
type Scope struct {
	Role      entity.Role
	UserID    string
	Email     string
	ClinicIDs []string
	SellerID  string
}

func (s *Scope) Can(p entity.Permission) bool {
	return s != nil && s.Role.HasPermission(p)
}

// PatientFilter is the query predicate every patient read goes through.
func (s *Scope) PatientFilter() entity.PatientFilter {
	f := entity.PatientFilter{ClinicIDs: slices.Clone(s.ClinicIDs)}
	if s.Role == entity.RoleSeller {
		f.SellerID = s.SellerID
	}
	return f
}

func (s *Scope) AllowsClinic(clinicID string) bool {
	return slices.Contains(s.ClinicIDs, clinicID)
}

// Allows reports whether the patient sits inside the scope. Sellers only
// reach their own patients.
func (s *Scope) Allows(p *entity.Patient) bool {
	if !s.AllowsClinic(p.ClinicID) {
		return false
	}
	if s.Role == entity.RoleSeller {
		return p.SellerID == s.SellerID
	}
	return true
}

type ScopeResolver struct {
	Memberships entity.MembershipRepositoryInterface
	Managers    entity.ManagerRepositoryInterface
	Sellers     entity.SellerRepositoryInterface
}

func NewScopeResolver(
	memberships entity.MembershipRepositoryInterface,
	managers entity.ManagerRepositoryInterface,
	sellers entity.SellerRepositoryInterface,
) *ScopeResolver {
	return &ScopeResolver{
		Memberships: memberships,
		Managers:    managers,
		Sellers:     sellers,
	}
}

func (r *ScopeResolver) Resolve(ctx context.Context, session *entity.Session) (*Scope, error) {
	if session == nil || session.UserID == "" {
		return nil, errUnauthorized()
	}

	scope := &Scope{Role: session.Role, UserID: session.UserID, Email: session.Email}

	switch session.Role {
	case entity.RoleAdmin:
		ids, err := r.Memberships.ClinicIDsByUser(ctx, session.UserID)
		if err != nil {
			return nil, fromRepository(err, "DATABASE_ERROR", "falha ao carregar clínicas do usuário")
		}
		scope.ClinicIDs = ids

	case entity.RoleManager:
		clinicID, err := r.managerClinic(ctx, session.Email)
		if err != nil {
			return nil, err
		}
		scope.ClinicIDs = []string{clinicID}

	case entity.RoleSeller:
		seller, err := r.Sellers.FindByEmail(ctx, session.Email)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, errForbidden("usuário não está vinculado a um vendedor")
		}
		if err != nil {
			return nil, fromRepository(err, "DATABASE_ERROR", "falha ao buscar vendedor")
		}
		scope.SellerID = seller.ID
		scope.ClinicIDs = []string{seller.ClinicID}

	default:
		return nil, errForbidden("papel desconhecido: " + string(session.Role))
	}

	return scope, nil
}

// managerClinic reads the explicit assignment first, then falls back to the
// seller record with the same e-mail.
func (r *ScopeResolver) managerClinic(ctx context.Context, email string) (string, error) {
	assignment, err := r.Managers.FindByEmail(ctx, email)
	if err == nil {
		return assignment.ClinicID, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return "", fromRepository(err, "DATABASE_ERROR", "falha ao buscar gestor")
	}

	seller, err := r.Sellers.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return "", errForbidden("gestor não está vinculado a uma clínica")
	}
	if err != nil {
		return "", fromRepository(err, "DATABASE_ERROR", "falha ao buscar vendedor do gestor")
	}
	return seller.ClinicID, nil
}

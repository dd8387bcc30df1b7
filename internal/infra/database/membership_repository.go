package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type MembershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

func (r *MembershipRepository) Add(ctx context.Context, m *entity.ClinicMembership) error {
	query := `
		INSERT INTO clinic_memberships (user_id, clinic_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, clinic_id) DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, query, m.UserID, m.ClinicID, m.CreatedAt, m.UpdatedAt); err != nil {
		if pgCode(err) == foreignKeyViolation {
			return entity.ErrClinicNotFound
		}
		return fmt.Errorf("erro ao inserir vínculo: %w", err)
	}
	return nil
}

func (r *MembershipRepository) ClinicIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT clinic_id FROM clinic_memberships WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vínculos: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao ler vínculo: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type ManagerRepository struct {
	DB *sql.DB
}

func NewManagerRepository(db *sql.DB) *ManagerRepository {
	return &ManagerRepository{DB: db}
}

// Upsert moves the manager to the given clinic; a manager has one clinic.
func (r *ManagerRepository) Upsert(ctx context.Context, a *entity.ManagerAssignment) error {
	query := `
		INSERT INTO clinic_managers (email, clinic_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET clinic_id = EXCLUDED.clinic_id, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.DB.ExecContext(ctx, query, a.Email, a.ClinicID, a.CreatedAt, a.UpdatedAt); err != nil {
		if pgCode(err) == foreignKeyViolation {
			return entity.ErrClinicNotFound
		}
		return fmt.Errorf("erro ao salvar gestor: %w", err)
	}
	return nil
}

func (r *ManagerRepository) FindByEmail(ctx context.Context, email string) (*entity.ManagerAssignment, error) {
	query := `SELECT email, clinic_id, created_at, updated_at FROM clinic_managers WHERE email = lower($1)`

	var a entity.ManagerAssignment
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&a.Email, &a.ClinicID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrManagerNotAssigned
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar gestor: %w", err)
	}
	return &a, nil
}

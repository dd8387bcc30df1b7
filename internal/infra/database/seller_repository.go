package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

const sellerColumns = `id, clinic_id, name, email, phone, cpf, created_at, updated_at`

type SellerRepository struct {
	DB *sql.DB
}

func NewSellerRepository(db *sql.DB) *SellerRepository {
	return &SellerRepository{DB: db}
}

func (r *SellerRepository) Create(ctx context.Context, s *entity.Seller) error {
	query := `
		INSERT INTO sellers (id, clinic_id, name, email, phone, cpf, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.ClinicID, s.Name, s.Email, s.Phone, s.CPF, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		switch pgCode(err) {
		case uniqueViolation:
			return entity.ErrEmailAlreadyExists
		case foreignKeyViolation:
			return entity.ErrClinicNotFound
		}
		return fmt.Errorf("erro ao inserir vendedor: %w", err)
	}
	return nil
}

func (r *SellerRepository) FindByID(ctx context.Context, id string) (*entity.Seller, error) {
	return r.findOne(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id)
}

// FindByEmail matches case-insensitively; e-mails are stored lowercased.
func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	return r.findOne(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE lower(email) = lower($1)`, email)
}

func (r *SellerRepository) ListByClinicIDs(ctx context.Context, clinicIDs []string) ([]*entity.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE clinic_id = ANY($1::uuid[]) ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(clinicIDs))
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendedores: %w", err)
	}
	defer rows.Close()

	sellers := []*entity.Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler vendedor: %w", err)
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func (r *SellerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sellers WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return entity.ErrSellerHasPatients
		}
		return fmt.Errorf("erro ao remover vendedor: %w", err)
	}
	return expectAffected(res, entity.ErrSellerNotFound)
}

func (r *SellerRepository) findOne(ctx context.Context, query string, arg string) (*entity.Seller, error) {
	s, err := scanSeller(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSellerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar vendedor: %w", err)
	}
	return s, nil
}

func scanSeller(row rowScanner) (*entity.Seller, error) {
	var s entity.Seller
	if err := row.Scan(&s.ID, &s.ClinicID, &s.Name, &s.Email, &s.Phone, &s.CPF, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type ClinicRepository struct {
	DB *sql.DB
}

func NewClinicRepository(db *sql.DB) *ClinicRepository {
	return &ClinicRepository{DB: db}
}

func (r *ClinicRepository) Create(ctx context.Context, c *entity.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, cnpj, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.CNPJ, c.Phone, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("erro ao inserir clínica: %w", err)
	}
	return nil
}

func (r *ClinicRepository) FindByID(ctx context.Context, id string) (*entity.Clinic, error) {
	query := `SELECT id, name, cnpj, phone, created_at, updated_at FROM clinics WHERE id = $1`

	var c entity.Clinic
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CNPJ, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrClinicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar clínica: %w", err)
	}
	return &c, nil
}

func (r *ClinicRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Clinic, error) {
	query := `SELECT id, name, cnpj, phone, created_at, updated_at FROM clinics WHERE id = ANY($1::uuid[]) ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("erro ao listar clínicas: %w", err)
	}
	defer rows.Close()

	clinics := []*entity.Clinic{}
	for rows.Next() {
		var c entity.Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.CNPJ, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler clínica: %w", err)
		}
		clinics = append(clinics, &c)
	}
	return clinics, rows.Err()
}

func (r *ClinicRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover clínica: %w", err)
	}
	return expectAffected(res, entity.ErrClinicNotFound)
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

const patientColumns = `id, clinic_id, seller_id, name, cpf, phone, email,
	COALESCE(to_char(birth_date, 'YYYY-MM-DD'), ''),
	street, number, complement, district, city, state, zip_code,
	card_type, number_cards, is_active, active_at, reactivated_at, expiration_date,
	created_at, updated_at`

type PatientRepository struct {
	DB *sql.DB
}

func NewPatientRepository(db *sql.DB) *PatientRepository {
	return &PatientRepository{DB: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (
			id, clinic_id, seller_id, name, cpf, phone, email, birth_date,
			street, number, complement, district, city, state, zip_code,
			card_type, number_cards, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::date,
			$9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.ClinicID, p.SellerID, p.Name, p.CPF, p.Phone, p.Email, p.BirthDate,
		p.Address.Street, p.Address.Number, p.Address.Complement, p.Address.District,
		p.Address.City, p.Address.State, p.Address.ZipCode,
		string(p.CardType), p.NumberCards, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch pgCode(err) {
		case uniqueViolation:
			return entity.ErrPatientAlreadyExists
		case foreignKeyViolation:
			return entity.ErrSellerNotFound
		}
		return fmt.Errorf("erro ao inserir paciente: %w", err)
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar paciente: %w", err)
	}
	return p, nil
}

func (r *PatientRepository) List(ctx context.Context, filter entity.PatientFilter) ([]*entity.Patient, error) {
	where, args := patientWhere(filter, nil)
	query := `SELECT ` + patientColumns + ` FROM patients WHERE ` + where + ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	return r.query(ctx, query, args...)
}

func (r *PatientRepository) CountByStatus(ctx context.Context, filter entity.PatientFilter) (int, int, error) {
	where, args := patientWhere(filter, nil)
	query := `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active)
		FROM patients WHERE ` + where

	var active, inactive int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&active, &inactive); err != nil {
		return 0, 0, fmt.Errorf("erro ao contar pacientes: %w", err)
	}
	return active, inactive, nil
}

func (r *PatientRepository) UpdateSubscription(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients
		SET is_active = $2, active_at = $3, reactivated_at = $4, expiration_date = $5, updated_at = $6
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		p.ID, p.IsActive, p.ActiveAt, p.ReactivatedAt, p.ExpirationDate, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar assinatura: %w", err)
	}
	return expectAffected(res, entity.ErrPatientNotFound)
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover paciente: %w", err)
	}
	return expectAffected(res, entity.ErrPatientNotFound)
}

// ListActivity returns patients first activated or renewed within [from, to].
func (r *PatientRepository) ListActivity(ctx context.Context, filter entity.PatientFilter, from, to time.Time) ([]*entity.Patient, error) {
	where, args := patientWhere(filter, nil)
	args = append(args, from, to)
	query := fmt.Sprintf(`SELECT `+patientColumns+` FROM patients
		WHERE %s AND ((active_at BETWEEN $%[2]d AND $%[3]d) OR (reactivated_at BETWEEN $%[2]d AND $%[3]d))`,
		where, len(args)-1, len(args))

	return r.query(ctx, query, args...)
}

// ListExpiringBetween returns active patients with expiration in [from, to),
// across all clinics.
func (r *PatientRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients
		WHERE is_active AND expiration_date >= $1 AND expiration_date < $2
		ORDER BY expiration_date`

	return r.query(ctx, query, from, to)
}

// DeactivateExpired is a blind bulk update without row locking. An activation
// committed between the read of expiration_date and the write may be undone.
func (r *PatientRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE patients SET is_active = FALSE, updated_at = $1 WHERE is_active AND expiration_date IS NOT NULL AND expiration_date <= $1`

	res, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("erro ao desativar pacientes expirados: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao ler linhas afetadas: %w", err)
	}
	return n, nil
}

func (r *PatientRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Patient, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pacientes: %w", err)
	}
	defer rows.Close()

	patients := []*entity.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler paciente: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar pacientes: %w", err)
	}
	return patients, nil
}

// patientWhere renders the scope filter as a WHERE clause, appending its
// parameters to args.
func patientWhere(f entity.PatientFilter, args []any) (string, []any) {
	args = append(args, pq.Array(f.ClinicIDs))
	conds := []string{fmt.Sprintf("clinic_id = ANY($%d::uuid[])", len(args))}

	if f.SellerID != "" {
		args = append(args, f.SellerID)
		conds = append(conds, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%[1]d OR cpf LIKE $%[1]d)", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*entity.Patient, error) {
	var p entity.Patient
	var cardType string
	var activeAt, reactivatedAt, expiration sql.NullTime

	err := row.Scan(
		&p.ID, &p.ClinicID, &p.SellerID, &p.Name, &p.CPF, &p.Phone, &p.Email, &p.BirthDate,
		&p.Address.Street, &p.Address.Number, &p.Address.Complement, &p.Address.District,
		&p.Address.City, &p.Address.State, &p.Address.ZipCode,
		&cardType, &p.NumberCards, &p.IsActive, &activeAt, &reactivatedAt, &expiration,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CardType = entity.CardType(cardType)
	p.ActiveAt = nullTime(activeAt)
	p.ReactivatedAt = nullTime(reactivatedAt)
	p.ExpirationDate = nullTime(expiration)
	return &p, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao ler linhas afetadas: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

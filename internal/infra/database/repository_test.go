package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var patientRowColumns = []string{
	"id", "clinic_id", "seller_id", "name", "cpf", "phone", "email", "birth_date",
	"street", "number", "complement", "district", "city", "state", "zip_code",
	"card_type", "number_cards", "is_active", "active_at", "reactivated_at", "expiration_date",
	"created_at", "updated_at",
}

func TestPatientRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	p := &entity.Patient{ID: "p-1", ClinicID: "c-1", SellerID: "s-1", Name: "Maria", CPF: "52998224725", CardType: entity.CardTypePersonal, NumberCards: 1}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), p))
}

func TestPatientRepository_CreateDuplicateCPF(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Patient{ID: "p-1"})

	assert.ErrorIs(t, err, entity.ErrPatientAlreadyExists)
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestPatientRepository_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	active := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	exp := time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = $1")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(patientRowColumns).AddRow(
			"p-1", "c-1", "s-1", "Maria", "52998224725", "11988887777", "", "1985-04-12",
			"Rua A", "10", "", "Centro", "São Paulo", "SP", "01310100",
			"enterprise", 3, true, active, nil, exp,
			now, now,
		))

	p, err := repo.FindByID(context.Background(), "p-1")

	require.NoError(t, err)
	assert.Equal(t, entity.CardTypeEnterprise, p.CardType)
	assert.Equal(t, 3, p.NumberCards)
	assert.Equal(t, "São Paulo", p.Address.City)
	require.NotNil(t, p.ActiveAt)
	assert.True(t, active.Equal(*p.ActiveAt))
	assert.Nil(t, p.ReactivatedAt)
	assert.True(t, exp.Equal(*p.ExpirationDate))
}

func TestPatientRepository_FindByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestPatientRepository_ListAppliesFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	active := true
	filter := entity.PatientFilter{
		ClinicIDs: []string{"c-1"},
		SellerID:  "s-1",
		Search:    "mar",
		Active:    &active,
		Limit:     20,
		Offset:    40,
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE clinic_id = ANY($1::uuid[]) AND seller_id = $2 AND (name ILIKE $3 OR cpf LIKE $3) AND is_active = $4 ORDER BY created_at DESC LIMIT $5 OFFSET $6")).
		WithArgs(sqlmock.AnyArg(), "s-1", "%mar%", true, 20, 40).
		WillReturnRows(sqlmock.NewRows(patientRowColumns))

	list, err := repo.List(context.Background(), filter)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPatientRepository_CountByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE is_active)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"active", "inactive"}).AddRow(12, 4))

	active, inactive, err := repo.CountByStatus(context.Background(), entity.PatientFilter{ClinicIDs: []string{"c-1"}})

	require.NoError(t, err)
	assert.Equal(t, 12, active)
	assert.Equal(t, 4, inactive)
}

func TestPatientRepository_UpdateSubscriptionNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE patients")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSubscription(context.Background(), &entity.Patient{ID: "p-1", IsActive: true})

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestPatientRepository_ListActivity(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("((active_at BETWEEN $2 AND $3) OR (reactivated_at BETWEEN $2 AND $3))")).
		WithArgs(sqlmock.AnyArg(), from, to).
		WillReturnRows(sqlmock.NewRows(patientRowColumns))

	_, err := repo.ListActivity(context.Background(), entity.PatientFilter{ClinicIDs: []string{"c-1"}}, from, to)

	assert.NoError(t, err)
}

// The sweep is a single unconditional UPDATE: no SELECT ... FOR UPDATE and
// no check of updated_at. A renewal that commits while the statement runs
// can be overwritten. This test pins that behavior.
func TestPatientRepository_DeactivateExpiredIsBlindUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)

	now := time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE patients SET is_active = FALSE, updated_at = $1 WHERE is_active AND expiration_date IS NOT NULL AND expiration_date <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeactivateExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSellerRepository_DeleteWithPatients(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSellerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sellers WHERE id = $1")).
		WithArgs("s-1").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), "s-1")

	assert.ErrorIs(t, err, entity.ErrSellerHasPatients)
}

func TestSellerRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSellerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sellers")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Seller{ID: "s-1", Email: "ana@clinica.com"})

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestSellerRepository_FindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSellerRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("Ana@Clinica.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "clinic_id", "name", "email", "phone", "cpf", "created_at", "updated_at"}).
			AddRow("s-1", "c-1", "Ana", "ana@clinica.com", "", "", now, now))

	s, err := repo.FindByEmail(context.Background(), "Ana@Clinica.com")

	require.NoError(t, err)
	assert.Equal(t, "c-1", s.ClinicID)
}

func TestMembershipRepository_ClinicIDsByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMembershipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT clinic_id FROM clinic_memberships WHERE user_id = $1")).
		WithArgs("admin-1").
		WillReturnRows(sqlmock.NewRows([]string{"clinic_id"}).AddRow("c-1").AddRow("c-2"))

	ids, err := repo.ClinicIDsByUser(context.Background(), "admin-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, ids)
}

func TestManagerRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewManagerRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (email) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Upsert(ctx, &entity.ManagerAssignment{Email: "g@c.com", ClinicID: "c-1"}))

	mock.ExpectQuery(regexp.QuoteMeta("FROM clinic_managers WHERE email = lower($1)")).
		WithArgs("nobody@c.com").
		WillReturnError(sql.ErrNoRows)
	_, err := repo.FindByEmail(ctx, "nobody@c.com")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestClinicRepository_ListByIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewClinicRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM clinics WHERE id = ANY($1::uuid[])")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cnpj", "phone", "created_at", "updated_at"}).
			AddRow("c-1", "Clínica Alfa", "", "", now, now))

	clinics, err := repo.ListByIDs(context.Background(), []string{"c-1"})

	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, "Clínica Alfa", clinics[0].Name)
}

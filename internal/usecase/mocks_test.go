package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/queue"
)

// MockPatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, filter entity.PatientFilter) ([]*entity.Patient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) CountByStatus(ctx context.Context, filter entity.PatientFilter) (int, int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockPatientRepository) UpdateSubscription(ctx context.Context, p *entity.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPatientRepository) ListActivity(ctx context.Context, filter entity.PatientFilter, from, to time.Time) ([]*entity.Patient, error) {
	args := m.Called(ctx, filter, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Patient, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Patient), args.Error(1)
}

func (m *MockPatientRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSellerRepository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) Create(ctx context.Context, s *entity.Seller) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id string) (*entity.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) ListByClinicIDs(ctx context.Context, clinicIDs []string) ([]*entity.Seller, error) {
	args := m.Called(ctx, clinicIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Seller), args.Error(1)
}

func (m *MockSellerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClinicRepository
type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, c *entity.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicRepository) FindByID(ctx context.Context, id string) (*entity.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Clinic), args.Error(1)
}

func (m *MockClinicRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Clinic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, mb *entity.ClinicMembership) error {
	args := m.Called(ctx, mb)
	return args.Error(0)
}

func (m *MockMembershipRepository) ClinicIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockManagerRepository
type MockManagerRepository struct {
	mock.Mock
}

func (m *MockManagerRepository) Upsert(ctx context.Context, a *entity.ManagerAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockManagerRepository) FindByEmail(ctx context.Context, email string) (*entity.ManagerAssignment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ManagerAssignment), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNotification(ctx context.Context, payload queue.NotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

const (
	clinicA  = "0b8d6f3e-4c1a-4f7e-9a21-6d7a3c1e0a01"
	clinicB  = "0b8d6f3e-4c1a-4f7e-9a21-6d7a3c1e0a02"
	sellerA  = "5f0c2b9a-8e3d-4b6a-a1c7-2e9f4d8b1a01"
	sellerB  = "5f0c2b9a-8e3d-4b6a-a1c7-2e9f4d8b1a02"
	patientX = "9a7e1c3b-2d4f-4e6a-8b0c-1f3e5a7c9b01"
)

func adminScope() *Scope {
	return &Scope{Role: entity.RoleAdmin, UserID: "admin-1", ClinicIDs: []string{clinicA, clinicB}}
}

func managerScope() *Scope {
	return &Scope{Role: entity.RoleManager, UserID: "gestor-1", Email: "gestor@clinica.com", ClinicIDs: []string{clinicA}}
}

func sellerScope() *Scope {
	return &Scope{Role: entity.RoleSeller, UserID: "user-1", Email: "ana@clinica.com", ClinicIDs: []string{clinicA}, SellerID: sellerA}
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func timePtr(t time.Time) *time.Time {
	return &t
}

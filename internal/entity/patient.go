package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

type CardType string

const (
	CardTypeEnterprise CardType = "enterprise"
	CardTypePersonal   CardType = "personal"
)

func (c CardType) Valid() bool {
	return c == CardTypeEnterprise || c == CardTypePersonal
}

// Value Object: Address
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

// Patient is the convênio member. Subscription dates stay nil until the
// first activation.
type Patient struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CPF       string  `json:"cpf"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email,omitempty"`
	BirthDate string  `json:"birth_date"`
	Address   Address `json:"address"`

	ClinicID    string   `json:"clinic_id"`
	SellerID    string   `json:"seller_id"`
	CardType    CardType `json:"card_type"`
	NumberCards int      `json:"number_cards"`

	IsActive       bool       `json:"is_active"`
	ActiveAt       *time.Time `json:"active_at"`
	ReactivatedAt  *time.Time `json:"reactivated_at"`
	ExpirationDate *time.Time `json:"expiration_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPatient builds an inactive patient owned by the given clinic and seller.
func NewPatient(name, cpf, phone, email, birthDate, clinicID, sellerID string, cardType CardType, numberCards int, address Address) (*Patient, error) {
	now := time.Now()
	p := &Patient{
		ID:          uuid.New().String(),
		Name:        name,
		CPF:         cpf,
		Phone:       phone,
		Email:       email,
		BirthDate:   birthDate,
		Address:     address,
		ClinicID:    clinicID,
		SellerID:    sellerID,
		CardType:    cardType,
		NumberCards: numberCards,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Patient) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.CPF == "" {
		return errors.New("cpf is required")
	}
	if p.ClinicID == "" {
		return errors.New("clinic_id is required")
	}
	if p.SellerID == "" {
		return errors.New("seller_id is required")
	}
	if !p.CardType.Valid() {
		return errors.New("card_type must be enterprise or personal")
	}
	if p.NumberCards < 1 {
		return errors.New("number_cards must be at least 1")
	}
	return nil
}

// Activate applies the lifecycle decision for now and returns it.
func (p *Patient) Activate(cal Calendar, now time.Time) ActivationResult {
	res := cal.ComputeActivation(p.ActiveAt, p.ExpirationDate, now)

	if res.ActiveAt != nil {
		p.ActiveAt = res.ActiveAt
	}
	if res.ReactivatedAt != nil {
		p.ReactivatedAt = res.ReactivatedAt
	}
	exp := res.ExpirationDate
	p.ExpirationDate = &exp
	p.IsActive = true
	p.UpdatedAt = now
	return res
}

// LastSaleAt is the reactivation date when present, otherwise the first
// activation date.
func (p *Patient) LastSaleAt() *time.Time {
	if p.ReactivatedAt != nil {
		return p.ReactivatedAt
	}
	return p.ActiveAt
}

type PatientFilter struct {
	ClinicIDs []string
	SellerID  string
	Search    string
	Active    *bool
	Limit     int
	Offset    int
}

type PatientRepositoryInterface interface {
	Create(ctx context.Context, p *Patient) error
	FindByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]*Patient, error)
	CountByStatus(ctx context.Context, filter PatientFilter) (active int, inactive int, err error)
	UpdateSubscription(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	ListActivity(ctx context.Context, filter PatientFilter, from, to time.Time) ([]*Patient, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*Patient, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

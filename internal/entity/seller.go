package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Seller is the agent credited with a patient sale. A session with the
// "user" role is linked to its seller by e-mail.
type Seller struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CPF       string    `json:"cpf,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSeller(clinicID, name, email, phone, cpf string) (*Seller, error) {
	if clinicID == "" {
		return nil, errors.New("clinic_id é obrigatório")
	}
	if name == "" {
		return nil, errors.New("name é obrigatório")
	}
	if email == "" {
		return nil, errors.New("email é obrigatório")
	}

	return &Seller{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CPF:       cpf,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

type SellerRepositoryInterface interface {
	Create(ctx context.Context, s *Seller) error
	FindByID(ctx context.Context, id string) (*Seller, error)
	FindByEmail(ctx context.Context, email string) (*Seller, error)
	ListByClinicIDs(ctx context.Context, clinicIDs []string) ([]*Seller, error)
	Delete(ctx context.Context, id string) error
}

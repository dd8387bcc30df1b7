package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Clinic is the tenant root: it owns sellers and patients.
type Clinic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClinic(name, cnpj, phone string) (*Clinic, error) {
	if name == "" {
		return nil, errors.New("name é obrigatório")
	}
	return &Clinic{
		ID:        uuid.New().String(),
		Name:      name,
		CNPJ:      cnpj,
		Phone:     phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

type ClinicRepositoryInterface interface {
	Create(ctx context.Context, c *Clinic) error
	FindByID(ctx context.Context, id string) (*Clinic, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Clinic, error)
	Delete(ctx context.Context, id string) error
}

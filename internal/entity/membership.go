package entity

import (
	"context"
	"time"
)

// ClinicMembership links an admin user to a clinic they may see.
type ClinicMembership struct {
	UserID    string    `json:"user_id"`
	ClinicID  string    `json:"clinic_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManagerAssignment maps a gestor e-mail to the one clinic it manages.
type ManagerAssignment struct {
	Email     string    `json:"email"`
	ClinicID  string    `json:"clinic_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MembershipRepositoryInterface interface {
	Add(ctx context.Context, m *ClinicMembership) error
	ClinicIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type ManagerRepositoryInterface interface {
	Upsert(ctx context.Context, a *ManagerAssignment) error
	FindByEmail(ctx context.Context, email string) (*ManagerAssignment, error)
}

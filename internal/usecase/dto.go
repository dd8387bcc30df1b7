package usecase

import (
	"time"

	"github.com/xavierca1/ligue-convenios/internal/entity"
)

type RegisterPatientInput struct {
	Name        string `json:"name"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	BirthDate   string `json:"birth_date"`
	ClinicID    string `json:"clinic_id"`
	SellerID    string `json:"seller_id"`
	CardType    string `json:"card_type"`
	NumberCards int    `json:"number_cards"`

	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

type RegisterPatientOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClinicID string `json:"clinic_id"`
	SellerID string `json:"seller_id"`
	Msg      string `json:"msg"`
}

type ActivatePatientOutput struct {
	PatientID      string                `json:"patient_id"`
	Kind           entity.ActivationKind `json:"kind"`
	IsActive       bool                  `json:"is_active"`
	ActiveAt       *time.Time            `json:"active_at"`
	ReactivatedAt  *time.Time            `json:"reactivated_at"`
	ExpirationDate time.Time             `json:"expiration_date"`
	DaysRemaining  int                   `json:"days_remaining"`
}

type ListPatientsInput struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

type CreateSellerInput struct {
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
}

type CreateClinicInput struct {
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Phone string `json:"phone"`
}

type AssignManagerInput struct {
	ClinicID string `json:"clinic_id"`
	Email    string `json:"email"`
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportPatientsOutput struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

package entity

import (
	"errors"
	"fmt"
)

// Kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrPatientNotFound      = fmt.Errorf("paciente não encontrado: %w", ErrNotFound)
	ErrSellerNotFound       = fmt.Errorf("vendedor não encontrado: %w", ErrNotFound)
	ErrClinicNotFound       = fmt.Errorf("clínica não encontrada: %w", ErrNotFound)
	ErrManagerNotAssigned   = fmt.Errorf("gestor sem clínica: %w", ErrNotFound)
	ErrPatientAlreadyExists = fmt.Errorf("CPF já cadastrado nesta clínica: %w", ErrConflict)
	ErrEmailAlreadyExists   = fmt.Errorf("email já cadastrado: %w", ErrConflict)
	ErrSellerHasPatients    = fmt.Errorf("vendedor possui pacientes vinculados: %w", ErrConflict)
)

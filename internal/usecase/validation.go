package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-convenios/internal/entity"
)

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// joinValidationErrors collapses field errors into one DomainError, or nil.
func joinValidationErrors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return errValidation("validation failed: " + strings.Join(parts, ", "))
}

func ValidateRegisterPatientInput(input RegisterPatientInput) []ValidationError {
	var errors []ValidationError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(name) < 3 {
		errors = append(errors, ValidationError{"name", "must have at least 3 characters"})
	} else if len(name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if input.CPF == "" {
		errors = append(errors, ValidationError{"cpf", "is required"})
	} else if !IsValidCPF(input.CPF) {
		errors = append(errors, ValidationError{"cpf", "is invalid"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.Email) != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if strings.TrimSpace(input.BirthDate) != "" && !isValidDate(input.BirthDate) {
		errors = append(errors, ValidationError{"birth_date", "must be a valid date (YYYY-MM-DD)"})
	}

	if input.ClinicID != "" && !IsValidUUID(input.ClinicID) {
		errors = append(errors, ValidationError{"clinic_id", "must be a valid UUID"})
	}
	if input.SellerID != "" && !IsValidUUID(input.SellerID) {
		errors = append(errors, ValidationError{"seller_id", "must be a valid UUID"})
	}

	if !entity.CardType(input.CardType).Valid() {
		errors = append(errors, ValidationError{"card_type", "must be enterprise or personal"})
	}
	if input.NumberCards < 1 {
		errors = append(errors, ValidationError{"number_cards", "must be at least 1"})
	}

	if input.ZipCode != "" && !isValidZipCode(input.ZipCode) {
		errors = append(errors, ValidationError{"zip_code", "must be a valid zip code (XXXXX-XXX)"})
	}

	return errors
}

func ValidateCreateSellerInput(input CreateSellerInput) []ValidationError {
	var errors []ValidationError

	if len(strings.TrimSpace(input.Name)) < 3 {
		errors = append(errors, ValidationError{"name", "must have at least 3 characters"})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if !IsValidUUID(input.ClinicID) {
		errors = append(errors, ValidationError{"clinic_id", "must be a valid UUID"})
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if input.CPF != "" && !IsValidCPF(input.CPF) {
		errors = append(errors, ValidationError{"cpf", "is invalid"})
	}
	return errors
}

// IsValidCPF checks length, rejects repeated digits and verifies both mod-11
// check digits. Punctuation is ignored.
func IsValidCPF(cpf string) bool {
	cleaned := nonDigits.ReplaceAllString(cpf, "")
	if len(cleaned) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != cleaned[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digits := make([]int, 11)
	for i := range cleaned {
		digits[i] = int(cleaned[i] - '0')
	}

	return cpfCheckDigit(digits[:9]) == digits[9] && cpfCheckDigit(digits[:10]) == digits[10]
}

func cpfCheckDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// CleanCPF keeps only the digits.
func CleanCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

func isValidZipCode(zipcode string) bool {
	return len(nonDigits.ReplaceAllString(zipcode, "")) == 8
}

package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// importColumns is the header expected from the spreadsheet export.
var importColumns = []string{"name", "cpf", "phone", "email", "birth_date", "card_type", "number_cards", "seller_id"}

type ImportPatientsUseCase struct {
	Register *RegisterPatientUseCase
}

func NewImportPatientsUseCase(register *RegisterPatientUseCase) *ImportPatientsUseCase {
	return &ImportPatientsUseCase{Register: register}
}

// Execute registers one patient per CSV row. Rows that fail are reported and
// skipped; the import itself only fails on a malformed file.
func (uc *ImportPatientsUseCase) Execute(ctx context.Context, scope *Scope, r io.Reader) (*ImportPatientsOutput, error) {
	if scope == nil {
		return nil, errUnauthorized()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errValidation("validation failed: file: is empty")
	}
	if err != nil {
		return nil, errValidation("validation failed: file: " + err.Error())
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	out := &ImportPatientsOutput{Errors: []ImportRowError{}}
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, ImportRowError{Line: line, Message: err.Error()})
			continue
		}

		input, err := rowToInput(record, index)
		if err == nil {
			_, err = uc.Register.Execute(ctx, scope, input)
		}
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		out.Imported++
	}

	slog.Info("patients imported", "imported", out.Imported, "failed", out.Failed, "by", scope.UserID)
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"name", "cpf", "phone", "card_type"} {
		if _, ok := index[col]; !ok {
			return nil, errValidation(fmt.Sprintf("validation failed: file: missing column %q (expected %s)", col, strings.Join(importColumns, ",")))
		}
	}
	return index, nil
}

func rowToInput(record []string, index map[string]int) (RegisterPatientInput, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	numberCards := 1
	if v := get("number_cards"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return RegisterPatientInput{}, fmt.Errorf("number_cards: %q is not a number", v)
		}
		numberCards = n
	}

	return RegisterPatientInput{
		Name:        get("name"),
		CPF:         get("cpf"),
		Phone:       get("phone"),
		Email:       get("email"),
		BirthDate:   get("birth_date"),
		CardType:    strings.ToLower(get("card_type")),
		NumberCards: numberCards,
		SellerID:    get("seller_id"),
	}, nil
}

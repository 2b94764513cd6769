package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

// AddTransactionRequest represents a request to add a transaction. Amount
// may be a JSON number or a string such as "12,34".
type AddTransactionRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Type        string          `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *AddTransactionRequest) ToUseCaseInput() (usecase.AddTransactionInput, error) {
	t, err := domain.ParseType(r.Type)
	if err != nil {
		return usecase.AddTransactionInput{}, err
	}

	raw := bytes.TrimSpace(r.Amount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return usecase.AddTransactionInput{}, fmt.Errorf("%w: amount is required", domain.ErrInvalidInput)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return usecase.AddTransactionInput{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	amount, err := domain.ParseAmount(text)
	if err != nil {
		return usecase.AddTransactionInput{}, err
	}

	return usecase.AddTransactionInput{
		Description: r.Description,
		Category:    r.Category,
		Amount:      amount,
		Type:        t,
	}, nil
}

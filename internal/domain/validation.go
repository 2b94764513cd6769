package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrMalformedAmount = errors.New("amount is not a finite number")
	ErrUnknownType     = errors.New("unknown transaction type")
)

// typeAliases maps accepted user spellings to wire tokens.
var typeAliases = map[string]TransactionType{
	"entrada": Income,
	"income":  Income,
	"receita": Income,
	"saida":   Expense,
	"saída":   Expense,
	"expense": Expense,
	"despesa": Expense,
}

// ValidateAmount validates an amount supplied for a new transaction.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNegativeAmount)
	}
	return nil
}

// ValidateType validates a transaction type supplied for a new transaction.
func ValidateType(t TransactionType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrUnknownType, t)
	}
	return nil
}

// ParseType resolves a user-supplied type, accepting the wire tokens and
// their English and Portuguese names.
func ParseType(s string) (TransactionType, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrUnknownType, s)
	}
	return t, nil
}

// ParseAmount parses a user-typed amount. "1234.56", the pt-BR "1.234,56"
// and "1,234.56" are accepted: the last separator is the decimal mark and the
// other one groups thousands. Negative and non-finite values are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidInput, ErrMalformedAmount)
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrMalformedAmount, s)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

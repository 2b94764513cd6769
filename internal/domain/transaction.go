package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction. The values are the
// persisted wire tokens and must not change.
type TransactionType string

const (
	Income  TransactionType = "entrada"
	Expense TransactionType = "saida"
)

// IsValid reports whether t is one of the recognized tokens.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Transaction is a single income or expense record.
type Transaction struct {
	Date        time.Time
	ID          int64
	Description string
	Category    string
	Amount      decimal.Decimal
	Type        TransactionType
}

// Signed returns the contribution of the transaction to a balance:
// +Amount for income, -Amount for expense and zero for anything else.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// Validate checks the fields enforced when records enter the store.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidFormat)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidFormat, ErrUnknownType, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, ErrNegativeAmount)
	}
	return nil
}

// contributes reports whether the record takes part in aggregation.
// Records that would fail Validate count as zero instead of failing a render.
func (t Transaction) contributes() bool {
	return t.Type.IsValid() && !t.Date.IsZero() && !t.Amount.IsNegative()
}

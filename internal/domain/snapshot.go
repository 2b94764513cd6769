package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the instant format written to storage: UTC, millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	errMissingField = errors.New("missing required field")
	errNotArray     = errors.New(`"transactions" is not an array`)
)

type snapshot struct {
	Transactions []wireTransaction `json:"transactions"`
}

type wireTransaction struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      json.Number     `json:"amount"`
	Type        TransactionType `json:"type"`
}

// rawTransaction uses pointers so that absent fields can be told apart from zero values.
type rawTransaction struct {
	ID          *json.Number `json:"id"`
	Date        *string      `json:"date"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Amount      *json.Number `json:"amount"`
	Type        *string      `json:"type"`
}

// EncodeSnapshot serializes transactions into the compact persisted document.
func EncodeSnapshot(transactions []Transaction) ([]byte, error) {
	data, err := json.Marshal(newSnapshot(transactions))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// EncodeSnapshotIndent serializes transactions into the pretty-printed backup document.
func EncodeSnapshotIndent(transactions []Transaction) ([]byte, error) {
	data, err := json.MarshalIndent(newSnapshot(transactions), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

func newSnapshot(transactions []Transaction) snapshot {
	s := snapshot{Transactions: make([]wireTransaction, len(transactions))}
	for i, t := range transactions {
		s.Transactions[i] = wireTransaction{
			ID:          t.ID,
			Date:        t.Date.UTC().Format(DateLayout),
			Description: t.Description,
			Category:    t.Category,
			Amount:      json.Number(t.Amount.String()),
			Type:        t.Type,
		}
	}
	return s
}

// DecodeSnapshot parses a persisted or imported document.
//
// It fails with ErrParseError when data is not JSON, and with ErrInvalidFormat
// when the top level is not an object with a "transactions" array or when any
// record is missing a field or carries a malformed id, date, amount or type.
// Decoding is all-or-nothing.
func DecodeSnapshot(data []byte) ([]Transaction, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrParseError)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidFormat)
	}

	raw, ok := top["transactions"]
	if !ok {
		return nil, fmt.Errorf("%w: %w \"transactions\"", ErrInvalidFormat, errMissingField)
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, errNotArray)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, errNotArray)
	}

	transactions := make([]Transaction, 0, len(items))
	for i, item := range items {
		t, err := decodeTransaction(item)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %w", ErrInvalidFormat, i, err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

func decodeTransaction(item json.RawMessage) (Transaction, error) {
	var r rawTransaction
	if err := json.Unmarshal(item, &r); err != nil {
		return Transaction{}, err
	}

	switch {
	case r.ID == nil:
		return Transaction{}, fmt.Errorf("%w \"id\"", errMissingField)
	case r.Date == nil:
		return Transaction{}, fmt.Errorf("%w \"date\"", errMissingField)
	case r.Description == nil:
		return Transaction{}, fmt.Errorf("%w \"description\"", errMissingField)
	case r.Category == nil:
		return Transaction{}, fmt.Errorf("%w \"category\"", errMissingField)
	case r.Amount == nil:
		return Transaction{}, fmt.Errorf("%w \"amount\"", errMissingField)
	case r.Type == nil:
		return Transaction{}, fmt.Errorf("%w \"type\"", errMissingField)
	}

	id, err := r.ID.Int64()
	if err != nil {
		return Transaction{}, fmt.Errorf("id %q is not an integer", r.ID.String())
	}

	date, err := time.Parse(time.RFC3339Nano, *r.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("date %q is not an RFC 3339 instant", *r.Date)
	}

	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %q", ErrMalformedAmount, r.Amount.String())
	}

	t := Transaction{
		ID:          id,
		Date:        date.UTC().Truncate(time.Millisecond),
		Description: *r.Description,
		Category:    *r.Category,
		Amount:      amount,
		Type:        TransactionType(*r.Type),
	}

	if !t.Type.IsValid() {
		return Transaction{}, fmt.Errorf("%w %q", ErrUnknownType, *r.Type)
	}
	if t.Amount.IsNegative() {
		return Transaction{}, ErrNegativeAmount
	}

	return t, nil
}

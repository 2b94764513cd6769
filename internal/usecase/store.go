package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caixa/internal/domain"
)

// Store is the in-memory, insertion-ordered sequence of transactions.
// It is not safe for concurrent use; CashbookUseCase serializes access.
type Store struct {
	clock        Clock
	idGen        IDGenerator
	transactions []domain.Transaction
}

// NewStore creates an empty Store.
func NewStore(clock Clock, idGen IDGenerator) *Store {
	return &Store{
		clock:        clock,
		idGen:        idGen,
		transactions: []domain.Transaction{},
	}
}

// AddTransactionInput represents input for appending a transaction.
type AddTransactionInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	Type        domain.TransactionType
}

// Append validates input, stamps it with the current instant and a fresh ID
// and appends it. The store is unchanged on failure.
func (s *Store) Append(input AddTransactionInput) (domain.Transaction, error) {
	if err := domain.ValidateType(input.Type); err != nil {
		return domain.Transaction{}, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return domain.Transaction{}, err
	}

	now := s.clock.Now().UTC().Truncate(time.Millisecond)

	t := domain.Transaction{
		ID:          s.idGen.Generate(now),
		Date:        now,
		Description: input.Description,
		Category:    input.Category,
		Amount:      input.Amount,
		Type:        input.Type,
	}

	s.transactions = append(s.transactions, t)

	return t, nil
}

// ReplaceAll substitutes the whole sequence. Every element is validated first;
// on failure the store is unchanged.
func (s *Store) ReplaceAll(transactions []domain.Transaction) error {
	for i, t := range transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	replaced := make([]domain.Transaction, len(transactions))
	copy(replaced, transactions)
	s.transactions = replaced

	return nil
}

// All returns a copy of the sequence in insertion order.
func (s *Store) All() []domain.Transaction {
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Reset discards every transaction.
func (s *Store) Reset() {
	s.transactions = []domain.Transaction{}
}

// Len returns the number of transactions.
func (s *Store) Len() int {
	return len(s.transactions)
}

package domain

import "time"

// Event types
const (
	EventTypeTransactionAdded = "transaction.added"
	EventTypeCashbookReset    = "cashbook.reset"
	EventTypeCashbookImported = "cashbook.imported"
)

// Event is a state change published after it has been persisted.
type Event struct {
	Type       string
	OccurredAt time.Time
	Payload    any
}

// TransactionAddedEvent payload
type TransactionAddedEvent struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// CashbookResetEvent payload
type CashbookResetEvent struct {
	Discarded int `json:"discarded"`
}

// CashbookImportedEvent payload
type CashbookImportedEvent struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
}

// NewTransactionAddedEvent builds the event emitted after an add.
func NewTransactionAddedEvent(t Transaction, at time.Time) *Event {
	return &Event{
		Type:       EventTypeTransactionAdded,
		OccurredAt: at,
		Payload: TransactionAddedEvent{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
			Category:    t.Category,
			Description: t.Description,
			Date:        t.Date.UTC().Format(DateLayout),
		},
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/caixa/internal/domain"
)

// CashbookUseCase coordinates the store, its persistence and the derived views.
// Operations are serialized, so it is safe for concurrent use.
type CashbookUseCase struct {
	mu          sync.Mutex
	store       *Store
	persistence *Persistence
	clock       Clock
	publisher   EventPublisher
	recorder    Recorder
	logger      zerolog.Logger
	recentLimit int
}

// CashbookConfig holds optional collaborators. Nil values are replaced by no-ops.
type CashbookConfig struct {
	Publisher   EventPublisher
	Recorder    Recorder
	Logger      zerolog.Logger
	RecentLimit int
}

// NewCashbookUseCase creates a new CashbookUseCase.
func NewCashbookUseCase(store *Store, persistence *Persistence, clock Clock, cfg CashbookConfig) *CashbookUseCase {
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = domain.DefaultRecentLimit
	}

	return &CashbookUseCase{
		store:       store,
		persistence: persistence,
		clock:       clock,
		publisher:   cfg.Publisher,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		recentLimit: cfg.RecentLimit,
	}
}

// RestoreResult describes the outcome of Restore.
type RestoreResult struct {
	QuarantineKey string
	Count         int
	MaxID         int64
	Corrupt       bool
}

// Restore loads the persisted sequence into the store. A corrupt document is
// set aside under the quarantine key and the store starts empty.
func (uc *CashbookUseCase) Restore(ctx context.Context) (RestoreResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	transactions, err := uc.persistence.Load(ctx)
	if err == nil {
		err = uc.store.ReplaceAll(transactions)
	}

	switch {
	case err == nil:
		uc.recorder.StateLoaded(len(transactions), false)
		uc.recorder.StoreSize(uc.store.Len())

		result := RestoreResult{Count: len(transactions)}
		for _, t := range transactions {
			result.MaxID = max(result.MaxID, t.ID)
		}
		return result, nil

	case errors.Is(err, domain.ErrCorruptState), errors.Is(err, domain.ErrInvalidFormat):
		uc.logger.Warn().Err(err).Str("key", uc.persistence.Key()).Msg("persisted state is corrupt, starting empty")

		result := RestoreResult{Corrupt: true}
		key, qErr := uc.persistence.Quarantine(ctx)
		if qErr != nil {
			uc.logger.Error().Err(qErr).Msg("failed to quarantine corrupt state")
		} else {
			result.QuarantineKey = key
			uc.logger.Info().Str("key", key).Msg("corrupt state quarantined")
		}

		uc.store.Reset()
		uc.recorder.StateLoaded(0, true)
		uc.recorder.StoreSize(0)
		return result, nil

	default:
		return RestoreResult{}, err
	}
}

// Add appends a new transaction and persists the store. When the save fails
// the transaction stays in memory and the error is returned.
func (uc *CashbookUseCase) Add(ctx context.Context, input AddTransactionInput) (domain.Transaction, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	t, err := uc.store.Append(input)
	if err != nil {
		return domain.Transaction{}, err
	}
	uc.recorder.TransactionAdded(t.Type)

	if err := uc.save(ctx); err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d not persisted: %w", t.ID, err)
	}

	uc.publish(ctx, domain.NewTransactionAddedEvent(t, uc.clock.Now()))

	return t, nil
}

// Reset discards every transaction and persists the empty store. It returns
// the number of transactions discarded.
func (uc *CashbookUseCase) Reset(ctx context.Context) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	discarded := uc.store.Len()
	uc.store.Reset()
	uc.recorder.Reset()

	if err := uc.save(ctx); err != nil {
		return discarded, err
	}

	uc.publish(ctx, &domain.Event{
		Type:       domain.EventTypeCashbookReset,
		OccurredAt: uc.clock.Now(),
		Payload:    domain.CashbookResetEvent{Discarded: discarded},
	})

	return discarded, nil
}

// ImportResult describes the outcome of Import.
type ImportResult struct {
	Imported int
	Replaced int
}

// Import replaces the store with the content of a backup document. On any
// parse or validation failure the store is left untouched.
func (uc *CashbookUseCase) Import(ctx context.Context, blob []byte) (ImportResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	transactions, err := uc.persistence.ImportFromFile(blob)
	if err != nil {
		uc.recorder.Imported(0, err)
		return ImportResult{}, err
	}

	replaced := uc.store.Len()
	if err := uc.store.ReplaceAll(transactions); err != nil {
		uc.recorder.Imported(0, err)
		return ImportResult{}, err
	}

	result := ImportResult{Imported: len(transactions), Replaced: replaced}
	uc.recorder.Imported(result.Imported, nil)

	if err := uc.save(ctx); err != nil {
		return result, err
	}

	uc.publish(ctx, &domain.Event{
		Type:       domain.EventTypeCashbookImported,
		OccurredAt: uc.clock.Now(),
		Payload:    domain.CashbookImportedEvent{Imported: result.Imported, Replaced: result.Replaced},
	})

	return result, nil
}

// Export builds the backup file for the current store.
func (uc *CashbookUseCase) Export(_ context.Context) (ExportFile, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.persistence.ExportToFile(uc.store.All(), uc.clock.Now())
}

// Dashboard is every derived view of the store at one reference instant.
type Dashboard struct {
	Now    time.Time
	Recent []domain.Transaction
	Series domain.BalanceSeries
	KPIs   domain.KPISummary
	Count  int
}

// Dashboard recomputes the derived views. A zero limit selects the configured
// recent-list length.
func (uc *CashbookUseCase) Dashboard(_ context.Context, limit int) Dashboard {
	uc.mu.Lock()
	transactions := uc.store.All()
	uc.mu.Unlock()

	if limit == 0 {
		limit = uc.recentLimit
	}

	now := uc.clock.Now()

	return Dashboard{
		Now:    now,
		KPIs:   domain.MonthlyKPIs(transactions, now),
		Recent: domain.RecentTransactions(transactions, limit),
		Series: domain.DailyBalanceSeries(transactions, now),
		Count:  len(transactions),
	}
}

// Recent returns up to limit transactions, newest first. A zero limit selects
// the configured recent-list length.
func (uc *CashbookUseCase) Recent(_ context.Context, limit int) []domain.Transaction {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if limit == 0 {
		limit = uc.recentLimit
	}

	return domain.RecentTransactions(uc.store.All(), limit)
}

// Ping checks that the persistence slot is reachable.
func (uc *CashbookUseCase) Ping(ctx context.Context) error {
	return uc.persistence.Ping(ctx)
}

func (uc *CashbookUseCase) save(ctx context.Context) error {
	start := time.Now()
	err := uc.persistence.Save(ctx, uc.store.All())
	uc.recorder.StateSaved(time.Since(start), err)
	uc.recorder.StoreSize(uc.store.Len())

	if err != nil {
		uc.logger.Error().Err(err).Int("transactions", uc.store.Len()).Msg("failed to save state")
	}

	return err
}

func (uc *CashbookUseCase) publish(ctx context.Context, event *domain.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to publish event")
	}
}

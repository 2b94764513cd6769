package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/caixa/internal/domain"
)

// Persistence saves and restores the transaction sequence in a Slot and
// builds and reads backup files.
type Persistence struct {
	slot    Slot
	retrier Retrier
	key     string
	timeout time.Duration
}

// PersistenceConfig holds Persistence settings. Zero values select defaults.
type PersistenceConfig struct {
	Retrier Retrier
	Key     string
	Timeout time.Duration
}

// NewPersistence creates a new Persistence over slot.
func NewPersistence(slot Slot, cfg PersistenceConfig) *Persistence {
	if cfg.Key == "" {
		cfg.Key = DefaultStateKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSlotTimeout
	}
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}

	return &Persistence{
		slot:    slot,
		retrier: cfg.Retrier,
		key:     cfg.Key,
		timeout: cfg.Timeout,
	}
}

// Key returns the slot key holding the document.
func (p *Persistence) Key() string {
	return p.key
}

// Save overwrites the slot with the full sequence.
func (p *Persistence) Save(ctx context.Context, transactions []domain.Transaction) error {
	data, err := domain.EncodeSnapshot(transactions)
	if err != nil {
		return err
	}

	if err := p.write(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	return nil
}

// Load reads the persisted sequence. An absent key yields an empty sequence;
// a present but unreadable document fails with domain.ErrCorruptState.
func (p *Persistence) Load(ctx context.Context) ([]domain.Transaction, error) {
	data, ok, err := p.read(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if !ok {
		return []domain.Transaction{}, nil
	}

	transactions, err := domain.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptState, err)
	}

	return transactions, nil
}

// Quarantine copies the raw persisted document to the corrupt key so that a
// later save does not destroy it. It returns the key written.
func (p *Persistence) Quarantine(ctx context.Context) (string, error) {
	data, ok, err := p.read(ctx, p.key)
	if err != nil {
		return "", fmt.Errorf("failed to read state: %w", err)
	}

	target := p.key + CorruptSuffix
	if !ok {
		return target, nil
	}

	if err := p.write(ctx, target, data); err != nil {
		return "", fmt.Errorf("failed to quarantine state: %w", err)
	}

	return target, nil
}

// Ping checks the slot when it is backed by a remote service.
func (p *Persistence) Ping(ctx context.Context) error {
	pinger, ok := p.slot.(Pinger)
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}

// ExportFile is a named backup document.
type ExportFile struct {
	Name string
	Data []byte
}

// ExportToFile builds the pretty-printed backup named after the UTC date of now.
func (p *Persistence) ExportToFile(transactions []domain.Transaction, now time.Time) (ExportFile, error) {
	data, err := domain.EncodeSnapshotIndent(transactions)
	if err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		Name: BackupFileName(now),
		Data: data,
	}, nil
}

// ImportFromFile parses a backup document.
func (p *Persistence) ImportFromFile(blob []byte) ([]domain.Transaction, error) {
	return domain.DecodeSnapshot(blob)
}

// BackupFileName returns the export file name for now.
func BackupFileName(now time.Time) string {
	return BackupFilePrefix + now.UTC().Format(time.DateOnly) + BackupFileExt
}

func (p *Persistence) read(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		ok   bool
	)

	err := p.retrier.Retry(ctx, func() error {
		opCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		var err error
		data, ok, err = p.slot.Read(opCtx, key)
		return err
	})

	return data, ok, err
}

func (p *Persistence) write(ctx context.Context, key string, data []byte) error {
	return p.retrier.Retry(ctx, func() error {
		opCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.slot.Write(opCtx, key, data)
	})
}

package usecase

import "time"

const (
	// DefaultStateKey is the slot key holding the persisted document.
	DefaultStateKey = "dashboardData"

	// CorruptSuffix is appended to the state key when an unreadable blob is set aside.
	CorruptSuffix = ".corrupt"

	// BackupFilePrefix and BackupFileExt frame the export file name.
	BackupFilePrefix = "caixa-backup-"
	BackupFileExt    = ".json"

	// DefaultSlotTimeout bounds a single slot read or write.
	DefaultSlotTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyProcessing marks an idempotency key whose request is still in flight.
const IdempotencyProcessing = "processing"

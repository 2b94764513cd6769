package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
	"github.com/iho/caixa/internal/usecase/mocks"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ID: 1, Date: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC), Description: "Salário", Category: "Trabalho", Amount: decimal.NewFromInt(1000), Type: domain.Income},
		{ID: 2, Date: time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC), Description: "Mercado", Category: "Casa", Amount: decimal.RequireFromString("87.35"), Type: domain.Expense},
	}
}

func TestPersistence_SaveWritesStateKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slot := mocks.NewMockSlot(ctrl)
	slot.EXPECT().Write(gomock.Any(), usecase.DefaultStateKey, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, value []byte) error {
			if !strings.Contains(string(value), `"type":"saida"`) {
				t.Errorf("unexpected document: %s", value)
			}
			return nil
		})

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})
	if err := p.Save(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPersistence_SaveReturnsSlotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slotErr := errors.New("disk full")
	slot := mocks.NewMockSlot(ctrl)
	slot.EXPECT().Write(gomock.Any(), "custom", gomock.Any()).Return(slotErr)

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{Key: "custom"})
	if err := p.Save(context.Background(), nil); !errors.Is(err, slotErr) {
		t.Fatalf("expected slot error, got %v", err)
	}
}

func TestPersistence_LoadAbsentKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slot := mocks.NewMockSlot(ctrl)
	slot.EXPECT().Read(gomock.Any(), usecase.DefaultStateKey).Return(nil, false, nil)

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})
	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty sequence, got %#v", got)
	}
}

func TestPersistence_LoadCorrupt(t *testing.T) {
	for _, blob := range []string{`{not json`, `{"foo":1}`, `{"transactions":null}`} {
		ctrl := gomock.NewController(t)

		slot := mocks.NewMockSlot(ctrl)
		slot.EXPECT().Read(gomock.Any(), usecase.DefaultStateKey).Return([]byte(blob), true, nil)

		p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})
		if _, err := p.Load(context.Background()); !errors.Is(err, domain.ErrCorruptState) {
			t.Fatalf("%s: expected ErrCorruptState, got %v", blob, err)
		}

		ctrl.Finish()
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	slot := mocks.NewFakeSlot()
	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})

	for _, want := range [][]domain.Transaction{sampleTransactions(), {}} {
		if err := p.Save(context.Background(), want); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := p.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d transactions, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i].ID != want[i].ID || !got[i].Amount.Equal(want[i].Amount) || !got[i].Date.Equal(want[i].Date) {
				t.Fatalf("transaction %d differs: %+v != %+v", i, got[i], want[i])
			}
		}
	}
}

func TestPersistence_RetriesThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slot := mocks.NewMockSlot(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	gomock.InOrder(
		slot.EXPECT().Write(gomock.Any(), usecase.DefaultStateKey, gomock.Any()).Return(errors.New("busy")),
		slot.EXPECT().Write(gomock.Any(), usecase.DefaultStateKey, gomock.Any()).Return(nil),
	)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error {
			if err := op(); err == nil {
				t.Fatal("expected first attempt to fail")
			}
			return op()
		})

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{Retrier: retrier})
	if err := p.Save(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("expected retried save to succeed, got %v", err)
	}
}

func TestPersistence_Quarantine(t *testing.T) {
	slot := mocks.NewFakeSlot()
	slot.Set(usecase.DefaultStateKey, []byte(`garbage`))

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})
	key, err := p.Quarantine(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key != "dashboardData.corrupt" {
		t.Fatalf("unexpected quarantine key %q", key)
	}
	if raw, ok := slot.Get(key); !ok || string(raw) != "garbage" {
		t.Fatalf("expected raw blob under %s, got %q", key, raw)
	}
}

func TestPersistence_PingUsesPinger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pingErr := errors.New("unreachable")
	pinger := mocks.NewMockPinger(ctrl)
	pinger.EXPECT().Ping(gomock.Any()).Return(pingErr)

	slot := struct {
		*mocks.MockSlot
		*mocks.MockPinger
	}{mocks.NewMockSlot(ctrl), pinger}

	p := usecase.NewPersistence(slot, usecase.PersistenceConfig{})
	if err := p.Ping(context.Background()); !errors.Is(err, pingErr) {
		t.Fatalf("expected ping error, got %v", err)
	}

	plain := usecase.NewPersistence(mocks.NewFakeSlot(), usecase.PersistenceConfig{})
	if err := plain.Ping(context.Background()); err != nil {
		t.Fatalf("expected nil for slot without Ping, got %v", err)
	}
}

func TestPersistence_ExportToFile(t *testing.T) {
	p := usecase.NewPersistence(mocks.NewFakeSlot(), usecase.PersistenceConfig{})
	// 23:30 in São Paulo is already the next day in UTC.
	now := time.Date(2024, time.May, 31, 23, 30, 0, 0, time.FixedZone("BRT", -3*60*60))

	file, err := p.ExportToFile(nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Name != "caixa-backup-2024-06-01.json" {
		t.Errorf("unexpected file name %q", file.Name)
	}
	if string(file.Data) != "{\n  \"transactions\": []\n}" {
		t.Errorf("unexpected document %q", file.Data)
	}
}

func TestPersistence_ImportFromFile(t *testing.T) {
	p := usecase.NewPersistence(mocks.NewFakeSlot(), usecase.PersistenceConfig{})

	file, err := p.ExportToFile(sampleTransactions(), referenceNow)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := p.ImportFromFile(file.Data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != 2 || got[1].Type != domain.Expense {
		t.Fatalf("unexpected import result %+v", got)
	}

	if _, err := p.ImportFromFile([]byte(`{"foo":1}`)); !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := p.ImportFromFile([]byte(`nope`)); !errors.Is(err, domain.ErrParseError) {
		t.Fatalf("expected ErrParseError, got %v", err)
	}
}

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iho/caixa/internal/usecase"
)

var (
	_ usecase.Slot   = (*Slot)(nil)
	_ usecase.Pinger = (*Slot)(nil)
)

func TestSlotReadMissing(t *testing.T) {
	slot, err := NewSlot(t.TempDir())
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	if _, ok, err := slot.Read(context.Background(), "dashboardData"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
}

func TestSlotWriteOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	slot, err := NewSlot(dir)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	ctx := context.Background()

	for _, doc := range []string{`{"transactions":[1]}`, `{"transactions":[]}`} {
		if err := slot.Write(ctx, "dashboardData", []byte(doc)); err != nil {
			t.Fatalf("write: %v", err)
		}

		got, ok, err := slot.Read(ctx, "dashboardData")
		if err != nil || !ok || string(got) != doc {
			t.Fatalf("unexpected read: ok=%v value=%q err=%v", ok, got, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "dashboardData.json" {
		t.Fatalf("expected only the state file, got %v", entries)
	}

	info, err := os.Stat(slot.Path("dashboardData"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestSlotEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewSlot(dir)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	if err := slot.Write(context.Background(), "../escape", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if filepath.Dir(slot.Path("../escape")) != dir {
		t.Fatalf("key escaped the data directory: %s", slot.Path("../escape"))
	}
}

func TestSlotHonoursCancelledContext(t *testing.T) {
	slot, err := NewSlot(t.TempDir())
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := slot.Write(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestSlotPing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	slot, err := NewSlot(dir)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}

	if err := slot.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := slot.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail once the directory is gone")
	}
}

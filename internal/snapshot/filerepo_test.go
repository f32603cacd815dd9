package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRepository_SaveLoadLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	ctx := context.Background()

	first := Document{Version: DocumentVersion, Tick: 10, CreatedAt: time.Unix(100, 0).UTC(), World: WorldDoc{Name: "w"}}
	second := Document{Version: DocumentVersion, Tick: 20, CreatedAt: time.Unix(200, 0).UTC(), World: WorldDoc{Name: "w"}}

	if _, err := repo.Save(ctx, first, ""); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	secondKey, err := repo.Save(ctx, second, "manual")
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Tick != 20 {
		t.Errorf("expected latest checkpoint to be tick 20, got %d", latest.Tick)
	}

	loaded, err := repo.Load(ctx, secondKey)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Tick != 20 {
		t.Errorf("expected loaded checkpoint to be tick 20, got %d", loaded.Tick)
	}
}

func TestFileRepository_ListAndDeleteOlderThan(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	ctx := context.Background()

	ticks := []uint64{10, 20, 30}
	for i, tick := range ticks {
		doc := Document{Version: DocumentVersion, Tick: tick, CreatedAt: time.Unix(int64(100+i), 0).UTC()}
		if _, err := repo.Save(ctx, doc, ""); err != nil {
			t.Fatalf("Save tick %d: %v", tick, err)
		}
	}

	infos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", len(infos))
	}
	if infos[0].Tick != 10 || infos[2].Tick != 30 {
		t.Errorf("expected checkpoints sorted oldest-first by tick, got %+v", infos)
	}

	deleted, err := repo.DeleteOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 checkpoints deleted (keeping the newest), got %d", deleted)
	}

	remaining, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Tick != 30 {
		t.Errorf("expected only the tick-30 checkpoint to remain, got %+v", remaining)
	}
}

func TestFileRepository_NewFileRepositoryCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "checkpoints")
	if _, err := NewFileRepository(dir); err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
}

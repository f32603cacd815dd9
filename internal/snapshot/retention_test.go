package snapshot

import (
	"context"
	"testing"
	"time"
)

func TestRetentionSweeper_SweepOnceDeletesBeyondWindow(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	ctx := context.Background()

	ticks := []uint64{10, 50, 100}
	for i, tick := range ticks {
		doc := Document{Version: DocumentVersion, Tick: tick, CreatedAt: time.Unix(int64(100+i), 0).UTC()}
		if _, err := repo.Save(ctx, doc, ""); err != nil {
			t.Fatalf("Save tick %d: %v", tick, err)
		}
	}

	sweeper := NewRetentionSweeper(repo, 30)
	sweeper.sweepOnce(ctx)

	infos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, info := range infos {
		if info.Tick < 70 {
			t.Errorf("expected checkpoints older than the retention window to be swept, found tick %d", info.Tick)
		}
	}
}

func TestRetentionSweeper_SweepOnceNoopsWhenNoCheckpoints(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	sweeper := NewRetentionSweeper(repo, 10)
	sweeper.sweepOnce(context.Background())
}

package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileRepository stores checkpoints as JSON files under a directory, per
// spec.md §4.16's `checkpoint-<tick>[-<label>]-<iso-timestamp>.json`
// naming convention. The latest checkpoint is always the lexicographically
// greatest filename, since the zero-padded tick sorts correctly.
type FileRepository struct {
	dir string
}

// NewFileRepository returns a repository rooted at dir, creating it if
// it does not already exist.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create checkpoint dir: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

func checkpointFilename(tick uint64, label string, at time.Time) string {
	stamp := at.UTC().Format("20060102T150405Z")
	if label == "" {
		return fmt.Sprintf("checkpoint-%020d-%s.json", tick, stamp)
	}
	return fmt.Sprintf("checkpoint-%020d-%s-%s.json", tick, label, stamp)
}

// Save writes doc to a new checkpoint file and returns its filename.
func (f *FileRepository) Save(ctx context.Context, doc Document, label string) (string, error) {
	name := checkpointFilename(doc.Tick, label, doc.CreatedAt)
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("snapshot: finalize checkpoint: %w", err)
	}
	return name, nil
}

// Latest loads the checkpoint with the greatest filename, which is
// always the most recent tick under the naming convention above.
func (f *FileRepository) Latest(ctx context.Context) (Document, error) {
	names, err := f.checkpointNames()
	if err != nil {
		return Document{}, err
	}
	if len(names) == 0 {
		return Document{}, fmt.Errorf("snapshot: no checkpoints in %s", f.dir)
	}
	return f.Load(ctx, names[len(names)-1])
}

// Load reads and decodes one checkpoint by filename.
func (f *FileRepository) Load(ctx context.Context, key string) (Document, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, key))
	if err != nil {
		return Document{}, fmt.Errorf("snapshot: read checkpoint %s: %w", key, err)
	}
	return Decode(data)
}

// List returns metadata for every checkpoint, oldest first.
func (f *FileRepository) List(ctx context.Context) ([]Info, error) {
	names, err := f.checkpointNames()
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(names))
	for _, name := range names {
		tick, label, createdAt, ok := parseCheckpointFilename(name)
		if !ok {
			continue
		}
		out = append(out, Info{Key: name, Tick: tick, CreatedAt: createdAt, Label: label})
	}
	return out, nil
}

// DeleteOlderThan removes every checkpoint whose tick is strictly below
// cutoffTick, keeping at least one checkpoint so Latest never goes empty.
func (f *FileRepository) DeleteOlderThan(ctx context.Context, cutoffTick uint64) (int, error) {
	names, err := f.checkpointNames()
	if err != nil {
		return 0, err
	}
	if len(names) <= 1 {
		return 0, nil
	}
	deleted := 0
	for _, name := range names[:len(names)-1] {
		tick, _, _, ok := parseCheckpointFilename(name)
		if !ok || tick >= cutoffTick {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
			return deleted, fmt.Errorf("snapshot: delete checkpoint %s: %w", name, err)
		}
		deleted++
	}
	return deleted, nil
}

func (f *FileRepository) checkpointNames() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list checkpoint dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "checkpoint-") || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// parseCheckpointFilename extracts the tick, optional label, and
// timestamp from a `checkpoint-<tick>[-<label>]-<iso-timestamp>.json`
// filename.
func parseCheckpointFilename(name string) (tick uint64, label string, createdAt time.Time, ok bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "checkpoint-"), ".json")
	parts := strings.Split(trimmed, "-")
	if len(parts) < 2 {
		return 0, "", time.Time{}, false
	}
	if _, err := fmt.Sscanf(parts[0], "%020d", &tick); err != nil {
		return 0, "", time.Time{}, false
	}
	stamp := parts[len(parts)-1]
	at, err := time.Parse("20060102T150405Z", stamp)
	if err != nil {
		return 0, "", time.Time{}, false
	}
	if len(parts) > 2 {
		label = strings.Join(parts[1:len(parts)-1], "-")
	}
	return tick, label, at, true
}

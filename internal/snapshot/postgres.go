package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores checkpoints as whole-document JSONB rows.
// Grounded on the teacher's PostgresWorldRepository CRUD-over-SQL-string
// pattern; unlike that repository's per-column schema, a checkpoint is
// stored as a single document column because the snapshot is inherently
// one cohesive blob rather than a relationally decomposable entity — see
// DESIGN.md.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a repository backed by an open pool.
// Callers are expected to have already run the migration that creates
// the `world_checkpoints` table.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts doc as a new checkpoint row.
func (r *PostgresRepository) Save(ctx context.Context, doc Document, label string) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	query := `
		INSERT INTO world_checkpoints (tick, label, created_at, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`
	var key string
	if err := r.db.QueryRow(ctx, query, doc.Tick, label, doc.CreatedAt, data).Scan(&key); err != nil {
		return "", fmt.Errorf("snapshot: insert checkpoint: %w", err)
	}
	return key, nil
}

// Latest loads the row with the greatest tick.
func (r *PostgresRepository) Latest(ctx context.Context) (Document, error) {
	query := `
		SELECT document FROM world_checkpoints
		ORDER BY tick DESC
		LIMIT 1
	`
	var data []byte
	if err := r.db.QueryRow(ctx, query).Scan(&data); err != nil {
		return Document{}, fmt.Errorf("snapshot: query latest checkpoint: %w", err)
	}
	return Decode(data)
}

// Load reads one checkpoint by its row id.
func (r *PostgresRepository) Load(ctx context.Context, key string) (Document, error) {
	query := `SELECT document FROM world_checkpoints WHERE id = $1`
	var data []byte
	if err := r.db.QueryRow(ctx, query, key).Scan(&data); err != nil {
		return Document{}, fmt.Errorf("snapshot: query checkpoint %s: %w", key, err)
	}
	return Decode(data)
}

// List returns metadata for every stored checkpoint, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Info, error) {
	query := `
		SELECT id::text, tick, label, created_at FROM world_checkpoints
		ORDER BY tick ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var createdAt time.Time
		if err := rows.Scan(&info.Key, &info.Tick, &info.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("snapshot: scan checkpoint row: %w", err)
		}
		info.CreatedAt = createdAt
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes every checkpoint below cutoffTick, keeping at
// least the most recent row so Latest never errors on an empty table.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoffTick uint64) (int, error) {
	query := `
		DELETE FROM world_checkpoints
		WHERE tick < $1
		AND id NOT IN (SELECT id FROM world_checkpoints ORDER BY tick DESC LIMIT 1)
	`
	tag, err := r.db.Exec(ctx, query, cutoffTick)
	if err != nil {
		return 0, fmt.Errorf("snapshot: delete old checkpoints: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

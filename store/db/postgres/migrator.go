package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Migrate bootstraps the schema when it is missing. The module owns a
// single table; there is no incremental migration history to track yet.
func (d *DB) Migrate(ctx context.Context) error {
	initialized, err := d.IsInitialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE note (
			id SERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			user_id TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL
		)`, d.profile.AIDimensions),
		`CREATE INDEX idx_note_user_id ON note (user_id)`,
		`CREATE INDEX idx_note_user_updated ON note (user_id, updated_ts DESC)`,
		`CREATE INDEX idx_note_embedding ON note USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to apply schema statement: %s", stmt)
		}
	}

	slog.Info("database schema initialized", "dimensions", d.profile.AIDimensions)
	return nil
}

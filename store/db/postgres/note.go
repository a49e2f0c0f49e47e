package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/mindvault/mindvault/store"
)

// CreateNote inserts a note together with its embedding in a single write.
func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	stmt := `
		INSERT INTO note (uid, title, content, user_id, tags, embedding, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`

	vector := pgvector.NewVector(create.Embedding)
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.Title,
		create.Content,
		create.UserID,
		pq.Array(create.Tags),
		vector,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create note")
	}

	return create, nil
}

// ListNotes lists notes matching the find condition. When a user filter is
// present the result is ordered by updated_ts descending.
func (d *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	fields := "id, uid, title, content, user_id, tags, embedding, created_ts, updated_ts"
	if find.ExcludeEmbedding {
		fields = "id, uid, title, content, user_id, tags, created_ts, updated_ts"
	}

	query := `
		SELECT ` + fields + `
		FROM note
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC, id DESC
	`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notes")
	}
	defer rows.Close()

	list := []*store.Note{}
	for rows.Next() {
		note, err := scanNote(rows, !find.ExcludeEmbedding, nil)
		if err != nil {
			return nil, err
		}
		list = append(list, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// VectorSearch performs approximate nearest-neighbor search using pgvector.
// The user filter is applied inside the search stage: filtering after the
// fact would corrupt the limit semantics. The candidate pool maps to the
// HNSW ef_search parameter, scoped to the transaction.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin vector search transaction")
	}
	defer tx.Rollback()

	// SET does not accept bind parameters; the pool size is a validated int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", opts.CandidatePool)); err != nil {
		return nil, errors.Wrap(err, "failed to set candidate pool size")
	}

	// The <=> operator computes cosine distance (1 - cosine_similarity),
	// so ordering by distance ascending yields most similar first.
	query := `
		SELECT id, uid, title, content, user_id, tags, embedding, created_ts, updated_ts,
			1 - (embedding <=> ` + placeholder(1) + `) AS score
		FROM note
		WHERE user_id = ` + placeholder(2) + `
		ORDER BY embedding <=> ` + placeholder(3) + `
		LIMIT ` + placeholder(4)

	vector := pgvector.NewVector(opts.Vector)
	rows, err := tx.QueryContext(ctx, query, vector, opts.UserID, vector, opts.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.NoteWithScore{}
	for rows.Next() {
		var result store.NoteWithScore
		note, err := scanNote(rows, true, &result.Score)
		if err != nil {
			return nil, err
		}
		result.Note = note
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit vector search transaction")
	}
	return results, nil
}

// scanNote scans one note row. When score is non-nil the row is expected to
// carry a trailing score column.
func scanNote(rows *sql.Rows, withEmbedding bool, score *float32) (*store.Note, error) {
	var note store.Note
	var vector pgvector.Vector
	var tags pq.StringArray

	dest := []any{
		&note.ID,
		&note.UID,
		&note.Title,
		&note.Content,
		&note.UserID,
		&tags,
	}
	if withEmbedding {
		dest = append(dest, &vector)
	}
	dest = append(dest, &note.CreatedTs, &note.UpdatedTs)
	if score != nil {
		dest = append(dest, score)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, errors.Wrap(err, "failed to scan note")
	}

	note.Tags = []string(tags)
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if withEmbedding {
		note.Embedding = vector.Slice()
	}
	return &note, nil
}

package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// Note is a persisted note with its vector embedding.
type Note struct {
	// ID is the internal database identifier.
	ID int32
	// UID is the public identifier, rendered as an opaque string at the
	// repository boundary. Assigned on creation, immutable thereafter.
	UID       string
	Title     string
	Content   string
	UserID    string
	Tags      []string
	// Embedding is the document-mode vector. Length always equals the
	// configured dimensionality; produced once at creation, never
	// recomputed on read. Excluded from list projections.
	Embedding []float32
	CreatedTs int64
	UpdatedTs int64
}

// FindNote is the find condition for notes.
type FindNote struct {
	UID    *string
	UserID *string
	// Limit caps the number of returned rows.
	Limit *int
	// ExcludeEmbedding drops the embedding column from the projection.
	ExcludeEmbedding bool
}

// NoteWithScore is a vector search result with its similarity score.
type NoteWithScore struct {
	Note  *Note
	Score float32 // cosine similarity, 0-1, higher is more similar
}

// VectorSearchOptions are the options for an approximate nearest-neighbor query.
type VectorSearchOptions struct {
	// UserID is required. The filter is applied inside the similarity
	// search stage, never as a post-filter.
	UserID string
	Vector []float32
	Limit  int
	// CandidatePool is the number of approximate candidates the index
	// examines before truncating to Limit. Larger pools improve recall.
	CandidatePool int
}

// CreateNote persists a note together with its embedding in one write and
// assigns its public identifier.
func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	if create.UserID == "" {
		return nil, errors.New("user id is required")
	}
	if len(create.Embedding) == 0 {
		return nil, errors.New("a note is never persisted without its embedding")
	}
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.Tags == nil {
		create.Tags = []string{}
	}
	return s.driver.CreateNote(ctx, create)
}

// GetNoteByUID fetches a single note by its public identifier.
// Returns nil without error when the note does not exist.
func (s *Store) GetNoteByUID(ctx context.Context, uid string) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, &FindNote{UID: &uid})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListNotes lists the notes of one user, most recently updated first.
// The embedding column is excluded: it is large and never needed by a
// listing consumer.
func (s *Store) ListNotes(ctx context.Context, userID string, limit int) ([]*Note, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if limit <= 0 {
		limit = 100
	}
	return s.driver.ListNotes(ctx, &FindNote{
		UserID:           &userID,
		Limit:            &limit,
		ExcludeEmbedding: true,
	})
}

// VectorSearch performs user-scoped vector similarity search. Results come
// back already ordered by similarity descending; callers preserve that order.
func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*NoteWithScore, error) {
	if opts.UserID == "" {
		return nil, errors.New("user id is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.CandidatePool < opts.Limit {
		opts.CandidatePool = opts.Limit
	}
	return s.driver.VectorSearch(ctx, opts)
}

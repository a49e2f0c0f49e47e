package note

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mindvault/mindvault/internal/profile"
	"github.com/mindvault/mindvault/plugin/ai"
	apperrors "github.com/mindvault/mindvault/server/internal/errors"
	"github.com/mindvault/mindvault/server/internal/observability"
	"github.com/mindvault/mindvault/store"
)

// CreateNoteRequest carries validated-on-entry note creation input.
type CreateNoteRequest struct {
	Title   string
	Content string
	UserID  string
	Tags    []string
}

// IngestionService converts a note to a document-mode embedding and
// persists note and vector in one write.
type IngestionService struct {
	profile   *profile.Profile
	store     *store.Store
	embedding ai.EmbeddingService
}

// NewIngestionService creates a new IngestionService. The store and
// embedding handles are shared, long-lived dependencies injected once at
// process start.
func NewIngestionService(profile *profile.Profile, s *store.Store, embedding ai.EmbeddingService) *IngestionService {
	return &IngestionService{
		profile:   profile,
		store:     s,
		embedding: embedding,
	}
}

// Ingest validates the note, embeds its composite text and stores it.
// Embedding generation strictly precedes the storage write: an
// un-embeddable note is never stored.
func (s *IngestionService) Ingest(ctx context.Context, req *CreateNoteRequest) (*store.Note, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, apperrors.InvalidArgument("title cannot be empty")
	}
	if content == "" {
		return nil, apperrors.InvalidArgument("content cannot be empty")
	}
	if req.UserID == "" {
		return nil, apperrors.InvalidArgument("user_id is required")
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	reqCtx := observability.FromContextOrNew(ctx, "ingest_note", req.UserID)

	embedCtx, cancel := context.WithTimeout(ctx, s.profile.AITimeout)
	defer cancel()
	embedding, err := s.embedding.EmbedDocument(embedCtx, BuildEmbeddingText(title, content, tags))
	if err != nil {
		return nil, apperrors.ProviderUnavailable("failed to generate note embedding", err)
	}
	if len(embedding) != s.profile.AIDimensions {
		// Configuration drift between provider and profile; fatal for the
		// request and worth an operator alert.
		mismatch := apperrors.DimensionMismatch(s.profile.AIDimensions, len(embedding))
		reqCtx.Error("embedding dimension mismatch", mismatch,
			slog.Int("expected", s.profile.AIDimensions),
			slog.Int("got", len(embedding)),
			slog.String("model", s.profile.AIEmbeddingModel))
		return nil, mismatch
	}

	now := time.Now().Unix()
	storeCtx, cancel := context.WithTimeout(ctx, s.profile.StoreTimeout)
	defer cancel()
	created, err := s.store.CreateNote(storeCtx, &store.Note{
		Title:     title,
		Content:   content,
		UserID:    req.UserID,
		Tags:      tags,
		Embedding: embedding,
		CreatedTs: now,
		UpdatedTs: now,
	})
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to store note", err)
	}

	// Read back by the freshly assigned identifier. A miss here is an
	// internal consistency fault, not an ordinary not-found.
	stored, err := s.store.GetNoteByUID(storeCtx, created.UID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to read back created note", err)
	}
	if stored == nil {
		return nil, apperrors.StoreInconsistency("created note " + created.UID + " cannot be re-read")
	}

	reqCtx.Debug("note ingested",
		slog.String("uid", stored.UID),
		slog.Int("embedding_dim", len(embedding)))
	return stored, nil
}

// ListNotes returns a user's notes without embeddings, most recently
// updated first.
func (s *IngestionService) ListNotes(ctx context.Context, userID string, limit int) ([]*store.Note, error) {
	if userID == "" {
		return nil, apperrors.InvalidArgument("user_id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.profile.StoreTimeout)
	defer cancel()
	notes, err := s.store.ListNotes(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to list notes", err)
	}
	return notes, nil
}

// GetNote fetches one note by its public identifier.
func (s *IngestionService) GetNote(ctx context.Context, uid string) (*store.Note, error) {
	if uid == "" {
		return nil, apperrors.InvalidArgument("note id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.profile.StoreTimeout)
	defer cancel()
	note, err := s.store.GetNoteByUID(ctx, uid)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to get note", err)
	}
	if note == nil {
		return nil, apperrors.NotFound("note " + uid + " not found")
	}
	return note, nil
}

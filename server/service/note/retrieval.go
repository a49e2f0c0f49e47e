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

// SearchRequest carries a semantic search query.
type SearchRequest struct {
	Query  string
	UserID string
	Limit  int
}

// SearchResult is a ranked search response with timing.
type SearchResult struct {
	Results []*store.NoteWithScore
	Query   string
	Count   int
	// ElapsedMs covers embedding generation and the store query, since
	// both are caller-visible latency.
	ElapsedMs int64
}

// RetrievalService embeds search queries and runs user-scoped vector
// search over the note store.
type RetrievalService struct {
	profile   *profile.Profile
	store     *store.Store
	embedding ai.EmbeddingService
}

// NewRetrievalService creates a new RetrievalService.
func NewRetrievalService(profile *profile.Profile, s *store.Store, embedding ai.EmbeddingService) *RetrievalService {
	return &RetrievalService{
		profile:   profile,
		store:     s,
		embedding: embedding,
	}
}

// Retrieve embeds the query in query mode and returns the user's most
// similar notes, preserving the store's similarity ordering end-to-end.
// An empty result set is a valid, non-error outcome.
func (s *RetrievalService) Retrieve(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperrors.InvalidArgument("query cannot be empty")
	}
	if req.UserID == "" {
		return nil, apperrors.InvalidArgument("user_id is required")
	}
	limit := s.clampLimit(req.Limit)
	reqCtx := observability.FromContextOrNew(ctx, "search_notes", req.UserID)

	start := time.Now()

	embedCtx, cancel := context.WithTimeout(ctx, s.profile.AITimeout)
	defer cancel()
	vector, err := s.embedding.EmbedQuery(embedCtx, query)
	if err != nil {
		return nil, apperrors.ProviderUnavailable("failed to embed query", err)
	}
	if len(vector) != s.profile.AIDimensions {
		mismatch := apperrors.DimensionMismatch(s.profile.AIDimensions, len(vector))
		reqCtx.Error("query embedding dimension mismatch", mismatch,
			slog.Int("expected", s.profile.AIDimensions),
			slog.Int("got", len(vector)),
			slog.String("model", s.profile.AIEmbeddingModel))
		return nil, mismatch
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.profile.StoreTimeout)
	defer cancel()
	results, err := s.store.VectorSearch(storeCtx, &store.VectorSearchOptions{
		UserID:        req.UserID,
		Vector:        vector,
		Limit:         limit,
		CandidatePool: s.candidatePool(limit),
	})
	if err != nil {
		// Never mask a store failure with an empty result set.
		return nil, apperrors.StoreUnavailable("vector search failed", err)
	}

	elapsed := time.Since(start).Milliseconds()
	reqCtx.Debug("semantic search completed",
		slog.Int("count", len(results)),
		slog.Int64("elapsed_ms", elapsed))

	return &SearchResult{
		Results:   results,
		Query:     query,
		Count:     len(results),
		ElapsedMs: elapsed,
	}, nil
}

// clampLimit applies one consistent limit policy: non-positive values get
// the default, oversized values are capped.
func (s *RetrievalService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.profile.SearchDefaultLimit
	}
	if limit > s.profile.SearchMaxLimit {
		return s.profile.SearchMaxLimit
	}
	return limit
}

// candidatePool returns the provider-side pool size: a fixed config
// constant, never below the requested limit and not user-controlled.
func (s *RetrievalService) candidatePool(limit int) int {
	pool := s.profile.SearchCandidatePool
	if pool < limit {
		pool = limit
	}
	return pool
}

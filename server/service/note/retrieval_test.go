package note

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mindvault/mindvault/server/internal/errors"
	"github.com/mindvault/mindvault/store"
)

func seedNote(t *testing.T, driver *memoryDriver, userID, title, content string, embedding []float32) {
	t.Helper()
	driver.nextID++
	driver.notes = append(driver.notes, &store.Note{
		ID:        driver.nextID,
		UID:       title,
		Title:     title,
		Content:   content,
		UserID:    userID,
		Tags:      []string{},
		Embedding: normalize(embedding),
		CreatedTs: 100,
		UpdatedTs: 100,
	})
}

func TestRetrieveUsesQueryMode(t *testing.T) {
	embedder := newMockEmbedding(4)
	driver := newMemoryDriver()
	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)

	_, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "temples", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.queryCalls)
	assert.Equal(t, 0, embedder.documentCalls, "retrieval never uses document mode")
}

func TestRetrieveNeverLeaksAcrossUsers(t *testing.T) {
	embedder := newMockEmbedding(4)
	// Both users hold notes nearly identical to the query vector; the
	// other user's note is strictly more similar.
	query := []float32{1, 0, 0, 0}
	embedder.embedFunc = func(string) []float32 { return query }

	driver := newMemoryDriver()
	seedNote(t, driver, "u2", "u2-exact", "identical content", []float32{1, 0, 0, 0})
	seedNote(t, driver, "u1", "u1-close", "similar content", []float32{0.9, 0.1, 0, 0})
	seedNote(t, driver, "u2", "u2-close", "similar content", []float32{0.95, 0.05, 0, 0})

	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)

	for _, limit := range []int{1, 2, 10, 50} {
		result, err := svc.Retrieve(context.Background(), &SearchRequest{
			Query: "identical content", UserID: "u1", Limit: limit,
		})
		require.NoError(t, err)
		require.Len(t, result.Results, 1, "limit %d", limit)
		assert.Equal(t, "u1", result.Results[0].Note.UserID)
	}

	// The other user still sees only their own notes with the same query.
	result, err := svc.Retrieve(context.Background(), &SearchRequest{
		Query: "identical content", UserID: "u2", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	for _, r := range result.Results {
		assert.Equal(t, "u2", r.Note.UserID)
	}
}

func TestRetrieveOrderedByScoreDescending(t *testing.T) {
	embedder := newMockEmbedding(4)
	embedder.embedFunc = func(string) []float32 { return []float32{1, 0, 0, 0} }

	driver := newMemoryDriver()
	seedNote(t, driver, "u1", "far", "c", []float32{0, 1, 0, 0})
	seedNote(t, driver, "u1", "exact", "c", []float32{1, 0, 0, 0})
	seedNote(t, driver, "u1", "near", "c", []float32{0.9, 0.4, 0, 0})

	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)
	result, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: "u1", Limit: 3})
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, "exact", result.Results[0].Note.Title)
	for i := 1; i < len(result.Results); i++ {
		assert.LessOrEqual(t, result.Results[i].Score, result.Results[i-1].Score,
			"scores are non-increasing")
	}
	assert.Equal(t, 3, result.Count)
}

func TestRetrieveLimitClamping(t *testing.T) {
	embedder := newMockEmbedding(4)
	driver := newMemoryDriver()
	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)

	cases := []struct {
		requested int
		effective int
	}{
		{0, 10},
		{-5, 10},
		{7, 7},
		{50, 50},
		{500, 50},
	}
	for _, tc := range cases {
		_, err := svc.Retrieve(context.Background(), &SearchRequest{
			Query: "q", UserID: "u1", Limit: tc.requested,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.effective, driver.lastSearch.Limit, "requested %d", tc.requested)
	}
}

func TestRetrieveCandidatePoolIsNotUserControlled(t *testing.T) {
	embedder := newMockEmbedding(4)
	driver := newMemoryDriver()
	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)

	_, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: "u1", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 100, driver.lastSearch.CandidatePool, "pool comes from configuration")
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	svc := NewRetrievalService(testProfile(), store.New(newMemoryDriver(), testProfile()), newMockEmbedding(4))

	result, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "anything", UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.Count)
	assert.GreaterOrEqual(t, result.ElapsedMs, int64(0))
}

func TestRetrieveValidation(t *testing.T) {
	svc := NewRetrievalService(testProfile(), store.New(newMemoryDriver(), testProfile()), newMockEmbedding(4))

	_, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "  ", UserID: "u1"})
	assert.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: ""})
	assert.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.CodeOf(err))
}

func TestRetrieveDimensionMismatch(t *testing.T) {
	svc := NewRetrievalService(testProfile(), store.New(newMemoryDriver(), testProfile()), newMockEmbedding(16))

	_, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: "u1"})
	assert.Equal(t, apperrors.ErrCodeDimensionMismatch, apperrors.CodeOf(err))
}

func TestRetrieveStoreFailureIsNeverMasked(t *testing.T) {
	driver := newMemoryDriver()
	driver.searchErr = errors.New("index unavailable")
	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), newMockEmbedding(4))

	result, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: "u1"})
	assert.Nil(t, result, "no empty result set masks a store failure")
	assert.Equal(t, apperrors.ErrCodeStoreUnavailable, apperrors.CodeOf(err))
}

func TestRetrieveProviderFailure(t *testing.T) {
	embedder := newMockEmbedding(4)
	embedder.err = errors.New("timeout")
	driver := newMemoryDriver()
	svc := NewRetrievalService(testProfile(), store.New(driver, testProfile()), embedder)

	_, err := svc.Retrieve(context.Background(), &SearchRequest{Query: "q", UserID: "u1"})
	assert.Equal(t, apperrors.ErrCodeProviderUnavailable, apperrors.CodeOf(err))
	assert.Nil(t, driver.lastSearch, "the store is never queried without a query vector")
}

func TestIngestThenRetrieveScenario(t *testing.T) {
	// Ingest the Kyoto note, find it for its owner, and verify the same
	// query returns nothing for another user.
	ctx := context.Background()
	embedder := newMockEmbedding(4)
	embedder.embedFunc = func(text string) []float32 {
		// Query and note share vocabulary, so map both to nearby vectors.
		if text == "temples in Japan" {
			return []float32{0.9, 0.1, 0, 0}
		}
		return []float32{1, 0, 0, 0}
	}
	driver := newMemoryDriver()
	s := store.New(driver, testProfile())
	ingest := NewIngestionService(testProfile(), s, embedder)
	retrieve := NewRetrievalService(testProfile(), s, embedder)

	created, err := ingest.Ingest(ctx, &CreateNoteRequest{
		Title:   "Trip to Kyoto",
		Content: "Visited temples and gardens.",
		UserID:  "u1",
		Tags:    []string{"travel"},
	})
	require.NoError(t, err)
	require.Len(t, created.Embedding, 4)
	require.Equal(t, []string{"travel"}, created.Tags)

	hit, err := retrieve.Retrieve(ctx, &SearchRequest{Query: "temples in Japan", UserID: "u1", Limit: 5})
	require.NoError(t, err)
	require.Equal(t, 1, hit.Count)
	assert.Equal(t, created.UID, hit.Results[0].Note.UID)
	assert.Greater(t, hit.Results[0].Score, float32(0))

	miss, err := retrieve.Retrieve(ctx, &SearchRequest{Query: "temples in Japan", UserID: "u2", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, miss.Count, "no cross-user match for the same query")
}

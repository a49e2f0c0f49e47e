package note

import (
	"context"
	"database/sql"
	"hash/fnv"
	"math"
	"sort"

	"github.com/mindvault/mindvault/store"
)

// mockEmbedding is a deterministic in-process embedding provider. Its
// vector length is fixed at construction so dimension drift can be
// simulated by constructing it with the wrong size.
type mockEmbedding struct {
	dims          int
	err           error
	embedFunc     func(text string) []float32
	lastText      string
	documentCalls int
	queryCalls    int
}

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{dims: dims}
}

func (m *mockEmbedding) EmbedDocument(_ context.Context, text string) ([]float32, error) {
	m.documentCalls++
	return m.embed(text)
}

func (m *mockEmbedding) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	m.queryCalls++
	return m.embed(text)
}

func (m *mockEmbedding) Dimensions() int { return m.dims }

func (m *mockEmbedding) embed(text string) ([]float32, error) {
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	if m.embedFunc != nil {
		return m.embedFunc(text), nil
	}
	// Deterministic pseudo-embedding derived from the text.
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	vector := make([]float32, m.dims)
	for i := range vector {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/1000 + 0.001
	}
	return normalize(vector), nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// memoryDriver is an in-memory store.Driver with real cosine ranking, used
// to exercise the services without PostgreSQL.
type memoryDriver struct {
	notes           []*store.Note
	nextID          int32
	createErr       error
	listErr         error
	searchErr       error
	dropAfterCreate bool
	lastSearch      *store.VectorSearchOptions
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{}
}

func (d *memoryDriver) GetDB() *sql.DB { return nil }
func (d *memoryDriver) Close() error   { return nil }
func (d *memoryDriver) IsInitialized(context.Context) (bool, error) {
	return true, nil
}
func (d *memoryDriver) Migrate(context.Context) error { return nil }

func (d *memoryDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.nextID++
	create.ID = d.nextID
	if !d.dropAfterCreate {
		clone := *create
		d.notes = append(d.notes, &clone)
	}
	return create, nil
}

func (d *memoryDriver) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	matched := []*store.Note{}
	for _, n := range d.notes {
		if find.UID != nil && n.UID != *find.UID {
			continue
		}
		if find.UserID != nil && n.UserID != *find.UserID {
			continue
		}
		clone := *n
		if find.ExcludeEmbedding {
			clone.Embedding = nil
		}
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].UpdatedTs != matched[j].UpdatedTs {
			return matched[i].UpdatedTs > matched[j].UpdatedTs
		}
		return matched[i].ID > matched[j].ID
	})
	if find.Limit != nil && len(matched) > *find.Limit {
		matched = matched[:*find.Limit]
	}
	return matched, nil
}

func (d *memoryDriver) VectorSearch(_ context.Context, opts *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	if d.searchErr != nil {
		return nil, d.searchErr
	}
	d.lastSearch = opts

	// The user filter applies inside the search stage, before the limit.
	results := []*store.NoteWithScore{}
	for _, n := range d.notes {
		if n.UserID != opts.UserID {
			continue
		}
		clone := *n
		results = append(results, &store.NoteWithScore{
			Note:  &clone,
			Score: cosineSimilarity(opts.Vector, n.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

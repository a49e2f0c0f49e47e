package profile

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// DSN points to the PostgreSQL database holding notes and embeddings
	DSN string
	// Version is the current version of server
	Version string

	// Origins is the list of allowed CORS origins. Empty means allow all.
	Origins []string

	// AI Configuration
	AIBaseURL        string        // MINDVAULT_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey         string        // MINDVAULT_AI_API_KEY
	AIEmbeddingModel string        // MINDVAULT_AI_EMBEDDING_MODEL (default: text-embedding-004)
	AIChatModel      string        // MINDVAULT_AI_CHAT_MODEL (default: gpt-4o-mini)
	AIDimensions     int           // MINDVAULT_AI_DIMENSIONS (default: 768)
	AIQueryPrefix    string        // MINDVAULT_AI_QUERY_PREFIX, instruction prefix for query-mode embeddings
	AIDocumentPrefix string        // MINDVAULT_AI_DOCUMENT_PREFIX, instruction prefix for document-mode embeddings
	AITimeout        time.Duration // MINDVAULT_AI_TIMEOUT (default: 30s)

	// Search Configuration
	SearchCandidatePool int // MINDVAULT_SEARCH_CANDIDATE_POOL (default: 100)
	SearchDefaultLimit  int // MINDVAULT_SEARCH_DEFAULT_LIMIT (default: 10)
	SearchMaxLimit      int // MINDVAULT_SEARCH_MAX_LIMIT (default: 50)

	// StoreTimeout bounds every database call. Default: 10s.
	StoreTimeout time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIConfigured returns true if the embedding provider can be reached.
func (p *Profile) IsAIConfigured() bool {
	return p.AIAPIKey != "" || p.AIBaseURL != ""
}

// ListenAddr returns the address the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// Validate normalizes and checks the profile before the server starts.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.DSN == "" {
		return errors.New("database DSN is required")
	}
	if p.AIEmbeddingModel == "" {
		p.AIEmbeddingModel = "text-embedding-004"
	}
	if p.AIChatModel == "" {
		p.AIChatModel = "gpt-4o-mini"
	}
	if p.AIDimensions <= 0 {
		p.AIDimensions = 768
	}
	if p.AITimeout <= 0 {
		p.AITimeout = 30 * time.Second
	}
	if p.StoreTimeout <= 0 {
		p.StoreTimeout = 10 * time.Second
	}
	if p.SearchDefaultLimit <= 0 {
		p.SearchDefaultLimit = 10
	}
	if p.SearchMaxLimit < p.SearchDefaultLimit {
		p.SearchMaxLimit = 50
	}
	if p.SearchCandidatePool <= 0 {
		p.SearchCandidatePool = 100
	}
	return nil
}

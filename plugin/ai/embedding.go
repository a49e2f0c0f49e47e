package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// EmbeddingService is the vector embedding service interface.
//
// Document-mode and query-mode embeddings may be optimized differently by
// the provider, so the two must never be conflated: notes are embedded
// with EmbedDocument, search queries with EmbedQuery.
type EmbeddingService interface {
	// EmbedDocument generates a document-mode vector for text to be stored.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates a query-mode vector for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the configured vector dimension.
	Dimensions() int
}

// EmbeddingConfig configures the OpenAI-compatible embedding backend.
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	// DocumentPrefix and QueryPrefix express the embedding task for models
	// that encode it as an instruction prefix (e.g. nomic-embed-text uses
	// "search_document: " and "search_query: "). Empty for models that
	// need no task tag.
	DocumentPrefix string
	QueryPrefix    string
}

type embeddingService struct {
	client *openai.Client
	config *EmbeddingConfig
}

// NewEmbeddingService creates an EmbeddingService backed by an
// OpenAI-compatible endpoint.
func NewEmbeddingService(cfg *EmbeddingConfig) (EmbeddingService, error) {
	if cfg == nil {
		return nil, errors.New("embedding config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("embedding model is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, errors.New("embedding dimensions must be positive")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &embeddingService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

func (s *embeddingService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, s.config.DocumentPrefix+text)
}

func (s *embeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, s.config.QueryPrefix+text)
}

func (s *embeddingService) Dimensions() int {
	return s.config.Dimensions
}

func (s *embeddingService) embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.config.Model),
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create embeddings failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

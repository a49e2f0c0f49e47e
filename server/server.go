package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mindvault/mindvault/internal/profile"
	"github.com/mindvault/mindvault/plugin/ai"
	"github.com/mindvault/mindvault/plugin/ai/tags"
	"github.com/mindvault/mindvault/server/middleware"
	apiv1 "github.com/mindvault/mindvault/server/router/api/v1"
	notesvc "github.com/mindvault/mindvault/server/service/note"
	"github.com/mindvault/mindvault/store"
)

// Server assembles the HTTP surface over the note pipeline.
type Server struct {
	profile *profile.Profile
	store   *store.Store
	echo    *echo.Echo
}

// New builds the server: embedding provider, services, routes.
func New(ctx context.Context, profile *profile.Profile, s *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(profile),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(middleware.NewRateLimiter(10, 20).Middleware())

	embedding, err := ai.NewEmbeddingService(&ai.EmbeddingConfig{
		APIKey:         profile.AIAPIKey,
		BaseURL:        profile.AIBaseURL,
		Model:          profile.AIEmbeddingModel,
		Dimensions:     profile.AIDimensions,
		DocumentPrefix: profile.AIDocumentPrefix,
		QueryPrefix:    profile.AIQueryPrefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embedding service")
	}

	suggester := tags.Suggester(tags.NewStaticSuggester(tags.DefaultSuggestions()))
	if profile.IsAIConfigured() {
		llm, err := ai.NewLLMService(&ai.LLMConfig{
			APIKey:  profile.AIAPIKey,
			BaseURL: profile.AIBaseURL,
			Model:   profile.AIChatModel,
		})
		if err != nil {
			slog.Warn("llm service unavailable, tag suggestion degrades to defaults", "error", err)
		} else {
			suggester = tags.WithFallback(tags.NewLLMSuggester(llm), suggester)
		}
	}

	ingestion := notesvc.NewIngestionService(profile, s, embedding)
	retrieval := notesvc.NewRetrievalService(profile, s, embedding)
	api := apiv1.NewAPIV1Service(profile, s, ingestion, retrieval, suggester)

	e.GET("/healthz", api.Health)
	api.Register(e.Group("/api/v1"))

	server := &Server{
		profile: profile,
		store:   s,
		echo:    e,
	}

	// Schema bootstrap. Startup proceeds on failure: the process serves,
	// store-backed operations fail until the database comes back.
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.Migrate(migrateCtx); err != nil {
		slog.Error("failed to migrate database, store operations will fail", "error", err)
	}

	return server, nil
}

// Start runs the HTTP listener until it fails or is shut down.
func (s *Server) Start() error {
	slog.Info("server started",
		"addr", s.profile.ListenAddr(),
		"version", s.profile.Version,
		"mode", s.profile.Mode)
	if err := s.echo.Start(s.profile.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown http server", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}

func corsOrigins(p *profile.Profile) []string {
	if len(p.Origins) == 0 {
		return []string{"*"}
	}
	return p.Origins
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindvault/mindvault/internal/profile"
	"github.com/mindvault/mindvault/plugin/ai/tags"
	apperrors "github.com/mindvault/mindvault/server/internal/errors"
	notesvc "github.com/mindvault/mindvault/server/service/note"
	"github.com/mindvault/mindvault/store"
)

// APIV1Service wires the note pipeline to the HTTP surface. The transport
// layer stays thin: request decoding, error mapping, response shaping.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Ingestion *notesvc.IngestionService
	Retrieval *notesvc.RetrievalService
	Suggester tags.Suggester
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(
	profile *profile.Profile,
	s *store.Store,
	ingestion *notesvc.IngestionService,
	retrieval *notesvc.RetrievalService,
	suggester tags.Suggester,
) *APIV1Service {
	return &APIV1Service{
		Profile:   profile,
		Store:     s,
		Ingestion: ingestion,
		Retrieval: retrieval,
		Suggester: suggester,
	}
}

// Register mounts the v1 routes on the given group.
func (s *APIV1Service) Register(g *echo.Group) {
	g.POST("/notes", s.CreateNote)
	g.GET("/notes/:userId", s.ListNotes)
	g.GET("/note/:uid", s.GetNote)
	g.POST("/search", s.SearchNotes)
	g.POST("/tags/suggest", s.SuggestTags)
}

// toHTTPError maps a core error to a transport status, preserving the
// error kind and message for the caller.
func toHTTPError(err error) *echo.HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidArgument:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeProviderUnavailable:
		status = http.StatusBadGateway
	case apperrors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	case apperrors.ErrCodeDimensionMismatch, apperrors.ErrCodeStoreInconsistency:
		status = http.StatusInternalServerError
	}
	return echo.NewHTTPError(status, map[string]string{
		"code":    string(code),
		"message": err.Error(),
	})
}

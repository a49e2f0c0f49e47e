package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mindvault/mindvault/server/internal/observability"
	notesvc "github.com/mindvault/mindvault/server/service/note"
	"github.com/mindvault/mindvault/store"
)

// CreateNoteRequest is the create-note request body.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	UserID  string   `json:"user_id"`
	Tags    []string `json:"tags"`
}

// NoteResponse is a note without its embedding.
type NoteResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	UserID    string   `json:"user_id"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func convertNote(note *store.Note) *NoteResponse {
	return &NoteResponse{
		ID:        note.UID,
		Title:     note.Title,
		Content:   note.Content,
		UserID:    note.UserID,
		Tags:      note.Tags,
		CreatedAt: time.Unix(note.CreatedTs, 0).UTC().Format(time.RFC3339),
		UpdatedAt: time.Unix(note.UpdatedTs, 0).UTC().Format(time.RFC3339),
	}
}

// CreateNote handles POST /api/v1/notes.
func (s *APIV1Service) CreateNote(c echo.Context) error {
	req := &CreateNoteRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	reqCtx := observability.NewRequestContext(slog.Default(), "create_note", req.UserID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	note, err := s.Ingestion.Ingest(ctx, &notesvc.CreateNoteRequest{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
		Tags:    req.Tags,
	})
	if err != nil {
		reqCtx.Error("failed to create note", err)
		return toHTTPError(err)
	}

	reqCtx.Info("note created",
		slog.String("note_id", note.UID),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusCreated, convertNote(note))
}

// ListNotes handles GET /api/v1/notes/:userId.
func (s *APIV1Service) ListNotes(c echo.Context) error {
	userID := c.Param("userId")
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	notes, err := s.Ingestion.ListNotes(c.Request().Context(), userID, limit)
	if err != nil {
		return toHTTPError(err)
	}

	response := make([]*NoteResponse, len(notes))
	for i, note := range notes {
		response[i] = convertNote(note)
	}
	return c.JSON(http.StatusOK, response)
}

// GetNote handles GET /api/v1/note/:uid.
func (s *APIV1Service) GetNote(c echo.Context) error {
	note, err := s.Ingestion.GetNote(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindvault/mindvault/server/internal/observability"
	notesvc "github.com/mindvault/mindvault/server/service/note"
)

// SearchRequest is the semantic search request body.
type SearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

// SearchResultItem pairs a note with its similarity score.
type SearchResultItem struct {
	Note  *NoteResponse `json:"note"`
	Score float32       `json:"score"`
}

// SearchResponse is the ranked search response.
type SearchResponse struct {
	Results      []*SearchResultItem `json:"results"`
	Query        string              `json:"query"`
	Count        int                 `json:"count"`
	SearchTimeMs int64               `json:"search_time_ms"`
}

// SearchNotes handles POST /api/v1/search.
func (s *APIV1Service) SearchNotes(c echo.Context) error {
	req := &SearchRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	reqCtx := observability.NewRequestContext(slog.Default(), "search_notes", req.UserID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	result, err := s.Retrieval.Retrieve(ctx, &notesvc.SearchRequest{
		Query:  req.Query,
		UserID: req.UserID,
		Limit:  req.Limit,
	})
	if err != nil {
		reqCtx.Error("search failed", err)
		return toHTTPError(err)
	}

	items := make([]*SearchResultItem, len(result.Results))
	for i, r := range result.Results {
		items[i] = &SearchResultItem{
			Note:  convertNote(r.Note),
			Score: r.Score,
		}
	}

	reqCtx.Info("search completed",
		slog.Int("count", result.Count),
		slog.Int64(observability.LogFieldDuration, result.ElapsedMs))
	return c.JSON(http.StatusOK, &SearchResponse{
		Results:      items,
		Query:        result.Query,
		Count:        result.Count,
		SearchTimeMs: result.ElapsedMs,
	})
}

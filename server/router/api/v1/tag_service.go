package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindvault/mindvault/plugin/ai/tags"
)

// SuggestTagsRequest is the tag suggestion request body.
type SuggestTagsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Limit   int    `json:"limit"`
}

// SuggestTagsResponse carries best-effort tag suggestions.
type SuggestTagsResponse struct {
	Suggestions []tags.Suggestion `json:"suggestions"`
}

// SuggestTags handles POST /api/v1/tags/suggest. Suggestion is best-effort:
// provider failures degrade to the default list and never reach the caller.
func (s *APIV1Service) SuggestTags(c echo.Context) error {
	req := &SuggestTagsRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Title == "" && req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title or content is required")
	}

	suggestions, err := s.Suggester.Suggest(c.Request().Context(), &tags.SuggestRequest{
		Title:   req.Title,
		Content: req.Content,
		MaxTags: req.Limit,
	})
	if err != nil {
		// The composed suggester is expected to fall back internally; keep
		// the endpoint non-failing regardless.
		suggestions = tags.DefaultSuggestions()
	}
	return c.JSON(http.StatusOK, &SuggestTagsResponse{Suggestions: suggestions})
}

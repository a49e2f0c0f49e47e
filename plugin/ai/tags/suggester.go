// Package tags provides best-effort tag suggestion for note content.
//
// Suggestion is a side feature: it degrades to a fixed default list on any
// failure and never propagates an error to the caller.
package tags

import (
	"context"
)

// Suggestion represents a single suggested tag.
type Suggestion struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
}

// SuggestRequest contains parameters for tag suggestion.
type SuggestRequest struct {
	Title   string
	Content string
	// MaxTags caps the number of returned suggestions. Default: 5.
	MaxTags int
}

// Suggester produces short labels for note content.
type Suggester interface {
	Suggest(ctx context.Context, req *SuggestRequest) ([]Suggestion, error)
}

// staticSuggester returns a constant list regardless of input.
type staticSuggester struct {
	suggestions []Suggestion
}

// NewStaticSuggester creates a Suggester that always returns the given list.
func NewStaticSuggester(suggestions []Suggestion) Suggester {
	return &staticSuggester{suggestions: suggestions}
}

// DefaultSuggestions is the fallback list used when no provider is
// available or the provider fails.
func DefaultSuggestions() []Suggestion {
	return []Suggestion{
		{Tag: "notes", Confidence: 0.5},
		{Tag: "ideas", Confidence: 0.5},
	}
}

func (s *staticSuggester) Suggest(_ context.Context, req *SuggestRequest) ([]Suggestion, error) {
	list := s.suggestions
	if req.MaxTags > 0 && len(list) > req.MaxTags {
		list = list[:req.MaxTags]
	}
	out := make([]Suggestion, len(list))
	copy(out, list)
	return out, nil
}

// fallbackSuggester tries the primary and substitutes the fallback result
// when the primary fails or returns nothing.
type fallbackSuggester struct {
	primary  Suggester
	fallback Suggester
}

// WithFallback composes two suggesters. The returned Suggester never fails:
// primary errors are swallowed, not surfaced.
func WithFallback(primary, fallback Suggester) Suggester {
	return &fallbackSuggester{primary: primary, fallback: fallback}
}

func (s *fallbackSuggester) Suggest(ctx context.Context, req *SuggestRequest) ([]Suggestion, error) {
	if s.primary != nil {
		suggestions, err := s.primary.Suggest(ctx, req)
		if err == nil && len(suggestions) > 0 {
			return suggestions, nil
		}
	}
	return s.fallback.Suggest(ctx, req)
}

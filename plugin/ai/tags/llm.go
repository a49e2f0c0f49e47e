package tags

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/mindvault/mindvault/plugin/ai"
)

const (
	llmSuggestTimeout = 5 * time.Second
	// maxPromptContentBytes caps how much note content goes into the prompt.
	maxPromptContentBytes = 2000
)

const suggestPrompt = `Analyze this note and suggest 3-5 relevant tags.

Title: %s
Content: %s

Return ONLY a JSON array with this exact format:
[{"tag": "example", "confidence": 0.95}]

Rules:
- Tags should be single words or short phrases
- Confidence should be between 0.0 and 1.0
- Return 3-5 tags maximum
- No explanation, just the JSON array`

// llmSuggester asks a chat model for tags and parses its JSON answer.
type llmSuggester struct {
	llm     ai.LLMService
	timeout time.Duration
}

// NewLLMSuggester creates a Suggester backed by a chat model.
func NewLLMSuggester(llm ai.LLMService) Suggester {
	return &llmSuggester{
		llm:     llm,
		timeout: llmSuggestTimeout,
	}
}

func (s *llmSuggester) Suggest(ctx context.Context, req *SuggestRequest) ([]Suggestion, error) {
	if s.llm == nil {
		return nil, errors.New("llm service is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content := req.Content
	if len(content) > maxPromptContentBytes {
		// Back off to a rune boundary so the prompt stays valid UTF-8.
		cut := maxPromptContentBytes
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut] + "..."
	}

	response, err := s.llm.Chat(ctx, []ai.Message{
		{Role: "user", Content: fmt.Sprintf(suggestPrompt, req.Title, content)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "llm tag suggestion failed")
	}

	suggestions, err := parseSuggestions(response)
	if err != nil {
		slog.Warn("llm returned unparseable tag suggestions", "error", err)
		return nil, err
	}

	maxTags := req.MaxTags
	if maxTags <= 0 {
		maxTags = 5
	}
	if len(suggestions) > maxTags {
		suggestions = suggestions[:maxTags]
	}
	return suggestions, nil
}

// parseSuggestions extracts a JSON array of suggestions from the model
// response, tolerating markdown code fences and surrounding prose.
func parseSuggestions(response string) ([]Suggestion, error) {
	text := strings.TrimSpace(response)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in response")
	}
	text = text[start : end+1]

	var raw []Suggestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal suggestions")
	}

	suggestions := make([]Suggestion, 0, len(raw))
	for _, s := range raw {
		tag := strings.TrimPrefix(strings.TrimSpace(s.Tag), "#")
		if tag == "" || len(tag) > 30 {
			continue
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			s.Confidence = 0.5
		}
		suggestions = append(suggestions, Suggestion{Tag: tag, Confidence: s.Confidence})
	}
	if len(suggestions) == 0 {
		return nil, errors.New("no usable tags in response")
	}
	return suggestions, nil
}

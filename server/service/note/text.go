package note

import "strings"

// BuildEmbeddingText constructs the text that gets embedded for a note.
//
// Title and content are joined with a blank line, and a rendered tag line
// is appended when tags are present. This composite text, not the fields
// separately, is the semantic unit search matches against.
func BuildEmbeddingText(title, content string, tags []string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(content)
	if len(tags) > 0 {
		b.WriteString("\n\nTags: ")
		b.WriteString(strings.Join(tags, ", "))
	}
	return b.String()
}

package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmbeddingText(t *testing.T) {
	assert.Equal(t,
		"Trip to Kyoto\n\nVisited temples and gardens.\n\nTags: travel, japan",
		BuildEmbeddingText("Trip to Kyoto", "Visited temples and gardens.", []string{"travel", "japan"}))
}

func TestBuildEmbeddingTextWithoutTags(t *testing.T) {
	assert.Equal(t, "Groceries\n\nmilk, eggs",
		BuildEmbeddingText("Groceries", "milk, eggs", nil))
	assert.Equal(t, "Groceries\n\nmilk, eggs",
		BuildEmbeddingText("Groceries", "milk, eggs", []string{}),
		"an empty tag list renders no tag line")
}

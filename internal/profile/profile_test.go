package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p := &Profile{
		Mode: "staging",
		Port: 8081,
		DSN:  "postgres://localhost/mindvault",
	}

	require.NoError(t, p.Validate())

	assert.Equal(t, "dev", p.Mode, "unknown mode falls back to dev")
	assert.Equal(t, "text-embedding-004", p.AIEmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", p.AIChatModel)
	assert.Equal(t, 768, p.AIDimensions)
	assert.Equal(t, 30*time.Second, p.AITimeout)
	assert.Equal(t, 100, p.SearchCandidatePool)
	assert.Equal(t, 10, p.SearchDefaultLimit)
	assert.Equal(t, 50, p.SearchMaxLimit)
}

func TestValidateRejectsMissingDSN(t *testing.T) {
	p := &Profile{Mode: "prod", Port: 8081}
	assert.Error(t, p.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		p := &Profile{Mode: "dev", Port: port, DSN: "postgres://localhost/mindvault"}
		assert.Error(t, p.Validate(), "port %d", port)
	}
}

func TestIsAIConfigured(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.IsAIConfigured())

	p.AIAPIKey = "sk-test"
	assert.True(t, p.IsAIConfigured())

	p = &Profile{AIBaseURL: "http://localhost:11434/v1"}
	assert.True(t, p.IsAIConfigured(), "local OpenAI-compatible servers need no key")
}

func TestListenAddr(t *testing.T) {
	p := &Profile{Addr: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", p.ListenAddr())
}

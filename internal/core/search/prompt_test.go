package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildRelevancePrompt_IncludesScoresAndProfiles(t *testing.T) {
	summary := "Platform engineer with Kubernetes experience."
	rec := &Recommendation{
		ConnectionID:    uuid.New(),
		Name:            "Taro Yamada",
		Company:         "Example Corp",
		Position:        "Staff Engineer",
		Summary:         &summary,
		QuerySimilarity: 0.8123,
		UserSimilarity:  0.6456,
	}

	prompt := BuildRelevancePrompt("ML researcher", "kubernetes", rec)

	assert.Contains(t, prompt, "User profile: ML researcher")
	assert.Contains(t, prompt, "Search query: kubernetes")
	assert.Contains(t, prompt, "- Name: Taro Yamada")
	assert.Contains(t, prompt, "- Position: Staff Engineer at Example Corp")
	assert.Contains(t, prompt, "- Summary: Platform engineer with Kubernetes experience.")
	assert.Contains(t, prompt, "- Query similarity: 0.8123")
	assert.Contains(t, prompt, "- User similarity: 0.6456")
}

func TestBuildRelevancePrompt_OmitsMissingSummary(t *testing.T) {
	rec := &Recommendation{
		ConnectionID: uuid.New(),
		Name:         "Taro Yamada",
		Company:      "Example Corp",
		Position:     "Staff Engineer",
	}

	prompt := BuildRelevancePrompt("ML researcher", "kubernetes", rec)

	assert.NotContains(t, prompt, "- Summary:")
}

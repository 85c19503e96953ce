package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProfileSummaryPrompt_IncludesAllSections(t *testing.T) {
	profile := &Profile{
		Summary:  "Seasoned engineer.",
		Headline: "Engineer at Example Corp",
		Educations: []Education{
			{SchoolName: "Example University", Degree: "B.Sc.", FieldOfStudy: "Computer Science"},
		},
		Positions: []Position{
			{Title: "Staff Engineer", CompanyName: "Example Corp", Location: "Tokyo", EmploymentType: "Full-time"},
		},
		Languages: []Language{
			{Name: "Japanese", Proficiency: "Native"},
			{Name: "English"},
		},
		Geo: &Geo{Full: "Tokyo, Japan"},
	}

	prompt := BuildProfileSummaryPrompt(profile)

	assert.Contains(t, prompt, "- Summary: Seasoned engineer.")
	assert.Contains(t, prompt, "- Headline: Engineer at Example Corp")
	assert.Contains(t, prompt, "- School: Example University")
	assert.Contains(t, prompt, "- Title: Staff Engineer")
	assert.Contains(t, prompt, "- Japanese (Native)")
	assert.Contains(t, prompt, "- English\n")
	assert.Contains(t, prompt, "Location: Tokyo, Japan")
	assert.Contains(t, prompt, "Instructions:")
}

func TestBuildProfileSummaryPrompt_MissingFieldsRenderAsNA(t *testing.T) {
	prompt := BuildProfileSummaryPrompt(&Profile{})

	assert.Contains(t, prompt, "- Summary: N/A")
	assert.Contains(t, prompt, "- Headline: N/A")
	assert.Contains(t, prompt, "Location: N/A")

	// 空のコレクションはセクションごと省略される
	assert.NotContains(t, prompt, "Education:")
	assert.NotContains(t, prompt, "Positions:")
	assert.NotContains(t, prompt, "Languages:")
}

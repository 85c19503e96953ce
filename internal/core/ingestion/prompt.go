package ingestion

import (
	"fmt"
	"strings"
)

// ProfileSummarySystemPrompt はプロフィール要約生成用のシステムプロンプト
const ProfileSummarySystemPrompt = `You are an AI assistant specialized in creating concise, professional LinkedIn-style profile summaries.
- Always generate clear, natural-sounding paragraphs.
- Ground your output in the structured data provided.
- If data is missing, gracefully omit it without making assumptions.
- Keep summaries to 3-5 sentences.
- Prefer professional and readable tone.
`

// BuildProfileSummaryPrompt は取得済みプロフィールから要約生成用の
// ユーザープロンプトを構築する。欠落フィールドは "N/A" として描画するか
// セクションごと省略し、決して捏造しない。
func BuildProfileSummaryPrompt(profile *Profile) string {
	var sb strings.Builder

	sb.WriteString("Profile:\n")
	sb.WriteString(fmt.Sprintf("- Summary: %s\n", orNA(profile.Summary)))
	sb.WriteString(fmt.Sprintf("- Headline: %s\n", orNA(profile.Headline)))

	if len(profile.Educations) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, ed := range profile.Educations {
			sb.WriteString(fmt.Sprintf("- School: %s\n", orNA(ed.SchoolName)))
			sb.WriteString(fmt.Sprintf("  Degree: %s\n", orNA(ed.Degree)))
			sb.WriteString(fmt.Sprintf("  Field of Study: %s\n", orNA(ed.FieldOfStudy)))
			if ed.Description != "" {
				sb.WriteString(fmt.Sprintf("  Description: %s\n", ed.Description))
			}
			if ed.Activities != "" {
				sb.WriteString(fmt.Sprintf("  Activities: %s\n", ed.Activities))
			}
		}
	}

	if len(profile.Positions) > 0 {
		sb.WriteString("\nPositions:\n")
		for _, pos := range profile.Positions {
			sb.WriteString(fmt.Sprintf("- Title: %s\n", orNA(pos.Title)))
			sb.WriteString(fmt.Sprintf("  Company: %s\n", orNA(pos.CompanyName)))
			if pos.Location != "" {
				sb.WriteString(fmt.Sprintf("  Location: %s\n", pos.Location))
			}
			if pos.EmploymentType != "" {
				sb.WriteString(fmt.Sprintf("  Employment Type: %s\n", pos.EmploymentType))
			}
			if pos.CompanyIndustry != "" {
				sb.WriteString(fmt.Sprintf("  Industry: %s\n", pos.CompanyIndustry))
			}
			if pos.Description != "" {
				sb.WriteString(fmt.Sprintf("  Description: %s\n", pos.Description))
			}
		}
	}

	if len(profile.Languages) > 0 {
		sb.WriteString("\nLanguages:\n")
		for _, lang := range profile.Languages {
			if lang.Proficiency != "" {
				sb.WriteString(fmt.Sprintf("- %s (%s)\n", lang.Name, lang.Proficiency))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", lang.Name))
			}
		}
	}

	location := ""
	if profile.Geo != nil {
		location = profile.Geo.Full
	}
	sb.WriteString(fmt.Sprintf("\nLocation: %s\n", orNA(location)))

	sb.WriteString("\nInstructions:\n")
	sb.WriteString("Using the above structured profile data, write a professional LinkedIn-style summary paragraph (3-5 sentences) that naturally integrates the information.\n")

	return sb.String()
}

// orNA は空文字列を "N/A" に置き換える
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

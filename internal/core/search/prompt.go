package search

import (
	"fmt"
	"strings"
)

// RelevanceSystemPrompt は推薦理由生成用のシステムプロンプト
const RelevanceSystemPrompt = `You are an assistant that explains why a user's connection is relevant.`

// BuildRelevancePrompt は推薦結果1件に対する理由生成用プロンプトを構築する。
// ユーザー要約・クエリ・つながりのプロフィールと両方のスコアを提示する。
func BuildRelevancePrompt(userSummary, query string, rec *Recommendation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("User profile: %s\n", userSummary))
	sb.WriteString(fmt.Sprintf("Search query: %s\n", query))

	sb.WriteString("Connection profile:\n")
	sb.WriteString(fmt.Sprintf("  - Name: %s\n", rec.Name))
	sb.WriteString(fmt.Sprintf("  - Position: %s at %s\n", rec.Position, rec.Company))
	if rec.Summary != nil {
		sb.WriteString(fmt.Sprintf("  - Summary: %s\n", *rec.Summary))
	}

	sb.WriteString("\nScores:\n")
	sb.WriteString(fmt.Sprintf("  - Query similarity: %.4f\n", rec.QuerySimilarity))
	sb.WriteString(fmt.Sprintf("  - User similarity: %.4f\n", rec.UserSimilarity))

	sb.WriteString("\nConcisely explain in 1-2 sentences why this connection matches, highlighting overlap with the query and/or user's background. Be clear and human-sounding.\n")

	return sb.String()
}

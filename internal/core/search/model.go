package search

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxResults は1回の検索で返す最大件数
	MaxResults = 4

	// SimilarityFloor はクエリ単独検索（Mode A）の類似度下限。
	// これ以下のつながりは結果に含めない。
	SimilarityFloor = 0.5

	// QueryWeight / UserWeight は複合スコアの固定重み。
	// クエリ関連度を優先するバイアスが意図されている。
	QueryWeight = 0.6
	UserWeight  = 0.4
)

// SearchParams はクエリ単独検索（Mode A）のパラメータ
type SearchParams struct {
	UserID uuid.UUID
	Query  string
	Limit  int // 0以下の場合は MaxResults
}

// SearchResult はクエリ単独検索の結果1件を表す
type SearchResult struct {
	ConnectionID uuid.UUID `json:"connectionID"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	LinkedinURL  string    `json:"linkedinURL"`
	ConnectedOn  time.Time `json:"connectedOn"`
	Similarity   float64   `json:"similarity"`
}

// UserContext はユーザープロフィール加味検索（Mode B）に必要な
// ユーザー側の情報を表す。Summary はオンボーディング済みユーザーの
// 要約であり、空であってはならない（呼び出し側でゲートする）。
type UserContext struct {
	ID      uuid.UUID
	Summary string
}

// RecommendParams はユーザープロフィール加味検索（Mode B）のパラメータ
type RecommendParams struct {
	User  UserContext
	Query string

	// WithReasons が真の場合、各結果に自然言語の推薦理由を付与する
	WithReasons bool
}

// Recommendation はユーザープロフィール加味検索の結果1件を表す。
// 透明性のため複合スコアと両方の構成スコアをそのまま保持する。
type Recommendation struct {
	ConnectionID    uuid.UUID `json:"connectionID"`
	Name            string    `json:"name"`
	Company         string    `json:"company"`
	Position        string    `json:"position"`
	LinkedinURL     string    `json:"linkedinURL"`
	ConnectedOn     time.Time `json:"connectedOn"`
	Summary         *string   `json:"summary,omitempty"`
	QuerySimilarity float64   `json:"querySimilarity"`
	UserSimilarity  float64   `json:"userSimilarity"`
	CombinedScore   float64   `json:"combinedScore"`
	Reason          string    `json:"reason,omitempty"`
}

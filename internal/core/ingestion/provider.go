package ingestion

import "context"

// Profile は外部スクレイピングAPIから取得される構造化プロフィール。
// すべてのフィールドは欠落しうる（欠落はそのまま扱い、補完しない）。
type Profile struct {
	Summary    string      `json:"summary"`
	Headline   string      `json:"headline"`
	Educations []Education `json:"educations,omitempty"`
	Positions  []Position  `json:"position,omitempty"`
	Languages  []Language  `json:"languages,omitempty"`
	Geo        *Geo        `json:"geo,omitempty"`
}

// Education は学歴1件を表す
type Education struct {
	SchoolName   string `json:"schoolName"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Description  string `json:"description"`
	Activities   string `json:"activities"`
}

// Position は職歴1件を表す
type Position struct {
	CompanyName     string `json:"companyName"`
	Title           string `json:"title"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	EmploymentType  string `json:"employmentType"`
	CompanyIndustry string `json:"companyIndustry"`
}

// Language は言語スキル1件を表す
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Geo は所在地を表す
type Geo struct {
	Full string `json:"full"`
}

// ProfileSource は公開プロフィールURLから構造化データを取得するインターフェース。
// 実装は信頼できない外部APIのため、呼び出しは失敗しうる前提で扱う。
type ProfileSource interface {
	FetchProfile(ctx context.Context, url string) (*Profile, error)
}

// Embedder はテキストを固定次元ベクトルに変換するインターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed は複数テキストのEmbeddingを生成する。
	// 戻り値は入力と同じ長さ・同じ順序であることが保証される。
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension はベクトル次元数を返す。
	// ストレージのvectorカラム次元と一致しない場合は設定不備である。
	Dimension() int
}

// Generator はLLMによるテキスト生成インターフェース。
// 出力はスキーマを持たない自然言語文字列であり、構造化データとして
// 解析してはならない。
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

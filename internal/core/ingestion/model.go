package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// User はサービス利用者を表す。
// Summary と Embedding はオンボーディング完了まで nil であり、
// 必ず同時に設定される（片方だけが存在する状態は許されない）。
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Onboarded bool      `json:"onboarded"`
	Summary   *string   `json:"summary,omitempty"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ready はユーザー自身のプロフィール要約とEmbeddingが揃っているかを返す
func (u *User) Ready() bool {
	return u.Summary != nil && len(u.Embedding) > 0
}

// Connection はユーザーのつながり1件を表す。
// インポート時の項目（Name/Company/Position/LinkedinURL/ConnectedOn）は
// 不変で、Summary と Embedding のみがパイプラインにより後から設定される。
type Connection struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userID"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	LinkedinURL string    `json:"linkedinURL"`
	ConnectedOn time.Time `json:"connectedOn"`
	Summary     *string   `json:"summary,omitempty"`
	Embedding   []float32 `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Ready はつながりが検索対象（要約とEmbeddingが揃った状態）かを返す
func (c *Connection) Ready() bool {
	return c.Summary != nil && len(c.Embedding) > 0
}

// ConnectionInput はつながり追加イベントのペイロードを表す
type ConnectionInput struct {
	UserID      uuid.UUID `json:"userID" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	LinkedinURL string    `json:"linkedinURL" validate:"required,url"`
	ConnectedOn time.Time `json:"connectedOn" validate:"required"`
}

// OnboardingInput はオンボーディングリクエストのペイロードを表す
type OnboardingInput struct {
	UserID      uuid.UUID `json:"userID" validate:"required"`
	LinkedinURL string    `json:"linkedinUrl" validate:"required,url"`
}

// UnitState はパイプライン処理単位のライフサイクル状態
type UnitState string

const (
	StateQueued      UnitState = "queued"
	StateFetching    UnitState = "fetching"
	StateSummarizing UnitState = "summarizing"
	StateEmbedding   UnitState = "embedding"
	StatePersisting  UnitState = "persisting"
	StateReady       UnitState = "ready"
	StateAbandoned   UnitState = "abandoned"
)

// UnitKind は処理単位の種別（つながり追加 or オンボーディング）
type UnitKind string

const (
	// UnitConnection はつながり1件の取り込み
	UnitConnection UnitKind = "connection"
	// UnitOnboarding はユーザー自身のオンボーディング
	UnitOnboarding UnitKind = "onboarding"
)

// Unit はパイプラインの独立した処理単位を表す。
// 単位同士は共有状態を持たず、順序保証もない。
type Unit struct {
	Kind        UnitKind
	TargetID    uuid.UUID // Connection ID または User ID
	LinkedinURL string
}

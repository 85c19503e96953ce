package ingestion

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound は対象ユーザーが存在しない場合のエラー
	ErrUserNotFound = errors.New("user not found")

	// ErrConnectionNotFound は対象のつながりが存在しない場合のエラー
	ErrConnectionNotFound = errors.New("connection not found")
)

// Repository はユーザー・つながりの永続化を統合するインターフェース。
// テスト時のモック用に消費者側で定義する。
type Repository interface {
	// User
	CreateUserIfNotExists(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// SetUserProfile は要約とEmbeddingを単一の原子的な書き込みで設定し、
	// 同時にオンボーディング完了フラグを立てる。
	SetUserProfile(ctx context.Context, userID uuid.UUID, summary string, vector []float32) error

	// Connection
	CreateConnection(ctx context.Context, input ConnectionInput) (*Connection, error)
	GetConnectionByID(ctx context.Context, id uuid.UUID) (*Connection, error)
	ListConnectionsByUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error)

	// SetConnectionProfile は要約とEmbeddingを単一の原子的な書き込みで設定する。
	// 片方のみが永続化される状態は存在しない。
	SetConnectionProfile(ctx context.Context, connectionID uuid.UUID, summary string, vector []float32) error
}

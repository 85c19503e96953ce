package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL はコアが読み書きするテーブルとインデックスの定義。
// embedding カラムの次元（1536）は Embedding サービスの設定と一致する
// 必要があり、不一致は設定不備として扱う。
//
// (user_id, linkedin_url) に一意制約は意図的に置いていない。
// 同一プロフィールの二重エンキューは重複行を生みうるが、重複排除は
// エンキューする側の責務とする。
const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS users (
	id uuid PRIMARY KEY,
	email text NOT NULL UNIQUE,
	onboarded boolean NOT NULL DEFAULT false,
	summary text,
	embedding vector(1536),
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS users_embedding_idx
	ON users USING hnsw (embedding vector_cosine_ops);

CREATE TABLE IF NOT EXISTS connections (
	id uuid PRIMARY KEY,
	user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name text NOT NULL,
	company text NOT NULL,
	position text NOT NULL,
	linkedin_url text NOT NULL,
	connected_on date NOT NULL,
	summary text,
	embedding vector(1536),
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS connections_user_id_idx
	ON connections (user_id);

CREATE INDEX IF NOT EXISTS connections_embedding_idx
	ON connections USING hnsw (embedding vector_cosine_ops);
`

// EnsureSchema はスキーマを冪等に適用する
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

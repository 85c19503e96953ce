package search

import (
	"context"

	"github.com/google/uuid"
)

// Repository はストレージ層の類似度検索を統合するインターフェース。
// 類似度計算はストレージのコサイン距離演算子（近似最近傍インデックス）に
// 委譲され、アプリケーション側で全ベクトルを走査することはない。
// Embedding 未設定（pending）の行は実装側で必ず除外される。
type Repository interface {
	// SearchBySimilarity はクエリベクトルとの類似度が floor を超える
	// つながりを類似度降順で最大 limit 件返す。
	SearchBySimilarity(ctx context.Context, userID uuid.UUID, queryVector []float32, floor float64, limit int) ([]*SearchResult, error)

	// SearchWithUserBias はクエリ類似度とユーザー類似度の加重和
	// （queryWeight*query + userWeight*user）を複合スコアとして、
	// 降順で最大 limit 件返す。類似度の下限は適用しない。
	SearchWithUserBias(ctx context.Context, userID uuid.UUID, queryVector, userVector []float32, queryWeight, userWeight float64, limit int) ([]*Recommendation, error)
}

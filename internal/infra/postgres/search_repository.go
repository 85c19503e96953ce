package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/777advait/aeonik/internal/core/search"
)

// SearchRepository は search.Repository を実装する PostgreSQL リポジトリ。
// 類似度は `1 - (embedding <=> query)` としてストレージ側で計算され、
// HNSW インデックスによる近似最近傍検索が使われる。
type SearchRepository struct {
	pool *pgxpool.Pool
}

// NewSearchRepository は新しい SearchRepository を返す。
func NewSearchRepository(pool *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{pool: pool}
}

var _ search.Repository = (*SearchRepository)(nil)

// SearchBySimilarity はクエリ類似度が floor を超えるつながりを
// 類似度降順で返す。embedding が NULL（pending）の行は対象外。
// 同点の並び順はストレージの返却順に従う（実装定義）。
func (r *SearchRepository) SearchBySimilarity(ctx context.Context, userID uuid.UUID, queryVector []float32, floor float64, limit int) ([]*search.SearchResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, company, position, linkedin_url, connected_on,
		       1 - (embedding <=> $1) AS similarity
		FROM connections
		WHERE user_id = $2
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) > $3
		ORDER BY similarity DESC
		LIMIT $4`,
		pgvector.NewVector(queryVector),
		UUIDToPgtype(userID),
		floor,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search by similarity: %w", err)
	}
	defer rows.Close()

	results := make([]*search.SearchResult, 0, limit)
	for rows.Next() {
		var (
			id          pgtype.UUID
			name        string
			company     string
			position    string
			linkedinURL string
			connectedOn pgtype.Date
			similarity  float64
		)
		if err := rows.Scan(&id, &name, &company, &position, &linkedinURL, &connectedOn, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, &search.SearchResult{
			ConnectionID: PgtypeToUUID(id),
			Name:         name,
			Company:      company,
			Position:     position,
			LinkedinURL:  linkedinURL,
			ConnectedOn:  PgdateToTime(connectedOn),
			Similarity:   similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search by similarity: %w", err)
	}
	return results, nil
}

// SearchWithUserBias はクエリ類似度とユーザー類似度の加重和を
// 複合スコアとして降順で返す。類似度の下限は適用しない。
func (r *SearchRepository) SearchWithUserBias(ctx context.Context, userID uuid.UUID, queryVector, userVector []float32, queryWeight, userWeight float64, limit int) ([]*search.Recommendation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, company, position, linkedin_url, connected_on, summary,
		       1 - (embedding <=> $1) AS query_similarity,
		       1 - (embedding <=> $2) AS user_similarity,
		       $4::float8 * (1 - (embedding <=> $1)) + $5::float8 * (1 - (embedding <=> $2)) AS combined_score
		FROM connections
		WHERE user_id = $3
		  AND embedding IS NOT NULL
		ORDER BY combined_score DESC
		LIMIT $6`,
		pgvector.NewVector(queryVector),
		pgvector.NewVector(userVector),
		UUIDToPgtype(userID),
		queryWeight,
		userWeight,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search with user bias: %w", err)
	}
	defer rows.Close()

	results := make([]*search.Recommendation, 0, limit)
	for rows.Next() {
		var (
			id              pgtype.UUID
			name            string
			company         string
			position        string
			linkedinURL     string
			connectedOn     pgtype.Date
			summary         pgtype.Text
			querySimilarity float64
			userSimilarity  float64
			combinedScore   float64
		)
		if err := rows.Scan(&id, &name, &company, &position, &linkedinURL, &connectedOn, &summary, &querySimilarity, &userSimilarity, &combinedScore); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		results = append(results, &search.Recommendation{
			ConnectionID:    PgtypeToUUID(id),
			Name:            name,
			Company:         company,
			Position:        position,
			LinkedinURL:     linkedinURL,
			ConnectedOn:     PgdateToTime(connectedOn),
			Summary:         PgtextToStringPtr(summary),
			QuerySimilarity: querySimilarity,
			UserSimilarity:  userSimilarity,
			CombinedScore:   combinedScore,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search with user bias: %w", err)
	}
	return results, nil
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed は複数テキストのEmbeddingを順序を保って生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator は推薦理由の生成に使うLLMインターフェース
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service はつながりランキングのビジネスロジックを提供する
type Service struct {
	repo      Repository
	embedder  Embedder
	generator Generator
	logger    *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithSearchLogger は Service にロガーを設定する
func WithSearchLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(repo Repository, embedder Embedder, generator Generator, opts ...ServiceOption) *Service {
	svc := &Service{
		repo:      repo,
		embedder:  embedder,
		generator: generator,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	return svc
}

// Search はクエリ単独の類似度検索（Mode A）を実行する。
// クエリをEmbeddingに変換し、類似度が SimilarityFloor を超える
// つながりを降順で最大 MaxResults 件返す。
// 該当0件は空のリストであってエラーではない。
func (s *Service) Search(ctx context.Context, params SearchParams) ([]*SearchResult, error) {
	// バリデーション
	if params.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if params.UserID == uuid.Nil {
		return nil, fmt.Errorf("userID is required")
	}

	// クエリをEmbeddingに変換。
	// Embeddingサービスの失敗は検索呼び出し全体の失敗として伝搬する。
	queryVector, err := s.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = MaxResults
	}

	results, err := s.repo.SearchBySimilarity(ctx, params.UserID, queryVector, SimilarityFloor, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	s.logger.Info("similarity search completed",
		"userID", params.UserID.String(),
		"results", len(results),
	)

	return results, nil
}

// Recommend はユーザープロフィール加味の検索（Mode B）を実行する。
// [クエリ, ユーザー要約] を1回のバッチでEmbeddingに変換し（順序が重要）、
// 0.6*クエリ類似度 + 0.4*ユーザー類似度 の複合スコアで降順に
// 最大 MaxResults 件返す。オンボーディング未完了（要約なし）の
// ユーザーはEmbeddingサービスを呼ぶ前に拒否される。
func (s *Service) Recommend(ctx context.Context, params RecommendParams) ([]*Recommendation, error) {
	// バリデーション
	if params.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if params.User.ID == uuid.Nil {
		return nil, fmt.Errorf("user is required")
	}
	if params.User.Summary == "" {
		return nil, fmt.Errorf("user is not onboarded: summary is required")
	}

	// 先頭がクエリ、2番目がユーザー要約。順序は結果の対応に直結する。
	vectors, err := s.embedder.BatchEmbed(ctx, []string{params.Query, params.User.Summary})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query and user summary: %w", err)
	}
	if len(vectors) != 2 {
		return nil, fmt.Errorf("unexpected embedding count: got %d, want 2", len(vectors))
	}

	queryVector, userVector := vectors[0], vectors[1]

	results, err := s.repo.SearchWithUserBias(ctx, params.User.ID, queryVector, userVector, QueryWeight, UserWeight, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("biased search failed: %w", err)
	}

	s.logger.Info("biased search completed",
		"userID", params.User.ID.String(),
		"results", len(results),
	)

	if params.WithReasons {
		s.explainResults(ctx, params.User.Summary, params.Query, results)
	}

	return results, nil
}

// explainResults は各結果の推薦理由を並行に生成する。
// 1件の生成失敗はその結果の Reason を空のままにするだけで、
// 他の結果やランキング全体を失敗させない。
func (s *Service) explainResults(ctx context.Context, userSummary, query string, results []*Recommendation) {
	var wg sync.WaitGroup
	wg.Add(len(results))

	for _, rec := range results {
		go func(rec *Recommendation) {
			defer wg.Done()

			reason, err := s.generator.Generate(ctx, RelevanceSystemPrompt, BuildRelevancePrompt(userSummary, query, rec))
			if err != nil {
				s.logger.Warn("推薦理由の生成に失敗しました",
					"connectionID", rec.ConnectionID.String(),
					"error", err,
				)
				return
			}
			rec.Reason = reason
		}(rec)
	}

	wg.Wait()
}

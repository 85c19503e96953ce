package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/777advait/aeonik/pkg/retry"
)

// Pipeline は1つの処理単位を Fetching → Summarizing → Embedding →
// Persisting の順に逐次実行する。途中状態は永続化されず、失敗した単位は
// 最初からやり直されるか放棄される（行は pending のまま残る）。
type Pipeline struct {
	repository Repository
	profiles   ProfileSource
	generator  Generator
	embedder   Embedder
	logger     *slog.Logger
}

// NewPipeline は新しい Pipeline を作成する
func NewPipeline(
	repository Repository,
	profiles ProfileSource,
	generator Generator,
	embedder Embedder,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		repository: repository,
		profiles:   profiles,
		generator:  generator,
		embedder:   embedder,
		logger:     logger,
	}
}

// Run は処理単位を最後まで実行する。
// 外部呼び出しの失敗はステップ名を付与して呼び出し元に返す。
// 恒久的エラー（リトライ対象外の4xx等）は retry.Permanent のまま
// 伝搬されるため、ホスト側のリトライ実行器は即座に打ち切れる。
func (p *Pipeline) Run(ctx context.Context, unit Unit) error {
	log := p.logger.With(
		"kind", string(unit.Kind),
		"targetID", unit.TargetID.String(),
	)

	// Fetching: 外部スクレイピングAPIからプロフィールを取得
	log.Info("プロフィールを取得します", "state", string(StateFetching), "url", unit.LinkedinURL)
	profile, err := p.profiles.FetchProfile(ctx, unit.LinkedinURL)
	if err != nil {
		return wrapStep(StateFetching, err)
	}

	// Summarizing: 取得フィールドから固定テンプレートで要約を生成
	log.Info("プロフィール要約を生成します", "state", string(StateSummarizing))
	summary, err := p.generator.Generate(ctx, ProfileSummarySystemPrompt, BuildProfileSummaryPrompt(profile))
	if err != nil {
		return wrapStep(StateSummarizing, err)
	}
	if summary == "" {
		return retry.Permanent(wrapStep(StateSummarizing, fmt.Errorf("empty summary generated")))
	}

	// Embedding: 生成した要約テキストをベクトル化
	log.Info("Embeddingを生成します", "state", string(StateEmbedding))
	vector, err := p.embedder.Embed(ctx, summary)
	if err != nil {
		return wrapStep(StateEmbedding, err)
	}
	if len(vector) != p.embedder.Dimension() {
		// 次元不一致は設定不備であり、実行時に回復する対象ではない
		return retry.Permanent(wrapStep(StateEmbedding,
			fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vector), p.embedder.Dimension())))
	}

	// Persisting: 要約とEmbeddingを1回の原子的な書き込みで保存
	log.Info("要約とEmbeddingを保存します", "state", string(StatePersisting))
	switch unit.Kind {
	case UnitOnboarding:
		err = p.repository.SetUserProfile(ctx, unit.TargetID, summary, vector)
	default:
		err = p.repository.SetConnectionProfile(ctx, unit.TargetID, summary, vector)
	}
	if err != nil {
		return wrapStep(StatePersisting, err)
	}

	log.Info("処理単位が完了しました", "state", string(StateReady), "summaryLength", len(summary))
	return nil
}

// wrapStep は失敗したステップ名を付与してエラーをラップする。
// %w によるラップのため retry.Permanent のマークはそのまま透過する。
func wrapStep(state UnitState, err error) error {
	return fmt.Errorf("%s: %w", state, err)
}

package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/777advait/aeonik/pkg/retry"
)

// Service はつながり取り込みとオンボーディングのユースケースを提供する。
// 各処理単位は独立しており、同一ユーザーの複数単位が並行実行されてもよい。
type Service struct {
	repository Repository
	profiles   ProfileSource
	pipeline   *Pipeline
	policy     retry.Policy
	validate   *validator.Validate
	logger     *slog.Logger
}

type serviceOptions struct {
	policy retry.Policy
	logger *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithRetryPolicy はパイプライン全体の再実行ポリシーを上書きする
func WithRetryPolicy(policy retry.Policy) ServiceOption {
	return func(o *serviceOptions) {
		o.policy = policy
	}
}

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(
	repository Repository,
	profiles ProfileSource,
	generator Generator,
	embedder Embedder,
	opts ...ServiceOption,
) *Service {
	options := serviceOptions{
		policy: retry.DefaultPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Service{
		repository: repository,
		profiles:   profiles,
		pipeline:   NewPipeline(repository, profiles, generator, embedder, options.logger),
		policy:     options.policy,
		validate:   validator.New(),
		logger:     options.logger,
	}
}

// EnsureUser はメールアドレスに対応するユーザーを取得し、
// 存在しなければ作成する（初回認証時の作成フローに相当）。
func (s *Service) EnsureUser(ctx context.Context, email string) (*User, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	user, err := s.repository.CreateUserIfNotExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, nil
}

// AddConnection はつながり追加イベントを受理し、取り込み単位を実行する。
// 戻り値のエラーは受理前の失敗（バリデーション・行作成）のみを表し、
// パイプラインの失敗は行を pending のまま残してログに記録される。
// pending の行は検索結果に現れないだけで、利用者へのエラーにはならない。
func (s *Service) AddConnection(ctx context.Context, input ConnectionInput) (*Connection, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid connection input: %w", err)
	}

	conn, err := s.repository.CreateConnection(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	unit := Unit{
		Kind:        UnitConnection,
		TargetID:    conn.ID,
		LinkedinURL: input.LinkedinURL,
	}
	if err := s.runUnit(ctx, unit); err != nil {
		// 放棄された単位は他の単位に影響しない。行は pending のまま。
		return conn, nil
	}

	return s.repository.GetConnectionByID(ctx, conn.ID)
}

// Onboard はユーザー自身のプロフィールを取り込み、オンボーディングを
// 完了させる。同一入力での再実行は同じ結果に収束する（冪等）。
func (s *Service) Onboard(ctx context.Context, input OnboardingInput) (*User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid onboarding input: %w", err)
	}

	// 外部呼び出しの前にユーザーの存在を確認する
	user, err := s.repository.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	unit := Unit{
		Kind:        UnitOnboarding,
		TargetID:    user.ID,
		LinkedinURL: input.LinkedinURL,
	}
	if err := s.runUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("onboarding failed: %w", err)
	}

	return s.repository.GetUserByID(ctx, user.ID)
}

// ListConnections はユーザーのつながり一覧を返す（pending も含む）
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("userID is required")
	}
	return s.repository.ListConnectionsByUser(ctx, userID)
}

// FetchProfile は単一プロフィールの対話的な取得パス
func (s *Service) FetchProfile(ctx context.Context, url string) (*Profile, error) {
	if err := s.validate.Var(url, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid profile url: %w", err)
	}
	return s.profiles.FetchProfile(ctx, url)
}

// runUnit は処理単位をホスト側リトライ付きで実行する。
// 一時的エラーは有界回数まで最初から再実行され、恒久的エラーは即座に
// 打ち切られる。予算を使い切った単位は放棄される。
func (s *Service) runUnit(ctx context.Context, unit Unit) error {
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		return s.pipeline.Run(ctx, unit)
	})
	if err != nil {
		s.logger.Warn("処理単位を放棄しました",
			"state", string(StateAbandoned),
			"kind", string(unit.Kind),
			"targetID", unit.TargetID.String(),
			"error", err,
		)
		return err
	}
	return nil
}

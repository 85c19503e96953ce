package container

import (
	"context"
	"fmt"
	"log/slog"

	coreingestion "github.com/777advait/aeonik/internal/core/ingestion"
	coresearch "github.com/777advait/aeonik/internal/core/search"
	"github.com/777advait/aeonik/internal/infra/openai"
	"github.com/777advait/aeonik/internal/infra/postgres"
	"github.com/777advait/aeonik/internal/infra/scrapin"
	"github.com/777advait/aeonik/internal/platform/config"
	"github.com/777advait/aeonik/pkg/db"
	"github.com/777advait/aeonik/pkg/retry"
)

// ServiceContainer はアプリケーション全体の依存関係を保持する。
type ServiceContainer struct {
	IngestionService *coreingestion.Service
	SearchService    *coresearch.Service
	IngestionRepo    coreingestion.Repository

	logger   *slog.Logger
	database *db.DB
}

// NewContainer は設定とロガーからコンテナを生成する。
func NewContainer(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*ServiceContainer, error) {
	database, err := db.New(ctx, db.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}

	return NewContainerWithDB(logger, cfg, database)
}

// NewContainerWithDB は既存の DB を受け取りコンテナを生成する。
func NewContainerWithDB(logger *slog.Logger, cfg *config.Config, database *db.DB) (*ServiceContainer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Embedder / Generator (OpenAI)
	embedder := openai.NewEmbedder(
		cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)
	generator, err := openai.NewGenerator(
		cfg.OpenAI.APIKey,
		openai.WithChatModel(cfg.OpenAI.ChatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("Generator 初期化に失敗しました: %w", err)
	}

	// ProfileSource (スクレイピングAPI)
	profiles := scrapin.NewClient(scrapin.Config{
		APIURL:      cfg.Scraper.APIURL,
		APIHost:     cfg.Scraper.APIHost,
		APIKey:      cfg.Scraper.APIKey,
		Timeout:     cfg.Scraper.Timeout,
		MaxRetries:  cfg.Scraper.MaxRetries,
		BaseBackoff: cfg.Scraper.BaseBackoff,
	}, logger)

	// Repository (PostgreSQL)
	repo := postgres.NewRepository(database.Pool)
	searchRepo := postgres.NewSearchRepository(database.Pool)

	// IngestionService
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.Pipeline.MaxAttempts
	policy.BaseBackoff = cfg.Pipeline.BaseBackoff
	ingestionService := coreingestion.NewService(
		repo,
		profiles,
		generator,
		embedder,
		coreingestion.WithRetryPolicy(policy),
		coreingestion.WithLogger(logger),
	)

	// SearchService
	searchService := coresearch.NewService(
		searchRepo,
		embedder,
		generator,
		coresearch.WithSearchLogger(logger),
	)

	return &ServiceContainer{
		IngestionService: ingestionService,
		SearchService:    searchService,
		IngestionRepo:    repo,
		logger:           logger,
		database:         database,
	}, nil
}

// Close は内部リソースを解放する。
func (c *ServiceContainer) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Logger はロガーを返す。
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返す。
func (c *ServiceContainer) Database() *db.DB {
	if c == nil {
		return nil
	}
	return c.database
}

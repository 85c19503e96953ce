package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + テキスト生成）
	OpenAI OpenAIConfig

	// プロフィールスクレイパー設定
	Scraper ScraperConfig

	// 取り込みパイプライン設定
	Pipeline PipelineConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	ChatModel          string // 要約生成・推薦理由生成に使用
}

// ScraperConfig は外部プロフィールスクレイピングAPIの設定。
// リトライ回数とタイムアウトは固定値ではなく設定で調整可能とする。
type ScraperConfig struct {
	APIURL      string
	APIHost     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
}

// PipelineConfig は取り込みパイプラインのホスト側リトライ設定
type PipelineConfig struct {
	// MaxAttempts は1つの処理単位を最初から再実行する最大回数
	MaxAttempts int
	// BaseBackoff は再実行前の基底待機時間
	BaseBackoff time.Duration
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "aeonik"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "aeonik"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		},
		Scraper: ScraperConfig{
			APIURL:      getEnv("LINKEDIN_SCRAPER_API_URL", ""),
			APIHost:     getEnv("LINKEDIN_SCRAPER_RAPID_API_HOST", ""),
			APIKey:      getEnv("LINKEDIN_SCRAPER_RAPID_API_KEY", ""),
			Timeout:     getEnvAsDuration("SCRAPER_TIMEOUT", 10*time.Second),
			MaxRetries:  getEnvAsInt("SCRAPER_MAX_RETRIES", 3),
			BaseBackoff: getEnvAsDuration("SCRAPER_BASE_BACKOFF", 300*time.Millisecond),
		},
		Pipeline: PipelineConfig{
			MaxAttempts: getEnvAsInt("PIPELINE_MAX_ATTEMPTS", 3),
			BaseBackoff: getEnvAsDuration("PIPELINE_BASE_BACKOFF", 500*time.Millisecond),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数をDuration（例: "10s", "300ms"）として取得します
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

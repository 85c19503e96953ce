// Package scrapin は RapidAPI 経由の LinkedIn スクレイピングAPIクライアント。
// 外部APIはレート制限が厳しく不安定であるため、有界リトライと
// サーキットブレーカーを備える。
package scrapin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/777advait/aeonik/internal/core/ingestion"
	"github.com/777advait/aeonik/pkg/retry"
)

const (
	// DefaultTimeout は1回のAPI呼び出しのタイムアウト
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries は一時的エラー時の最大リトライ回数
	DefaultMaxRetries = 3

	// DefaultBaseBackoff はリトライ前の基底待機時間
	DefaultBaseBackoff = 300 * time.Millisecond

	// profileEndpoint はプロフィール取得エンドポイント
	profileEndpoint = "get-profile-data-by-url"
)

// ErrCircuitOpen はサーキットブレーカーが開いている場合のエラー
var ErrCircuitOpen = errors.New("profile source circuit breaker is open")

// RequestError は非2xxレスポンスを表す
type RequestError struct {
	StatusCode int
	Host       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("[%s] request failed with status %d", e.Host, e.StatusCode)
}

// Temporary はリトライで回復しうるステータスかを返す。
// 408/413/429 と 5xx が一時的エラー、その他の 4xx は恒久的エラー。
func (e *RequestError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusRequestEntityTooLarge, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500
}

// Config はクライアントの設定
type Config struct {
	// APIURL はスクレイピングAPIのベースURL
	APIURL string
	// APIHost は X-Rapidapi-Host ヘッダーの値
	APIHost string
	// APIKey は X-Rapidapi-Key ヘッダーの値
	APIKey string
	// Timeout は1回の呼び出しのタイムアウト（0の場合はデフォルト）
	Timeout time.Duration
	// MaxRetries は一時的エラー時の最大リトライ回数（0の場合はデフォルト）
	MaxRetries int
	// BaseBackoff はリトライ前の基底待機時間（0の場合はデフォルト）
	BaseBackoff time.Duration
}

// Client は ingestion.ProfileSource を実装するHTTPクライアント
type Client struct {
	apiURL      string
	apiHost     string
	apiKey      string
	maxRetries  int
	baseBackoff time.Duration
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	logger      *slog.Logger
}

// NewClient は新しい Client を作成する
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = DefaultBaseBackoff
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "linkedin-scraper",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("サーキットブレーカーの状態が変化しました",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		apiHost:     cfg.APIHost,
		apiKey:      cfg.APIKey,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     breaker,
		logger:      logger,
	}
}

// FetchProfile は公開プロフィールURLから構造化プロフィールを取得する。
// 一時的エラー（ネットワーク障害・408/413/429/5xx）は有界回数まで
// 再試行し、恒久的エラーは retry.Permanent として即座に返す。
func (c *Client) FetchProfile(ctx context.Context, profileURL string) (*ingestion.Profile, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetchWithRetry(ctx, profileURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrCircuitOpen, err))
		}
		return nil, err
	}

	profile, ok := result.(*ingestion.Profile)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return profile, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, profileURL string) (*ingestion.Profile, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.baseBackoff

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}

			c.logger.Debug("プロフィール取得をリトライします",
				"attempt", attempt,
				"url", profileURL,
			)
		}

		profile, err := c.doRequest(ctx, profileURL)
		if err == nil {
			return profile, nil
		}

		if retry.IsPermanent(err) {
			return nil, err
		}

		var reqErr *RequestError
		if errors.As(err, &reqErr) && !reqErr.Temporary() {
			// リトライ対象外のステータスは即座に諦める
			return nil, retry.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
	}

	return nil, fmt.Errorf("profile fetch failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, profileURL string) (*ingestion.Profile, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.apiURL, profileEndpoint, url.Values{"url": {profileURL}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Rapidapi-Key", c.apiKey)
	req.Header.Set("X-Rapidapi-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{StatusCode: resp.StatusCode, Host: c.apiHost}
	}

	var profile ingestion.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		// 解析できないレスポンスはリトライしても直らない
		return nil, retry.Permanent(fmt.Errorf("failed to decode profile response: %w", err))
	}

	return &profile, nil
}

// インターフェース実装の確認
var _ ingestion.ProfileSource = (*Client)(nil)

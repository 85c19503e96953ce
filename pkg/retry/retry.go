// Package retry は外部サービス呼び出し向けの有限リトライ実行器を提供する。
// リトライ回数は常に有界であり、Permanent でラップされたエラーは即時に
// 打ち切られる。イベントキュー等の特定技術には依存しない。
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMaxAttemptsExceeded は最大試行回数を超過した場合のエラー
var ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")

const (
	// DefaultMaxAttempts はデフォルトの最大試行回数（初回実行を含む）
	DefaultMaxAttempts = 3
	// DefaultBaseBackoff はExponential Backoffの基底時間
	DefaultBaseBackoff = 500 * time.Millisecond
	// DefaultMaxBackoff はExponential Backoffの最大待機時間
	DefaultMaxBackoff = 8 * time.Second
)

// Policy はリトライ動作の設定を表す
type Policy struct {
	// MaxAttempts は初回実行を含む最大試行回数
	MaxAttempts int
	// BaseBackoff は再試行前の基底待機時間（試行ごとに指数的に増加）
	BaseBackoff time.Duration
	// MaxBackoff は待機時間の上限
	MaxBackoff time.Duration
}

// DefaultPolicy はデフォルトのリトライポリシーを返す
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseBackoff: DefaultBaseBackoff,
		MaxBackoff:  DefaultMaxBackoff,
	}
}

// permanentError は再試行しても回復しないエラーを表す
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent はエラーを恒久的エラーとしてマークする。
// Do はこのエラーを受け取ると残りの試行を行わずに即座に返す。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent はエラーが恒久的エラーとしてマークされているかを返す
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do は fn を最大 policy.MaxAttempts 回まで実行する。
// 一時的エラーはバックオフ付きで再試行し、恒久的エラーと
// コンテキストのキャンセルは即座に打ち切る。
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseBackoff := policy.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = DefaultBaseBackoff
	}
	maxBackoff := policy.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultMaxBackoff
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
			if backoff > maxBackoff {
				backoff = maxBackoff
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		if IsPermanent(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrMaxAttemptsExceeded, lastErr)
}

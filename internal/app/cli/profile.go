package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// ProfileAction はLinkedInプロフィールを取得して表示するコマンドのアクション。
// 取り込みを伴わない確認用コマンドで、結果はJSONで標準出力に書き出す。
func ProfileAction(ctx context.Context, cmd *cli.Command) error {
	linkedinURL := cmd.String("url")
	envFile := cmd.String("env")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("プロフィール取得を開始", "url", linkedinURL)

	profile, err := appCtx.Container.IngestionService.FetchProfile(ctx, linkedinURL)
	if err != nil {
		slog.Error("プロフィール取得に失敗しました", "error", err)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(profile); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	slog.Info("プロフィール取得が完了しました")
	return nil
}

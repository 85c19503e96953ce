package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/777advait/aeonik/internal/infra/postgres"
)

// MigrateAction はスキーマを適用するコマンドのアクション
func MigrateAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("スキーマ適用を開始")

	if err := postgres.EnsureSchema(ctx, appCtx.Container.Database().Pool); err != nil {
		slog.Error("スキーマ適用に失敗しました", "error", err)
		return err
	}

	fmt.Println("✓ スキーマを適用しました")
	slog.Info("スキーマ適用が完了しました")
	return nil
}

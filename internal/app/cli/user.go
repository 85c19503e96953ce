package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	coreingestion "github.com/777advait/aeonik/internal/core/ingestion"
)

// UserCreateAction はユーザーを登録するコマンドのアクション。
// 同じメールアドレスで再実行しても既存ユーザーを返すだけで副作用はない。
func UserCreateAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	envFile := cmd.String("env")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("ユーザー登録を開始", "email", email)

	user, err := appCtx.Container.IngestionService.EnsureUser(ctx, email)
	if err != nil {
		slog.Error("ユーザー登録に失敗しました", "error", err)
		return err
	}

	fmt.Printf("✓ ユーザーを登録しました\n")
	fmt.Printf("  ID:        %s\n", user.ID)
	fmt.Printf("  Email:     %s\n", user.Email)
	fmt.Printf("  Onboarded: %t\n", user.Onboarded)

	slog.Info("ユーザー登録が完了しました", "userID", user.ID)
	return nil
}

// OnboardAction はユーザー自身のLinkedInプロフィールを取り込む
// オンボーディングコマンドのアクション
func OnboardAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	linkedinURL := cmd.String("url")
	envFile := cmd.String("env")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	user, err := resolveUser(ctx, appCtx, email)
	if err != nil {
		return err
	}

	slog.Info("オンボーディングを開始", "userID", user.ID, "url", linkedinURL)

	onboarded, err := appCtx.Container.IngestionService.Onboard(ctx, coreingestion.OnboardingInput{
		UserID:      user.ID,
		LinkedinURL: linkedinURL,
	})
	if err != nil {
		slog.Error("オンボーディングに失敗しました", "error", err)
		return err
	}

	fmt.Printf("✓ オンボーディングが完了しました\n")
	if onboarded.Summary != nil {
		fmt.Printf("\n--- プロフィール要約 ---\n%s\n", *onboarded.Summary)
	}

	slog.Info("オンボーディングが完了しました", "userID", onboarded.ID)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	coresearch "github.com/777advait/aeonik/internal/core/search"
)

// SearchAction は意味検索コマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	limit := cmd.Int("limit")
	envFile := cmd.String("env")

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("検索クエリを指定してください")
	}

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

	slog.Info("意味検索を開始", "userID", user.ID, "query", query)

	results, err := appCtx.Container.SearchService.Search(ctx, coresearch.SearchParams{
		UserID: user.ID,
		Query:  query,
		Limit:  limit,
	})
	if err != nil {
		slog.Error("意味検索に失敗しました", "error", err)
		return err
	}

	if len(results) == 0 {
		fmt.Println("該当するつながりが見つかりませんでした")
		return nil
	}

	renderSearchResultsTable(results)

	slog.Info("意味検索が完了しました", "count", len(results))
	return nil
}

// RecommendAction はユーザープロフィールを加味した推薦コマンドのアクション
func RecommendAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	withReasons := cmd.Bool("reasons")
	envFile := cmd.String("env")

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("検索クエリを指定してください")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// ユーザー要約の取得（オンボーディング済みであることが前提）
	user, err := resolveUser(ctx, appCtx, email)
	if err != nil {
		return err
	}
	if !user.Ready() {
		return fmt.Errorf("オンボーディングが完了していないため推薦を実行できません")
	}

	slog.Info("推薦検索を開始", "userID", user.ID, "query", query, "withReasons", withReasons)

	recommendations, err := appCtx.Container.SearchService.Recommend(ctx, coresearch.RecommendParams{
		User: coresearch.UserContext{
			ID:      user.ID,
			Summary: *user.Summary,
		},
		Query:       query,
		WithReasons: withReasons,
	})
	if err != nil {
		slog.Error("推薦検索に失敗しました", "error", err)
		return err
	}

	if len(recommendations) == 0 {
		fmt.Println("該当するつながりが見つかりませんでした")
		return nil
	}

	renderRecommendationsTable(recommendations)

	if withReasons {
		for i, rec := range recommendations {
			if rec.Reason == "" {
				continue
			}
			fmt.Printf("\n[%d] %s\n%s\n", i+1, rec.Name, rec.Reason)
		}
	}

	slog.Info("推薦検索が完了しました", "count", len(recommendations))
	return nil
}

// renderSearchResultsTable はテーブル形式で検索結果を表示します
func renderSearchResultsTable(results []*coresearch.SearchResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Company", "Position", "Similarity")

	for _, result := range results {
		table.Append(
			truncateString(result.Name, 30),
			truncateString(result.Company, 30),
			truncateString(result.Position, 40),
			fmt.Sprintf("%.4f", result.Similarity),
		)
	}

	table.Render()
}

// renderRecommendationsTable はテーブル形式で推薦結果を表示します
func renderRecommendationsTable(recommendations []*coresearch.Recommendation) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Company", "Position", "Query Sim", "User Sim", "Score")

	for _, rec := range recommendations {
		table.Append(
			truncateString(rec.Name, 30),
			truncateString(rec.Company, 30),
			truncateString(rec.Position, 40),
			fmt.Sprintf("%.4f", rec.QuerySimilarity),
			fmt.Sprintf("%.4f", rec.UserSimilarity),
			fmt.Sprintf("%.4f", rec.CombinedScore),
		)
	}

	table.Render()
}

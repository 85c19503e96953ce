package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	coreingestion "github.com/777advait/aeonik/internal/core/ingestion"
)

// connectedOnLayout はつながり日付の入出力フォーマット
const connectedOnLayout = "2006-01-02"

// ConnectionAddAction はつながりを1件追加するコマンドのアクション。
// プロフィール取り込みに失敗してもつながり自体は保留状態で保存される。
func ConnectionAddAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	name := cmd.String("name")
	company := cmd.String("company")
	position := cmd.String("position")
	linkedinURL := cmd.String("url")
	connectedOnStr := cmd.String("connected-on")
	envFile := cmd.String("env")

	connectedOn := time.Now()
	if connectedOnStr != "" {
		var err error
		connectedOn, err = time.Parse(connectedOnLayout, connectedOnStr)
		if err != nil {
			return fmt.Errorf("つながり日付の形式が不正です（YYYY-MM-DD）: %w", err)
		}
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

	slog.Info("つながり追加を開始", "userID", user.ID, "name", name, "url", linkedinURL)

	conn, err := appCtx.Container.IngestionService.AddConnection(ctx, coreingestion.ConnectionInput{
		UserID:      user.ID,
		Name:        name,
		Company:     company,
		Position:    position,
		LinkedinURL: linkedinURL,
		ConnectedOn: connectedOn,
	})
	if err != nil {
		slog.Error("つながり追加に失敗しました", "error", err)
		return err
	}

	if conn.Ready() {
		fmt.Printf("✓ つながりを追加しました（検索対象）\n")
	} else {
		fmt.Printf("✓ つながりを追加しました（プロフィール取り込みは保留中）\n")
	}
	fmt.Printf("  ID:   %s\n", conn.ID)
	fmt.Printf("  Name: %s\n", conn.Name)

	slog.Info("つながり追加が完了しました", "connectionID", conn.ID, "ready", conn.Ready())
	return nil
}

// ConnectionListAction はユーザーのつながり一覧を表示するコマンドのアクション
func ConnectionListAction(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
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

	connections, err := appCtx.Container.IngestionService.ListConnections(ctx, user.ID)
	if err != nil {
		slog.Error("つながり一覧取得に失敗しました", "error", err)
		return err
	}

	if len(connections) == 0 {
		fmt.Println("つながりが登録されていません")
		return nil
	}

	renderConnectionsTable(connections)
	fmt.Printf("\n%d件のつながり\n", len(connections))
	return nil
}

// renderConnectionsTable はテーブル形式でつながり一覧を表示します
func renderConnectionsTable(connections []*coreingestion.Connection) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Company", "Position", "Connected On", "Status")

	for _, conn := range connections {
		status := "pending"
		if conn.Ready() {
			status = "ready"
		}
		table.Append(
			conn.ID.String(),
			truncateString(conn.Name, 30),
			truncateString(conn.Company, 30),
			truncateString(conn.Position, 40),
			conn.ConnectedOn.Format(connectedOnLayout),
			status,
		)
	}

	table.Render()
}

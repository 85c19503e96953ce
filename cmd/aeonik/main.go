package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/777advait/aeonik/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "aeonik",
		Usage: "LinkedInつながりの意味検索・推薦エンジン",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "データベーススキーマを適用",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: appcli.MigrateAction,
			},
			{
				Name:  "user",
				Usage: "ユーザー管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "ユーザーを登録（既存の場合はそのまま返す）",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "email",
								Usage:    "メールアドレス",
								Required: true,
							},
						},
						Action: appcli.UserCreateAction,
					},
				},
			},
			{
				Name:  "onboard",
				Usage: "ユーザー自身のLinkedInプロフィールを取り込む",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "ユーザーのメールアドレス",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "LinkedInプロフィールURL",
						Required: true,
					},
				},
				Action: appcli.OnboardAction,
			},
			{
				Name:  "connection",
				Usage: "つながり管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "つながりを追加して取り込みパイプラインを実行",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "email",
								Usage:    "ユーザーのメールアドレス",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "name",
								Usage:    "氏名",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "company",
								Usage: "所属企業",
							},
							&cli.StringFlag{
								Name:  "position",
								Usage: "役職",
							},
							&cli.StringFlag{
								Name:     "url",
								Usage:    "LinkedInプロフィールURL",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "connected-on",
								Usage: "つながり日付（YYYY-MM-DD、省略時は当日）",
							},
						},
						Action: appcli.ConnectionAddAction,
					},
					{
						Name:  "list",
						Usage: "つながり一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "email",
								Usage:    "ユーザーのメールアドレス",
								Required: true,
							},
						},
						Action: appcli.ConnectionListAction,
					},
				},
			},
			{
				Name:  "profile",
				Usage: "LinkedInプロフィールを取得して表示（取り込みなし）",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "LinkedInプロフィールURL",
						Required: true,
					},
				},
				Action: appcli.ProfileAction,
			},
			{
				Name:      "search",
				Usage:     "つながりを意味検索",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "ユーザーのメールアドレス",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "最大件数（省略時は4）",
					},
				},
				Action: appcli.SearchAction,
			},
			{
				Name:      "recommend",
				Usage:     "ユーザープロフィールを加味してつながりを推薦",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "ユーザーのメールアドレス",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "reasons",
						Usage: "推薦理由をLLMで生成して表示",
					},
				},
				Action: appcli.RecommendAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

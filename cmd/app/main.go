package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/minhdang/planboard/internal"
	"github.com/minhdang/planboard/internal/auth"
	"github.com/minhdang/planboard/internal/boardservice"
	"github.com/minhdang/planboard/internal/directory"
	"github.com/minhdang/planboard/internal/mcpserver"
	"github.com/minhdang/planboard/internal/notify"
	"github.com/minhdang/planboard/internal/store"
	pkgconfig "github.com/minhdang/planboard/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := boardservice.NewService(db, directory.New(), nil, notify.NewCenter())
	if err := svc.RefreshDirectory(); err != nil {
		return fmt.Errorf("load menus: %w", err)
	}

	return mcpserver.New(svc).ServeStdio()
}

func addUser(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(cmd.String("password"))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	username := cmd.String("username")
	if _, err := db.CreateAccount(username, hash); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Printf("account created: %s\n", username)
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "planboard",
		Usage:  "Plan/task tracker backend with slug-stable routing, activity log, and live updates",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve Planboard tools over MCP stdio transport",
				Action: serveMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "adduser",
				Usage:  "Create an admin account for session login",
				Action: addUser,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "username",
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

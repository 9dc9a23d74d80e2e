package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/relink/internal"
	pkgconfig "github.com/starford/relink/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	flags := applyFlags(cmd)
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg, flags); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfExists(configPath, cfg, flags); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cmd *cli.Command) pkgconfig.Override[internal.Config] {
	return func(cfg *internal.Config) {
		if cmd.IsSet("vault") {
			cfg.Vault.Path = cmd.String("vault")
		}
		if cmd.IsSet("fail-fast") {
			cfg.Migrate.FailFast = cmd.Bool("fail-fast")
		}
		if cmd.IsSet("report") {
			cfg.Report.SQLitePath = cmd.String("report")
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "relink",
		Usage:  "Migrate a Zettlr-style vault with identifier links to title links for Obsidian",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Aliases: []string{"v"},
				Usage:   "Vault directory, overrides vault.path",
				Sources: cli.EnvVars("RELINK_VAULT_PATH"),
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Stop at the first file that cannot be read or written",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a SQLite run ledger to this path",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starford/relink/internal/index"
	"github.com/starford/relink/internal/migrate"
	"github.com/starford/relink/internal/storage"
)

// Run migrates the configured vault with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{output: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(cfg.App, app.output)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.Report.SQLitePath),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("fail_fast", cfg.Migrate.FailFast))

	info, err := os.Stat(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("open vault: %s is not a directory", cfg.Vault.Path)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	var ledger index.Ledger
	var recorder migrate.Recorder
	if cfg.Report.Enabled() {
		db, err := index.Open(cfg.Report.SQLitePath)
		if err != nil {
			return fmt.Errorf("init ledger: %w", err)
		}
		defer db.Close()
		ledger, recorder = db, db
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := migrate.New(store, cfg.MigrateOptions(), logger, recorder)
	logger.Info("Migration starting...", slog.String("run_id", m.RunID()))

	sum, runErr := m.Run(ctx)
	logSummary(logger, sum)
	if runErr != nil {
		return fmt.Errorf("migrate: %w", runErr)
	}

	if ledger != nil {
		reportDangling(ledger, store, cfg.Vault.NoteExt, logger)
	}

	logger.Info("Migration finished successfully")
	return nil
}

func newLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// reportDangling syncs the migrated vault into the ledger and warns about
// every wikilink that resolves to no note.
func reportDangling(ledger index.Ledger, store storage.Provider, noteExt string, logger *slog.Logger) {
	if err := index.Sync(ledger, store, noteExt, logger); err != nil {
		logger.Warn("ledger sync failed", slog.String("error", err.Error()))
		return
	}
	dangling, err := ledger.DanglingLinks()
	if err != nil {
		logger.Warn("dangling link query failed", slog.String("error", err.Error()))
		return
	}
	for _, l := range dangling {
		logger.Warn("dangling link", slog.String("file", l.Source), slog.String("target", l.Target))
	}
	logger.Info("Ledger synced", slog.Int("dangling_links", len(dangling)))
}

func logSummary(logger *slog.Logger, sum *migrate.Summary) {
	if sum == nil {
		return
	}
	logger.Info("Summary",
		slog.String("run_id", sum.RunID),
		slog.Int("notes", sum.Notes),
		slog.Int("identifiers", sum.Indexed),
		slog.Int("collisions", sum.Collisions),
		slog.Int("rewritten", sum.Rewritten),
		slog.Int("files_with_missing_links", sum.FilesWithMissing),
		slog.Int("missing_links", sum.MissingLinks),
		slog.Int("journals_chained", sum.Chained),
		slog.Int("renamed", sum.Renamed),
		slog.Int("rename_conflicts", sum.RenameConflicts),
		slog.Int("unmatched", sum.Unmatched),
		slog.Int("assets_moved", sum.AssetsMoved),
		slog.Int("asset_conflicts", sum.AssetConflicts),
		slog.Int("errors", len(sum.Errors)))
}

// Package migrate runs the migration passes over a vault in order: title
// index, link rewriting, journal chaining, renaming and asset moving.
package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/starford/relink/internal/grammar"
	"github.com/starford/relink/internal/models"
	"github.com/starford/relink/internal/storage"
)

// Stage names used in logs, errors and ledger events.
const (
	StageIndex   = "index"
	StageRewrite = "rewrite"
	StageJournal = "journal"
	StageRename  = "rename"
	StageAssets  = "assets"
)

// Options selects the passes to run and describes the vault layout.
type Options struct {
	Layout        models.Layout
	Exclude       []string
	RewriteImages bool
	ChainJournals bool
	RenameFiles   bool
	MoveAssets    bool
	FailFast      bool
}

// Recorder receives ledger events. Implemented by *index.DB.
type Recorder interface {
	RecordEvent(ev models.Event) error
}

// FileError is a failure confined to one file in one stage.
type FileError struct {
	Stage string
	Name  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Summary holds the counts of one run.
type Summary struct {
	RunID            string
	Notes            int
	Indexed          int
	Collisions       int
	Rewritten        int
	FilesWithMissing int
	MissingLinks     int
	Chained          int
	Renamed          int
	RenameConflicts  int
	Unmatched        int
	AssetsMoved      int
	AssetConflicts   int
	Errors           []*FileError
}

// Migrator executes the passes against one vault.
type Migrator struct {
	store    storage.Provider
	grammar  *grammar.Grammar
	opts     Options
	logger   *slog.Logger
	recorder Recorder
	runID    string
}

// New creates a Migrator. rec may be nil.
func New(store storage.Provider, opts Options, logger *slog.Logger, rec Recorder) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New().String()
	return &Migrator{
		store:    store,
		grammar:  grammar.New(opts.Layout.NoteExt),
		opts:     opts,
		logger:   logger.With(slog.String("run_id", runID)),
		recorder: rec,
		runID:    runID,
	}
}

// RunID identifies this migration in logs and in the ledger.
func (m *Migrator) RunID() string {
	return m.runID
}

// Run executes every enabled pass. Per-file failures are collected in the
// summary unless FailFast is set, in which case the first one is returned.
func (m *Migrator) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{RunID: m.runID}

	names, err := m.snapshot()
	if err != nil {
		return sum, err
	}
	ix := m.buildIndex(names, sum)

	if err := m.rewrite(ctx, ix, names, sum); err != nil {
		return sum, err
	}

	names, err = m.snapshot()
	if err != nil {
		return sum, err
	}
	if m.opts.ChainJournals {
		if err := m.chain(ctx, names, sum); err != nil {
			return sum, err
		}
	}
	if m.opts.RenameFiles {
		if err := m.renameNotes(ctx, names, sum); err != nil {
			return sum, err
		}
	}

	if m.opts.MoveAssets {
		names, err = m.snapshot()
		if err != nil {
			return sum, err
		}
		if err := m.moveAssets(ctx, names, sum); err != nil {
			return sum, err
		}
	}

	return sum, nil
}

// snapshot lists the vault root, dropping names that match an exclude glob.
func (m *Migrator) snapshot() ([]string, error) {
	names, err := m.store.List()
	if err != nil {
		return nil, fmt.Errorf("migrate: snapshot: %w", err)
	}
	if len(m.opts.Exclude) == 0 {
		return names, nil
	}
	out := names[:0]
	for _, name := range names {
		if m.excluded(name) {
			m.logger.Debug("excluded", slog.String("file", name))
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func (m *Migrator) excluded(name string) bool {
	for _, pattern := range m.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// fail logs and records a per-file error. It returns the error when the run
// must stop.
func (m *Migrator) fail(sum *Summary, stage, name string, err error) error {
	fe := &FileError{Stage: stage, Name: name, Err: err}
	sum.Errors = append(sum.Errors, fe)
	m.logger.Error("file failed",
		slog.String("stage", stage),
		slog.String("file", name),
		slog.String("error", err.Error()))
	m.record(stage, models.EventIOError, name, err.Error())
	if m.opts.FailFast {
		return fe
	}
	return nil
}

func (m *Migrator) record(stage, kind, path, detail string) {
	if m.recorder == nil {
		return
	}
	err := m.recorder.RecordEvent(models.Event{
		RunID:  m.runID,
		Stage:  stage,
		Kind:   kind,
		Path:   path,
		Detail: detail,
	})
	if err != nil {
		m.logger.Warn("ledger write failed", slog.String("kind", kind), slog.String("error", err.Error()))
	}
}

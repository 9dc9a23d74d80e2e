package migrate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/starford/relink/internal/apperr"
	"github.com/starford/relink/internal/journal"
	"github.com/starford/relink/internal/models"
	"github.com/starford/relink/internal/rename"
	"github.com/starford/relink/internal/rewrite"
	"github.com/starford/relink/internal/titles"
)

func (m *Migrator) buildIndex(names []string, sum *Summary) *titles.Index {
	ix := titles.Build(m.grammar, names)
	for _, name := range names {
		if m.grammar.IsNote(name) {
			sum.Notes++
		}
	}
	sum.Indexed = ix.Len()
	for _, c := range ix.Collisions() {
		sum.Collisions++
		m.logger.Warn("duplicate identifier, later file wins",
			slog.String("id", c.ID),
			slog.String("kept", c.Kept),
			slog.String("replaced", c.Replaced))
		m.record(StageIndex, models.EventIndexCollision, c.ID, c.Replaced+" -> "+c.Kept)
	}
	m.logger.Info("title index built",
		slog.Int("notes", sum.Notes),
		slog.Int("identifiers", sum.Indexed),
		slog.Int("collisions", sum.Collisions))
	return ix
}

func (m *Migrator) rewrite(ctx context.Context, ix *titles.Index, names []string, sum *Summary) error {
	rw := rewrite.New(m.grammar, ix, names, rewrite.Options{
		RewriteImages: m.opts.RewriteImages,
		Layout:        m.opts.Layout,
	})

	for _, name := range names {
		if !m.grammar.IsNote(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := rw.RewriteFile(m.store, name)
		if err != nil {
			if ferr := m.fail(sum, StageRewrite, name, err); ferr != nil {
				return ferr
			}
			continue
		}

		if len(res.Missing) > 0 {
			sum.FilesWithMissing++
			sum.MissingLinks += len(res.Missing)
			m.logger.Warn("missing links",
				slog.String("file", name),
				slog.String("ids", strings.Join(res.Missing, ", ")))
			for _, id := range res.Missing {
				m.record(StageRewrite, models.EventMissingLink, name, id)
			}
		}
		if res.Changed {
			sum.Rewritten++
			m.record(StageRewrite, models.EventRewritten, name, "")
		}
		m.logger.Info("processed", slog.String("file", name), slog.Bool("changed", res.Changed))
	}
	return nil
}

func (m *Migrator) chain(ctx context.Context, names []string, sum *Summary) error {
	for _, e := range journal.Plan(m.grammar, names) {
		if err := ctx.Err(); err != nil {
			return err
		}

		changed, err := journal.ChainFile(m.store, e)
		if err != nil {
			if ferr := m.fail(sum, StageJournal, e.Name, err); ferr != nil {
				return ferr
			}
			continue
		}
		if !changed {
			continue
		}
		sum.Chained++
		m.record(StageJournal, models.EventChained, e.Name, e.Line())
		m.logger.Info("added chain links", slog.String("file", e.Name))
	}
	return nil
}

func (m *Migrator) renameNotes(ctx context.Context, names []string, sum *Summary) error {
	for _, name := range names {
		if !m.grammar.IsNote(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := rename.Note(m.store, m.grammar, name)
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			sum.RenameConflicts++
			m.logger.Warn("cannot rename, target exists",
				slog.String("file", name),
				slog.String("target", out.To))
			m.record(StageRename, models.EventRenameConflict, name, out.To)
		case err != nil:
			if ferr := m.fail(sum, StageRename, name, err); ferr != nil {
				return ferr
			}
		case out.Status == rename.StatusUnmatched:
			sum.Unmatched++
		default:
			sum.Renamed++
			m.logger.Info("renamed", slog.String("from", name), slog.String("to", out.To))
			m.record(StageRename, models.EventRenamed, name, out.To)
		}
	}
	m.logger.Info("rename finished",
		slog.Int("renamed", sum.Renamed),
		slog.Int("conflicts", sum.RenameConflicts),
		slog.Int("unmatched", sum.Unmatched))
	return nil
}

func (m *Migrator) moveAssets(ctx context.Context, names []string, sum *Summary) error {
	layout := m.opts.Layout
	for _, name := range names {
		if !rename.IsImage(name, layout.ImageExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := rename.Asset(m.store, name, layout.ImageExt, layout.AssetsDir)
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			sum.AssetConflicts++
			m.logger.Warn("cannot move asset, target exists",
				slog.String("file", name),
				slog.String("target", out.To))
			m.record(StageAssets, models.EventAssetConflict, name, out.To)
		case err != nil:
			if ferr := m.fail(sum, StageAssets, name, err); ferr != nil {
				return ferr
			}
		default:
			sum.AssetsMoved++
			m.logger.Info("moved asset", slog.String("from", name), slog.String("to", out.To))
			m.record(StageAssets, models.EventAssetMoved, name, out.To)
		}
	}
	return nil
}

package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/relink/internal/parser"
	"github.com/starford/relink/internal/storage"
)

// Sync brings the link index in line with the vault:
//   - new/changed notes are parsed and upserted
//   - notes removed or renamed on disk are deleted from the index
func Sync(db Ledger, store storage.Provider, noteExt string, logger *slog.Logger) error {
	names, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, noteExt) {
			continue
		}
		disk[name] = struct{}{}

		data, err := store.Read(name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", name), slog.String("error", err.Error()))
			continue
		}
		cs := checksum(data)
		if checksums[name] == cs {
			continue
		}
		if err := indexFile(db, name, strings.TrimSuffix(name, noteExt), cs, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", name), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", name))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the ledger.
func indexFile(db Ledger, path, title, cs string, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	row := NoteRow{
		Path:      path,
		Title:     title,
		Checksum:  cs,
		UpdatedAt: time.Now(),
	}
	return db.UpsertNote(row, res.Aliases, res.Links)
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

package index

import "github.com/starford/relink/internal/models"

// Ledger defines the operations the migration pipeline and the final report
// need. Consumers should depend on this interface rather than *DB.
type Ledger interface {
	RecordEvent(ev models.Event) error
	Events(runID string) ([]models.Event, error)
	UpsertNote(n NoteRow, aliases, links []string) error
	DeleteNote(path string) error
	AllChecksums() (map[string]string, error)
	DanglingLinks() ([]models.Link, error)
	Close() error
}

// Verify *DB satisfies Ledger at compile time.
var _ Ledger = (*DB)(nil)

package index

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/relink/internal/models"
	"github.com/starford/relink/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "relink-test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"notes", "aliases", "links", "events"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestRecordAndListEvents(t *testing.T) {
	db := testDB(t)
	_ = db.RecordEvent(models.Event{RunID: "r1", Stage: "rewrite", Kind: models.EventMissingLink, Path: "a.md", Detail: "99999999999999"})
	_ = db.RecordEvent(models.Event{RunID: "r1", Stage: "rename", Kind: models.EventRenamed, Path: "b 20240101000000.md", Detail: "b.md"})
	_ = db.RecordEvent(models.Event{RunID: "r2", Stage: "rename", Kind: models.EventRenamed, Path: "c.md"})

	evs, err := db.Events("r1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("len = %d, want 2", len(evs))
	}
	if evs[0].Kind != models.EventMissingLink || evs[0].Detail != "99999999999999" {
		t.Errorf("evs[0] = %+v", evs[0])
	}
	if evs[1].Path != "b 20240101000000.md" || evs[1].CreatedAt.IsZero() {
		t.Errorf("evs[1] = %+v", evs[1])
	}
}

func TestUpsertReplacesLinksAndAliases(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "up", Checksum: "1", UpdatedAt: now}, []string{"old"}, []string{"x"})
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "up", Checksum: "2", UpdatedAt: now}, []string{"new"}, []string{"y"})

	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if cs["up.md"] != "2" {
		t.Errorf("checksum = %q, want 2", cs["up.md"])
	}

	dangling, _ := db.DanglingLinks()
	if len(dangling) != 1 || dangling[0].Target != "y" {
		t.Errorf("dangling = %+v, want only y", dangling)
	}
}

func TestDanglingLinks_TitleAndAliasResolve(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "Foo.md", Title: "Foo", Checksum: "1", UpdatedAt: now}, []string{"F"}, []string{"Bar", "Missing"})
	_ = db.UpsertNote(NoteRow{Path: "Bar.md", Title: "Bar", Checksum: "2", UpdatedAt: now}, nil, []string{"F"})

	dangling, err := db.DanglingLinks()
	if err != nil {
		t.Fatalf("DanglingLinks: %v", err)
	}
	if len(dangling) != 1 || dangling[0].Source != "Foo.md" || dangling[0].Target != "Missing" {
		t.Errorf("dangling = %+v", dangling)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Title: "del", Checksum: "x", UpdatedAt: time.Now()}, nil, []string{"target"})

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.AllChecksums()
	if _, ok := cs["del.md"]; ok {
		t.Error("deleted note still indexed")
	}
	dangling, _ := db.DanglingLinks()
	if len(dangling) != 0 {
		t.Errorf("links of deleted note survive: %+v", dangling)
	}
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("Foo.md", []byte("see [[Bar]] and [[Gone]]"))
	_ = store.Write("Bar.md", []byte("---\naliases: [B]\n---\nback to [[Foo]]"))
	_ = store.Write("image.png", []byte("png"))
	_ = db.UpsertNote(NoteRow{Path: "Old 20240101000000.md", Title: "Old", Checksum: "z", UpdatedAt: time.Now()}, nil, nil)

	if err := Sync(db, store, ".md", discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	cs, _ := db.AllChecksums()
	if len(cs) != 2 {
		t.Errorf("indexed = %v, want Foo.md and Bar.md", cs)
	}
	if _, ok := cs["Old 20240101000000.md"]; ok {
		t.Error("stale note not removed")
	}

	dangling, _ := db.DanglingLinks()
	if len(dangling) != 1 || dangling[0].Target != "Gone" {
		t.Errorf("dangling = %+v, want Gone", dangling)
	}
}

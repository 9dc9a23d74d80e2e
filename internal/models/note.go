// Package models defines the domain types shared by the migration stages.
package models

import "time"

// Event kinds written to the run ledger.
const (
	EventIndexCollision = "index_collision"
	EventMissingLink    = "missing_link"
	EventRewritten      = "rewritten"
	EventChained        = "chained"
	EventRenamed        = "renamed"
	EventRenameConflict = "rename_conflict"
	EventAssetMoved     = "asset_moved"
	EventAssetConflict  = "asset_conflict"
	EventIOError        = "io_error"
)

// Layout describes how notes and assets are named inside the vault.
type Layout struct {
	NoteExt       string
	ImageExt      string
	AssetsDir     string
	AssetLinkBase string
}

// DefaultLayout returns the layout of a Zettlr-style vault.
func DefaultLayout() Layout {
	return Layout{
		NoteExt:       ".md",
		ImageExt:      ".png",
		AssetsDir:     "assets",
		AssetLinkBase: "../assets",
	}
}

// Event is one notable occurrence during a migration run.
type Event struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Link represents a directed edge between two notes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

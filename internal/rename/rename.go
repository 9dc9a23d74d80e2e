// Package rename finalises the vault layout: it strips identifier suffixes
// from note filenames and moves image files into the assets folder.
package rename

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/relink/internal/apperr"
	"github.com/starford/relink/internal/grammar"
	"github.com/starford/relink/internal/storage"
)

// Status values for Outcome.
const (
	StatusDone      = "done"
	StatusConflict  = "conflict"
	StatusUnmatched = "unmatched"
)

// Outcome describes what happened to one file.
type Outcome struct {
	From   string
	To     string
	Status string
}

// ConflictError is returned when the destination already exists.
type ConflictError struct {
	From string
	To   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: target exists", e.From, e.To)
}

func (e *ConflictError) Is(target error) bool {
	return target == apperr.ErrAlreadyExists
}

// Note renames a note to its title-only name. Names that carry no identifier
// suffix report StatusUnmatched and are left alone. A destination that
// already exists yields StatusConflict and a *ConflictError.
func Note(store storage.Provider, g *grammar.Grammar, name string) (Outcome, error) {
	target, ok := g.RenameTarget(name)
	if !ok {
		return Outcome{From: name, Status: StatusUnmatched}, nil
	}
	return move(store, name, target)
}

// Asset moves an image file into dir. Files without the image extension
// report StatusUnmatched.
func Asset(store storage.Provider, name, imageExt, dir string) (Outcome, error) {
	if !IsImage(name, imageExt) {
		return Outcome{From: name, Status: StatusUnmatched}, nil
	}
	return move(store, name, path.Join(dir, name))
}

// IsImage reports whether name ends in ext, ignoring case.
func IsImage(name, ext string) bool {
	return len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

func move(store storage.Provider, from, to string) (Outcome, error) {
	exists, err := store.Exists(to)
	if err != nil {
		return Outcome{From: from, To: to}, err
	}
	if exists {
		return Outcome{From: from, To: to, Status: StatusConflict}, &ConflictError{From: from, To: to}
	}
	if err := store.Move(from, to); err != nil {
		return Outcome{From: from, To: to}, err
	}
	return Outcome{From: from, To: to, Status: StatusDone}, nil
}

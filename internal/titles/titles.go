// Package titles builds the identifier → title index from vault filenames.
package titles

import (
	"github.com/starford/relink/internal/grammar"
)

// Collision records an identifier claimed by more than one filename.
// The later file (in listing order) wins.
type Collision struct {
	ID       string
	Kept     string
	Replaced string
}

// Index maps 14-digit identifiers to titles, remembering insertion order.
type Index struct {
	byID       map[string]string
	order      []string
	collisions []Collision
}

// Build scans names in order and indexes every note that matches one of the
// grammar's index rules. Names matching no rule are skipped silently.
func Build(g *grammar.Grammar, names []string) *Index {
	ix := &Index{byID: make(map[string]string)}
	for _, name := range names {
		m, ok := g.MatchIndex(name)
		if !ok {
			continue
		}
		if prev, dup := ix.byID[m.ID]; dup {
			ix.collisions = append(ix.collisions, Collision{ID: m.ID, Kept: m.Title, Replaced: prev})
		} else {
			ix.order = append(ix.order, m.ID)
		}
		ix.byID[m.ID] = m.Title
	}
	return ix
}

// Title returns the title for id.
func (ix *Index) Title(id string) (string, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// Len returns the number of indexed identifiers.
func (ix *Index) Len() int {
	return len(ix.byID)
}

// IDs returns the indexed identifiers in first-seen order.
func (ix *Index) IDs() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Titles returns the distinct titles in first-seen order.
func (ix *Index) Titles() []string {
	seen := make(map[string]struct{}, len(ix.order))
	out := make([]string, 0, len(ix.order))
	for _, id := range ix.order {
		t := ix.byID[id]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Collisions returns every identifier that was overwritten during Build.
func (ix *Index) Collisions() []Collision {
	return ix.collisions
}

// Known returns every title any index rule derives from names, including
// titles that lost an identifier collision.
func Known(g *grammar.Grammar, names []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, name := range names {
		if m, ok := g.MatchIndex(name); ok {
			out[m.Title] = struct{}{}
		}
	}
	return out
}

// Package rewrite turns identifier wikilinks into title wikilinks and cleans up
// the artifacts the old link style left behind.
package rewrite

import (
	"fmt"

	"github.com/starford/relink/internal/grammar"
	"github.com/starford/relink/internal/models"
	"github.com/starford/relink/internal/storage"
	"github.com/starford/relink/internal/titles"
)

// Options controls which rules run and how asset paths are formed.
type Options struct {
	RewriteImages bool
	Layout        models.Layout
}

// Result is the outcome of rewriting one note.
type Result struct {
	Content string
	// Missing lists unresolved identifiers, once each, in order of first occurrence.
	Missing []string
	Changed bool
}

// Rewriter applies the rule list to note content. It is built once per run
// from the title index and the directory snapshot.
type Rewriter struct {
	g        *grammar.Grammar
	index    *titles.Index
	names    []string
	known    map[string]struct{}
	opts     Options
	rules    []rule
	fallback map[string]string // id → title, "" when unresolvable
}

// New creates a Rewriter. names is the snapshot used for fallback lookups and
// for the set of known titles.
func New(g *grammar.Grammar, ix *titles.Index, names []string, opts Options) *Rewriter {
	known := titles.Known(g, names)
	for _, t := range ix.Titles() {
		known[t] = struct{}{}
	}

	r := &Rewriter{
		g:        g,
		index:    ix,
		names:    names,
		known:    known,
		opts:     opts,
		fallback: make(map[string]string),
	}
	for _, rl := range ruleList {
		if rl.name == RuleImagePaths && !opts.RewriteImages {
			continue
		}
		r.rules = append(r.rules, rl)
	}
	return r
}

// Rules returns the names of the active rules in application order.
func (r *Rewriter) Rules() []string {
	out := make([]string, len(r.rules))
	for i, rl := range r.rules {
		out[i] = rl.name
	}
	return out
}

// Rewrite applies every active rule to content in order.
func (r *Rewriter) Rewrite(content string) Result {
	p := &pass{content: content}
	for _, rl := range r.rules {
		rl.apply(r, p)
	}
	return Result{
		Content: p.content,
		Missing: p.missing,
		Changed: p.content != content,
	}
}

// RewriteFile reads name, rewrites it and writes it back when it changed.
func (r *Rewriter) RewriteFile(store storage.Provider, name string) (Result, error) {
	data, err := store.Read(name)
	if err != nil {
		return Result{}, err
	}
	res := r.Rewrite(string(data))
	if !res.Changed {
		return res, nil
	}
	if err := store.Write(name, []byte(res.Content)); err != nil {
		return res, fmt.Errorf("rewrite: %s: %w", name, err)
	}
	return res, nil
}

// resolve looks id up in the index, then falls back to scanning filenames for
// the first note whose name contains it. A candidate whose display title still
// carries the identifier (e.g. "20250303030303.md") does not resolve it.
func (r *Rewriter) resolve(id string) (string, bool) {
	if t, ok := r.index.Title(id); ok {
		return t, true
	}
	if t, ok := r.fallback[id]; ok {
		return t, t != ""
	}
	for _, name := range r.names {
		if !r.g.IsNote(name) || !containsID(name, id) {
			continue
		}
		if t := r.g.DisplayTitle(name); t != "" && !containsID(t, id) {
			r.fallback[id] = t
			return t, true
		}
	}
	r.fallback[id] = ""
	return "", false
}

func (r *Rewriter) isKnown(title string, p *pass) bool {
	if _, ok := r.known[title]; ok {
		return true
	}
	_, ok := p.resolved[title]
	return ok
}

// pass is the mutable state of one Rewrite call.
type pass struct {
	content  string
	missing  []string
	seen     map[string]struct{}
	resolved map[string]struct{}
}

func (p *pass) addMissing(id string) {
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}
	if _, dup := p.seen[id]; dup {
		return
	}
	p.seen[id] = struct{}{}
	p.missing = append(p.missing, id)
}

func (p *pass) addResolved(title string) {
	if p.resolved == nil {
		p.resolved = make(map[string]struct{})
	}
	p.resolved[title] = struct{}{}
}

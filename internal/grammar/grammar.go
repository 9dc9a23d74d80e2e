// Package grammar holds the filename rules that recognise identifier-bearing
// note names. Rules are named and tried in a fixed order; the first match wins.
package grammar

import (
	"regexp"
	"strings"
)

// Rule names, in the order the title index tries them.
const (
	RuleSpaced    = "spaced"
	RuleAttached  = "attached"
	RuleBracketed = "bracketed"
	RuleRename    = "rename"
)

// Match is the outcome of applying a Rule to a filename.
type Match struct {
	Rule  string
	Title string
	ID    string
}

// Rule is a named filename pattern with a title group and an identifier group.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

// Match applies the rule to name. A match whose title trims to empty is
// treated as no match.
func (r Rule) Match(name string) (Match, bool) {
	m := r.re.FindStringSubmatch(name)
	if m == nil {
		return Match{}, false
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return Match{}, false
	}
	return Match{Rule: r.Name, Title: title, ID: m[2]}, true
}

// Grammar bundles every rule for one note extension.
type Grammar struct {
	ext        string
	indexRules []Rule
	rename     Rule
	journalRe  *regexp.Regexp
	journalID  *regexp.Regexp
}

// New compiles the rule set for notes ending in ext (for example ".md").
func New(ext string) *Grammar {
	q := regexp.QuoteMeta(ext)
	return &Grammar{
		ext: ext,
		indexRules: []Rule{
			{Name: RuleSpaced, re: regexp.MustCompile(`^(.+)\s(20\d{12})` + q + `$`)},
			{Name: RuleAttached, re: regexp.MustCompile(`^(.+?)(20\d{12})` + q + `$`)},
			{Name: RuleBracketed, re: regexp.MustCompile(`^(.+)\s\[\[(20\d{12})\]\]` + q + `$`)},
		},
		rename:    Rule{Name: RuleRename, re: regexp.MustCompile(`^(.+?)(?:\[\[|\s+)?(20\d{10,12})(?:\]\])?` + q + `$`)},
		journalRe: regexp.MustCompile(`(?i)\b(?:journal|diary)\b`),
		journalID: regexp.MustCompile(`(?:^|\D)(20\d{10,12})(?:\D|$)`),
	}
}

// IsNote reports whether name carries the note extension.
func (g *Grammar) IsNote(name string) bool {
	return strings.HasSuffix(name, g.ext) && len(name) > len(g.ext)
}

// MatchIndex tries the index rules in order and returns the first match.
func (g *Grammar) MatchIndex(name string) (Match, bool) {
	if !g.IsNote(name) {
		return Match{}, false
	}
	for _, r := range g.indexRules {
		if m, ok := r.Match(name); ok {
			return m, true
		}
	}
	return Match{}, false
}

// RenameTarget returns the filename with its identifier suffix removed.
func (g *Grammar) RenameTarget(name string) (string, bool) {
	if !g.IsNote(name) {
		return "", false
	}
	m, ok := g.rename.Match(name)
	if !ok {
		return "", false
	}
	return m.Title + g.ext, true
}

// DisplayTitle is the link text a note will be reachable under once renamed:
// the rename target without extension, or the bare stem when no identifier
// suffix is present.
func (g *Grammar) DisplayTitle(name string) string {
	if target, ok := g.RenameTarget(name); ok {
		return strings.TrimSuffix(target, g.ext)
	}
	return strings.TrimSuffix(name, g.ext)
}

// JournalID returns the identifier of a journal or diary note.
// The name must be a note, contain the whole word "journal" or "diary"
// (any case) and carry a 12 to 14 digit run starting with "20".
func (g *Grammar) JournalID(name string) (string, bool) {
	if !g.IsNote(name) {
		return "", false
	}
	stem := strings.TrimSuffix(name, g.ext)
	if !g.journalRe.MatchString(stem) {
		return "", false
	}
	m := g.journalID.FindStringSubmatch(stem)
	if m == nil {
		return "", false
	}
	return m[1], true
}

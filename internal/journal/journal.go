// Package journal links journal and diary notes to their chronological
// neighbours with a navigation line at the top of each file.
package journal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/relink/internal/grammar"
	"github.com/starford/relink/internal/storage"
)

// chainLineRe matches a navigation line this package writes, at the very
// start of the content.
var chainLineRe = regexp.MustCompile(
	`\A(?:\[\[[^\]\n]*\]\] ← Previous(?:[ \t]*\|[ \t]*Next → \[\[[^\]\n]*\]\])?|Next → \[\[[^\]\n]*\]\])[ \t]*(?:\r?\n|\z)`,
)

// Entry is one journal note in chronological position.
type Entry struct {
	Name  string
	ID    string
	Title string
	Prev  string // display title of the predecessor, "" for the first entry
	Next  string // display title of the successor, "" for the last entry
}

// Line returns the navigation line for e, or "" when e has no neighbours.
func (e Entry) Line() string {
	switch {
	case e.Prev != "" && e.Next != "":
		return fmt.Sprintf("[[%s]] ← Previous | Next → [[%s]]", e.Prev, e.Next)
	case e.Prev != "":
		return fmt.Sprintf("[[%s]] ← Previous", e.Prev)
	case e.Next != "":
		return fmt.Sprintf("Next → [[%s]]", e.Next)
	default:
		return ""
	}
}

// Plan selects journal notes from names, orders them by identifier and
// assigns each its neighbours.
func Plan(g *grammar.Grammar, names []string) []Entry {
	var entries []Entry
	for _, name := range names {
		id, ok := g.JournalID(name)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Name: name, ID: id, Title: g.DisplayTitle(name)})
	}

	// Lexicographic order equals chronological order for equal-width identifiers.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	for i := range entries {
		if i > 0 {
			entries[i].Prev = entries[i-1].Title
		}
		if i < len(entries)-1 {
			entries[i].Next = entries[i+1].Title
		}
	}
	return entries
}

// Apply strips an existing navigation line from the start of content and
// prepends line, terminated with the content's own line ending. An empty line
// leaves content unchanged.
func Apply(content, line string) string {
	if line == "" {
		return content
	}
	return line + lineEnding(content) + StripChainLine(content)
}

// lineEnding returns "\r\n" when the first line break in content is CRLF.
func lineEnding(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// StripChainLine removes a navigation line from the very start of content.
func StripChainLine(content string) string {
	return chainLineRe.ReplaceAllString(content, "")
}

// ChainFile rewrites the note for e. It reports whether the file changed.
func ChainFile(store storage.Provider, e Entry) (bool, error) {
	line := e.Line()
	if line == "" {
		return false, nil
	}
	data, err := store.Read(e.Name)
	if err != nil {
		return false, err
	}
	content := string(data)
	updated := Apply(content, line)
	if updated == content {
		return false, nil
	}
	if err := store.Write(e.Name, []byte(updated)); err != nil {
		return false, fmt.Errorf("journal: %s: %w", e.Name, err)
	}
	return true, nil
}

package grammar

import "testing"

func TestMatchIndex_RuleOrder(t *testing.T) {
	g := New(".md")

	tests := []struct {
		name      string
		file      string
		wantOK    bool
		wantRule  string
		wantTitle string
		wantID    string
	}{
		{"spaced", "Title 20250101120000.md", true, RuleSpaced, "Title", "20250101120000"},
		{"spaced extra whitespace", "Two Words  20250101120000.md", true, RuleSpaced, "Two Words", "20250101120000"},
		{"attached", "Title20250101120000.md", true, RuleAttached, "Title", "20250101120000"},
		{"bracketed", "Title [[20250101120000]].md", true, RuleBracketed, "Title", "20250101120000"},
		{"no identifier", "Plain note.md", false, "", "", ""},
		{"identifier only", "20250101120000.md", false, "", "", ""},
		{"wrong extension", "Title 20250101120000.txt", false, "", "", ""},
		{"short identifier", "Title 202501011200.md", false, "", "", ""},
		{"identifier not at end", "20250101120000 Title.md", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := g.MatchIndex(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("MatchIndex(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if m.Rule != tt.wantRule || m.Title != tt.wantTitle || m.ID != tt.wantID {
				t.Errorf("MatchIndex(%q) = %+v", tt.file, m)
			}
		})
	}
}

func TestRenameTarget(t *testing.T) {
	g := New(".md")

	tests := []struct {
		file   string
		want   string
		wantOK bool
	}{
		{"Foo 20240101000000.md", "Foo.md", true},
		{"Foo20240101000000.md", "Foo.md", true},
		{"Foo [[20240101000000]].md", "Foo.md", true},
		{"Daily journal 202401010000.md", "Daily journal.md", true},
		{"Foo.md", "", false},
		{"20240101000000.md", "", false},
		{"Foo 20240101000000.png", "", false},
	}

	for _, tt := range tests {
		got, ok := g.RenameTarget(tt.file)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("RenameTarget(%q) = %q, %v; want %q, %v", tt.file, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	g := New(".md")

	cases := map[string]string{
		"Journal A 20240101000000.md":     "Journal A",
		"Journal B [[20240102000000]].md": "Journal B",
		"Untouched.md":                    "Untouched",
		"20240101000000 leading.md":       "20240101000000 leading",
	}
	for in, want := range cases {
		if got := g.DisplayTitle(in); got != want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJournalID(t *testing.T) {
	g := New(".md")

	tests := []struct {
		file   string
		want   string
		wantOK bool
	}{
		{"Journal 20240101000000.md", "20240101000000", true},
		{"my DIARY entry 202401010000.md", "202401010000", true},
		{"journal-20240101000000.md", "20240101000000", true},
		{"Journaling 20240101000000.md", "", false},
		{"journal_20240101000000.md", "", false},
		{"Journal notes.md", "", false},
		{"Journal 2024010100000012.md", "", false},
		{"Journal 20240101000000.txt", "", false},
	}

	for _, tt := range tests {
		got, ok := g.JournalID(tt.file)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("JournalID(%q) = %q, %v; want %q, %v", tt.file, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCustomExtension(t *testing.T) {
	g := New(".markdown")
	m, ok := g.MatchIndex("Note 20250101120000.markdown")
	if !ok || m.Title != "Note" {
		t.Fatalf("MatchIndex = %+v, %v", m, ok)
	}
	if g.IsNote("Note 20250101120000.md") {
		t.Error(".md should not be a note under .markdown grammar")
	}
}

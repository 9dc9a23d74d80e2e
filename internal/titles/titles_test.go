package titles

import (
	"testing"

	"github.com/starford/relink/internal/grammar"
)

func TestBuild_Basic(t *testing.T) {
	g := grammar.New(".md")
	ix := Build(g, []string{
		"Title 20250101120000.md",
		"Other20250102120000.md",
		"Third [[20250103120000]].md",
		"plain.md",
		"image.png",
	})

	want := map[string]string{
		"20250101120000": "Title",
		"20250102120000": "Other",
		"20250103120000": "Third",
	}
	if ix.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", ix.Len(), len(want))
	}
	for id, title := range want {
		got, ok := ix.Title(id)
		if !ok || got != title {
			t.Errorf("Title(%s) = %q, %v; want %q", id, got, ok, title)
		}
	}
	if _, ok := ix.Title("99999999999999"); ok {
		t.Error("unexpected entry for unknown identifier")
	}
}

func TestBuild_CollisionLastWins(t *testing.T) {
	g := grammar.New(".md")
	ix := Build(g, []string{
		"Alpha 20250101120000.md",
		"Beta 20250101120000.md",
	})

	got, _ := ix.Title("20250101120000")
	if got != "Beta" {
		t.Errorf("title = %q, want Beta", got)
	}
	cs := ix.Collisions()
	if len(cs) != 1 || cs[0].Kept != "Beta" || cs[0].Replaced != "Alpha" {
		t.Errorf("collisions = %+v", cs)
	}
	if ids := ix.IDs(); len(ids) != 1 {
		t.Errorf("IDs = %v, want one entry", ids)
	}
}

func TestTitles_DistinctInOrder(t *testing.T) {
	g := grammar.New(".md")
	ix := Build(g, []string{
		"Same 20250101120000.md",
		"Zed 20250102120000.md",
		"Same 20250103120000.md",
	})
	titles := ix.Titles()
	if len(titles) != 2 || titles[0] != "Same" || titles[1] != "Zed" {
		t.Errorf("Titles = %v, want [Same Zed]", titles)
	}
}

func TestKnown_IncludesCollisionLosers(t *testing.T) {
	g := grammar.New(".md")
	names := []string{
		"Alpha 20250101120000.md",
		"Beta 20250101120000.md",
	}
	known := Known(g, names)
	for _, want := range []string{"Alpha", "Beta"} {
		if _, ok := known[want]; !ok {
			t.Errorf("Known missing %q", want)
		}
	}
}

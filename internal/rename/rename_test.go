package rename

import (
	"errors"
	"testing"

	"github.com/starford/relink/internal/apperr"
	"github.com/starford/relink/internal/grammar"
	"github.com/starford/relink/internal/testutil"
)

func TestNote_Renames(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"Foo 20240101000000.md": "foo",
	})
	g := grammar.New(".md")

	out, err := Note(store, g, "Foo 20240101000000.md")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if out.Status != StatusDone || out.To != "Foo.md" {
		t.Errorf("outcome = %+v", out)
	}
	got, err := store.Read("Foo.md")
	if err != nil || string(got) != "foo" {
		t.Errorf("Read(Foo.md) = %q, %v", got, err)
	}
}

func TestNote_ConflictSkips(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"Foo 20240101000000.md": "new",
		"Foo.md":                "existing",
	})
	g := grammar.New(".md")

	out, err := Note(store, g, "Foo 20240101000000.md")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.To != "Foo.md" {
		t.Errorf("err = %#v", err)
	}
	if out.Status != StatusConflict {
		t.Errorf("status = %q", out.Status)
	}
	got, _ := store.Read("Foo.md")
	if string(got) != "existing" {
		t.Errorf("Foo.md overwritten: %q", got)
	}
	if ok, _ := store.Exists("Foo 20240101000000.md"); !ok {
		t.Error("source should remain in place")
	}
}

func TestNote_Unmatched(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{"Plain.md": "x"})

	out, err := Note(store, grammar.New(".md"), "Plain.md")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if out.Status != StatusUnmatched {
		t.Errorf("status = %q", out.Status)
	}
}

func TestAsset_Moves(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"image.png": "png",
		"Shot.PNG":  "PNG",
		"doc.pdf":   "pdf",
	})

	for _, name := range []string{"image.png", "Shot.PNG"} {
		out, err := Asset(store, name, ".png", "assets")
		if err != nil {
			t.Fatalf("Asset(%s): %v", name, err)
		}
		if out.Status != StatusDone || out.To != "assets/"+name {
			t.Errorf("outcome = %+v", out)
		}
		if ok, _ := store.Exists("assets/" + name); !ok {
			t.Errorf("assets/%s missing", name)
		}
	}

	out, err := Asset(store, "doc.pdf", ".png", "assets")
	if err != nil || out.Status != StatusUnmatched {
		t.Errorf("Asset(doc.pdf) = %+v, %v", out, err)
	}
}

func TestAsset_ConflictSkips(t *testing.T) {
	_, store := testutil.TestVault(t, map[string]string{
		"image.png":        "new",
		"assets/image.png": "old",
	})

	out, err := Asset(store, "image.png", ".png", "assets")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v", err)
	}
	if out.Status != StatusConflict {
		t.Errorf("status = %q", out.Status)
	}
	got, _ := store.Read("assets/image.png")
	if string(got) != "old" {
		t.Errorf("asset overwritten: %q", got)
	}
}

func TestIsImage(t *testing.T) {
	cases := map[string]bool{
		"a.png":    true,
		"a.PNG":    true,
		".png":     false,
		"a.png.md": false,
		"apng":     false,
	}
	for name, want := range cases {
		if got := IsImage(name, ".png"); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

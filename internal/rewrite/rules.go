package rewrite

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule names, in application order.
const (
	RuleImagePaths         = "image-paths"
	RuleIdentifierToTitle  = "identifier-to-title"
	RuleIndexedTitleSuffix = "indexed-title-suffix"
	RuleIdentifierSuffix   = "identifier-suffix"
	RuleKnownTitleRepeat   = "known-title-repeat"
	RuleRepeat             = "repeat"
)

var (
	imageRe    = regexp.MustCompile(`!\[([^\]\n]*)\]\(([^)\n]+)\)`)
	bareIDRe   = regexp.MustCompile(`\[\[(\d{14})\]\]`)
	titleIDRe  = regexp.MustCompile(`\[\[([^\[\]\n]+?)[ \t]+(\d{14})\]\]`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\[\]\n]+)\]\]`)
)

type rule struct {
	name  string
	apply func(r *Rewriter, p *pass)
}

var ruleList = []rule{
	{RuleImagePaths, (*Rewriter).rewriteImages},
	{RuleIdentifierToTitle, (*Rewriter).substituteIdentifiers},
	{RuleIndexedTitleSuffix, (*Rewriter).collapseIndexedSuffix},
	{RuleIdentifierSuffix, (*Rewriter).collapseIdentifierSuffix},
	{RuleKnownTitleRepeat, (*Rewriter).collapseKnownRepeats},
	{RuleRepeat, (*Rewriter).collapseAnyRepeats},
}

// rewriteImages points image references at the assets folder.
func (r *Rewriter) rewriteImages(p *pass) {
	p.content = imageRe.ReplaceAllStringFunc(p.content, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		target, ok := r.assetPath(strings.TrimSpace(sub[2]))
		if !ok {
			return m
		}
		return "![" + sub[1] + "](" + target + ")"
	})
}

func (r *Rewriter) assetPath(p string) (string, bool) {
	layout := r.opts.Layout
	if !strings.EqualFold(path.Ext(p), layout.ImageExt) {
		return "", false
	}
	if strings.Contains(p, "://") || strings.HasPrefix(p, "data:") {
		return "", false
	}
	segs := strings.Split(p, "/")
	for _, s := range segs[:len(segs)-1] {
		if s == layout.AssetsDir {
			return strings.TrimPrefix(p, "./"), true
		}
	}
	return strings.TrimSuffix(layout.AssetLinkBase, "/") + "/" + path.Base(p), true
}

// substituteIdentifiers replaces [[id]] with [[title]].
func (r *Rewriter) substituteIdentifiers(p *pass) {
	p.content = bareIDRe.ReplaceAllStringFunc(p.content, func(m string) string {
		id := m[2 : len(m)-2]
		title, ok := r.resolve(id)
		if !ok {
			p.addMissing(id)
			return m
		}
		p.addResolved(title)
		return "[[" + title + "]]"
	})
}

// collapseIndexedSuffix turns [[title id]] into [[title]] when the index agrees.
func (r *Rewriter) collapseIndexedSuffix(p *pass) {
	p.content = titleIDRe.ReplaceAllStringFunc(p.content, func(m string) string {
		sub := titleIDRe.FindStringSubmatch(m)
		title := strings.TrimSpace(sub[1])
		if t, ok := r.index.Title(sub[2]); !ok || t != title {
			return m
		}
		return "[[" + title + "]]"
	})
}

// collapseIdentifierSuffix drops a trailing identifier from any link text.
func (r *Rewriter) collapseIdentifierSuffix(p *pass) {
	p.content = titleIDRe.ReplaceAllStringFunc(p.content, func(m string) string {
		sub := titleIDRe.FindStringSubmatch(m)
		title := strings.TrimSpace(sub[1])
		if title == "" {
			return m
		}
		return "[[" + title + "]]"
	})
}

func (r *Rewriter) collapseKnownRepeats(p *pass) {
	p.content = collapseRepeats(p.content, func(x string) bool {
		return r.isKnown(x, p)
	})
}

func (r *Rewriter) collapseAnyRepeats(p *pass) {
	p.content = collapseRepeats(p.content, func(string) bool { return true })
}

// collapseRepeats rewrites "[[X]] X" to "[[X]]" for every X accepted.
// The repeated X must be followed by end of text, whitespace or punctuation.
func collapseRepeats(content string, accept func(string) bool) string {
	matches := wikilinkRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] < last {
			continue
		}
		x := content[m[2]:m[3]]
		if !accept(x) {
			continue
		}
		skip := repeatLen(content[m[1]:], x)
		if skip == 0 {
			continue
		}
		b.WriteString(content[last:m[1]])
		last = m[1] + skip
	}
	if last == 0 {
		return content
	}
	b.WriteString(content[last:])
	return b.String()
}

// repeatLen returns how many bytes of rest form " X" (horizontal whitespace,
// then X, then a boundary), or 0.
func repeatLen(rest, x string) int {
	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i == 0 || !strings.HasPrefix(rest[i:], x) {
		return 0
	}
	end := i + len(x)
	if end < len(rest) {
		c, _ := utf8.DecodeRuneInString(rest[end:])
		if !unicode.IsSpace(c) && !unicode.IsPunct(c) {
			return 0
		}
	}
	return end
}

func containsID(name, id string) bool {
	return strings.Contains(name, id)
}

// Package browse implements the "see more" facet browser: alphabetic
// groups, in-facet search, live counts and selection-first ordering.
package browse

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/search/match"
)

// otherLetter groups names that start with nothing printable.
const otherLetter = "#"

// Entry is one tag row in the browser.
type Entry struct {
	Tag      facet.Tag
	Count    int
	Selected bool
}

// Group is the set of entries sharing a leading letter.
type Group struct {
	Letter  string
	Entries []Entry
}

// Browser explores one facet. The text and letter filters are exclusive.
// A Browser is not safe for concurrent use; the Source it wraps is.
type Browser struct {
	kind   facet.Kind
	src    Source
	text   string
	letter string
}

// New creates a browser over the facet.
func New(kind facet.Kind, src Source) *Browser {
	return &Browser{kind: kind, src: src}
}

// Kind returns the browsed facet.
func (b *Browser) Kind() facet.Kind { return b.kind }

// Text returns the in-facet substring filter.
func (b *Browser) Text() string { return b.text }

// Letter returns the active letter filter.
func (b *Browser) Letter() string { return b.letter }

// SetText filters tags by substring and clears the letter filter.
func (b *Browser) SetText(q string) {
	b.text = strings.TrimSpace(q)
	if b.text != "" {
		b.letter = ""
	}
}

// SetLetter restricts tags to one leading letter and clears the text filter.
// An empty letter removes the restriction.
func (b *Browser) SetLetter(l string) {
	b.letter = LetterOf(l)
	if l == "" {
		b.letter = ""
	}
	if b.letter != "" {
		b.text = ""
	}
}

// Reset clears both filters.
func (b *Browser) Reset() {
	b.text = ""
	b.letter = ""
}

// Toggle selects or deselects a tag in the shared selection.
func (b *Browser) Toggle(t facet.Tag) bool {
	return b.src.ToggleTag(t)
}

// Letters lists the leading letters present in the facet, sorted.
func (b *Browser) Letters() []string {
	set := make(map[string]struct{})
	for _, t := range b.src.Index().Tags(b.kind) {
		set[LetterOf(t.Name())] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Groups returns the filtered tags grouped by leading letter. Groups are
// sorted by letter; within a group selected tags come first, then by name.
func (b *Browser) Groups() []Group {
	counts := Counts(b.kind, b.src.Projects())

	byLetter := make(map[string][]Entry)
	for _, t := range b.src.Index().Tags(b.kind) {
		if !b.accepts(t) {
			continue
		}
		l := LetterOf(t.Name())
		byLetter[l] = append(byLetter[l], Entry{
			Tag:      t,
			Count:    counts[t.Key()],
			Selected: b.src.IsSelected(t),
		})
	}

	letters := make([]string, 0, len(byLetter))
	for l := range byLetter {
		letters = append(letters, l)
	}
	slices.Sort(letters)

	groups := make([]Group, 0, len(letters))
	for _, l := range letters {
		entries := byLetter[l]
		slices.SortStableFunc(entries, compareEntries)
		groups = append(groups, Group{Letter: l, Entries: entries})
	}
	return groups
}

func (b *Browser) accepts(t facet.Tag) bool {
	switch {
	case b.text != "":
		return match.Contains(t.Name(), b.text)
	case b.letter != "":
		return LetterOf(t.Name()) == b.letter
	default:
		return true
	}
}

func compareEntries(a, b Entry) int {
	if a.Selected != b.Selected {
		if a.Selected {
			return -1
		}
		return 1
	}
	switch {
	case facet.LessByName(a.Tag, b.Tag):
		return -1
	case facet.LessByName(b.Tag, a.Tag):
		return 1
	default:
		return 0
	}
}

// LetterOf returns the upper-cased first rune of a name.
func LetterOf(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return otherLetter
	}
	return string(unicode.ToUpper(r))
}

// Counts returns, per tag key, how many projects of the full catalog carry
// the tag under the facet. A project counts once per tag.
func Counts(kind facet.Kind, projects []catalog.Project) map[string]int {
	counts := make(map[string]int)
	for i := range projects {
		seen := make(map[string]struct{})
		for _, r := range kind.Refs(&projects[i]) {
			key := facet.KeyOf(kind, r)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
		}
	}
	return counts
}

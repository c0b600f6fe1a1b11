package facet

import "github.com/kailas-cloud/facetdex/internal/domain/catalog"

// DefaultPreviewSize is the number of tags shown inline before "+N more".
const DefaultPreviewSize = 5

// Index holds the unique tags of every facet.
type Index struct {
	tags map[Kind][]Tag
}

// Build derives the facet index from the catalog. Tags are deduplicated by
// canonical key and kept in first-seen order; absent or empty references
// are skipped.
func Build(projects []catalog.Project) Index {
	idx := Index{tags: make(map[Kind][]Tag, len(kinds))}
	for _, k := range All() {
		seen := make(map[string]struct{})
		var tags []Tag
		for i := range projects {
			for _, r := range k.Refs(&projects[i]) {
				t := NewTag(k, r)
				if _, dup := seen[t.Key()]; dup {
					continue
				}
				seen[t.Key()] = struct{}{}
				tags = append(tags, t)
			}
		}
		idx.tags[k] = tags
	}
	return idx
}

// Tags returns a copy of the tags for a facet.
func (i Index) Tags(k Kind) []Tag {
	src := i.tags[k]
	out := make([]Tag, len(src))
	copy(out, src)
	return out
}

// Find returns the tag of a facet with the given identity.
func (i Index) Find(k Kind, id string) (Tag, bool) {
	for _, t := range i.tags[k] {
		if t.ID() == id {
			return t, true
		}
	}
	return Tag{}, false
}

// Len returns the number of tags in a facet.
func (i Index) Len(k Kind) int { return len(i.tags[k]) }

// Preview is the inline part of a facet: the first tags by name and how
// many more are hidden behind the browser.
type Preview struct {
	Kind  Kind
	Tags  []Tag
	More  int
	Total int
}

// Preview returns the first n tags of a facet sorted by name.
func (i Index) Preview(k Kind, n int) Preview {
	if n <= 0 {
		n = DefaultPreviewSize
	}
	tags := i.Tags(k)
	SortByName(tags)
	p := Preview{Kind: k, Total: len(tags)}
	if len(tags) > n {
		p.Tags = tags[:n]
		p.More = len(tags) - n
	} else {
		p.Tags = tags
	}
	return p
}

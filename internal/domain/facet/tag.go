package facet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// Tag is one concrete value within a facet.
type Tag struct {
	kind   Kind
	id     string
	name   string
	legacy bool
	key    string
}

// NewTag derives a tag from a catalog reference.
func NewTag(k Kind, r catalog.Ref) Tag {
	return Tag{
		kind:   k,
		id:     r.Identity(),
		name:   r.Name,
		legacy: r.Legacy(),
		key:    KeyOf(k, r),
	}
}

// Kind returns the facet the tag belongs to.
func (t Tag) Kind() Kind { return t.kind }

// ID returns the tag identity (the display name for legacy tags).
func (t Tag) ID() string { return t.id }

// Name returns the display name.
func (t Tag) Name() string { return t.name }

// Legacy reports whether the tag has no identity beyond its display name.
func (t Tag) Legacy() bool { return t.legacy }

// Key returns the canonical key used for deduplication and selection.
func (t Tag) Key() string { return t.key }

// KeyOf returns the canonical key of a reference under a facet.
// References with an explicit id are keyed by it; others by their
// sorted attribute set, so structurally equal legacy refs collapse.
func KeyOf(k Kind, r catalog.Ref) string {
	if r.ID != "" {
		return string(k) + "|id|" + r.ID
	}

	parts := make([]string, 0, len(r.Attrs)+1)
	parts = append(parts, "name="+strconv.Quote(r.Name))
	for a, v := range r.Attrs {
		parts = append(parts, a+"="+strconv.Quote(v))
	}
	sort.Strings(parts[1:])
	return string(k) + "|attrs|" + strings.Join(parts, ";")
}

// SortByName orders tags alphabetically (case-insensitive, stable on key).
func SortByName(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		return LessByName(tags[i], tags[j])
	})
}

// LessByName orders tags case-insensitively by name.
func LessByName(a, b Tag) bool {
	la, lb := strings.ToLower(a.name), strings.ToLower(b.name)
	if la != lb {
		return la < lb
	}
	if a.name != b.name {
		return a.name < b.name
	}
	return a.key < b.key
}

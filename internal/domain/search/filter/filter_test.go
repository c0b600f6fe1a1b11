package filter

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog/catalogtest"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
)

func mustTag(t *testing.T, idx facet.Index, k facet.Kind, id string) facet.Tag {
	t.Helper()
	tag, ok := idx.Find(k, id)
	if !ok {
		t.Fatalf("tag %s/%s not in index", k, id)
	}
	return tag
}

func TestApply_ReactAndAcmeQuery(t *testing.T) {
	projects := catalogtest.Projects()
	idx := facet.Build(projects)

	sel := NewSelection(9)
	sel.Toggle(mustTag(t, idx, facet.TechStack, catalogtest.React))
	if got := catalogtest.IDs(Apply(projects, sel, LegacyOnly)); !slices.Equal(got, []string{"p1", "p2", "p4"}) {
		t.Fatalf("React only: got %v", got)
	}

	sel.SetQuery("Acme")
	got := catalogtest.IDs(Apply(projects, sel, LegacyOnly))
	if !slices.Equal(got, []string{"p1"}) {
		t.Fatalf("React + Acme: got %v, want [p1]", got)
	}
}

func TestApply_AndAcrossFacets(t *testing.T) {
	projects := catalogtest.Projects()
	idx := facet.Build(projects)
	golang := mustTag(t, idx, facet.TechStack, catalogtest.Golang)
	atlas := mustTag(t, idx, facet.Team, catalogtest.Atlas)

	onlyGo := NewSelection(9)
	onlyGo.Toggle(golang)
	goItems := catalogtest.IDs(Apply(projects, onlyGo, LegacyOnly))

	onlyAtlas := NewSelection(9)
	onlyAtlas.Toggle(atlas)
	atlasItems := catalogtest.IDs(Apply(projects, onlyAtlas, LegacyOnly))

	both := NewSelection(9)
	both.Toggle(golang)
	both.Toggle(atlas)
	got := catalogtest.IDs(Apply(projects, both, LegacyOnly))

	var want []string
	for _, id := range goItems {
		if slices.Contains(atlasItems, id) {
			want = append(want, id)
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("intersection: got %v, want %v", got, want)
	}
	if !slices.Equal(want, []string{"p2"}) {
		t.Fatalf("unexpected fixture intersection %v", want)
	}
	if len(goItems) < len(got) {
		t.Error("single-tag selection must be a superset")
	}
}

func TestApply_OrAcrossFields(t *testing.T) {
	projects := catalogtest.Projects()
	sel := NewSelection(9)
	sel.SetQuery("globex")
	got := catalogtest.IDs(Apply(projects, sel, LegacyOnly))
	if !slices.Equal(got, []string{"p2", "p5"}) {
		t.Fatalf("client-name query: got %v", got)
	}
}

func TestApply_PreservesOrderAndIsDeterministic(t *testing.T) {
	projects := catalogtest.Projects()
	sel := NewSelection(9)
	sel.SetQuery("o")
	first := catalogtest.IDs(Apply(projects, sel, LegacyOnly))
	second := catalogtest.IDs(Apply(projects, sel, LegacyOnly))
	if !slices.Equal(first, second) {
		t.Fatalf("non-deterministic: %v vs %v", first, second)
	}
	if !slices.IsSortedFunc(first, func(a, b string) int { return indexOf(a) - indexOf(b) }) {
		t.Errorf("catalog order not preserved: %v", first)
	}
}

func indexOf(id string) int {
	return slices.Index(catalogtest.IDs(catalogtest.Projects()), id)
}

func TestTagMatches_LegacyPolicy(t *testing.T) {
	// Identity-bearing "Go" tag; "Go Mobile" only shares the word in its name.
	goTag := facet.NewTag(facet.TechStack, catalog.NewRef("t-go", "Go"))
	p := &catalog.Project{Name: "Go Mobile", TechStack: []catalog.Ref{catalog.NewRef("t-swift", "Swift")}}

	if TagMatches(p, goTag, LegacyOnly) {
		t.Error("legacy-only: identity tag must not match by substring")
	}
	if !TagMatches(p, goTag, Always) {
		t.Error("always: substring fallback should fire")
	}

	legacy := facet.NewTag(facet.TechStack, catalog.LegacyRef("Swift"))
	if !TagMatches(p, legacy, LegacyOnly) {
		t.Error("legacy tag should match through reference display name")
	}
}

func TestTagMatches_LegacyTagAgainstFixture(t *testing.T) {
	projects := catalogtest.Projects()
	idx := facet.Build(projects)
	php, ok := idx.Find(facet.TechStack, "PHP")
	if !ok {
		t.Fatal("PHP tag missing")
	}
	if !php.Legacy() {
		t.Fatal("PHP should be a legacy tag")
	}
	sel := NewSelection(9)
	sel.Toggle(php)
	got := catalogtest.IDs(Apply(projects, sel, LegacyOnly))
	if !slices.Equal(got, []string{"p6"}) {
		t.Fatalf("got %v", got)
	}
}

func TestParseLegacyPolicy(t *testing.T) {
	if p, err := ParseLegacyPolicy(""); err != nil || p != LegacyOnly {
		t.Errorf("empty: %v %v", p, err)
	}
	if p, err := ParseLegacyPolicy("always"); err != nil || p != Always {
		t.Errorf("always: %v %v", p, err)
	}
	if _, err := ParseLegacyPolicy("sometimes"); err == nil {
		t.Error("expected error")
	}
}

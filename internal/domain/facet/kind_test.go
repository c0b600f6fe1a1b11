package facet

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

func TestParseKind(t *testing.T) {
	for _, k := range All() {
		got, err := ParseKind(string(k))
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if got != k {
			t.Errorf("got %q", got)
		}
	}
	if _, err := ParseKind("teams"); !errors.Is(err, domain.ErrUnknownFacet) {
		t.Errorf("expected ErrUnknownFacet, got %v", err)
	}
}

func TestKind_Carries(t *testing.T) {
	p := catalog.Project{
		TechStack: []catalog.Ref{catalog.NewRef("t1", "React")},
		Client:    &catalog.Ref{ID: "c1", Name: "Acme"},
	}
	react := NewTag(TechStack, catalog.NewRef("t1", "React"))
	if !TechStack.Carries(&p, react) {
		t.Error("expected project to carry React")
	}
	acmeAsTeam := NewTag(Team, catalog.NewRef("c1", "Acme"))
	if Team.Carries(&p, acmeAsTeam) {
		t.Error("client ref must not satisfy the team facet")
	}
	if TechStack.Field() != "techStack" || Client.Field() != "client" {
		t.Error("unexpected field mapping")
	}
}

func TestKeyOf(t *testing.T) {
	a := KeyOf(TechStack, catalog.Ref{Name: "Go", Attrs: map[string]string{"x": "1", "y": "2"}})
	b := KeyOf(TechStack, catalog.Ref{Name: "Go", Attrs: map[string]string{"y": "2", "x": "1"}})
	if a != b {
		t.Errorf("attribute order changed the key: %q vs %q", a, b)
	}
	if KeyOf(TechStack, catalog.NewRef("t1", "Go")) == KeyOf(Features, catalog.NewRef("t1", "Go")) {
		t.Error("keys must be scoped by facet")
	}
	if KeyOf(Team, catalog.LegacyRef("a;b")) == KeyOf(Team, catalog.Ref{Name: "a", Attrs: map[string]string{"b": ""}}) {
		t.Error("quoting must prevent separator collisions")
	}
}

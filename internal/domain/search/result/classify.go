package result

import (
	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/search/match"
)

// Classify sorts raw search records into per-kind buckets. A record
// contributes to every bucket whose field contains the query, so one record
// can yield a project, its client and several tech stacks at once.
// Records with missing references simply skip those buckets.
func Classify(query string, records []catalog.Project) map[Kind][]Result {
	buckets := make(map[Kind][]Result, len(Kinds()))
	if query == "" {
		return buckets
	}
	add := func(k Kind, r catalog.Ref) {
		if r.IsZero() || !match.Contains(r.Name, query) {
			return
		}
		buckets[k] = append(buckets[k], New(k, r.Identity(), r.Name))
	}

	for i := range records {
		p := &records[i]
		if p.ID != "" && match.Contains(p.Name, query) {
			buckets[Project] = append(buckets[Project], New(Project, p.ID, p.Name))
		}
		if p.Client != nil {
			add(Client, *p.Client)
		}
		if p.Team != nil {
			add(Team, *p.Team)
		}
		for _, t := range p.TechStack {
			add(TechStack, t)
		}
		for _, f := range p.Features {
			add(Feature, f)
		}
	}
	return buckets
}

// Flatten concatenates buckets in Kinds() order.
func Flatten(buckets map[Kind][]Result) []Result {
	var out []Result
	for _, k := range Kinds() {
		out = append(out, buckets[k]...)
	}
	return out
}

// Resolve classifies, flattens and deduplicates a search response.
func Resolve(query string, records []catalog.Project) []Result {
	return Dedup(Flatten(Classify(query, records)))
}

// Carrying returns the project suggestions whose record references the
// given tag-like entity. Used when a tech stack or feature suggestion
// narrows the listing.
func Carrying(key Key, records []catalog.Project) []Result {
	var out []Result
	for i := range records {
		p := &records[i]
		if p.ID == "" || !carries(p, key) {
			continue
		}
		out = append(out, New(Project, p.ID, p.Name))
	}
	return Dedup(out)
}

func carries(p *catalog.Project, key Key) bool {
	var refs []catalog.Ref
	switch key.Kind {
	case TechStack:
		refs = p.TechStack
	case Feature:
		refs = p.Features
	case Client:
		if p.Client != nil {
			refs = []catalog.Ref{*p.Client}
		}
	case Team:
		if p.Team != nil {
			refs = []catalog.Ref{*p.Team}
		}
	}
	for _, r := range refs {
		if r.Identity() == key.ID {
			return true
		}
	}
	return false
}

// Package catalogtest provides shared catalog fixtures for tests.
package catalogtest

import (
	"time"

	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
)

// Well-known fixture identities.
const (
	React  = "t-react"
	Golang = "t-go"
	Acme   = "c-acme"
	Globex = "c-globex"
	Atlas  = "tm-atlas"
	Orion  = "tm-orion"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ref(id, name string) catalog.Ref { return catalog.NewRef(id, name) }

func refp(id, name string) *catalog.Ref {
	r := catalog.NewRef(id, name)
	return &r
}

// Projects returns seven projects: three use the React tech stack, two
// belong to client Acme, exactly one ("Storefront") has both. "Legacy CRM"
// uses bare-string references and has no client; "Analytics Hub" has no team.
func Projects() []catalog.Project {
	return []catalog.Project{
		{
			ID: "p1", Name: "Storefront", Description: "B2C shop",
			TechStack: []catalog.Ref{ref(React, "React"), ref("t-node", "Node.js")},
			Features:  []catalog.Ref{ref("f-checkout", "Checkout"), ref("f-search", "Search")},
			Client:    refp(Acme, "Acme"), Team: refp("tm-phoenix", "Phoenix"),
			CreatedAt: epoch,
		},
		{
			ID: "p2", Name: "Admin Console",
			TechStack: []catalog.Ref{ref(React, "React"), ref(Golang, "Go")},
			Features:  []catalog.Ref{ref("f-reporting", "Reporting")},
			Client:    refp(Globex, "Globex"), Team: refp(Atlas, "Atlas"),
			CreatedAt: epoch.Add(24 * time.Hour),
		},
		{
			ID: "p3", Name: "Mobile Banking",
			TechStack: []catalog.Ref{ref("t-kotlin", "Kotlin")},
			Features:  []catalog.Ref{ref("f-payments", "Payments")},
			Client:    refp(Acme, "Acme"), Team: refp("tm-phoenix", "Phoenix"),
			CreatedAt: epoch.Add(48 * time.Hour),
		},
		{
			ID: "p4", Name: "Design System",
			TechStack: []catalog.Ref{ref(React, "React"), ref("t-ts", "TypeScript")},
			Features:  []catalog.Ref{ref("f-theming", "Theming")},
			Client:    refp("c-initech", "Initech"), Team: refp(Atlas, "Atlas"),
			CreatedAt: epoch.Add(72 * time.Hour),
		},
		{
			ID: "p5", Name: "Data Pipeline",
			TechStack: []catalog.Ref{ref(Golang, "Go"), ref("t-kafka", "Kafka")},
			Features:  []catalog.Ref{ref("f-reporting", "Reporting"), ref("f-alerts", "Alerts")},
			Client:    refp(Globex, "Globex"), Team: refp(Orion, "Orion"),
			CreatedAt: epoch.Add(96 * time.Hour),
		},
		{
			ID: "p6", Name: "Legacy CRM",
			TechStack: []catalog.Ref{catalog.LegacyRef("PHP"), catalog.LegacyRef("PHP")},
			Features:  []catalog.Ref{catalog.LegacyRef("Contacts")},
			Team:      &catalog.Ref{Name: "Orion"},
			CreatedAt: epoch.Add(120 * time.Hour),
		},
		{
			ID: "p7", Name: "Analytics Hub",
			TechStack: []catalog.Ref{ref("t-python", "Python"), ref(Golang, "Go")},
			Features:  []catalog.Ref{ref("f-reporting", "Reporting")},
			Client:    refp("c-umbrella", "Umbrella"),
			CreatedAt: epoch.Add(144 * time.Hour),
		},
	}
}

// IDs returns the project ids in order.
func IDs(ps []catalog.Project) []string {
	out := make([]string, len(ps))
	for i := range ps {
		out[i] = ps[i].ID
	}
	return out
}

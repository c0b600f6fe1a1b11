// Package catalog holds the project records the browsing engine reads.
package catalog

import "time"

// Project is a single catalog item tagged along the four facets.
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Features    []Ref     `json:"features,omitempty" yaml:"features"`
	TechStack   []Ref     `json:"techStack,omitempty" yaml:"techStack"`
	Client      *Ref      `json:"client,omitempty" yaml:"client"`
	Team        *Ref      `json:"team,omitempty" yaml:"team"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"createdAt"`
}

// ClientName returns the client display name or "" when absent.
func (p *Project) ClientName() string {
	if p.Client == nil {
		return ""
	}
	return p.Client.Name
}

// TeamName returns the team display name or "" when absent.
func (p *Project) TeamName() string {
	if p.Team == nil {
		return ""
	}
	return p.Team.Name
}

// Refs returns every nested reference of the project, in field order:
// features, tech stack, client, team.
func (p *Project) Refs() []Ref {
	out := make([]Ref, 0, len(p.Features)+len(p.TechStack)+2)
	out = append(out, p.Features...)
	out = append(out, p.TechStack...)
	if p.Client != nil {
		out = append(out, *p.Client)
	}
	if p.Team != nil {
		out = append(out, *p.Team)
	}
	return out
}

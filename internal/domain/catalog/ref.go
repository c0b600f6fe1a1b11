package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ref is a nested reference from a project to a tag-like entity
// (tech stack, client, team, feature).
//
// Legacy records store references as bare strings; those decode into a Ref
// with an empty ID and Legacy() reporting true.
type Ref struct {
	ID    string
	Name  string
	Attrs map[string]string
}

// NewRef creates an identity-bearing reference.
func NewRef(id, name string) Ref {
	return Ref{ID: id, Name: name}
}

// LegacyRef creates a reference identified only by its display name.
func LegacyRef(name string) Ref {
	return Ref{Name: name}
}

// Legacy reports whether the reference has no explicit identity.
func (r Ref) Legacy() bool { return r.ID == "" }

// Identity returns the explicit id, or the display name for legacy references.
func (r Ref) Identity() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// IsZero reports whether the reference carries nothing usable.
func (r Ref) IsZero() bool {
	return strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Name) == ""
}

// MarshalJSON encodes legacy references without attributes as bare strings.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" && len(r.Attrs) == 0 {
		return json.Marshal(r.Name)
	}
	m := make(map[string]string, len(r.Attrs)+2)
	for k, v := range r.Attrs {
		m[k] = v
	}
	if r.ID != "" {
		m["id"] = r.ID
	}
	m["name"] = r.Name
	return json.Marshal(m)
}

// UnmarshalJSON accepts a bare string or an object with id/_id, name and
// further string attributes. Non-string attributes are ignored.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decode legacy ref: %w", err)
		}
		*r = LegacyRef(name)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode ref: %w", err)
	}

	out := Ref{}
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		switch k {
		case "id", "_id":
			if out.ID == "" || k == "id" {
				out.ID = s
			}
		case "name":
			out.Name = s
		default:
			if out.Attrs == nil {
				out.Attrs = make(map[string]string)
			}
			out.Attrs[k] = s
		}
	}
	*r = out
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for fixture files.
func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*r = LegacyRef(value.Value)
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("decode ref: %w", err)
		}
		out := Ref{ID: m["id"], Name: m["name"]}
		if out.ID == "" {
			out.ID = m["_id"]
		}
		for k, v := range m {
			if k == "id" || k == "_id" || k == "name" {
				continue
			}
			if out.Attrs == nil {
				out.Attrs = make(map[string]string)
			}
			out.Attrs[k] = v
		}
		*r = out
		return nil
	default:
		return fmt.Errorf("decode ref: unexpected yaml node kind %d", value.Kind)
	}
}

package browse

import (
	"github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
)

// Source is the catalog view the browser reads from and writes selections to.
type Source interface {
	Projects() []catalog.Project
	Index() facet.Index
	IsSelected(t facet.Tag) bool
	ToggleTag(t facet.Tag) bool
}

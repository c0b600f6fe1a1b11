package facetdex

import (
	domcat "github.com/kailas-cloud/facetdex/internal/domain/catalog"
	"github.com/kailas-cloud/facetdex/internal/domain/facet"
	"github.com/kailas-cloud/facetdex/internal/domain/page"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	"github.com/kailas-cloud/facetdex/internal/usecase/typeahead"
)

// Catalog records.
type (
	Project      = domcat.Project
	Ref          = domcat.Ref
	SortKey      = domcat.SortKey
	ListResponse = domcat.ListResponse
)

// Sort keys.
const (
	SortDefault    = domcat.SortDefault
	SortMostRecent = domcat.SortMostRecent
)

// Facets.
type (
	FacetKind = facet.Kind
	Tag       = facet.Tag
	Group     = browse.Group
	Entry     = browse.Entry
	Browser   = browse.Browser
)

// Facet kinds.
const (
	FacetTechStack = facet.TechStack
	FacetClient    = facet.Client
	FacetTeam      = facet.Team
	FacetFeatures  = facet.Features
)

// View state.
type (
	View        = cataloguc.View
	Snapshot    = cataloguc.Snapshot
	WidthSignal = cataloguc.WidthSignal
	Breakpoints = page.Breakpoints
	Breakpoint  = page.Breakpoint
)

// LegacyPolicy selects when the name substring fallback matches a tag.
type LegacyPolicy = filter.LegacyPolicy

// Legacy policies.
const (
	LegacyOnly = filter.LegacyOnly
	Always     = filter.Always
)

// Typeahead.
type (
	Resolver   = typeahead.Resolver
	Result     = result.Result
	ResultKind = result.Kind
	ResultKey  = result.Key
	Navigator  = typeahead.Navigator
)

// Ref constructors.
var (
	NewRef    = domcat.NewRef
	LegacyRef = domcat.LegacyRef
)

// Parsers for user input.
var (
	ParseSortKey   = domcat.ParseSortKey
	ParseFacetKind = facet.ParseKind
	ParseResultKey = result.ParseKey
)

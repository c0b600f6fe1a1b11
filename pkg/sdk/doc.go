// Package facetdex provides a Go client for the facetdex catalog service.
//
// The client talks to a facetdex server over HTTP and implements the two
// services the browsing engine needs: the catalog listing and the
// all-fields search. The filtering, facet and typeahead state stays in the
// caller's process.
//
// # Remote calls
//
//	client, _ := facetdex.New("http://localhost:8080", facetdex.WithAPIKey(key))
//	resp, _ := client.ListProjects(ctx, facetdex.SortMostRecent)
//	hits, _ := client.SearchAllFields(ctx, "react")
//
// # Client-held view
//
//	view := client.NewView(facetdex.WithViewPerPage(9))
//	defer view.Close()
//	_ = view.Reload(ctx)
//	view.SetQuery("store")
//	snap := view.Snapshot()
//
// # Typeahead
//
//	r := client.NewResolver(func(res []facetdex.Result) { render(res) }, nav)
//	defer r.Close()
//	r.Type("rea") // debounced; stale responses are dropped
package facetdex

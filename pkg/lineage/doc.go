// Package lineage models lineage requests and responses and the graph
// built from them.
//
// The graph lineage endpoint returns entities and relations; [Response.Graph]
// turns those into a [Graph] with upstream and downstream adjacency lists:
//
//	g := resp.Graph()
//	for _, guid := range g.AllDownstreamAssetsDFS(resp.BaseEntityGUID) {
//	    ...
//	}
//
// Lineage passes through process entities (asset -> process -> asset). The
// "Assets" variants of the traversals step over processes so callers see
// only data assets.
//
// The paged lineage list endpoint is described by [ListRequest], usually
// built with [FluentLineage].
package lineage

// Package atlan is the client for an Atlan tenant.
//
// A [Client] groups the REST API into services:
//
//	client, err := atlan.FromEnv()
//	if err != nil {
//	    return err
//	}
//	table, err := client.Assets.GetByQualifiedName(ctx, model.TypeTable, qn, atlan.GetOptions{})
//
// Listings are returned as a [Pager] that fetches pages on demand:
//
//	req, _ := search.NewFluentSearch().Where(search.AssetType(model.TypeTable)).ToRequest()
//	results, err := client.Assets.Search(ctx, req)
//	for asset, err := range results.All(ctx) {
//	    ...
//	}
//
// Tag display names, role names and group names are translated to the ids
// the API expects by [TagCache], [RoleCache] and [GroupCache]. Type
// definitions and roles are stored in the cache passed with [WithCache].
package atlan

// Package pkg holds the libraries behind the atlan command: a typed client
// for the Atlan metadata catalog and the pieces it is built from.
//
// # Overview
//
// Most programs only need [atlan]:
//
//	client, err := atlan.FromEnv()
//	if err != nil {
//	    return err
//	}
//	req, err := search.NewFluentSearch().
//	    Where(search.AssetType(model.TypeTable)).
//	    Where(search.ActiveAssets()).
//	    Where(fields.CertificateStatus.Eq(string(model.CertificateVerified))).
//	    ToRequest()
//	if err != nil {
//	    return err
//	}
//	results, err := client.Assets.Search(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for asset, err := range results.All(ctx) {
//	    ...
//	}
//
// # Packages
//
// Client and data model:
//
//   - [atlan]: services for assets, lineage, users, groups, roles and typedefs,
//     with name/id caches for tags, roles and groups
//   - [model]: asset structs, enums, users, groups and typedefs, with
//     creators and update helpers
//   - [search]: index search queries, the fluent builder and typed fields
//   - [lineage]: lineage requests, the response graph and DOT/SVG output
//
// Infrastructure:
//
//   - [api]: the authenticated JSON transport with retries and rate-limit handling
//   - [errors]: coded errors and input validation
//   - [cache]: response cache backends (file, Redis, null) and key schemes
//   - [observability]: hooks for request, cache and paging events
//   - [buildinfo]: version information set at link time
//
// Tooling around the client:
//
//   - [config]: connection profiles stored as TOML, with environment overrides
//   - [snapshot]: governance snapshots of assets, stored as files or in MongoDB, and their diff
//   - [atlantest]: an in-memory fake tenant for tests
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	ATLAN_TEST_MONGO_URI=mongodb://localhost go test ./pkg/snapshot
//
// [atlan]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/atlan
// [model]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/model
// [search]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/search
// [lineage]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/lineage
// [api]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/errors
// [cache]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/buildinfo
// [config]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/config
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/snapshot
// [atlantest]: https://pkg.go.dev/github.com/matzehuels/atlan-go/pkg/atlantest
package pkg

// Package snapshot records the governance state of catalog assets so that
// two points in time can be compared.
//
// A [Snapshot] holds one [Record] per asset: its certificate, owners,
// Atlan tags and description. [Diff] reports assets added, removed or
// changed between two snapshots. Snapshots are kept in a [Store]:
//
//	// CLI, one JSON file per snapshot
//	store, err := snapshot.NewFileStore("")
//
//	// Shared
//	store, err := snapshot.NewMongoStore(ctx, snapshot.MongoConfig{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "atlan",
//	})
package snapshot

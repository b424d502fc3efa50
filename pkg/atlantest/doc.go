// Package atlantest provides an in-memory Atlan tenant for tests.
//
// The server implements the REST routes used by package atlan closely
// enough to exercise paging, tag translation, bulk saves and error mapping.
// Index search understands term filters only.
//
//	srv := atlantest.New(t)
//	guid := srv.AddEntity(table)
//	client, _ := atlan.NewClient(atlan.Config{BaseURL: srv.URL, APIKey: srv.APIKey})
package atlantest

// Package search builds index search requests.
//
// Queries are small structs ([Term], [Prefix], [Range], [Bool], ...) that
// render to the Elasticsearch JSON DSL through their Source method. Most
// callers do not build them directly: typed fields from the fields
// subpackage produce them,
//
//	fields.Name.StartsWith("ORD", true)
//	fields.RowCount.Gt(1000)
//
// and [FluentSearch] combines them into an [IndexSearchRequest].
// Pagination over the results lives in the atlan package.
package search

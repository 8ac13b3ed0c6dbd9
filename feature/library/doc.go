// Package library holds the served live model: an in-memory view of the
// local store that HTTP consumers read while the synchronizer updates it.
//
// The model keeps, per database, three kinds of collections:
//
//   - items
//   - containers
//   - container items, one collection per container
//
// Every collection exposes UpdateIDs and RemoveIDs. UpdateIDs reloads the
// given rows from the store; RemoveIDs retracts them. Both are safe to call
// while readers are active.
//
// Model.Load bootstraps the view from the store at startup. Afterwards the
// synchronizer keeps it current incrementally.
//
// # HTTP
//
// The feature mounts read-only routes:
//
//	GET /databases/
//	GET /databases/:db/items
//	GET /databases/:db/items/:item
//	GET /databases/:db/containers
//	GET /databases/:db/containers/:container/items
package library

// Package pipeline orchestrates the two halves of a refresh: fetching
// upstream data into the tiered store, and building derived artifacts
// (normals, timeline, species profiles) from whatever the store holds.
//
// Fetching is freshness-gated per document, so an aborted run leaves the
// store partially updated but never inconsistent. Building never touches
// the network; it degrades to stale cached inputs when a fetch failed.
package pipeline

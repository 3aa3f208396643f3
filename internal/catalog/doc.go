// Package catalog persists the merged event/venue catalog in SQLite and is
// the single shared mutable resource of the engine.
//
// The Store manages the database connection, schema migrations, and typed
// row access for events, venues, series, festivals, organizations, and the
// venue enrichment tables. Find-or-create identities (venue slug, series
// title+frequency, event fingerprint, pending proposal per venue/field) are
// backed by UNIQUE constraints; callers recover from ErrConflict by
// re-reading the winning row rather than erroring.
//
// All reads and writes are synchronous and independent: no multi-record
// transaction spans an adapter run, so an aborted run leaves the catalog in
// a valid (if incomplete) state.
package catalog

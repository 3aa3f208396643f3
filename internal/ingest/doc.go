// Package ingest is the entry point source adapters feed extracted records
// through. A Session wraps one adapter run: each observed candidate is
// fingerprinted, its venue resolved, the event reconciled and linked to its
// series, and the fingerprint remembered so a completed run can prune the
// source's stale events on Finish.
package ingest

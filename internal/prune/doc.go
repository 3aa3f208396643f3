// Package prune removes catalog events a completed adapter run no longer
// observed, keeping each source's slice of the catalog in step with what
// the source currently publishes.
package prune

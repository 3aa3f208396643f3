// Command marquee is the operator CLI for the catalog reconciliation and
// quality engine: reviewing enrichment proposals, recomputing completeness
// scores and inspecting the catalog database.
package main

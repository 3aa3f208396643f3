// Package enrichment runs the propose/approve workflow for venue metadata.
// External helpers suggest single-field changes; nothing touches a venue row
// until a reviewer approves, at which point the change is applied, logged to
// the immutable audit trail, and the venue is rescored.
package enrichment

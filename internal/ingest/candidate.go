package ingest

import (
	"time"

	"marquee/internal/reconcile"
	"marquee/internal/series"
	"marquee/internal/venues"
)

// Candidate is one event record as an adapter extracted it, before any
// identity resolution. The session turns it into a catalog row.
type Candidate struct {
	Title       string
	Description string
	StartDate   time.Time
	StartTime   string // HH:MM, optional
	EndTime     string
	Price       string
	TicketURL   string
	ImageURL    string
	Tags        []string

	// Venue describes where the event happens; the session resolves it to
	// a venue row by slug identity.
	Venue venues.Descriptor

	// Series, when set, marks the event as an instance of a recurring show.
	Series *series.Hint

	// Confidence carries the adapter's per-field extraction confidence,
	// keyed by event field name.
	Confidence map[string]reconcile.Confidence
}

package catalog

import "time"

// Proposal lifecycle states.
const (
	ProposalPending    = "pending"
	ProposalApproved   = "approved"
	ProposalRejected   = "rejected"
	ProposalSuperseded = "superseded"
)

// Entity tables the engine scores. Used to validate bulk score writes.
const (
	TableEvents        = "events"
	TableVenues        = "venues"
	TableSeries        = "series"
	TableFestivals     = "festivals"
	TableOrganizations = "organizations"
)

// Event is one occurrence row in the catalog. A zero CanonicalEventID marks
// the row as live; a non-zero value marks it as a duplicate of that row and
// excludes it from listings.
type Event struct {
	ID               int64
	SourceID         string
	Fingerprint      string
	Title            string
	Description      string
	StartDate        string // YYYY-MM-DD
	StartTime        string // HH:MM, optional
	EndTime          string
	Price            string
	TicketURL        string
	ImageURL         string
	Tags             []string
	VenueID          int64
	SeriesID         int64
	FestivalID       int64
	OrganizationID   int64
	CanonicalEventID int64
	QualityScore     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Live reports whether the event is the canonical representative of its
// occurrence (not retired behind a canonical link).
func (e *Event) Live() bool {
	return e != nil && e.CanonicalEventID == 0
}

// Venue is a place events happen at, identified by slug.
type Venue struct {
	ID           int64
	Slug         string
	Name         string
	Address      string
	City         string
	PostalCode   string
	Website      string
	Phone        string
	Description  string
	ImageURL     string
	Latitude     float64
	Longitude    float64
	Capacity     int
	Accessible   bool
	Tags         []string
	QualityScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Series groups recurring-show instances, identified by (title, frequency).
type Series struct {
	ID           int64
	Title        string
	Frequency    string
	DayOfWeek    string
	Description  string
	VenueID      int64
	QualityScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Festival is a multi-day umbrella grouping for events.
type Festival struct {
	ID           int64
	Title        string
	StartDate    string
	EndDate      string
	Website      string
	Description  string
	QualityScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Organization is a promoter or operator of events.
type Organization struct {
	ID           int64
	Name         string
	Website      string
	Description  string
	QualityScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Proposal is a suggested single-field change to a venue awaiting review.
type Proposal struct {
	ID            int64
	VenueID       int64
	Field         string
	PreviousValue string
	ProposedValue string
	Source        string
	Confidence    float64
	Reasoning     string
	BatchID       string
	Status        string
	Reviewer      string
	CreatedAt     time.Time
	ReviewedAt    *time.Time
}

// LogEntry is an immutable audit record of an applied enrichment.
type LogEntry struct {
	ID            int64
	VenueID       int64
	Field         string
	PreviousValue string
	NewValue      string
	Source        string
	Actor         string
	AppliedAt     time.Time
}

// Page bounds a list query. A zero Limit falls back to DefaultPageSize.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageSize bounds list queries when the caller does not specify one.
const DefaultPageSize = 200

func (p Page) limit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return p.Limit
}

package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// Candidate is one extracted event record heading into reconciliation. The
// caller computes the fingerprint and resolves foreign keys before handing
// the candidate over; the reconciler only decides insert versus merge.
type Candidate struct {
	SourceID    string
	Fingerprint string
	Title       string
	Description string
	StartDate   string // YYYY-MM-DD
	StartTime   string // HH:MM, optional
	EndTime     string
	Price       string
	TicketURL   string
	ImageURL    string
	Tags        []string
	VenueID     int64
	FestivalID  int64
	OrgID       int64

	// Confidence carries per-field extraction confidence. Fields absent
	// from the map default to ConfidenceDefault.
	Confidence map[string]Confidence
}

// ErrInvalidCandidate marks a candidate missing the fields every catalog
// row must carry.
var ErrInvalidCandidate = errors.New("invalid candidate")

func (c *Candidate) validate() error {
	switch {
	case strings.TrimSpace(c.SourceID) == "":
		return fmt.Errorf("%w: missing source id", ErrInvalidCandidate)
	case c.Fingerprint == "":
		return fmt.Errorf("%w: missing fingerprint", ErrInvalidCandidate)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: missing title", ErrInvalidCandidate)
	case strings.TrimSpace(c.StartDate) == "":
		return fmt.Errorf("%w: missing start date", ErrInvalidCandidate)
	}
	return nil
}

func (c *Candidate) confidence(field string) Confidence {
	if c.Confidence == nil {
		return ConfidenceDefault
	}
	return c.Confidence[field]
}

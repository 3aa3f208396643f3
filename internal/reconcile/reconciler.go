package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/logging"
)

// Outcome classifies what Reconcile did with a candidate.
type Outcome int

const (
	// Inserted means the candidate became a new catalog row.
	Inserted Outcome = iota
	// Merged means an existing row held the fingerprint and absorbed the
	// candidate per the merge policy. Fields on the result lists what
	// changed; an identical repeat observation merges with no changes.
	Merged
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Merged:
		return "merged"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports the fate of one reconciled candidate.
type Result struct {
	Outcome Outcome
	EventID int64
	// Fields lists the columns the merge changed, empty for Inserted and
	// for merges that changed nothing.
	Fields []string
}

// Changed reports whether the reconciliation altered any stored field.
func (r *Result) Changed() bool {
	return len(r.Fields) > 0
}

// Reconciler deduplicates candidates against the catalog by fingerprint and
// merges repeat observations into the existing row.
type Reconciler struct {
	store  *catalog.Store
	policy Policy
	logger *slog.Logger
}

// New constructs a reconciler with the given merge policy. A nil policy
// falls back to DefaultPolicy.
func New(store *catalog.Store, policy Policy, logger *slog.Logger) *Reconciler {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Reconciler{
		store:  store,
		policy: policy,
		logger: logging.WithComponent(logger, "reconcile"),
	}
}

// Reconcile inserts the candidate as a new event or merges it into the live
// event already holding its fingerprint. A concurrent insert of the same
// fingerprint loses the race cleanly: the loser re-reads the winner and
// merges into it.
func (r *Reconciler) Reconcile(ctx context.Context, cand *Candidate) (*Result, error) {
	if err := cand.validate(); err != nil {
		return nil, err
	}

	existing, err := r.store.FindLiveEventByFingerprint(ctx, cand.Fingerprint)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return r.merge(ctx, existing, cand)
	}

	id, err := r.store.InsertEvent(ctx, r.newEvent(cand))
	if errors.Is(err, catalog.ErrConflict) {
		winner, readErr := r.store.FindLiveEventByFingerprint(ctx, cand.Fingerprint)
		if readErr != nil {
			return nil, readErr
		}
		if winner == nil {
			return nil, fmt.Errorf("fingerprint %s: %w", cand.Fingerprint, err)
		}
		return r.merge(ctx, winner, cand)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("event inserted",
		slog.Int64(logging.FieldEventID, id),
		slog.String(logging.FieldSource, cand.SourceID),
		slog.String(logging.FieldFingerprint, cand.Fingerprint),
	)
	return &Result{Outcome: Inserted, EventID: id}, nil
}

func (r *Reconciler) newEvent(cand *Candidate) *catalog.Event {
	return &catalog.Event{
		SourceID:       cand.SourceID,
		Fingerprint:    cand.Fingerprint,
		Title:          strings.TrimSpace(cand.Title),
		Description:    cand.Description,
		StartDate:      cand.StartDate,
		StartTime:      cand.StartTime,
		EndTime:        cand.EndTime,
		Price:          cand.Price,
		TicketURL:      cand.TicketURL,
		ImageURL:       cand.ImageURL,
		Tags:           normalizeTags(cand.Tags),
		VenueID:        cand.VenueID,
		FestivalID:     cand.FestivalID,
		OrganizationID: cand.OrgID,
	}
}

func (r *Reconciler) merge(ctx context.Context, event *catalog.Event, cand *Candidate) (*Result, error) {
	changed := r.applyPolicy(event, cand)
	if len(changed) == 0 {
		return &Result{Outcome: Merged, EventID: event.ID}, nil
	}

	if err := r.store.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	r.logger.Debug("event merged",
		slog.Int64(logging.FieldEventID, event.ID),
		slog.String(logging.FieldSource, cand.SourceID),
		slog.String("fields", strings.Join(changed, ",")),
	)
	return &Result{Outcome: Merged, EventID: event.ID, Fields: changed}, nil
}

// applyPolicy mutates the event in place and returns the names of the
// fields that changed, sorted for stable logging.
func (r *Reconciler) applyPolicy(event *catalog.Event, cand *Candidate) []string {
	var changed []string
	apply := func(field string, stored *string, candidate string) {
		candidate = strings.TrimSpace(candidate)
		if r.policy.wins(field, *stored, candidate, cand.confidence(field)) && *stored != candidate {
			*stored = candidate
			changed = append(changed, field)
		}
	}

	apply("title", &event.Title, cand.Title)
	apply("description", &event.Description, cand.Description)
	apply("start_time", &event.StartTime, cand.StartTime)
	apply("end_time", &event.EndTime, cand.EndTime)
	apply("price", &event.Price, cand.Price)
	apply("ticket_url", &event.TicketURL, cand.TicketURL)
	apply("image_url", &event.ImageURL, cand.ImageURL)

	if merged, grew := unionTags(event.Tags, cand.Tags); grew {
		event.Tags = merged
		changed = append(changed, "tags")
	}

	// Foreign keys fill only when unset; a populated link is sticky.
	if event.VenueID == 0 && cand.VenueID != 0 {
		event.VenueID = cand.VenueID
		changed = append(changed, "venue_id")
	}
	if event.FestivalID == 0 && cand.FestivalID != 0 {
		event.FestivalID = cand.FestivalID
		changed = append(changed, "festival_id")
	}
	if event.OrganizationID == 0 && cand.OrgID != 0 {
		event.OrganizationID = cand.OrgID
		changed = append(changed, "organization_id")
	}

	sort.Strings(changed)
	return changed
}

func normalizeTags(tags []string) []string {
	merged, _ := unionTags(nil, tags)
	return merged
}

// unionTags merges candidate tags into the stored set, deduplicating
// case-insensitively and keeping a sorted order so repeated merges are
// stable. Reports whether the set grew.
func unionTags(stored, candidate []string) ([]string, bool) {
	if len(candidate) == 0 {
		return stored, false
	}
	seen := make(map[string]struct{}, len(stored)+len(candidate))
	merged := make([]string, 0, len(stored)+len(candidate))
	add := func(tag string) bool {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return false
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		merged = append(merged, tag)
		return true
	}
	for _, tag := range stored {
		add(tag)
	}
	grew := false
	for _, tag := range candidate {
		if add(tag) {
			grew = true
		}
	}
	if !grew {
		return stored, false
	}
	sort.Strings(merged)
	return merged, true
}

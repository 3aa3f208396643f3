package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"marquee/internal/catalog"
	"marquee/internal/logging"
	"marquee/internal/scoring"
)

// ErrInvalidField marks a proposal naming a field the workflow is not
// allowed to change.
var ErrInvalidField = errors.New("field not enrichable")

// ErrUnknownVenue marks a proposal for a venue that does not exist.
var ErrUnknownVenue = errors.New("unknown venue")

// DefaultAllowedFields is the set of venue fields the workflow enriches
// when the configuration does not narrow it.
var DefaultAllowedFields = []string{
	"address", "city", "postal_code", "website", "phone", "description", "image_url",
}

// NewBatchID mints a batch identifier for a group of proposals produced by
// one helper run, so reviewers can approve or reject them together.
func NewBatchID() string {
	return uuid.NewString()
}

// Proposal is the input to Propose: a suggested value for one venue field,
// with the provenance a reviewer needs to judge it.
type Proposal struct {
	VenueID    int64
	Field      string
	Value      string
	Source     string
	Confidence float64
	Reasoning  string
	BatchID    string
}

// Workflow coordinates proposal intake, review, application and auditing.
type Workflow struct {
	store   *catalog.Store
	logger  *slog.Logger
	allowed map[string]struct{}
}

// New constructs a workflow. allowedFields narrows which venue fields may
// be enriched; nil means DefaultAllowedFields. Fields the store cannot
// update through the field-level writer are dropped from the set.
func New(store *catalog.Store, logger *slog.Logger, allowedFields []string) *Workflow {
	if allowedFields == nil {
		allowedFields = DefaultAllowedFields
	}
	allowed := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		if catalog.VenueFieldUpdatable(field) {
			allowed[field] = struct{}{}
		}
	}
	return &Workflow{
		store:   store,
		logger:  logging.WithComponent(logger, "enrichment"),
		allowed: allowed,
	}
}

// Allowed reports whether the workflow accepts proposals for a field.
func (w *Workflow) Allowed(field string) bool {
	_, ok := w.allowed[field]
	return ok
}

// Propose records a pending proposal, snapshotting the venue's current
// value so the review surface can show a before/after diff. Any older
// pending proposal for the same (venue, field) pair is superseded.
func (w *Workflow) Propose(ctx context.Context, p Proposal) (*catalog.Proposal, error) {
	if !w.Allowed(p.Field) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, p.Field)
	}
	if strings.TrimSpace(p.Value) == "" {
		return nil, errors.New("proposed value is empty")
	}

	venue, err := w.store.GetVenue(ctx, p.VenueID)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVenue, p.VenueID)
	}

	record := &catalog.Proposal{
		VenueID:       p.VenueID,
		Field:         p.Field,
		PreviousValue: venueFieldValue(venue, p.Field),
		ProposedValue: strings.TrimSpace(p.Value),
		Source:        p.Source,
		Confidence:    p.Confidence,
		Reasoning:     p.Reasoning,
		BatchID:       p.BatchID,
	}
	_, superseded, err := w.store.CreateProposal(ctx, record)
	if err != nil {
		return nil, err
	}

	w.logger.Info("proposal recorded",
		slog.Int64(logging.FieldProposalID, record.ID),
		slog.Int64(logging.FieldVenueID, p.VenueID),
		slog.String("field", p.Field),
		slog.Int64("superseded", superseded),
	)
	return record, nil
}

// Approve applies a pending proposal: the status flips to approved first,
// so two concurrent approvals of the same proposal apply it once, then the
// venue field is written, the audit log appended, and the venue rescored.
// Returns false without error when the proposal is missing or already
// resolved.
func (w *Workflow) Approve(ctx context.Context, id int64, reviewer string) (bool, error) {
	proposal, err := w.store.GetProposal(ctx, id)
	if err != nil {
		return false, err
	}
	if proposal == nil {
		return false, nil
	}

	claimed, err := w.store.ResolveProposal(ctx, id, catalog.ProposalApproved, reviewer)
	if err != nil {
		return false, err
	}
	if !claimed {
		w.logger.Warn("approval skipped, proposal no longer pending",
			slog.Int64(logging.FieldProposalID, id),
			slog.String("status", proposal.Status),
		)
		return false, nil
	}

	if err := w.store.UpdateVenueField(ctx, proposal.VenueID, proposal.Field, proposal.ProposedValue); err != nil {
		return false, fmt.Errorf("apply proposal %d: %w", id, err)
	}
	if _, err := w.store.AppendEnrichmentLog(ctx, &catalog.LogEntry{
		VenueID:       proposal.VenueID,
		Field:         proposal.Field,
		PreviousValue: proposal.PreviousValue,
		NewValue:      proposal.ProposedValue,
		Source:        proposal.Source,
		Actor:         reviewer,
	}); err != nil {
		return false, fmt.Errorf("log proposal %d: %w", id, err)
	}
	if err := w.rescore(ctx, proposal.VenueID); err != nil {
		return false, fmt.Errorf("rescore venue %d: %w", proposal.VenueID, err)
	}

	w.logger.Info("proposal approved",
		slog.Int64(logging.FieldProposalID, id),
		slog.Int64(logging.FieldVenueID, proposal.VenueID),
		slog.String("field", proposal.Field),
		slog.String("reviewer", reviewer),
	)
	return true, nil
}

// Reject resolves a pending proposal without applying it. Returns false
// when the proposal is missing or already resolved.
func (w *Workflow) Reject(ctx context.Context, id int64, reviewer string) (bool, error) {
	resolved, err := w.store.ResolveProposal(ctx, id, catalog.ProposalRejected, reviewer)
	if err != nil {
		return false, err
	}
	if resolved {
		w.logger.Info("proposal rejected",
			slog.Int64(logging.FieldProposalID, id),
			slog.String("reviewer", reviewer),
		)
	}
	return resolved, nil
}

// BatchReport summarizes a batch approval.
type BatchReport struct {
	Approved int
	Skipped  int
	Failed   int
}

// ApproveBatch approves every pending proposal in a batch. Failures are
// counted per proposal and do not stop the rest of the batch.
func (w *Workflow) ApproveBatch(ctx context.Context, batchID, reviewer string) (BatchReport, error) {
	if batchID == "" {
		return BatchReport{}, errors.New("batch id is required")
	}

	var report BatchReport
	failed := make(map[int64]struct{})
	for {
		// Approvals drain the pending set, so each pass re-reads from the
		// start rather than advancing an offset.
		pending, err := w.store.ProposalsByStatus(ctx, catalog.ProposalPending, batchID, catalog.Page{})
		if err != nil {
			return report, err
		}
		progressed := false
		for _, proposal := range pending {
			// A failed proposal stays pending; count it once, not once
			// per pass.
			if _, seen := failed[proposal.ID]; seen {
				continue
			}
			ok, err := w.Approve(ctx, proposal.ID, reviewer)
			switch {
			case err != nil:
				failed[proposal.ID] = struct{}{}
				report.Failed++
				w.logger.Warn("batch approval failed",
					slog.Int64(logging.FieldProposalID, proposal.ID),
					logging.Error(err),
				)
			case ok:
				report.Approved++
				progressed = true
			default:
				report.Skipped++
			}
		}
		if !progressed {
			break
		}
	}
	return report, nil
}

func (w *Workflow) rescore(ctx context.Context, venueID int64) error {
	venue, err := w.store.GetVenue(ctx, venueID)
	if err != nil {
		return err
	}
	if venue == nil {
		return fmt.Errorf("%w: %d", ErrUnknownVenue, venueID)
	}
	return w.store.BulkUpdateScores(ctx, catalog.TableVenues, map[int64]int{
		venue.ID: scoring.ScoreVenue(venue),
	})
}

func venueFieldValue(venue *catalog.Venue, field string) string {
	switch field {
	case "name":
		return venue.Name
	case "address":
		return venue.Address
	case "city":
		return venue.City
	case "postal_code":
		return venue.PostalCode
	case "website":
		return venue.Website
	case "phone":
		return venue.Phone
	case "description":
		return venue.Description
	case "image_url":
		return venue.ImageURL
	default:
		return ""
	}
}

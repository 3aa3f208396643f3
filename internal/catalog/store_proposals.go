package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const proposalColumns = "id, venue_id, field, previous_value, proposed_value, source, confidence, reasoning, batch_id, status, reviewer, created_at, reviewed_at"

// CreateProposal inserts a new pending proposal, transitioning any existing
// pending proposal for the same (venue, field) pair to superseded first.
// Both writes happen in one transaction so the one-pending-per-pair
// constraint can never reject the insert. Returns the new proposal id and
// the number of proposals superseded.
func (s *Store) CreateProposal(ctx context.Context, proposal *Proposal) (int64, int64, error) {
	if proposal == nil {
		return 0, 0, errors.New("proposal is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin proposal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE venue_enrichment_proposals
         SET status = ?, reviewed_at = ?
         WHERE venue_id = ? AND field = ? AND status = ?`,
		ProposalSuperseded,
		timestamp,
		proposal.VenueID,
		proposal.Field,
		ProposalPending,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("supersede pending proposals: %w", err)
	}
	superseded, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	res, err = tx.ExecContext(
		ctx,
		`INSERT INTO venue_enrichment_proposals (
            venue_id, field, previous_value, proposed_value, source,
            confidence, reasoning, batch_id, status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.VenueID,
		proposal.Field,
		nullableString(proposal.PreviousValue),
		proposal.ProposedValue,
		nullableString(proposal.Source),
		nullableFloat(proposal.Confidence),
		nullableString(proposal.Reasoning),
		nullableString(proposal.BatchID),
		ProposalPending,
		timestamp,
	)
	if err != nil {
		return 0, 0, translateWrite("insert proposal", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit proposal: %w", err)
	}

	proposal.ID = id
	proposal.Status = ProposalPending
	proposal.CreatedAt = now
	return id, superseded, nil
}

// GetProposal fetches a proposal by identifier. Missing rows return
// (nil, nil).
func (s *Store) GetProposal(ctx context.Context, id int64) (*Proposal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM venue_enrichment_proposals WHERE id = ?`, id)
	proposal, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return proposal, nil
}

// ProposalsByStatus lists proposals in a given lifecycle state, optionally
// restricted to one batch, ordered by creation time.
func (s *Store) ProposalsByStatus(ctx context.Context, status, batchID string, page Page) ([]*Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM venue_enrichment_proposals WHERE status = ?`
	args := []any{status}
	if batchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, batchID)
	}
	query += ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	args = append(args, page.limit(), page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}

// ResolveProposal transitions a pending proposal to a terminal status and
// records the reviewer. Returns false when the proposal is missing or no
// longer pending, so re-approval of a resolved proposal is a no-op.
func (s *Store) ResolveProposal(ctx context.Context, id int64, status, reviewer string) (bool, error) {
	switch status {
	case ProposalApproved, ProposalRejected, ProposalSuperseded:
	default:
		return false, fmt.Errorf("invalid terminal status %q", status)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE venue_enrichment_proposals
         SET status = ?, reviewer = ?, reviewed_at = ?
         WHERE id = ? AND status = ?`,
		status,
		nullableString(reviewer),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ProposalPending,
	)
	if err != nil {
		return false, fmt.Errorf("resolve proposal %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// AppendEnrichmentLog writes an immutable audit entry for an applied
// enrichment. Entries are never updated or deleted.
func (s *Store) AppendEnrichmentLog(ctx context.Context, entry *LogEntry) (int64, error) {
	if entry == nil {
		return 0, errors.New("log entry is nil")
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO venue_enrichment_log (
            venue_id, field, previous_value, new_value, source, actor, applied_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.VenueID,
		entry.Field,
		nullableString(entry.PreviousValue),
		entry.NewValue,
		nullableString(entry.Source),
		nullableString(entry.Actor),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("append enrichment log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	entry.AppliedAt = now
	return id, nil
}

// EnrichmentLogForVenue lists audit entries for a venue, oldest first.
func (s *Store) EnrichmentLogForVenue(ctx context.Context, venueID int64) ([]*LogEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, venue_id, field, previous_value, new_value, source, actor, applied_at
         FROM venue_enrichment_log WHERE venue_id = ? ORDER BY id`,
		venueID,
	)
	if err != nil {
		return nil, fmt.Errorf("list enrichment log: %w", err)
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		var (
			entry      LogEntry
			previous   sql.NullString
			source     sql.NullString
			actor      sql.NullString
			appliedRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.VenueID, &entry.Field, &previous, &entry.NewValue, &source, &actor, &appliedRaw); err != nil {
			return nil, err
		}
		entry.PreviousValue = previous.String
		entry.Source = source.String
		entry.Actor = actor.String
		if applied, err := parseTimeString(appliedRaw); err == nil {
			entry.AppliedAt = applied
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func scanProposal(scanner interface{ Scan(dest ...any) error }) (*Proposal, error) {
	var (
		id          int64
		venueID     int64
		field       string
		previous    sql.NullString
		proposed    string
		source      sql.NullString
		confidence  sql.NullFloat64
		reasoning   sql.NullString
		batchID     sql.NullString
		status      string
		reviewer    sql.NullString
		createdRaw  string
		reviewedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id, &venueID, &field, &previous, &proposed, &source, &confidence,
		&reasoning, &batchID, &status, &reviewer, &createdRaw, &reviewedRaw,
	); err != nil {
		return nil, err
	}

	proposal := &Proposal{
		ID:            id,
		VenueID:       venueID,
		Field:         field,
		PreviousValue: previous.String,
		ProposedValue: proposed,
		Source:        source.String,
		Confidence:    confidence.Float64,
		Reasoning:     reasoning.String,
		BatchID:       batchID.String,
		Status:        status,
		Reviewer:      reviewer.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		proposal.CreatedAt = created
	}
	if reviewedRaw.Valid {
		if reviewed, err := parseTimeString(reviewedRaw.String); err == nil {
			proposal.ReviewedAt = &reviewed
		}
	}
	return proposal, nil
}

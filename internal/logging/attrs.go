package logging

import "log/slog"

// Standardized structured logging keys shared across the engine.
const (
	// FieldComponent identifies the engine component emitting the record.
	FieldComponent = "component"
	// FieldSource identifies the adapter source a record is attributed to.
	FieldSource = "source"
	// FieldRunID carries the ingest run correlation identifier.
	FieldRunID = "run_id"
	// FieldEventID carries an event row identifier.
	FieldEventID = "event_id"
	// FieldVenueID carries a venue row identifier.
	FieldVenueID = "venue_id"
	// FieldFingerprint carries a record's deduplication key.
	FieldFingerprint = "fingerprint"
	// FieldProposalID carries an enrichment proposal identifier.
	FieldProposalID = "proposal_id"
)

// Error wraps an error for structured logging, tolerating nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

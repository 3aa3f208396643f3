package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const eventColumns = "id, source_id, fingerprint, title, description, start_date, start_time, end_time, price, ticket_url, image_url, tags, venue_id, series_id, festival_id, organization_id, canonical_event_id, quality_score, created_at, updated_at"

// InsertEvent persists a new event row and returns its id. A fingerprint
// collision with an existing row surfaces as ErrConflict.
func (s *Store) InsertEvent(ctx context.Context, event *Event) (int64, error) {
	if event == nil {
		return 0, errors.New("event is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO events (
            source_id, fingerprint, title, description, start_date, start_time,
            end_time, price, ticket_url, image_url, tags, venue_id, series_id,
            festival_id, organization_id, canonical_event_id, quality_score,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.SourceID,
		event.Fingerprint,
		event.Title,
		nullableString(event.Description),
		event.StartDate,
		nullableString(event.StartTime),
		nullableString(event.EndTime),
		nullableString(event.Price),
		nullableString(event.TicketURL),
		nullableString(event.ImageURL),
		encodeTags(event.Tags),
		nullableID(event.VenueID),
		nullableID(event.SeriesID),
		nullableID(event.FestivalID),
		nullableID(event.OrganizationID),
		nullableID(event.CanonicalEventID),
		event.QualityScore,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, translateWrite("insert event", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	event.ID = id
	event.CreatedAt = now
	event.UpdatedAt = now
	return id, nil
}

// GetEvent fetches an event by identifier. Missing rows return (nil, nil).
func (s *Store) GetEvent(ctx context.Context, id int64) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// FindLiveEventByFingerprint returns the live event holding a fingerprint,
// or (nil, nil) when none exists.
func (s *Store) FindLiveEventByFingerprint(ctx context.Context, fingerprint string) (*Event, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+eventColumns+` FROM events WHERE fingerprint = ? AND canonical_event_id IS NULL LIMIT 1`,
		fingerprint,
	)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by fingerprint: %w", err)
	}
	return event, nil
}

// UpdateEvent persists changes to an existing event row.
func (s *Store) UpdateEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	event.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE events
         SET source_id = ?, fingerprint = ?, title = ?, description = ?,
             start_date = ?, start_time = ?, end_time = ?, price = ?,
             ticket_url = ?, image_url = ?, tags = ?, venue_id = ?,
             series_id = ?, festival_id = ?, organization_id = ?,
             canonical_event_id = ?, quality_score = ?, updated_at = ?
         WHERE id = ?`,
		event.SourceID,
		event.Fingerprint,
		event.Title,
		nullableString(event.Description),
		event.StartDate,
		nullableString(event.StartTime),
		nullableString(event.EndTime),
		nullableString(event.Price),
		nullableString(event.TicketURL),
		nullableString(event.ImageURL),
		encodeTags(event.Tags),
		nullableID(event.VenueID),
		nullableID(event.SeriesID),
		nullableID(event.FestivalID),
		nullableID(event.OrganizationID),
		nullableID(event.CanonicalEventID),
		event.QualityScore,
		event.UpdatedAt.Format(time.RFC3339Nano),
		event.ID,
	)
	if err != nil {
		return translateWrite(fmt.Sprintf("update event %d", event.ID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update event %d: %w", event.ID, ErrNotFound)
	}
	return nil
}

// LiveEventsBySource lists live events attributed to a source, paged in id
// order so callers can walk a full source without loading it at once.
func (s *Store) LiveEventsBySource(ctx context.Context, sourceID string, page Page) ([]*Event, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+eventColumns+` FROM events
         WHERE source_id = ? AND canonical_event_id IS NULL
         ORDER BY id LIMIT ? OFFSET ?`,
		sourceID, page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by source: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// LiveEventsPage lists live events across all sources, paged in id order.
func (s *Store) LiveEventsPage(ctx context.Context, page Page) ([]*Event, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+eventColumns+` FROM events
         WHERE canonical_event_id IS NULL ORDER BY id LIMIT ? OFFSET ?`,
		page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// DeleteEvent removes an event row. Returns false when the id is unknown.
func (s *Store) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete event %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkCanonical retires duplicateID behind canonicalID. The canonical row
// must itself be live and the duplicate must not already be the canonical
// target of other rows: canonical links never chain in either direction.
func (s *Store) MarkCanonical(ctx context.Context, duplicateID, canonicalID int64) error {
	if duplicateID == canonicalID {
		return errors.New("event cannot be its own duplicate")
	}
	canonical, err := s.GetEvent(ctx, canonicalID)
	if err != nil {
		return err
	}
	if canonical == nil {
		return fmt.Errorf("canonical event %d: %w", canonicalID, ErrNotFound)
	}
	if !canonical.Live() {
		return fmt.Errorf("event %d already references canonical event %d: canonical links must not chain", canonicalID, canonical.CanonicalEventID)
	}

	var referrers int
	err = s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM events WHERE canonical_event_id = ?`,
		duplicateID,
	).Scan(&referrers)
	if err != nil {
		return fmt.Errorf("count canonical referrers of event %d: %w", duplicateID, err)
	}
	if referrers > 0 {
		return fmt.Errorf("event %d is the canonical target of %d retired events: canonical links must not chain", duplicateID, referrers)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE events SET canonical_event_id = ?, updated_at = ? WHERE id = ?`,
		canonicalID,
		time.Now().UTC().Format(time.RFC3339Nano),
		duplicateID,
	)
	if err != nil {
		return fmt.Errorf("mark canonical: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("duplicate event %d: %w", duplicateID, ErrNotFound)
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(scanner interface{ Scan(dest ...any) error }) (*Event, error) {
	var (
		id          int64
		sourceID    string
		fp          string
		title       string
		description sql.NullString
		startDate   string
		startTime   sql.NullString
		endTime     sql.NullString
		price       sql.NullString
		ticketURL   sql.NullString
		imageURL    sql.NullString
		tags        sql.NullString
		venueID     sql.NullInt64
		seriesID    sql.NullInt64
		festivalID  sql.NullInt64
		orgID       sql.NullInt64
		canonicalID sql.NullInt64
		score       int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id, &sourceID, &fp, &title, &description, &startDate, &startTime,
		&endTime, &price, &ticketURL, &imageURL, &tags, &venueID, &seriesID,
		&festivalID, &orgID, &canonicalID, &score, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	event := &Event{
		ID:               id,
		SourceID:         sourceID,
		Fingerprint:      fp,
		Title:            title,
		Description:      description.String,
		StartDate:        startDate,
		StartTime:        startTime.String,
		EndTime:          endTime.String,
		Price:            price.String,
		TicketURL:        ticketURL.String,
		ImageURL:         imageURL.String,
		Tags:             decodeTags(tags),
		VenueID:          venueID.Int64,
		SeriesID:         seriesID.Int64,
		FestivalID:       festivalID.Int64,
		OrganizationID:   orgID.Int64,
		CanonicalEventID: canonicalID.Int64,
		QualityScore:     score,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		event.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		event.UpdatedAt = updated
	}
	return event, nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const seriesColumns = "id, title, frequency, day_of_week, description, venue_id, quality_score, created_at, updated_at"

// InsertSeries persists a new series row and returns its id. A collision on
// (title, frequency) surfaces as ErrConflict; callers re-read the winner.
func (s *Store) InsertSeries(ctx context.Context, series *Series) (int64, error) {
	if series == nil {
		return 0, errors.New("series is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO series (
            title, frequency, day_of_week, description, venue_id,
            quality_score, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		series.Title,
		series.Frequency,
		nullableString(series.DayOfWeek),
		nullableString(series.Description),
		nullableID(series.VenueID),
		series.QualityScore,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, translateWrite("insert series", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	series.ID = id
	series.CreatedAt = now
	series.UpdatedAt = now
	return id, nil
}

// FindSeriesByIdentity returns the series matching the (title, frequency)
// identity tuple, or (nil, nil) when none exists.
func (s *Store) FindSeriesByIdentity(ctx context.Context, title, frequency string) (*Series, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+seriesColumns+` FROM series WHERE title = ? AND frequency = ? LIMIT 1`,
		title, frequency,
	)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series: %w", err)
	}
	return series, nil
}

// GetSeries fetches a series by identifier. Missing rows return (nil, nil).
func (s *Store) GetSeries(ctx context.Context, id int64) (*Series, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = ?`, id)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return series, nil
}

// AttachEventSeries links an event to its parent series.
func (s *Store) AttachEventSeries(ctx context.Context, eventID, seriesID int64) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE events SET series_id = ?, updated_at = ? WHERE id = ?`,
		seriesID,
		time.Now().UTC().Format(time.RFC3339Nano),
		eventID,
	)
	if err != nil {
		return fmt.Errorf("attach event %d to series %d: %w", eventID, seriesID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attach event %d: %w", eventID, ErrNotFound)
	}
	return nil
}

// SeriesPage lists series paged in id order.
func (s *Store) SeriesPage(ctx context.Context, page Page) ([]*Series, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+seriesColumns+` FROM series ORDER BY id LIMIT ? OFFSET ?`,
		page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var result []*Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	return result, rows.Err()
}

func scanSeries(scanner interface{ Scan(dest ...any) error }) (*Series, error) {
	var (
		id          int64
		title       string
		frequency   string
		dayOfWeek   sql.NullString
		description sql.NullString
		venueID     sql.NullInt64
		score       int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &title, &frequency, &dayOfWeek, &description, &venueID, &score, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	series := &Series{
		ID:           id,
		Title:        title,
		Frequency:    frequency,
		DayOfWeek:    dayOfWeek.String,
		Description:  description.String,
		VenueID:      venueID.Int64,
		QualityScore: score,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		series.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		series.UpdatedAt = updated
	}
	return series, nil
}

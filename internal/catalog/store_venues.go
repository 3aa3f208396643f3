package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const venueColumns = "id, slug, name, address, city, postal_code, website, phone, description, image_url, latitude, longitude, capacity, accessible, tags, quality_score, created_at, updated_at"

// venueStringColumns is the set of venue columns that may be written through
// UpdateVenueField. Restricting field updates to text columns keeps the
// enrichment apply path free of type coercion.
var venueStringColumns = map[string]struct{}{
	"name":        {},
	"address":     {},
	"city":        {},
	"postal_code": {},
	"website":     {},
	"phone":       {},
	"description": {},
	"image_url":   {},
}

// VenueFieldUpdatable reports whether UpdateVenueField accepts the column.
func VenueFieldUpdatable(field string) bool {
	_, ok := venueStringColumns[field]
	return ok
}

// InsertVenue persists a new venue row and returns its id. A slug collision
// with an existing row surfaces as ErrConflict; callers re-read by slug and
// adopt the winner.
func (s *Store) InsertVenue(ctx context.Context, venue *Venue) (int64, error) {
	if venue == nil {
		return 0, errors.New("venue is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO venues (
            slug, name, address, city, postal_code, website, phone,
            description, image_url, latitude, longitude, capacity,
            accessible, tags, quality_score, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		venue.Slug,
		venue.Name,
		nullableString(venue.Address),
		nullableString(venue.City),
		nullableString(venue.PostalCode),
		nullableString(venue.Website),
		nullableString(venue.Phone),
		nullableString(venue.Description),
		nullableString(venue.ImageURL),
		nullableFloat(venue.Latitude),
		nullableFloat(venue.Longitude),
		nullableInt(venue.Capacity),
		boolToInt(venue.Accessible),
		encodeTags(venue.Tags),
		venue.QualityScore,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, translateWrite("insert venue", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	venue.ID = id
	venue.CreatedAt = now
	venue.UpdatedAt = now
	return id, nil
}

// GetVenue fetches a venue by identifier. Missing rows return (nil, nil).
func (s *Store) GetVenue(ctx context.Context, id int64) (*Venue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	venue, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

// GetVenueBySlug fetches a venue by its identity slug, or (nil, nil).
func (s *Store) GetVenueBySlug(ctx context.Context, slug string) (*Venue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE slug = ?`, slug)
	venue, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get venue by slug: %w", err)
	}
	return venue, nil
}

// UpdateVenue persists changes to an existing venue row.
func (s *Store) UpdateVenue(ctx context.Context, venue *Venue) error {
	if venue == nil {
		return errors.New("venue is nil")
	}
	venue.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE venues
         SET slug = ?, name = ?, address = ?, city = ?, postal_code = ?,
             website = ?, phone = ?, description = ?, image_url = ?,
             latitude = ?, longitude = ?, capacity = ?, accessible = ?,
             tags = ?, quality_score = ?, updated_at = ?
         WHERE id = ?`,
		venue.Slug,
		venue.Name,
		nullableString(venue.Address),
		nullableString(venue.City),
		nullableString(venue.PostalCode),
		nullableString(venue.Website),
		nullableString(venue.Phone),
		nullableString(venue.Description),
		nullableString(venue.ImageURL),
		nullableFloat(venue.Latitude),
		nullableFloat(venue.Longitude),
		nullableInt(venue.Capacity),
		boolToInt(venue.Accessible),
		encodeTags(venue.Tags),
		venue.QualityScore,
		venue.UpdatedAt.Format(time.RFC3339Nano),
		venue.ID,
	)
	if err != nil {
		return translateWrite(fmt.Sprintf("update venue %d", venue.ID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update venue %d: %w", venue.ID, ErrNotFound)
	}
	return nil
}

// UpdateVenueField writes a single allow-listed text column on a venue.
// Used by the enrichment approval path.
func (s *Store) UpdateVenueField(ctx context.Context, id int64, field, value string) error {
	if !VenueFieldUpdatable(field) {
		return fmt.Errorf("venue field %q is not updatable", field)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE venues SET `+field+` = ?, updated_at = ? WHERE id = ?`,
		nullableString(value),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update venue %d field %s: %w", id, field, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update venue %d field %s: %w", id, field, ErrNotFound)
	}
	return nil
}

// VenuesPage lists venues paged in id order.
func (s *Store) VenuesPage(ctx context.Context, page Page) ([]*Venue, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+venueColumns+` FROM venues ORDER BY id LIMIT ? OFFSET ?`,
		page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []*Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

func scanVenue(scanner interface{ Scan(dest ...any) error }) (*Venue, error) {
	var (
		id          int64
		slug        string
		name        string
		address     sql.NullString
		city        sql.NullString
		postalCode  sql.NullString
		website     sql.NullString
		phone       sql.NullString
		description sql.NullString
		imageURL    sql.NullString
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
		capacity    sql.NullInt64
		accessible  sql.NullInt64
		tags        sql.NullString
		score       int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id, &slug, &name, &address, &city, &postalCode, &website, &phone,
		&description, &imageURL, &latitude, &longitude, &capacity,
		&accessible, &tags, &score, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	venue := &Venue{
		ID:           id,
		Slug:         slug,
		Name:         name,
		Address:      address.String,
		City:         city.String,
		PostalCode:   postalCode.String,
		Website:      website.String,
		Phone:        phone.String,
		Description:  description.String,
		ImageURL:     imageURL.String,
		Latitude:     latitude.Float64,
		Longitude:    longitude.Float64,
		Capacity:     int(capacity.Int64),
		Accessible:   accessible.Valid && accessible.Int64 != 0,
		Tags:         decodeTags(tags),
		QualityScore: score,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		venue.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		venue.UpdatedAt = updated
	}
	return venue, nil
}

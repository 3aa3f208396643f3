package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const festivalColumns = "id, title, start_date, end_date, website, description, quality_score, created_at, updated_at"

const organizationColumns = "id, name, website, description, quality_score, created_at, updated_at"

// InsertFestival persists a new festival row and returns its id.
func (s *Store) InsertFestival(ctx context.Context, festival *Festival) (int64, error) {
	if festival == nil {
		return 0, errors.New("festival is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO festivals (
            title, start_date, end_date, website, description,
            quality_score, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		festival.Title,
		nullableString(festival.StartDate),
		nullableString(festival.EndDate),
		nullableString(festival.Website),
		nullableString(festival.Description),
		festival.QualityScore,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, translateWrite("insert festival", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	festival.ID = id
	festival.CreatedAt = now
	festival.UpdatedAt = now
	return id, nil
}

// FestivalsPage lists festivals paged in id order.
func (s *Store) FestivalsPage(ctx context.Context, page Page) ([]*Festival, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+festivalColumns+` FROM festivals ORDER BY id LIMIT ? OFFSET ?`,
		page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list festivals: %w", err)
	}
	defer rows.Close()

	var festivals []*Festival
	for rows.Next() {
		festival, err := scanFestival(rows)
		if err != nil {
			return nil, err
		}
		festivals = append(festivals, festival)
	}
	return festivals, rows.Err()
}

// InsertOrganization persists a new organization row and returns its id.
// A name collision surfaces as ErrConflict.
func (s *Store) InsertOrganization(ctx context.Context, org *Organization) (int64, error) {
	if org == nil {
		return 0, errors.New("organization is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO organizations (
            name, website, description, quality_score, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		org.Name,
		nullableString(org.Website),
		nullableString(org.Description),
		org.QualityScore,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, translateWrite("insert organization", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	org.ID = id
	org.CreatedAt = now
	org.UpdatedAt = now
	return id, nil
}

// OrganizationsPage lists organizations paged in id order.
func (s *Store) OrganizationsPage(ctx context.Context, page Page) ([]*Organization, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+organizationColumns+` FROM organizations ORDER BY id LIMIT ? OFFSET ?`,
		page.limit(), page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func scanFestival(scanner interface{ Scan(dest ...any) error }) (*Festival, error) {
	var (
		id          int64
		title       string
		startDate   sql.NullString
		endDate     sql.NullString
		website     sql.NullString
		description sql.NullString
		score       int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &title, &startDate, &endDate, &website, &description, &score, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	festival := &Festival{
		ID:           id,
		Title:        title,
		StartDate:    startDate.String,
		EndDate:      endDate.String,
		Website:      website.String,
		Description:  description.String,
		QualityScore: score,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		festival.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		festival.UpdatedAt = updated
	}
	return festival, nil
}

func scanOrganization(scanner interface{ Scan(dest ...any) error }) (*Organization, error) {
	var (
		id          int64
		name        string
		website     sql.NullString
		description sql.NullString
		score       int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &name, &website, &description, &score, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	org := &Organization{
		ID:           id,
		Name:         name,
		Website:      website.String,
		Description:  description.String,
		QualityScore: score,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		org.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		org.UpdatedAt = updated
	}
	return org, nil
}

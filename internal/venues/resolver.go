package venues

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/logging"
	"marquee/internal/textutil"
)

// ErrEmptyDescriptor indicates a descriptor carries nothing a venue
// identity can be derived from.
var ErrEmptyDescriptor = errors.New("venue descriptor has no usable name")

// Descriptor is a source-reported venue description. Only Name is required;
// Slug overrides the derived identity when an adapter knows it.
type Descriptor struct {
	Name        string
	Slug        string
	Address     string
	City        string
	PostalCode  string
	Website     string
	Phone       string
	Description string
	ImageURL    string
	Latitude    float64
	Longitude   float64
	Capacity    int
	Tags        []string
}

// Resolver maps source-reported venue descriptors to persisted venue rows,
// creating rows for venues seen for the first time.
type Resolver struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewResolver constructs a venue resolver.
func NewResolver(store *catalog.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logging.WithComponent(logger, "venues"),
	}
}

// Resolve returns the id of the venue a descriptor refers to, creating the
// venue when no row holds its slug. An existing venue's fields are never
// overwritten by a thinner descriptor. Safe under concurrent callers: a
// losing insert re-reads and adopts the winning row.
func (r *Resolver) Resolve(ctx context.Context, desc Descriptor) (int64, error) {
	slug := identitySlug(desc)
	if slug == "" {
		return 0, ErrEmptyDescriptor
	}

	existing, err := r.store.GetVenueBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	venue := newVenue(desc, slug)
	id, err := r.store.InsertVenue(ctx, venue)
	if errors.Is(err, catalog.ErrConflict) {
		// Lost a creation race: the winner's row is authoritative.
		winner, readErr := r.store.GetVenueBySlug(ctx, slug)
		if readErr != nil {
			return 0, readErr
		}
		if winner == nil {
			return 0, fmt.Errorf("venue slug %s: %w", slug, err)
		}
		r.logger.Debug("venue creation race resolved",
			slog.String("slug", slug),
			slog.Int64(logging.FieldVenueID, winner.ID),
		)
		return winner.ID, nil
	}
	if err != nil {
		return 0, err
	}

	r.logger.Info("venue created",
		slog.String("slug", slug),
		slog.Int64(logging.FieldVenueID, id),
	)
	return id, nil
}

func identitySlug(desc Descriptor) string {
	if slug := textutil.Slugify(desc.Slug); slug != "" {
		return slug
	}
	if strings.TrimSpace(desc.City) != "" {
		return textutil.SlugifyWithCity(desc.Name, desc.City)
	}
	return textutil.Slugify(desc.Name)
}

func newVenue(desc Descriptor, slug string) *catalog.Venue {
	return &catalog.Venue{
		Slug:        slug,
		Name:        strings.TrimSpace(desc.Name),
		Address:     strings.TrimSpace(desc.Address),
		City:        strings.TrimSpace(desc.City),
		PostalCode:  strings.TrimSpace(desc.PostalCode),
		Website:     strings.TrimSpace(desc.Website),
		Phone:       strings.TrimSpace(desc.Phone),
		Description: strings.TrimSpace(desc.Description),
		ImageURL:    strings.TrimSpace(desc.ImageURL),
		Latitude:    desc.Latitude,
		Longitude:   desc.Longitude,
		Capacity:    desc.Capacity,
		Tags:        desc.Tags,
	}
}

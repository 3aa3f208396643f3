package testsupport

import (
	"context"
	"testing"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewVenue inserts a venue with the given slug and name for tests.
func NewVenue(t testing.TB, store *catalog.Store, slug, name string) *catalog.Venue {
	t.Helper()

	venue := &catalog.Venue{Slug: slug, Name: name}
	if _, err := store.InsertVenue(context.Background(), venue); err != nil {
		t.Fatalf("store.InsertVenue: %v", err)
	}
	return venue
}

// NewEvent inserts a live event for tests. The fingerprint must be unique
// within the test database.
func NewEvent(t testing.TB, store *catalog.Store, sourceID, fingerprint, title string) *catalog.Event {
	t.Helper()

	event := &catalog.Event{
		SourceID:    sourceID,
		Fingerprint: fingerprint,
		Title:       title,
		StartDate:   time.Now().UTC().Format("2006-01-02"),
	}
	if _, err := store.InsertEvent(context.Background(), event); err != nil {
		t.Fatalf("store.InsertEvent: %v", err)
	}
	return event
}

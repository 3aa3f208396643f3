package venues_test

import (
	"context"
	"errors"
	"testing"

	"marquee/internal/logging"
	"marquee/internal/testsupport"
	"marquee/internal/venues"
)

func TestResolveCreatesVenueOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := venues.NewResolver(store, logging.NewNop())
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, venues.Descriptor{Name: "The Bakery", City: "Grand Rapids"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first == 0 {
		t.Fatal("expected venue id")
	}

	// Same venue, different source formatting.
	second, err := resolver.Resolve(ctx, venues.Descriptor{Name: "the   BAKERY", City: "Grand Rapids"})
	if err != nil {
		t.Fatalf("Resolve repeat: %v", err)
	}
	if second != first {
		t.Fatalf("expected same venue id, got %d and %d", first, second)
	}
}

func TestResolveDoesNotClobberRicherFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := venues.NewResolver(store, logging.NewNop())
	ctx := context.Background()

	rich := venues.Descriptor{
		Name:        "The Bakery",
		City:        "Grand Rapids",
		Website:     "https://bakery.example",
		Description: "A cozy venue.",
	}
	id, err := resolver.Resolve(ctx, rich)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	thin := venues.Descriptor{Name: "The Bakery", City: "Grand Rapids"}
	if _, err := resolver.Resolve(ctx, thin); err != nil {
		t.Fatalf("Resolve thin: %v", err)
	}

	venue, err := store.GetVenue(ctx, id)
	if err != nil {
		t.Fatalf("GetVenue: %v", err)
	}
	if venue.Website != "https://bakery.example" || venue.Description != "A cozy venue." {
		t.Fatalf("expected richer fields preserved, got %#v", venue)
	}
}

func TestResolveDistinguishesCities(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := venues.NewResolver(store, logging.NewNop())
	ctx := context.Background()

	a, err := resolver.Resolve(ctx, venues.Descriptor{Name: "The Bakery", City: "Grand Rapids"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := resolver.Resolve(ctx, venues.Descriptor{Name: "The Bakery", City: "Detroit"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct venues for distinct cities")
	}
}

func TestResolveHonorsExplicitSlug(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := venues.NewResolver(store, logging.NewNop())
	ctx := context.Background()

	id, err := resolver.Resolve(ctx, venues.Descriptor{Name: "Bakery (Main Stage)", Slug: "the-bakery"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	venue, err := store.GetVenueBySlug(ctx, "the-bakery")
	if err != nil {
		t.Fatalf("GetVenueBySlug: %v", err)
	}
	if venue == nil || venue.ID != id {
		t.Fatalf("expected explicit slug honored, got %#v", venue)
	}
}

func TestResolveRejectsEmptyDescriptor(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := venues.NewResolver(store, logging.NewNop())

	_, err := resolver.Resolve(context.Background(), venues.Descriptor{Name: "  !! "})
	if !errors.Is(err, venues.ErrEmptyDescriptor) {
		t.Fatalf("expected ErrEmptyDescriptor, got %v", err)
	}
}

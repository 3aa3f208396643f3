package scoring_test

import (
	"context"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/logging"
	"marquee/internal/scoring"
	"marquee/internal/testsupport"
)

func TestWeightTablesSumToOneHundred(t *testing.T) {
	tables := map[string]scoring.WeightTable{
		"events":        scoring.EventWeights,
		"venues":        scoring.VenueWeights,
		"series":        scoring.SeriesWeights,
		"festivals":     scoring.FestivalWeights,
		"organizations": scoring.OrganizationWeights,
	}
	for name, table := range tables {
		if err := table.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestScoreEmptyEntityIsZero(t *testing.T) {
	if score := scoring.ScoreVenue(&catalog.Venue{}); score != 0 {
		t.Fatalf("empty venue scored %d", score)
	}
	if score := scoring.Score(scoring.OrganizationWeights, scoring.OrganizationFields(&catalog.Organization{})); score != 0 {
		t.Fatalf("empty organization scored %d", score)
	}
}

func TestScoreFullEntityIsOneHundred(t *testing.T) {
	venue := &catalog.Venue{
		Name:        "The Bakery",
		Description: "A converted bread factory hosting live music.",
		ImageURL:    "https://example.com/bakery.jpg",
		Website:     "https://thebakery.example.com",
		Address:     "12 Yeast St",
		City:        "Grand Rapids",
		PostalCode:  "49503",
		Phone:       "616-555-0101",
		Latitude:    42.96,
		Longitude:   85.67,
		Capacity:    250,
		Accessible:  true,
		Tags:        []string{"music"},
	}
	if score := scoring.ScoreVenue(venue); score != 100 {
		t.Fatalf("full venue scored %d", score)
	}
}

func TestScoreCountsOnlyMeaningfulValues(t *testing.T) {
	venue := &catalog.Venue{
		Name:        "The Bakery",
		Description: "   ",
		Accessible:  false,
		Capacity:    0,
		Tags:        []string{},
	}
	want := scoring.VenueWeights["name"]
	if score := scoring.ScoreVenue(venue); score != want {
		t.Fatalf("expected only name to count (%d), got %d", want, score)
	}
}

func TestScorePartialEvent(t *testing.T) {
	event := &catalog.Event{
		Title:     "Open Mic Night",
		StartDate: "2026-09-04",
		VenueID:   7,
	}
	want := scoring.EventWeights["title"] + scoring.EventWeights["start_date"] + scoring.EventWeights["venue"]
	if score := scoring.ScoreEvent(event); score != want {
		t.Fatalf("expected %d, got %d", want, score)
	}
}

func TestJobPersistsScoresAndBuckets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := scoring.NewJob(store, logging.NewNop(), 0)
	ctx := context.Background()

	sparse := testsupport.NewVenue(t, store, "sparse", "Sparse Venue")
	rich := &catalog.Venue{
		Slug:        "rich",
		Name:        "Rich Venue",
		Description: "Well documented.",
		ImageURL:    "https://example.com/rich.jpg",
		Website:     "https://rich.example.com",
		Address:     "1 Main St",
		City:        "Grand Rapids",
	}
	richID, err := store.InsertVenue(ctx, rich)
	if err != nil {
		t.Fatalf("InsertVenue: %v", err)
	}

	report, err := job.Run(ctx, catalog.TableVenues, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scored != 2 || report.Updated != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Poor != 1 || report.Good != 1 {
		t.Fatalf("unexpected buckets: %+v", report)
	}

	persisted, err := store.GetVenueBySlug(ctx, sparse.Slug)
	if err != nil {
		t.Fatalf("GetVenueBySlug: %v", err)
	}
	if persisted.QualityScore != scoring.VenueWeights["name"] {
		t.Fatalf("sparse venue score %d", persisted.QualityScore)
	}
	richRow, err := store.GetVenue(ctx, richID)
	if err != nil {
		t.Fatalf("GetVenue: %v", err)
	}
	if richRow.QualityScore != scoring.ScoreVenue(rich) {
		t.Fatalf("rich venue score %d, want %d", richRow.QualityScore, scoring.ScoreVenue(rich))
	}
}

func TestJobDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := scoring.NewJob(store, logging.NewNop(), 0)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "bakery", "The Bakery")

	report, err := job.Run(ctx, catalog.TableVenues, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scored != 1 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	persisted, err := store.GetVenueBySlug(ctx, venue.Slug)
	if err != nil {
		t.Fatalf("GetVenueBySlug: %v", err)
	}
	if persisted.QualityScore != 0 {
		t.Fatalf("dry run persisted score %d", persisted.QualityScore)
	}
}

func TestJobRejectsUnknownTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := scoring.NewJob(store, logging.NewNop(), 0)

	if _, err := job.Run(context.Background(), "tickets", false); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

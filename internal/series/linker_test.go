package series_test

import (
	"context"
	"testing"

	"marquee/internal/logging"
	"marquee/internal/series"
	"marquee/internal/testsupport"
)

func TestLinkNoopWithoutHint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	linker := series.NewLinker(store, logging.NewNop())
	ctx := context.Background()

	event := testsupport.NewEvent(t, store, "bakery", "fp-1", "Open Mic")

	id, linked, err := linker.Link(ctx, event.ID, nil)
	if err != nil || linked || id != 0 {
		t.Fatalf("expected no-op for nil hint: id=%d linked=%v err=%v", id, linked, err)
	}
	id, linked, err = linker.Link(ctx, event.ID, &series.Hint{Title: "   "})
	if err != nil || linked || id != 0 {
		t.Fatalf("expected no-op for blank hint: id=%d linked=%v err=%v", id, linked, err)
	}
}

func TestLinkCreatesThenReusesSeries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	linker := series.NewLinker(store, logging.NewNop())
	ctx := context.Background()

	first := testsupport.NewEvent(t, store, "bakery", "fp-1", "Open Mic")
	second := testsupport.NewEvent(t, store, "bakery", "fp-2", "Open Mic")

	hint := &series.Hint{Title: "Open Mic", Frequency: "weekly", DayOfWeek: "Tuesday"}
	firstSeries, linked, err := linker.Link(ctx, first.ID, hint)
	if err != nil || !linked {
		t.Fatalf("Link: linked=%v err=%v", linked, err)
	}

	secondSeries, linked, err := linker.Link(ctx, second.ID, hint)
	if err != nil || !linked {
		t.Fatalf("Link second: linked=%v err=%v", linked, err)
	}
	if firstSeries != secondSeries {
		t.Fatalf("expected one series for both instances, got %d and %d", firstSeries, secondSeries)
	}

	persisted, err := store.GetSeries(ctx, firstSeries)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if persisted.DayOfWeek != "Tuesday" {
		t.Fatalf("expected day of week persisted, got %q", persisted.DayOfWeek)
	}

	attached, err := store.GetEvent(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if attached.SeriesID != firstSeries {
		t.Fatalf("expected event attached to series %d, got %d", firstSeries, attached.SeriesID)
	}
}

func TestLinkDistinguishesFrequencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	linker := series.NewLinker(store, logging.NewNop())
	ctx := context.Background()

	weekly := testsupport.NewEvent(t, store, "bakery", "fp-1", "Trivia")
	monthly := testsupport.NewEvent(t, store, "bakery", "fp-2", "Trivia")

	weeklyID, _, err := linker.Link(ctx, weekly.ID, &series.Hint{Title: "Trivia", Frequency: "weekly"})
	if err != nil {
		t.Fatalf("Link weekly: %v", err)
	}
	monthlyID, _, err := linker.Link(ctx, monthly.ID, &series.Hint{Title: "Trivia", Frequency: "monthly"})
	if err != nil {
		t.Fatalf("Link monthly: %v", err)
	}
	if weeklyID == monthlyID {
		t.Fatal("expected distinct series per frequency")
	}
}

func TestLinkUnknownEventFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	linker := series.NewLinker(store, logging.NewNop())

	_, _, err := linker.Link(context.Background(), 9999, &series.Hint{Title: "Ghost Show", Frequency: "weekly"})
	if err == nil {
		t.Fatal("expected error attaching unknown event")
	}
}

package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"marquee/internal/logging"
	"marquee/internal/reconcile"
	"marquee/internal/testsupport"
)

func newReconciler(t *testing.T) *reconcile.Reconciler {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return reconcile.New(store, nil, logging.NewNop())
}

func baseCandidate() *reconcile.Candidate {
	return &reconcile.Candidate{
		SourceID:    "bakery",
		Fingerprint: "fp-open-mic",
		Title:       "Open Mic Night",
		StartDate:   "2026-09-04",
	}
}

func TestReconcileInsertsNewEvent(t *testing.T) {
	reconciler := newReconciler(t)

	result, err := reconciler.Reconcile(context.Background(), baseCandidate())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Outcome != reconcile.Inserted {
		t.Fatalf("expected Inserted, got %s", result.Outcome)
	}
	if result.EventID == 0 {
		t.Fatal("expected event id")
	}
}

func TestReconcileRepeatObservationIsIdempotent(t *testing.T) {
	reconciler := newReconciler(t)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, baseCandidate())
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	second, err := reconciler.Reconcile(ctx, baseCandidate())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.Outcome != reconcile.Merged {
		t.Fatalf("expected identical repeat to be Merged, got %s", second.Outcome)
	}
	if second.Changed() {
		t.Fatalf("expected identical repeat to change nothing, changed %v", second.Fields)
	}
	if second.EventID != first.EventID {
		t.Fatalf("expected same row, got %d and %d", first.EventID, second.EventID)
	}
}

func TestReconcileMergeFillsEmptyFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reconciler := reconcile.New(store, nil, logging.NewNop())
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, baseCandidate())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	richer := baseCandidate()
	richer.StartTime = "20:00"
	richer.TicketURL = "https://example.com/tickets"
	richer.Tags = []string{"comedy", "free"}

	result, err := reconciler.Reconcile(ctx, richer)
	if err != nil {
		t.Fatalf("Reconcile richer: %v", err)
	}
	if result.Outcome != reconcile.Merged {
		t.Fatalf("expected Merged, got %s", result.Outcome)
	}

	event, err := store.GetEvent(ctx, first.EventID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.StartTime != "20:00" || event.TicketURL != "https://example.com/tickets" {
		t.Fatalf("expected empty fields filled, got start=%q url=%q", event.StartTime, event.TicketURL)
	}
	if len(event.Tags) != 2 {
		t.Fatalf("expected two tags, got %v", event.Tags)
	}
}

func TestReconcileNeverDowngradesPopulatedFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reconciler := reconcile.New(store, nil, logging.NewNop())
	ctx := context.Background()

	full := baseCandidate()
	full.Description = "A long-running open mic with a rotating host and a generous signup list."
	full.StartTime = "20:00"

	first, err := reconciler.Reconcile(ctx, full)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	sparse := baseCandidate()
	sparse.Description = "Open mic."
	result, err := reconciler.Reconcile(ctx, sparse)
	if err != nil {
		t.Fatalf("Reconcile sparse: %v", err)
	}
	if result.Changed() {
		t.Fatalf("expected sparse repeat to change nothing, changed %v", result.Fields)
	}

	event, err := store.GetEvent(ctx, first.EventID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.Description != full.Description {
		t.Fatalf("description downgraded to %q", event.Description)
	}
	if event.StartTime != "20:00" {
		t.Fatalf("start time cleared: %q", event.StartTime)
	}
}

func TestReconcilePrefersRicherDescription(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reconciler := reconcile.New(store, nil, logging.NewNop())
	ctx := context.Background()

	short := baseCandidate()
	short.Description = "Open mic."
	first, err := reconciler.Reconcile(ctx, short)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	long := baseCandidate()
	long.Description = "A long-running open mic with a rotating host and a generous signup list."
	if _, err := reconciler.Reconcile(ctx, long); err != nil {
		t.Fatalf("Reconcile long: %v", err)
	}

	event, err := store.GetEvent(ctx, first.EventID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.Description != long.Description {
		t.Fatalf("expected richer description kept, got %q", event.Description)
	}
}

func TestReconcileHighConfidenceOverridesStoredValue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reconciler := reconcile.New(store, nil, logging.NewNop())
	ctx := context.Background()

	heuristic := baseCandidate()
	heuristic.StartTime = "19:00"
	first, err := reconciler.Reconcile(ctx, heuristic)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	structured := baseCandidate()
	structured.StartTime = "20:00"
	structured.Confidence = map[string]reconcile.Confidence{
		"start_time": reconcile.ConfidenceHigh,
	}
	if _, err := reconciler.Reconcile(ctx, structured); err != nil {
		t.Fatalf("Reconcile structured: %v", err)
	}

	event, err := store.GetEvent(ctx, first.EventID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.StartTime != "20:00" {
		t.Fatalf("expected high-confidence time to win, got %q", event.StartTime)
	}

	// Without asserted confidence the stored value is sticky.
	plain := baseCandidate()
	plain.StartTime = "18:30"
	if _, err := reconciler.Reconcile(ctx, plain); err != nil {
		t.Fatalf("Reconcile plain: %v", err)
	}
	event, err = store.GetEvent(ctx, first.EventID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.StartTime != "20:00" {
		t.Fatalf("default-confidence value replaced stored time: %q", event.StartTime)
	}
}

func TestReconcileRejectsIncompleteCandidate(t *testing.T) {
	reconciler := newReconciler(t)

	missing := baseCandidate()
	missing.Title = "  "
	if _, err := reconciler.Reconcile(context.Background(), missing); !errors.Is(err, reconcile.ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate, got %v", err)
	}
}

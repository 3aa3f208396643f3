package catalog_test

import (
	"context"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/testsupport"
)

func TestCreateProposalSupersedesPriorPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "the-bakery", "The Bakery")

	first := &catalog.Proposal{VenueID: venue.ID, Field: "description", ProposedValue: "First draft."}
	if _, superseded, err := store.CreateProposal(ctx, first); err != nil || superseded != 0 {
		t.Fatalf("CreateProposal first: superseded=%d err=%v", superseded, err)
	}

	second := &catalog.Proposal{VenueID: venue.ID, Field: "description", ProposedValue: "Second draft."}
	_, superseded, err := store.CreateProposal(ctx, second)
	if err != nil {
		t.Fatalf("CreateProposal second: %v", err)
	}
	if superseded != 1 {
		t.Fatalf("expected 1 superseded proposal, got %d", superseded)
	}

	pending, err := store.ProposalsByStatus(ctx, catalog.ProposalPending, "", catalog.Page{})
	if err != nil {
		t.Fatalf("ProposalsByStatus: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("expected only the second proposal pending, got %#v", pending)
	}

	resolved, err := store.GetProposal(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetProposal: %v", err)
	}
	if resolved.Status != catalog.ProposalSuperseded {
		t.Fatalf("expected superseded, got %s", resolved.Status)
	}
}

func TestCreateProposalDifferentFieldsCoexist(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "the-bakery", "The Bakery")
	for _, field := range []string{"description", "website"} {
		proposal := &catalog.Proposal{VenueID: venue.ID, Field: field, ProposedValue: "value"}
		if _, _, err := store.CreateProposal(ctx, proposal); err != nil {
			t.Fatalf("CreateProposal %s: %v", field, err)
		}
	}

	pending, err := store.ProposalsByStatus(ctx, catalog.ProposalPending, "", catalog.Page{})
	if err != nil {
		t.Fatalf("ProposalsByStatus: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending proposals, got %d", len(pending))
	}
}

func TestResolveProposalOnlyTransitionsPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "the-bakery", "The Bakery")
	proposal := &catalog.Proposal{VenueID: venue.ID, Field: "website", ProposedValue: "https://bakery.example"}
	if _, _, err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	ok, err := store.ResolveProposal(ctx, proposal.ID, catalog.ProposalApproved, "alex")
	if err != nil || !ok {
		t.Fatalf("ResolveProposal: ok=%v err=%v", ok, err)
	}

	// Re-approving a resolved proposal is a no-op.
	ok, err = store.ResolveProposal(ctx, proposal.ID, catalog.ProposalApproved, "alex")
	if err != nil {
		t.Fatalf("ResolveProposal repeat: %v", err)
	}
	if ok {
		t.Fatal("expected no-op on already-resolved proposal")
	}

	// Unknown ids resolve to false, not an error.
	ok, err = store.ResolveProposal(ctx, 9999, catalog.ProposalRejected, "alex")
	if err != nil || ok {
		t.Fatalf("expected false for unknown id: ok=%v err=%v", ok, err)
	}

	if _, err := store.ResolveProposal(ctx, proposal.ID, "pending", "alex"); err == nil {
		t.Fatal("expected invalid status rejection")
	}
}

func TestProposalsByStatusBatchFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "the-bakery", "The Bakery")
	batchA := &catalog.Proposal{VenueID: venue.ID, Field: "website", ProposedValue: "a", BatchID: "batch-a"}
	batchB := &catalog.Proposal{VenueID: venue.ID, Field: "phone", ProposedValue: "b", BatchID: "batch-b"}
	for _, p := range []*catalog.Proposal{batchA, batchB} {
		if _, _, err := store.CreateProposal(ctx, p); err != nil {
			t.Fatalf("CreateProposal: %v", err)
		}
	}

	filtered, err := store.ProposalsByStatus(ctx, catalog.ProposalPending, "batch-a", catalog.Page{})
	if err != nil {
		t.Fatalf("ProposalsByStatus: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != batchA.ID {
		t.Fatalf("expected only batch-a proposal, got %#v", filtered)
	}
}

func TestEnrichmentLogAppendAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	venue := testsupport.NewVenue(t, store, "the-bakery", "The Bakery")
	entry := &catalog.LogEntry{
		VenueID:       venue.ID,
		Field:         "description",
		PreviousValue: "",
		NewValue:      "A cozy venue.",
		Source:        "web-research",
		Actor:         "alex",
	}
	if _, err := store.AppendEnrichmentLog(ctx, entry); err != nil {
		t.Fatalf("AppendEnrichmentLog: %v", err)
	}

	entries, err := store.EnrichmentLogForVenue(ctx, venue.ID)
	if err != nil {
		t.Fatalf("EnrichmentLogForVenue: %v", err)
	}
	if len(entries) != 1 || entries[0].NewValue != "A cozy venue." || entries[0].Actor != "alex" {
		t.Fatalf("unexpected log entries: %#v", entries)
	}
}

package main

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"marquee/internal/catalog"
	"marquee/internal/scoring"
)

func TestProposalRows(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	proposals := []*catalog.Proposal{
		{
			ID:            7,
			VenueID:       3,
			Field:         "website",
			PreviousValue: "",
			ProposedValue: "https://example.com/a-rather-long-address-indeed",
			Confidence:    0.93,
			Source:        "website-helper",
			BatchID:       "batch-1",
			CreatedAt:     created,
		},
	}

	rows := proposalRows(proposals)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row[0] != "7" || row[1] != "3" || row[2] != "website" {
		t.Fatalf("unexpected identity columns: %v", row)
	}
	if !strings.HasSuffix(row[4], "...") {
		t.Fatalf("expected long value truncated, got %q", row[4])
	}
	if row[5] != "0.93" {
		t.Fatalf("unexpected confidence column %q", row[5])
	}
}

func TestFormatConfidenceMissing(t *testing.T) {
	if got := formatConfidence(0); got != "-" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestParseProposalIDs(t *testing.T) {
	ids, err := parseProposalIDs([]string{"3", " 12 "})
	if err != nil {
		t.Fatalf("parseProposalIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 12 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if _, err := parseProposalIDs([]string{"zero"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	if _, err := parseProposalIDs([]string{"-4"}); err == nil {
		t.Fatal("expected error for negative id")
	}
}

func TestDistributionRows(t *testing.T) {
	report := scoring.Report{Poor: 2, Fair: 1, Good: 4, Excellent: 3}
	rows := distributionRows(report)
	if len(rows) != 4 {
		t.Fatalf("expected four buckets, got %d", len(rows))
	}
	if rows[0][1] != "2" || rows[3][1] != "3" {
		t.Fatalf("unexpected bucket counts: %v", rows)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	long := strings.Repeat("x", 40)
	got := truncate(long, 30)
	if len(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation %q", got)
	}

	accented := strings.Repeat("é", 40)
	got = truncate(accented, 30)
	if !utf8.ValidString(got) || strings.ContainsRune(got, utf8.RuneError) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if utf8.RuneCountInString(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation %q", got)
	}
}

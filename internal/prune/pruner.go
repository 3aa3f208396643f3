package prune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"marquee/internal/catalog"
	"marquee/internal/logging"
)

// Report summarizes one prune pass over a source.
type Report struct {
	Examined int
	Removed  int
	Kept     int
	Failed   int
}

// Pruner deletes a source's live events whose fingerprints a completed run
// did not observe.
type Pruner struct {
	store  *catalog.Store
	logger *slog.Logger
}

// New constructs a pruner.
func New(store *catalog.Store, logger *slog.Logger) *Pruner {
	return &Pruner{
		store:  store,
		logger: logging.WithComponent(logger, "prune"),
	}
}

// Run walks every live event attributed to sourceID and deletes the ones
// whose fingerprint is absent from observed. Deletion is best effort: a
// failed delete is counted and logged, and the pass continues. The caller
// must only invoke Run after a run that completed fully; pruning on a
// partial run would delete records the source still publishes.
func (p *Pruner) Run(ctx context.Context, sourceID string, observed map[string]struct{}) (Report, error) {
	if sourceID == "" {
		return Report{}, errors.New("source id is required")
	}

	var report Report
	page := catalog.Page{Limit: catalog.DefaultPageSize}
	for {
		events, err := p.store.LiveEventsBySource(ctx, sourceID, page)
		if err != nil {
			return report, fmt.Errorf("prune %s: %w", sourceID, err)
		}
		if len(events) == 0 {
			break
		}

		kept := 0
		for _, event := range events {
			report.Examined++
			if _, ok := observed[event.Fingerprint]; ok {
				report.Kept++
				kept++
				continue
			}
			deleted, err := p.store.DeleteEvent(ctx, event.ID)
			if err != nil {
				report.Failed++
				p.logger.Warn("stale event delete failed",
					slog.Int64(logging.FieldEventID, event.ID),
					logging.Error(err),
				)
				kept++
				continue
			}
			if !deleted {
				// Already gone, nothing to count against the page.
				continue
			}
			report.Removed++
			p.logger.Debug("stale event removed",
				slog.Int64(logging.FieldEventID, event.ID),
				slog.String(logging.FieldFingerprint, event.Fingerprint),
			)
		}

		// Deletions shift subsequent rows into the current window, so the
		// offset advances only past the rows that survived this page.
		page.Offset += kept
		if len(events) < page.Limit {
			break
		}
	}

	p.logger.Info("prune pass complete",
		slog.String(logging.FieldSource, sourceID),
		slog.Int("examined", report.Examined),
		slog.Int("removed", report.Removed),
		slog.Int("kept", report.Kept),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

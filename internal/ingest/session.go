package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"marquee/internal/catalog"
	"marquee/internal/fingerprint"
	"marquee/internal/logging"
	"marquee/internal/prune"
	"marquee/internal/reconcile"
	"marquee/internal/series"
	"marquee/internal/venues"
)

// RunStats tallies the fate of the candidates a session observed.
type RunStats struct {
	Found   int
	New     int
	Merged  int
	Skipped int
	Failed  int
	Pruned  int
}

// Session processes one adapter run for one source. It is not safe for
// concurrent use; adapters feed candidates sequentially.
type Session struct {
	store      *catalog.Store
	resolver   *venues.Resolver
	reconciler *reconcile.Reconciler
	linker     *series.Linker
	pruner     *prune.Pruner
	logger     *slog.Logger

	sourceID string
	runID    string
	observed map[string]struct{}
	stats    RunStats
	finished bool
}

// NewSession opens an ingest session for one adapter run. Every session
// carries a fresh run id that tags its log lines.
func NewSession(store *catalog.Store, logger *slog.Logger, sourceID string) (*Session, error) {
	if sourceID == "" {
		return nil, errors.New("source id is required")
	}
	runID := uuid.NewString()
	logger = logging.WithComponent(logger, "ingest")
	logger = logger.With(
		slog.String(logging.FieldSource, sourceID),
		slog.String(logging.FieldRunID, runID),
	)

	return &Session{
		store:      store,
		resolver:   venues.NewResolver(store, logger),
		reconciler: reconcile.New(store, nil, logger),
		linker:     series.NewLinker(store, logger),
		pruner:     prune.New(store, logger),
		logger:     logger,
		sourceID:   sourceID,
		runID:      runID,
		observed:   make(map[string]struct{}),
	}, nil
}

// RunID returns the identifier tagging this session's log lines.
func (s *Session) RunID() string {
	return s.runID
}

// Observe pushes one extracted candidate through the pipeline: fingerprint,
// venue resolution, reconciliation, series linkage. The fingerprint is
// recorded as observed as soon as it computes, before any write, so a
// transient storage failure cannot later count the record as stale and
// feed it to the pruner.
func (s *Session) Observe(ctx context.Context, cand *Candidate) (*reconcile.Result, error) {
	if s.finished {
		return nil, errors.New("session already finished")
	}
	s.stats.Found++

	key, err := fingerprint.Key(cand.Title, cand.Venue.Name, cand.StartDate)
	if err != nil {
		s.stats.Failed++
		return nil, fmt.Errorf("fingerprint candidate %q: %w", cand.Title, err)
	}
	s.observed[key] = struct{}{}

	venueID, err := s.resolver.Resolve(ctx, cand.Venue)
	if err != nil && !errors.Is(err, venues.ErrEmptyDescriptor) {
		s.stats.Failed++
		return nil, fmt.Errorf("resolve venue for %q: %w", cand.Title, err)
	}

	result, err := s.reconciler.Reconcile(ctx, &reconcile.Candidate{
		SourceID:    s.sourceID,
		Fingerprint: key,
		Title:       cand.Title,
		Description: cand.Description,
		StartDate:   cand.StartDate.Format("2006-01-02"),
		StartTime:   cand.StartTime,
		EndTime:     cand.EndTime,
		Price:       cand.Price,
		TicketURL:   cand.TicketURL,
		ImageURL:    cand.ImageURL,
		Tags:        cand.Tags,
		VenueID:     venueID,
		Confidence:  cand.Confidence,
	})
	if err != nil {
		s.stats.Failed++
		return nil, err
	}

	switch {
	case result.Outcome == reconcile.Inserted:
		s.stats.New++
	case result.Changed():
		s.stats.Merged++
	default:
		s.stats.Skipped++
	}

	if _, _, err := s.linker.Link(ctx, result.EventID, cand.Series); err != nil {
		// The event itself landed; a failed series link is not fatal to
		// the observation.
		s.logger.Warn("series link failed",
			slog.Int64(logging.FieldEventID, result.EventID),
			logging.Error(err),
		)
	}
	return result, nil
}

// Finish closes the session. When the run completed fully, the source's
// events whose fingerprints the session never observed are pruned; a
// partial run skips pruning so records the source still publishes survive.
func (s *Session) Finish(ctx context.Context, complete bool) (RunStats, error) {
	if s.finished {
		return s.stats, errors.New("session already finished")
	}
	s.finished = true

	if !complete {
		s.logger.Info("run incomplete, skipping prune", slog.Int("found", s.stats.Found))
		return s.stats, nil
	}

	report, err := s.pruner.Run(ctx, s.sourceID, s.observed)
	s.stats.Pruned = report.Removed
	if err != nil {
		return s.stats, err
	}

	s.logger.Info("run complete",
		slog.Int("found", s.stats.Found),
		slog.Int("new", s.stats.New),
		slog.Int("merged", s.stats.Merged),
		slog.Int("skipped", s.stats.Skipped),
		slog.Int("failed", s.stats.Failed),
		slog.Int("pruned", s.stats.Pruned),
	)
	return s.stats, nil
}

// Stats returns the running tallies without closing the session.
func (s *Session) Stats() RunStats {
	return s.stats
}

package series

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/logging"
)

// Hint carries the recurring-show metadata an adapter extracted alongside an
// event. A nil hint means the event is not a series instance.
type Hint struct {
	Title     string
	Frequency string // e.g. "weekly", "monthly"
	DayOfWeek string
}

// Linker attaches reconciled events to their recurring series, creating the
// series row the first time an instance is seen.
type Linker struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewLinker constructs a series linker.
func NewLinker(store *catalog.Store, logger *slog.Logger) *Linker {
	return &Linker{
		store:  store,
		logger: logging.WithComponent(logger, "series"),
	}
}

// Link attaches an event to the series a hint identifies. Returns the series
// id and true when a link was made; (0, false, nil) for a nil or empty hint.
// Two concurrent creations of the same series resolve to one row: the loser
// re-reads and attaches to the winner.
func (l *Linker) Link(ctx context.Context, eventID int64, hint *Hint) (int64, bool, error) {
	if hint == nil || strings.TrimSpace(hint.Title) == "" {
		return 0, false, nil
	}
	title := strings.TrimSpace(hint.Title)
	frequency := strings.TrimSpace(hint.Frequency)

	seriesID, err := l.findOrCreate(ctx, title, frequency, hint)
	if err != nil {
		return 0, false, err
	}

	if err := l.store.AttachEventSeries(ctx, eventID, seriesID); err != nil {
		return 0, false, err
	}
	l.logger.Debug("event linked to series",
		slog.Int64(logging.FieldEventID, eventID),
		slog.Int64("series_id", seriesID),
	)
	return seriesID, true, nil
}

func (l *Linker) findOrCreate(ctx context.Context, title, frequency string, hint *Hint) (int64, error) {
	existing, err := l.store.FindSeriesByIdentity(ctx, title, frequency)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	created := &catalog.Series{
		Title:     title,
		Frequency: frequency,
		DayOfWeek: strings.TrimSpace(hint.DayOfWeek),
	}
	id, err := l.store.InsertSeries(ctx, created)
	if errors.Is(err, catalog.ErrConflict) {
		winner, readErr := l.store.FindSeriesByIdentity(ctx, title, frequency)
		if readErr != nil {
			return 0, readErr
		}
		if winner == nil {
			return 0, fmt.Errorf("series %q (%s): %w", title, frequency, err)
		}
		return winner.ID, nil
	}
	if err != nil {
		return 0, err
	}

	l.logger.Info("series created",
		slog.String("title", title),
		slog.String("frequency", frequency),
		slog.Int64("series_id", id),
	)
	return id, nil
}

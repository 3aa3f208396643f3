package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"marquee/internal/catalog"
	"marquee/internal/logging"
)

// Report summarizes one batch scoring pass, bucketing scores into the
// ranges the review UI groups records by.
type Report struct {
	Scored    int
	Updated   int
	Failed    int
	Poor      int // 0-24
	Fair      int // 25-49
	Good      int // 50-74
	Excellent int // 75-100
}

func (r *Report) bucket(score int) {
	switch {
	case score < 25:
		r.Poor++
	case score < 50:
		r.Fair++
	case score < 75:
		r.Good++
	default:
		r.Excellent++
	}
}

// Job recomputes completeness scores for one catalog table at a time,
// paging so a large catalog never loads fully into memory.
type Job struct {
	store     *catalog.Store
	logger    *slog.Logger
	batchSize int
}

// NewJob constructs a scoring job. A non-positive batchSize falls back to
// the store's default page size.
func NewJob(store *catalog.Store, logger *slog.Logger, batchSize int) *Job {
	if batchSize <= 0 {
		batchSize = catalog.DefaultPageSize
	}
	return &Job{
		store:     store,
		logger:    logging.WithComponent(logger, "scoring"),
		batchSize: batchSize,
	}
}

// Run rescores every row of a table. With dryRun set the scores are
// computed and bucketed but not written back. A failed page write is
// counted and logged, and the pass moves on to the next page.
func (j *Job) Run(ctx context.Context, table string, dryRun bool) (Report, error) {
	if _, err := WeightsFor(table); err != nil {
		return Report{}, err
	}

	var report Report
	page := catalog.Page{Limit: j.batchSize}
	for {
		scores, count, err := j.scorePage(ctx, table, page)
		if err != nil {
			return report, fmt.Errorf("score %s: %w", table, err)
		}
		if count == 0 {
			break
		}
		report.Scored += count
		for _, score := range scores {
			report.bucket(score)
		}

		if !dryRun {
			if err := j.store.BulkUpdateScores(ctx, table, scores); err != nil {
				report.Failed += count
				j.logger.Warn("score page write failed",
					slog.String("table", table),
					slog.Int("offset", page.Offset),
					logging.Error(err),
				)
			} else {
				report.Updated += count
			}
		}

		page.Offset += count
		if count < page.Limit {
			break
		}
	}

	j.logger.Info("scoring pass complete",
		slog.String("table", table),
		slog.Int("scored", report.Scored),
		slog.Int("updated", report.Updated),
		slog.Int("failed", report.Failed),
		slog.Bool("dry_run", dryRun),
	)
	return report, nil
}

// scorePage loads one page of the table, scores each row, and records the
// bucket tallies in the report via the returned map.
func (j *Job) scorePage(ctx context.Context, table string, page catalog.Page) (map[int64]int, int, error) {
	scores := make(map[int64]int, page.Limit)
	switch table {
	case catalog.TableEvents:
		events, err := j.store.LiveEventsPage(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		for _, event := range events {
			scores[event.ID] = ScoreEvent(event)
		}
	case catalog.TableVenues:
		venues, err := j.store.VenuesPage(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		for _, venue := range venues {
			scores[venue.ID] = ScoreVenue(venue)
		}
	case catalog.TableSeries:
		series, err := j.store.SeriesPage(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		for _, item := range series {
			scores[item.ID] = Score(SeriesWeights, SeriesFields(item))
		}
	case catalog.TableFestivals:
		festivals, err := j.store.FestivalsPage(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		for _, festival := range festivals {
			scores[festival.ID] = Score(FestivalWeights, FestivalFields(festival))
		}
	case catalog.TableOrganizations:
		orgs, err := j.store.OrganizationsPage(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		for _, org := range orgs {
			scores[org.ID] = Score(OrganizationWeights, OrganizationFields(org))
		}
	default:
		return nil, 0, fmt.Errorf("unknown table %q", table)
	}
	return scores, len(scores), nil
}

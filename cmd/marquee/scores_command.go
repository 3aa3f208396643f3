package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/scoring"
)

func newScoresCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Completeness scoring",
	}
	cmd.AddCommand(newScoresComputeCommand(ctx))
	return cmd
}

func newScoresComputeCommand(ctx *commandContext) *cobra.Command {
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "compute <table>",
		Short: "Recompute completeness scores for a catalog table",
		Long: "Recompute completeness scores for one of: events, venues, series, " +
			"festivals, organizations. Only one scoring run may execute at a time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.ToLower(strings.TrimSpace(args[0]))
			return ctx.withStore(func(cmdCtx context.Context, cfg *config.Config, store *catalog.Store, logger *slog.Logger) error {
				lock := flock.New(cfg.LockPath())
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire scoring lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("another scoring run holds %s", cfg.LockPath())
				}
				defer func() { _ = lock.Unlock() }()

				job := scoring.NewJob(store, logger, cfg.Scoring.BatchSize)
				report, err := job.Run(cmdCtx, table, dryRunFlag)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if dryRunFlag {
					fmt.Fprintf(out, "Dry run: scored %d %s rows, nothing written.\n", report.Scored, table)
				} else {
					fmt.Fprintf(out, "Scored %d %s rows (%d updated, %d failed).\n",
						report.Scored, table, report.Updated, report.Failed)
				}
				fmt.Fprintln(out, renderTable(distributionHeaders, distributionRows(report), distributionAligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Compute and report without writing scores back")
	return cmd
}

var distributionHeaders = []string{"Range", "Rows"}

var distributionAligns = []columnAlignment{alignLeft, alignRight}

func distributionRows(report scoring.Report) [][]string {
	return [][]string{
		{"0-24", strconv.Itoa(report.Poor)},
		{"25-49", strconv.Itoa(report.Fair)},
		{"50-74", strconv.Itoa(report.Good)},
		{"75-100", strconv.Itoa(report.Excellent)},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/enrichment"
)

func newProposalsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Review venue enrichment proposals",
	}
	cmd.AddCommand(newProposalsListCommand(ctx))
	cmd.AddCommand(newProposalsApproveCommand(ctx))
	cmd.AddCommand(newProposalsRejectCommand(ctx))
	return cmd
}

func newProposalsListCommand(ctx *commandContext) *cobra.Command {
	var batchFlag string
	var statusFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrichment proposals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, _ *config.Config, store *catalog.Store, _ *slog.Logger) error {
				status := strings.ToLower(strings.TrimSpace(statusFlag))
				proposals, err := store.ProposalsByStatus(cmdCtx, status, strings.TrimSpace(batchFlag), catalog.Page{Limit: limitFlag})
				if err != nil {
					return err
				}
				if len(proposals) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s proposals.\n", status)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(proposalHeaders, proposalRows(proposals), proposalAligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&batchFlag, "batch", "", "Only proposals from this batch")
	cmd.Flags().StringVar(&statusFlag, "status", catalog.ProposalPending, "Lifecycle status to list")
	cmd.Flags().IntVar(&limitFlag, "limit", 50, "Maximum proposals to list")
	return cmd
}

func newProposalsApproveCommand(ctx *commandContext) *cobra.Command {
	var batchFlag string
	var reviewerFlag string

	cmd := &cobra.Command{
		Use:   "approve [id...]",
		Short: "Approve proposals and apply them to their venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && strings.TrimSpace(batchFlag) == "" {
				return errors.New("provide proposal ids or --batch")
			}
			ids, err := parseProposalIDs(args)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cmdCtx context.Context, cfg *config.Config, store *catalog.Store, logger *slog.Logger) error {
				workflow := enrichment.New(store, logger, allowedVenueFields(cfg))
				out := cmd.OutOrStdout()

				if batch := strings.TrimSpace(batchFlag); batch != "" {
					report, err := workflow.ApproveBatch(cmdCtx, batch, reviewerFlag)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Batch %s: %d approved, %d skipped, %d failed.\n",
						batch, report.Approved, report.Skipped, report.Failed)
				}

				for _, id := range ids {
					applied, err := workflow.Approve(cmdCtx, id, reviewerFlag)
					switch {
					case err != nil:
						fmt.Fprintf(out, "Proposal %d: failed: %v\n", id, err)
					case applied:
						fmt.Fprintf(out, "Proposal %d: approved and applied.\n", id)
					default:
						fmt.Fprintf(out, "Proposal %d: skipped (missing or already resolved).\n", id)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&batchFlag, "batch", "", "Approve every pending proposal in this batch")
	cmd.Flags().StringVar(&reviewerFlag, "reviewer", "", "Name recorded as the approving reviewer")
	return cmd
}

func newProposalsRejectCommand(ctx *commandContext) *cobra.Command {
	var reviewerFlag string

	cmd := &cobra.Command{
		Use:   "reject <id>...",
		Short: "Reject proposals without applying them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseProposalIDs(args)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cmdCtx context.Context, cfg *config.Config, store *catalog.Store, logger *slog.Logger) error {
				workflow := enrichment.New(store, logger, allowedVenueFields(cfg))
				out := cmd.OutOrStdout()
				for _, id := range ids {
					rejected, err := workflow.Reject(cmdCtx, id, reviewerFlag)
					switch {
					case err != nil:
						fmt.Fprintf(out, "Proposal %d: failed: %v\n", id, err)
					case rejected:
						fmt.Fprintf(out, "Proposal %d: rejected.\n", id)
					default:
						fmt.Fprintf(out, "Proposal %d: skipped (missing or already resolved).\n", id)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewerFlag, "reviewer", "", "Name recorded as the rejecting reviewer")
	return cmd
}

func parseProposalIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid proposal id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var proposalHeaders = []string{"ID", "Venue", "Field", "Current", "Proposed", "Conf", "Source", "Batch", "Created"}

var proposalAligns = []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

func proposalRows(proposals []*catalog.Proposal) [][]string {
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.VenueID, 10),
			p.Field,
			truncate(p.PreviousValue, 30),
			truncate(p.ProposedValue, 30),
			formatConfidence(p.Confidence),
			p.Source,
			p.BatchID,
			formatTimestamp(p.CreatedAt),
		})
	}
	return rows
}

func formatConfidence(confidence float64) string {
	if confidence <= 0 {
		return "-"
	}
	return strconv.FormatFloat(confidence, 'f', 2, 64)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 {
		return value
	}
	// Cut on runes so multi-byte values never split mid-character.
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the catalog database",
	}
	cmd.AddCommand(newCatalogStatsCommand(ctx))
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts per catalog table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, cfg *config.Config, store *catalog.Store, _ *slog.Logger) error {
				counts, err := store.Counts(cmdCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Catalog: %s\n", cfg.DatabasePath())
				fmt.Fprintln(out, renderTable(statsHeaders, statsRows(counts), statsAligns))
				return nil
			})
		},
	}
}

var statsHeaders = []string{"Table", "Rows"}

var statsAligns = []columnAlignment{alignLeft, alignRight}

func statsRows(counts map[string]int) [][]string {
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	rows := make([][]string, 0, len(tables))
	for _, table := range tables {
		rows = append(rows, []string{table, strconv.Itoa(counts[table])})
	}
	return rows
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger/sqlite"
)

func newRunsCommand() *cobra.Command {
	var ledgerPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List harvesting runs recorded in a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerPath == "" {
				return errors.New("missing required option '--ledger'")
			}
			lg, err := sqlite.Open(cmd.Context(), ledgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer lg.Close()

			runs, err := lg.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "SQLite ledger file (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []ledger.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Started", "Root", "Extensions", "Files", "Skipped", "Words", "Unique", "Took"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Root,
			strings.Join(r.Extensions, ":"),
			strconv.Itoa(r.Files),
			strconv.Itoa(r.Skipped),
			strconv.FormatInt(r.Tokens, 10),
			strconv.FormatInt(r.Emitted, 10),
			r.Duration().Round(time.Millisecond).String(),
		})
	}
	configs := make([]table.ColumnConfig, 0, 4)
	for _, n := range []int{5, 6, 7, 8} {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

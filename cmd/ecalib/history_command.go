package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ecalib/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		verbose    bool
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded calibration runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled; set [history] enabled = true to record runs.")
				return nil
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			headers := []string{"#", "Started", "Status", "Input", "Elapsed", "Exit", "Error"}
			if verbose {
				headers = append(headers, "Command")
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				row := []string{
					strconv.FormatInt(e.Seq, 10),
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(e.Status),
					history.FormatShape(e.InputShape),
					e.Duration.Round(time.Millisecond).String(),
					strconv.Itoa(e.ExitCode),
					e.ErrorKind,
				}
				if verbose {
					row = append(row, strings.Join(e.Argv, " "))
				}
				rows = append(rows, row)
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include the full command line")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ecalib/internal/scratch"
)

func newScratchCommand(ctx *commandContext) *cobra.Command {
	scratchCmd := &cobra.Command{
		Use:   "scratch",
		Short: "Manage scratch workspaces",
	}

	var olderThan time.Duration
	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove workspaces left behind by interrupted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			result := scratch.CleanStale(cfg.Paths.ScratchDir, olderThan, ctx.loggerValue())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d workspace(s) from %s\n", len(result.Removed), cfg.Paths.ScratchDir)
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspace(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	clean.Flags().DurationVar(&olderThan, "older-than", time.Hour, "Only remove workspaces older than this")
	scratchCmd.AddCommand(clean)
	return scratchCmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"ecalib/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		q      logs.Query
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show ecalib.log, optionally for one invocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(ctx.configValue().Paths.LogDir, "ecalib.log")
			result, err := logs.Tail(path, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = logs.Follow(followCtx, path, result.Offset, q, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&q.InvocationID, "invocation", "", "Only lines from this invocation id")
	cmd.Flags().StringVar(&q.Component, "component", "", "Only lines from this component (bart, ecalib, scratch)")
	cmd.Flags().IntVarP(&q.Limit, "lines", "n", 50, "Number of matching lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	return cmd
}

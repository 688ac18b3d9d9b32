package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ecalib/internal/cfl"
	"ecalib/internal/history"
)

type inspectOutput struct {
	Base          string  `json:"base"`
	Dims          []int   `json:"dims"`
	Elements      int     `json:"elements"`
	MeanMagnitude float64 `json:"mean_magnitude"`
	StdMagnitude  float64 `json:"std_magnitude"`
	MaxMagnitude  float64 `json:"max_magnitude"`
	NonFinite     int     `json:"non_finite"`
}

func newInspectCommand() *cobra.Command {
	var (
		jsonOutput bool
		headerOnly bool
	)
	cmd := &cobra.Command{
		Use:         "inspect <base>...",
		Short:       "Print container dimensions and magnitude statistics",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]inspectOutput, 0, len(args))
			for _, base := range args {
				if headerOnly {
					dims, err := cfl.ReadHeader(base)
					if err != nil {
						return fmt.Errorf("%s: %w", base, err)
					}
					results = append(results, inspectOutput{Base: base, Dims: dims})
					continue
				}
				arr, err := cfl.Read(base)
				if err != nil {
					return fmt.Errorf("%s: %w", base, err)
				}
				s := cfl.Summarize(arr)
				results = append(results, inspectOutput{
					Base:          base,
					Dims:          arr.Shape(),
					Elements:      s.Elements,
					MeanMagnitude: s.MeanMagnitude,
					StdMagnitude:  s.StdMagnitude,
					MaxMagnitude:  s.MaxMagnitude,
					NonFinite:     s.NonFinite,
				})
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}

			headers := []string{"Container", "Dims", "Elements", "Mean |x|", "Std |x|", "Max |x|", "Non-finite"}
			if headerOnly {
				headers = headers[:2]
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Base,
					history.FormatShape(r.Dims),
					strconv.Itoa(r.Elements),
					formatStat(r.MeanMagnitude),
					formatStat(r.StdMagnitude),
					formatStat(r.MaxMagnitude),
					strconv.Itoa(r.NonFinite),
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "Read only the .hdr files")
	return cmd
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ecalib/internal/ecalib"
	"ecalib/internal/node"
)

type describeWidget struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Default  string `json:"default"`
	Minimum  string `json:"minimum,omitempty"`
	Decimals int    `json:"decimals,omitempty"`
}

type describePort struct {
	Direction  string `json:"direction"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Obligation string `json:"obligation"`
}

type describeOutput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Widgets     []describeWidget `json:"widgets"`
	Ports       []describePort   `json:"ports"`
}

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the calibration node's widgets and ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			spec := ecalib.NewNode(nil, ecalib.OptionsFromConfig(cfg.Defaults)).Describe()
			out := buildDescribeOutput(spec)
			if jsonOutput {
				return writeJSON(cmd, out)
			}

			title := cases.Title(language.English)
			widgetRows := make([][]string, 0, len(out.Widgets))
			for _, w := range out.Widgets {
				widgetRows = append(widgetRows, []string{title.String(w.Name), w.Kind, w.Default, w.Minimum})
			}
			portRows := make([][]string, 0, len(out.Ports))
			for _, p := range out.Ports {
				portRows = append(portRows, []string{p.Direction, p.Name, p.Type, p.Obligation})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s\n", out.Name, out.Description)
			fmt.Fprintln(w, renderTable("Widgets", []string{"Widget", "Kind", "Default", "Minimum"}, widgetRows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
			fmt.Fprintln(w, renderTable("Ports", []string{"Direction", "Port", "Type", "Obligation"}, portRows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the description as JSON")
	return cmd
}

func buildDescribeOutput(spec node.Spec) describeOutput {
	out := describeOutput{Name: spec.Name, Description: spec.Description}
	for _, w := range spec.Widgets {
		dw := describeWidget{
			Name:     w.Name,
			Kind:     w.Kind.String(),
			Default:  w.Default.String(),
			Decimals: w.Decimals,
		}
		if w.HasMin {
			dw.Minimum = strconv.FormatFloat(w.Min, 'g', -1, 64)
		}
		out.Widgets = append(out.Widgets, dw)
	}
	for _, p := range spec.InPorts {
		out.Ports = append(out.Ports, describePort{Direction: "in", Name: p.Name, Type: p.Type, Obligation: p.Obligation.String()})
	}
	for _, p := range spec.OutPorts {
		out.Ports = append(out.Ports, describePort{Direction: "out", Name: p.Name, Type: p.Type, Obligation: p.Obligation.String()})
	}
	return out
}

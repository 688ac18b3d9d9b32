package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ecalib/internal/cfl"
	"ecalib/internal/ecalib"
	"ecalib/internal/export"
	"ecalib/internal/history"
	"ecalib/internal/logging"
	"ecalib/internal/node"
	"ecalib/internal/preflight"
	"ecalib/internal/services"
)

type runFlags struct {
	kspace        string
	sensitivities string
	evMaps        string
	imgcov        string

	threshold       float64
	crop            float64
	kernelSize      int
	calibrationSize int
	maps            int
	intensity       bool
	firstPart       bool

	skipPreflight bool
	wait          bool
	jsonOutput    bool
}

type runOutput struct {
	Port        string `json:"port"`
	Dims        []int  `json:"dims"`
	Destination string `json:"destination,omitempty"`
}

type runReport struct {
	InvocationID string      `json:"invocation_id"`
	Outputs      []runOutput `json:"outputs"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var f runFlags
	defaults := ecalib.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run ESPIRiT calibration on a k-space container",
		Long: `Run loads the k-space container at --kspace, calls bart ecalib and
publishes the results. Panel values not given as flags come from the
[defaults] config section.

With --first-part-only the tool writes a single image-covariance output
(--imgcov); otherwise it writes sensitivities and eigenvalue maps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibration(cmd, ctx, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.kspace, "kspace", "", "Input k-space container base path (without .hdr/.cfl)")
	flags.StringVar(&f.sensitivities, "sensitivities", "", "Destination for the sensitivity maps")
	flags.StringVar(&f.evMaps, "ev-maps", "", "Destination for the eigenvalue maps")
	flags.StringVar(&f.imgcov, "imgcov", "", "Destination for the image covariance (first part only)")
	flags.Float64Var(&f.threshold, "threshold", defaults.Threshold, "Eigenvalue threshold (-t)")
	flags.Float64Var(&f.crop, "crop", defaults.Crop, "Crop value for the maps (-c)")
	flags.IntVar(&f.kernelSize, "kernel-size", defaults.KernelSize, "Kernel size (-k)")
	flags.IntVar(&f.calibrationSize, "calibration-size", defaults.CalibrationSize, "Calibration region size (-r)")
	flags.IntVar(&f.maps, "maps", defaults.Maps, "Number of maps (-m)")
	flags.BoolVar(&f.intensity, "intensity-correction", defaults.IntensityCorrection, "Apply intensity correction (-I)")
	flags.BoolVar(&f.firstPart, "first-part-only", defaults.FirstPartOnly, "Compute the first part only (-1)")
	flags.BoolVar(&f.skipPreflight, "skip-preflight", false, "Do not run readiness checks first")
	flags.BoolVar(&f.wait, "wait", false, "Wait for destination locks held by other processes")
	flags.BoolVar(&f.jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("kspace")

	return cmd
}

func runCalibration(cmd *cobra.Command, ctx *commandContext, f runFlags) error {
	cfg := ctx.configValue()
	logger := ctx.loggerValue()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = services.WithInvocationID(runCtx, uuid.NewString())

	if !f.skipPreflight {
		if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
			details := make([]string, 0, len(failed))
			for _, r := range failed {
				details = append(details, r.Name+": "+r.Detail)
			}
			return services.Wrap(services.ErrConfiguration, "run", "preflight", strings.Join(details, "; "), nil)
		}
	}

	kspace, err := cfl.Read(f.kspace)
	if err != nil {
		return services.Wrap(services.ErrDeserialization, "run", "read kspace", f.kspace, err)
	}

	client, err := ctx.bartClient()
	if err != nil {
		return err
	}
	calOpts := []ecalib.Option{ecalib.WithLogger(logger)}
	store, err := ctx.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history disabled for this run", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path"),
		)
	}
	if store != nil {
		defer store.Close()
		calOpts = append(calOpts, ecalib.WithRecorder(store))
	}

	calibrationNode := ecalib.NewNode(
		ecalib.NewCalibrator(client, cfg.Paths.ScratchDir, calOpts...),
		ecalib.OptionsFromConfig(cfg.Defaults),
	)
	panel := node.NewPanel(calibrationNode.Describe())
	if err := applyPanelFlags(cmd, panel, f); err != nil {
		return err
	}
	if err := panel.Connect(ecalib.PortKSpace, kspace); err != nil {
		return err
	}

	if err := panel.Run(runCtx, calibrationNode); err != nil {
		return err
	}

	destinations := map[string]string{
		ecalib.PortSensitivities: f.sensitivities,
		ecalib.PortEVMaps:        f.evMaps,
		ecalib.PortImgCov:        f.imgcov,
	}
	report := runReport{}
	if id, ok := services.InvocationIDFromContext(runCtx); ok {
		report.InvocationID = id
	}
	for _, port := range panel.Outputs() {
		arr, _ := panel.Output(port)
		dest := strings.TrimSpace(destinations[port])
		if dest != "" {
			if err := publish(runCtx, dest, arr, f.wait); err != nil {
				return services.Wrap(services.ErrSerialization, "run", "export "+port, dest, err)
			}
		}
		report.Outputs = append(report.Outputs, runOutput{Port: port, Dims: arr.Shape(), Destination: dest})
		delete(destinations, port)
	}
	for port, dest := range destinations {
		if strings.TrimSpace(dest) != "" {
			logging.WarnWithContext(logger, "destination ignored; port not produced", "export_skipped",
				logging.String("port", port),
				logging.String("destination", dest),
				logging.String(logging.FieldErrorHint, "imgcov needs --first-part-only; sensitivities and ev_maps need it off"),
			)
		}
	}

	if f.jsonOutput {
		return writeJSON(cmd, report)
	}
	rows := make([][]string, 0, len(report.Outputs))
	for _, o := range report.Outputs {
		dest := o.Destination
		if dest == "" {
			dest = "(not exported)"
		}
		rows = append(rows, []string{o.Port, history.FormatShape(o.Dims), dest})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable("Invocation "+report.InvocationID,
		[]string{"Port", "Dims", "Destination"}, rows, nil))
	return nil
}

func applyPanelFlags(cmd *cobra.Command, panel *node.Panel, f runFlags) error {
	flags := cmd.Flags()
	sets := []struct {
		flag   string
		widget string
		value  node.Value
	}{
		{"threshold", ecalib.WidgetThreshold, node.Float(f.threshold)},
		{"crop", ecalib.WidgetCrop, node.Float(f.crop)},
		{"kernel-size", ecalib.WidgetKernelSize, node.Int(f.kernelSize)},
		{"calibration-size", ecalib.WidgetCalibrationSize, node.Int(f.calibrationSize)},
		{"maps", ecalib.WidgetMaps, node.Int(f.maps)},
		{"intensity-correction", ecalib.WidgetIntensityCorrection, node.Bool(f.intensity)},
		{"first-part-only", ecalib.WidgetFirstPartOnly, node.Bool(f.firstPart)},
	}
	for _, s := range sets {
		if !flags.Changed(s.flag) {
			continue
		}
		if err := panel.Set(s.widget, s.value); err != nil {
			return fmt.Errorf("--%s: %w", s.flag, err)
		}
	}
	return nil
}

func publish(ctx context.Context, dest string, arr cfl.Array, wait bool) error {
	if wait {
		return export.PublishWait(ctx, dest, arr)
	}
	return export.Publish(dest, arr)
}

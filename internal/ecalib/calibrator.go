package ecalib

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecalib/internal/cfl"
	"ecalib/internal/history"
	"ecalib/internal/logging"
	"ecalib/internal/scratch"
	"ecalib/internal/services"
	"ecalib/internal/services/bart"
)

// Runner executes a BART subcommand. *bart.Client satisfies it.
type Runner interface {
	Binary() string
	Run(ctx context.Context, subcommand string, args []string) error
}

// Recorder persists a summary of each invocation. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithLogger sets the logger used for invocation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calibrator) {
		c.logger = logging.NewComponentLogger(logger, "ecalib")
		c.baseLogger = logger
	}
}

// WithRecorder records every invocation, successful or not.
func WithRecorder(r Recorder) Option {
	return func(c *Calibrator) {
		c.recorder = r
	}
}

// Calibrator runs `bart ecalib` against scratch containers.
type Calibrator struct {
	runner      Runner
	scratchRoot string
	logger      *slog.Logger
	baseLogger  *slog.Logger
	recorder    Recorder
}

// Result holds the arrays read back from one invocation keyed by output port.
type Result struct {
	Invocation Invocation
	Outputs    map[string]cfl.Array
}

// NewCalibrator constructs a calibrator that creates workspaces under scratchRoot.
func NewCalibrator(runner Runner, scratchRoot string, opts ...Option) *Calibrator {
	c := &Calibrator{
		runner:      runner,
		scratchRoot: scratchRoot,
		logger:      logging.NewComponentLogger(nil, "ecalib"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calibrate runs one calibration. The scratch workspace holding the input and
// output containers is removed before Calibrate returns, whatever the outcome.
func (c *Calibrator) Calibrate(ctx context.Context, opts Options, kspace cfl.Array) (result Result, err error) {
	logger := logging.WithContext(ctx, c.logger)
	started := time.Now()

	ws, err := scratch.New(c.scratchRoot, c.baseLogger)
	if err != nil {
		return Result{}, services.Wrap(services.ErrSerialization, "ecalib", "create workspace", "", err)
	}
	defer func() {
		_ = ws.Close()
		c.record(ctx, started, result.Invocation, kspace, err)
	}()

	input, err := ws.Input(PortKSpace, kspace)
	if err != nil {
		return Result{}, services.Wrap(services.ErrSerialization, "ecalib", "write input", "", err)
	}

	ports := opts.OutputPorts()
	inv := Invocation{
		Binary:     c.runner.Binary(),
		Subcommand: Subcommand,
		Flags:      opts.Flags(),
		Input:      input,
	}
	for _, port := range ports {
		inv.Outputs = append(inv.Outputs, ws.Output(port))
	}
	result.Invocation = inv

	logger.Debug("calibration input staged",
		logging.String("workspace", ws.Dir()),
		logging.Any("dims", kspace.Shape()),
	)

	if err := c.runner.Run(ctx, Subcommand, inv.Args()); err != nil {
		if services.Classify(err) == "unknown" {
			err = services.Wrap(services.ErrExternalTool, "ecalib", "run", "", err)
		}
		return Result{Invocation: inv}, err
	}

	outputs := make(map[string]cfl.Array, len(ports))
	for i, port := range ports {
		arr, err := cfl.Read(inv.Outputs[i])
		if err != nil {
			return Result{Invocation: inv}, services.Wrap(services.ErrDeserialization, "ecalib", "read "+port, "", err)
		}
		summary := cfl.Summarize(arr)
		logger.Debug("calibration output read",
			logging.String("port", port),
			logging.Any("dims", arr.Shape()),
			logging.Int("elements", summary.Elements),
			logging.Float64("mean_magnitude", summary.MeanMagnitude),
			logging.Float64("max_magnitude", summary.MaxMagnitude),
		)
		outputs[port] = arr
	}

	logger.Info("calibration complete",
		logging.Strings("outputs", ports),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{Invocation: inv, Outputs: outputs}, nil
}

func (c *Calibrator) record(ctx context.Context, started time.Time, inv Invocation, kspace cfl.Array, runErr error) {
	entry := history.Entry{
		StartedAt:  started,
		Duration:   time.Since(started),
		Node:       Subcommand,
		InputShape: kspace.Shape(),
		Status:     history.StatusSucceeded,
	}
	if inv.Binary != "" {
		entry.Argv = inv.Argv()
	}
	if id, ok := services.InvocationIDFromContext(ctx); ok {
		entry.ID = id
	}
	if runErr != nil {
		entry.Status = history.StatusFailed
		entry.ErrorKind = services.Classify(runErr)
		entry.Message = runErr.Error()
		var exitErr *bart.ExitError
		if errors.As(runErr, &exitErr) {
			entry.ExitCode = exitErr.Code
		}
		logging.ErrorWithContext(logging.WithContext(ctx, c.logger), "calibration failed", "ecalib_failed",
			logging.String(logging.FieldErrorKind, entry.ErrorKind),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, hintFor(runErr)),
		)
	}
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(c.logger, "failed to record invocation", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path"),
		)
	}
}

func hintFor(err error) string {
	switch services.Classify(err) {
	case "invocation":
		return "check bart.install_root or run `ecalib preflight`"
	case "external_tool":
		return "inspect the bart output in debug logs"
	case "serialization":
		return "check paths.scratch_dir free space and permissions"
	case "deserialization":
		return "bart reported success but wrote no readable output"
	default:
		return fmt.Sprintf("unexpected %s failure", services.Classify(err))
	}
}

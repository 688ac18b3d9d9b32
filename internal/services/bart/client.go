package bart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ecalib/internal/logging"
	"ecalib/internal/services"
)

const outputTailLines = 20

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeout bounds every run. Zero or negative leaves runs unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger routes tool output and run diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "bart")
	}
}

// Client wraps BART CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// ExitError reports a nonzero exit status from the tool.
type ExitError struct {
	Code   int
	Output []string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("exit status %d", e.Code)
	if len(e.Output) > 0 {
		msg += ": " + e.Output[len(e.Output)-1]
	}
	return msg
}

// StartError reports that the tool process could not be started.
type StartError struct {
	Err error
}

func (e *StartError) Error() string { return "start command: " + e.Err.Error() }

func (e *StartError) Unwrap() error { return e.Err }

// Resolve returns the executable path for binary under installRoot. Without an
// installation root the bare name is returned for PATH lookup.
func Resolve(installRoot, binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "bart"
	}
	installRoot = strings.TrimSpace(installRoot)
	if installRoot == "" || filepath.IsAbs(binary) {
		return binary
	}
	return filepath.Join(installRoot, binary)
}

// New constructs a BART client for the executable found under installRoot.
func New(installRoot, binary string, opts ...Option) (*Client, error) {
	resolved := Resolve(installRoot, binary)
	if resolved == "" {
		return nil, errors.New("bart binary required")
	}
	client := &Client{
		binary: resolved,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(nil, "bart"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the resolved executable path.
func (c *Client) Binary() string {
	return c.binary
}

// Run executes `bart <subcommand> <args...>` and blocks until it exits.
func (c *Client) Run(ctx context.Context, subcommand string, args []string) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := append([]string{subcommand}, args...)
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("running bart",
		logging.String("binary", c.binary),
		logging.Strings("args", argv),
	)

	tail := make([]string, 0, outputTailLines)
	start := time.Now()
	err := c.exec.Run(runCtx, c.binary, argv, func(line string) {
		logger.Debug("bart output", logging.String("line", line))
		if len(tail) == outputTailLines {
			tail = append(tail[:0], tail[1:]...)
		}
		tail = append(tail, line)
	})
	elapsed := time.Since(start)
	if err == nil {
		logger.Info("bart finished", logging.String("subcommand", subcommand), logging.Duration("elapsed", elapsed))
		return nil
	}
	return c.classify(runCtx, subcommand, err, tail)
}

func (c *Client) classify(ctx context.Context, subcommand string, err error, tail []string) error {
	var exitErr *ExitError
	var procErr *exec.ExitError
	var startErr *StartError
	switch {
	case errors.As(err, &startErr):
		return services.Wrap(services.ErrInvocation, "bart", subcommand, "could not start "+c.binary, err)
	case ctx.Err() != nil:
		reason := "canceled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = "deadline exceeded"
			if c.timeout > 0 {
				reason = fmt.Sprintf("timed out after %s", c.timeout)
			}
		}
		return services.Wrap(services.ErrExternalTool, "bart", subcommand, reason, ctx.Err())
	case errors.As(err, &exitErr):
		if len(exitErr.Output) == 0 {
			exitErr.Output = tail
		}
		return services.Wrap(services.ErrExternalTool, "bart", subcommand, "", exitErr)
	case errors.As(err, &procErr):
		return services.Wrap(services.ErrExternalTool, "bart", subcommand, "", &ExitError{Code: procErr.ExitCode(), Output: tail})
	default:
		return services.Wrap(services.ErrInvocation, "bart", subcommand, "", err)
	}
}

// Version runs `bart version` and returns the reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var lines []string
	if err := c.exec.Run(ctx, c.binary, []string{"version"}, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}); err != nil {
		return "", c.classify(ctx, "version", err, lines)
	}
	if len(lines) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "bart", "version", "no version reported", nil)
	}
	return lines[0], nil
}

// Available reports whether the resolved executable exists as a regular file
// or can be found on PATH.
func (c *Client) Available() error {
	if strings.ContainsRune(c.binary, os.PathSeparator) {
		info, err := os.Stat(c.binary)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", c.binary)
		}
		return nil
	}
	_, err := exec.LookPath(c.binary)
	return err
}

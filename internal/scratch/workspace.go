package scratch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ecalib/internal/cfl"
	"ecalib/internal/logging"
)

// DirPrefix names every workspace directory.
const DirPrefix = "ecalib-"

// Workspace is a per-invocation scratch directory.
type Workspace struct {
	dir     string
	logger  *slog.Logger
	known   map[string]struct{}
	inputs  int
	outputs int
	closed  bool
}

// New creates a fresh workspace below root.
func New(root string, logger *slog.Logger) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}
	dir := filepath.Join(root, DirPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "scratch"),
		known:  make(map[string]struct{}),
	}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Input writes arr as a new container and returns its base path.
func (w *Workspace) Input(name string, arr cfl.Array) (string, error) {
	if w.closed {
		return "", errors.New("workspace closed")
	}
	w.inputs++
	base := w.allocate(fmt.Sprintf("in%d-%s", w.inputs, name))
	if err := cfl.Write(base, arr); err != nil {
		return "", err
	}
	return base, nil
}

// Output reserves a container base path for the external tool to write.
func (w *Workspace) Output(name string) string {
	w.outputs++
	return w.allocate(fmt.Sprintf("out%d-%s", w.outputs, name))
}

func (w *Workspace) allocate(stem string) string {
	base := filepath.Join(w.dir, sanitize(stem))
	w.known[filepath.Base(cfl.HeaderPath(base))] = struct{}{}
	w.known[filepath.Base(cfl.DataPath(base))] = struct{}{}
	return base
}

// Close removes the workspace and every file inside it. Files the tool wrote
// besides the allocated containers are reported at debug level. Close is safe
// to call more than once.
func (w *Workspace) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true

	if entries, err := os.ReadDir(w.dir); err == nil {
		extra := make([]string, 0)
		for _, entry := range entries {
			if _, ok := w.known[entry.Name()]; !ok {
				extra = append(extra, entry.Name())
			}
		}
		if len(extra) > 0 {
			w.logger.Debug("removing unexpected scratch files",
				logging.String("dir", w.dir),
				logging.Strings("files", extra),
			)
		}
	}

	if err := os.RemoveAll(w.dir); err != nil {
		logging.WarnWithContext(w.logger, "failed to remove workspace", "scratch_cleanup_failed",
			logging.String("dir", w.dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check scratch_dir permissions"),
		)
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(strings.TrimSpace(name))
}

package bart_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ecalib/internal/services"
	"ecalib/internal/services/bart"
)

type stubExecutor struct {
	lines  []string
	err    error
	binary string
	args   [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onLine(line)
	}
	return s.err
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestResolve(t *testing.T) {
	tests := []struct {
		root, binary, want string
	}{
		{"", "bart", "bart"},
		{"", "", "bart"},
		{"/opt/bart", "bart", filepath.Join("/opt/bart", "bart")},
		{"/opt/bart", "/usr/local/bin/bart", "/usr/local/bin/bart"},
	}
	for _, tt := range tests {
		if got := bart.Resolve(tt.root, tt.binary); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.root, tt.binary, got, tt.want)
		}
	}
}

func TestRunPassesSubcommandAndArgs(t *testing.T) {
	exec := &stubExecutor{}
	client, err := bart.New("/opt/bart", "bart", bart.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Run(context.Background(), "ecalib", []string{"-t", "0.001", "in", "out"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exec.binary != filepath.Join("/opt/bart", "bart") {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	if diff := cmp.Diff([][]string{{"ecalib", "-t", "0.001", "in", "out"}}, exec.args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStubExitErrorCarriesOutputTail(t *testing.T) {
	exec := &stubExecutor{lines: []string{"calibrating", "Error: bad dims"}, err: &bart.ExitError{Code: 1}}
	client, _ := bart.New("", "bart", bart.WithExecutor(exec))

	err := client.Run(context.Background(), "ecalib", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	var exitErr *bart.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T", err)
	}
	if exitErr.Code != 1 || len(exitErr.Output) != 2 {
		t.Fatalf("unexpected exit error %+v", exitErr)
	}
	if !strings.Contains(err.Error(), "bad dims") {
		t.Fatalf("expected last output line in message: %v", err)
	}
}

func TestRunRealProcessNonzeroExit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bart", `echo "unknown option" >&2; exit 3`)
	client, _ := bart.New(dir, "bart")

	err := client.Run(context.Background(), "ecalib", []string{"-x"})
	var exitErr *bart.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Fatalf("expected exit code 3, got %d", exitErr.Code)
	}
	if diff := cmp.Diff([]string{"unknown option"}, exitErr.Output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMissingExecutableIsInvocationError(t *testing.T) {
	client, _ := bart.New(t.TempDir(), "bart")
	err := client.Run(context.Background(), "ecalib", nil)
	if !errors.Is(err, services.ErrInvocation) {
		t.Fatalf("expected invocation error, got %v", err)
	}
	if errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("missing executable must not be classified as tool failure: %v", err)
	}
	if client.Available() == nil {
		t.Fatal("expected Available to report the missing executable")
	}
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bart", "exec sleep 5")
	client, _ := bart.New(dir, "bart", bart.WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := client.Run(context.Background(), "ecalib", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatal("timeout did not stop the process")
	}
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bart", `[ "$1" = "version" ] && echo "v0.9.00" && exit 0; exit 1`)
	client, _ := bart.New(dir, "bart")

	if err := client.Available(); err != nil {
		t.Fatalf("Available: %v", err)
	}
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "v0.9.00" {
		t.Fatalf("unexpected version %q", version)
	}
}

func TestVersionWithoutOutput(t *testing.T) {
	client, _ := bart.New("", "bart", bart.WithExecutor(&stubExecutor{}))
	if _, err := client.Version(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRunCancelWithLingeringDescendant(t *testing.T) {
	bart.SetWaitDelayForTest(t, 100*time.Millisecond)
	dir := t.TempDir()
	writeScript(t, dir, "bart", "sleep 5 &\nexec sleep 5")
	client, _ := bart.New(dir, "bart", bart.WithTimeout(100*time.Millisecond))

	start := time.Now()
	err := client.Run(context.Background(), "ecalib", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("run waited %s for inherited pipes", elapsed)
	}
}

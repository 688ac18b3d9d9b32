package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecalib/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", path)
	if result.Passed || !strings.Contains(result.Detail, "is not a directory") {
		t.Fatalf("expected not-a-directory failure, got: %+v", result)
	}
}

func TestCheckExecutable(t *testing.T) {
	dir := t.TempDir()
	exe := testsupport.WriteScript(t, dir, "bart", "exit 0")
	if r := CheckExecutable("bart", exe); !r.Passed || r.Detail != exe {
		t.Fatalf("expected executable to pass, got %+v", r)
	}

	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckExecutable("plain", plain); r.Passed {
		t.Fatalf("expected non-executable file to fail, got %+v", r)
	}
	if r := CheckExecutable("missing", filepath.Join(dir, "missing")); r.Passed {
		t.Fatalf("expected missing file to fail, got %+v", r)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 0); !r.Passed {
		t.Fatalf("expected zero threshold to pass, got %+v", r)
	}
	if r := CheckFreeSpace("space", dir, 1<<40); r.Passed {
		t.Fatalf("expected exabyte threshold to fail, got %+v", r)
	}
	if r := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); r.Passed {
		t.Fatalf("expected statfs failure, got %+v", r)
	}
}

type fakeVersion struct {
	version string
	err     error
}

func (f fakeVersion) Version(context.Context) (string, error) { return f.version, f.err }

func TestCheckBARTVersion(t *testing.T) {
	if r := CheckBARTVersion(context.Background(), fakeVersion{version: "v0.9.00"}); !r.Passed || r.Detail != "v0.9.00" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r := CheckBARTVersion(context.Background(), fakeVersion{err: errors.New("boom")}); r.Passed || r.Detail != "boom" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_StubInstallation(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubBART(testsupport.ECalibStub(filepath.Join(t.TempDir(), "args"), t.TempDir())),
		testsupport.WithHistory(),
	)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	var names []string
	for _, r := range results {
		names = append(names, r.Name)
		if !r.Passed {
			t.Fatalf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	want := "BART executable,BART version,Scratch directory,History directory"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("checks = %s, want %s", got, want)
	}
	if results[1].Detail != "v0.9.00" {
		t.Fatalf("unexpected version detail: %s", results[1].Detail)
	}
}

func TestRunAll_MissingInstallation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.MinFreeMiB = 1

	results := RunAll(context.Background(), cfg)
	failed := Failed(results)
	if len(failed) != 3 {
		t.Fatalf("expected executable, scratch and free space failures, got %+v", failed)
	}
	if failed[0].Name != "BART executable" {
		t.Fatalf("unexpected first failure: %+v", failed[0])
	}
	for _, r := range results {
		if r.Name == "BART version" {
			t.Fatal("version check should be skipped when the executable is missing")
		}
	}
}

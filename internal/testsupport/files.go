package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ecalib/internal/cfl"
)

// WriteScript writes an executable /bin/sh script to dir/name.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// WriteArray stores arr as a container at base.
func WriteArray(t testing.TB, base string, arr cfl.Array) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", base, err)
	}
	if err := cfl.Write(base, arr); err != nil {
		t.Fatalf("write container %s: %v", base, err)
	}
}

// Ramp returns an array of the given dims whose element i is (i, -i).
func Ramp(t testing.TB, dims ...int) cfl.Array {
	t.Helper()
	arr, err := cfl.New(dims...)
	if err != nil {
		t.Fatalf("new array %v: %v", dims, err)
	}
	for i := range arr.Data {
		arr.Data[i] = complex(float32(i), -float32(i))
	}
	return arr
}

// ListDir returns the names inside dir, or nil when it does not exist.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"ecalib/internal/cfl"
	"ecalib/internal/export"
	"ecalib/internal/testsupport"
)

func TestPublishWritesContainer(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "sens")
	arr := testsupport.Ramp(t, 3, 2, 2)

	if err := export.Publish(dest, arr); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	got, err := cfl.Read(dest)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !got.Equal(arr) {
		t.Fatalf("published array differs: %v", got.Shape())
	}
	for _, name := range testsupport.ListDir(t, filepath.Dir(dest)) {
		if strings.HasPrefix(name, ".ecalib-") {
			t.Fatalf("staged file left behind: %s", name)
		}
	}
}

func TestPublishReplacesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "maps")
	if err := export.Publish(dest, testsupport.Ramp(t, 8)); err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	next := testsupport.Ramp(t, 2, 2)
	if err := export.Publish(dest, next); err != nil {
		t.Fatalf("second Publish failed: %v", err)
	}
	got, err := cfl.Read(dest)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !got.Equal(next) {
		t.Fatalf("expected replacement, got shape %v", got.Shape())
	}
}

func TestPublishBusyWhenLocked(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "imgcov")
	holder := flock.New(export.LockPath(dest))
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	err = export.Publish(dest, testsupport.Ramp(t, 2))
	if !errors.Is(err, export.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if cfl.Exists(dest) {
		t.Fatal("container written despite held lock")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := export.PublishWait(ctx, dest, testsupport.Ramp(t, 2)); !errors.Is(err, export.ErrBusy) {
		t.Fatalf("expected ErrBusy after wait, got %v", err)
	}
}

func TestPublishWaitAcquiresReleasedLock(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sens")
	holder := flock.New(export.LockPath(dest))
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("could not take lock: ok=%v err=%v", ok, err)
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = holder.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := export.PublishWait(ctx, dest, testsupport.Ramp(t, 4)); err != nil {
		t.Fatalf("PublishWait failed: %v", err)
	}
	if !cfl.Exists(dest) {
		t.Fatal("expected container after lock release")
	}
}

func TestPublishRejectsEmptyDestination(t *testing.T) {
	if err := export.Publish(" ", testsupport.Ramp(t, 1)); err == nil {
		t.Fatal("expected error")
	}
}

// blockHeader turns dest.hdr into a non-empty directory so the header rename fails.
func blockHeader(t *testing.T, dest string) {
	t.Helper()
	hdr := cfl.HeaderPath(dest)
	if err := os.RemoveAll(hdr); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(hdr, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func assertNoStagedFiles(t *testing.T, dir string) {
	t.Helper()
	for _, name := range testsupport.ListDir(t, dir) {
		if strings.HasPrefix(name, ".ecalib-") {
			t.Fatalf("staged file left behind: %s", name)
		}
	}
}

func TestPublishHeaderFailureRestoresPreviousData(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sens")
	if err := export.Publish(dest, testsupport.Ramp(t, 8)); err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	before, err := os.ReadFile(cfl.DataPath(dest))
	if err != nil {
		t.Fatal(err)
	}
	blockHeader(t, dest)

	if err := export.Publish(dest, testsupport.Ramp(t, 2, 2, 3)); err == nil {
		t.Fatal("expected header rename to fail")
	}
	after, err := os.ReadFile(cfl.DataPath(dest))
	if err != nil {
		t.Fatalf("previous data file missing: %v", err)
	}
	if string(after) != string(before) {
		t.Fatal("data file was not restored after the header rename failed")
	}
	assertNoStagedFiles(t, filepath.Dir(dest))
}

func TestPublishHeaderFailureWithoutPreviousData(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "maps")
	blockHeader(t, dest)

	if err := export.Publish(dest, testsupport.Ramp(t, 4)); err == nil {
		t.Fatal("expected header rename to fail")
	}
	if _, err := os.Stat(cfl.DataPath(dest)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("new data file left without a header: %v", err)
	}
	assertNoStagedFiles(t, filepath.Dir(dest))
}

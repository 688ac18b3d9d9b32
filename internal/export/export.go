package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ecalib/internal/cfl"
)

// ErrBusy reports that another process holds the destination lock.
var ErrBusy = errors.New("destination is locked by another process")

const lockRetryDelay = 50 * time.Millisecond

// LockPath returns the advisory lock file guarding dest.
func LockPath(dest string) string {
	return dest + ".lock"
}

// Publish writes arr to dest, failing with ErrBusy if the destination is locked.
func Publish(dest string, arr cfl.Array) error {
	dest, err := normalize(dest)
	if err != nil {
		return err
	}
	lock := flock.New(LockPath(dest))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrBusy, dest)
	}
	defer func() { _ = lock.Unlock() }()
	return publishLocked(dest, arr)
}

// PublishWait is Publish but waits for the lock until ctx is done.
func PublishWait(ctx context.Context, dest string, arr cfl.Array) error {
	dest, err := normalize(dest)
	if err != nil {
		return err
	}
	lock := flock.New(LockPath(dest))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %w", ErrBusy, dest, ctx.Err())
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrBusy, dest)
	}
	defer func() { _ = lock.Unlock() }()
	return publishLocked(dest, arr)
}

func normalize(dest string) (string, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return "", errors.New("destination is empty")
	}
	dest = filepath.Clean(dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("ensure destination dir: %w", err)
	}
	return dest, nil
}

// publishLocked swaps the data file in first and the header second. The
// previous data file is parked beside the destination until the header is in
// place, so a failed header rename restores the old pair.
func publishLocked(dest string, arr cfl.Array) error {
	tmp := filepath.Join(filepath.Dir(dest), ".ecalib-"+uuid.NewString())
	if err := cfl.Write(tmp, arr); err != nil {
		return fmt.Errorf("write staged container: %w", err)
	}
	defer func() { _ = cfl.Remove(tmp) }()

	data := cfl.DataPath(dest)
	parked := tmp + ".prev" + filepath.Ext(data)
	hadData := true
	if err := os.Rename(data, parked); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("park previous data: %w", err)
		}
		hadData = false
	}
	restore := func() {
		if hadData {
			_ = os.Rename(parked, data)
		} else {
			_ = os.Remove(data)
		}
	}

	if err := os.Rename(cfl.DataPath(tmp), data); err != nil {
		restore()
		return fmt.Errorf("rename data: %w", err)
	}
	if err := os.Rename(cfl.HeaderPath(tmp), cfl.HeaderPath(dest)); err != nil {
		restore()
		return fmt.Errorf("rename header: %w", err)
	}
	if hadData {
		_ = os.Remove(parked)
	}
	return nil
}

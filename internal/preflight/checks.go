package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"ecalib/internal/deps"
)

const versionTimeout = 10 * time.Second

// VersionReporter is satisfied by *bart.Client.
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// CheckExecutable verifies that command resolves to a file the current user
// may execute. Bare names are looked up on PATH.
func CheckExecutable(name, command string) Result {
	status := deps.Locate(deps.Tool{Name: name, Command: command})
	if !status.Found() {
		return Result{Name: name, Detail: status.Detail()}
	}
	info, err := os.Stat(status.Path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", status.Path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", status.Path)}
	}
	if err := unix.Access(status.Path, unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not executable: %v)", status.Path, err)}
	}
	return Result{Name: name, Passed: true, Detail: status.Path}
}

// CheckBARTVersion runs `bart version` with a short timeout.
func CheckBARTVersion(ctx context.Context, client VersionReporter) Result {
	const name = "BART version"

	checkCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	version, err := client.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minMiB mebibytes available to unprivileged users.
func CheckFreeSpace(name, path string, minMiB int) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeMiB := int64(st.Bavail) * int64(st.Bsize) / (1 << 20)
	if freeMiB < int64(minMiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%d MiB free, need %d MiB", freeMiB, minMiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", freeMiB)}
}

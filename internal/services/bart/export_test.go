package bart

import (
	"testing"
	"time"
)

// SetWaitDelayForTest shortens the pipe wait delay for the duration of t.
func SetWaitDelayForTest(t *testing.T, d time.Duration) {
	t.Helper()
	prev := waitDelay
	waitDelay = d
	t.Cleanup(func() { waitDelay = prev })
}

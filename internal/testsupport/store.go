package testsupport

import (
	"testing"

	"ecalib/internal/config"
	"ecalib/internal/history"
)

// MustOpenHistory opens the configured history ledger and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

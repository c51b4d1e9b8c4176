package testsupport

import (
	"testing"

	"curator/internal/config"
	"curator/internal/doistore"
)

// MustOpenStore opens a DOI store for the provided config and registers
// cleanup with the test lifecycle.
func MustOpenStore(t testing.TB, cfg *config.Config) *doistore.Store {
	t.Helper()
	store, err := doistore.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

package testsupport

import (
	"testing"

	"stagecast/internal/config"
	"stagecast/internal/journal"
)

// MustOpenJournal opens the run journal in the config's output directory
// and registers cleanup with the provided test handle.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Journal {
	t.Helper()

	j, err := journal.Open(cfg.OutputPath(config.ArtifactJournal))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}

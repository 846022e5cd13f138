package engine

import (
	"testing"

	"github.com/anderote/dysonforge/internal/catalog"
)

// newTestCatalog loads the shipped default catalog, the same one the
// standalone binaries boot with.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	return cat
}

// newTestState builds a fresh GameState with its upgrade factors
// primed, so per-system unit tests don't each need to call
// refreshUpgradeFactors themselves.
func newTestState(t *testing.T, cat *catalog.Catalog) *GameState {
	t.Helper()
	cfg := DefaultConfig()
	g := NewGameState(cat, cfg)
	refreshUpgradeFactors(cat, g)
	return g
}

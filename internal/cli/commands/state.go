package commands

import (
	"fmt"

	"github.com/leapstack-labs/leaptable/internal/config"
	"github.com/leapstack-labs/leaptable/internal/store"
)

// loadSavedState reads the persisted workbook once and closes the database.
// Returns nil when nothing has been saved yet.
func loadSavedState(cfg *config.Config) (*store.State, error) {
	snapStore, err := openSnapshotStore(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = snapStore.Close() }()

	state, err := snapStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}
	return state, nil
}

// saveState writes the workbook back, for offline commands that mutate the
// saved state while no server is running.
func saveState(cfg *config.Config, state *store.State) error {
	snapStore, err := openSnapshotStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = snapStore.Close() }()

	if err := snapStore.Save(state); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/storage"
)

// EpochStates persists the orchestrator state snapshot in badger.
type EpochStates struct {
	db *badger.DB
}

var _ storage.EpochStates = (*EpochStates)(nil)

func NewEpochStates(db *badger.DB) *EpochStates {
	return &EpochStates{db: db}
}

func (e *EpochStates) Store(snapshot *gravity.EpochStateSnapshot) error {
	err := e.db.Update(upsert(makePrefix(codeEpochState), snapshot))
	if err != nil {
		return fmt.Errorf("could not store epoch state snapshot: %w", err)
	}
	return nil
}

func (e *EpochStates) Retrieve() (*gravity.EpochStateSnapshot, error) {
	var snapshot gravity.EpochStateSnapshot
	err := e.db.View(retrieve(makePrefix(codeEpochState), &snapshot))
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Package storage defines the persistence interfaces for the epoch core's
// long-lived chain state: the orchestrator snapshot, the clock value, and
// every config store's current/pending pair.
package storage

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// EpochStates persists the orchestrator's state snapshot. There is exactly
// one snapshot; Store overwrites it.
type EpochStates interface {

	// Store persists the snapshot, replacing any previous one.
	Store(snapshot *gravity.EpochStateSnapshot) error

	// Retrieve loads the snapshot.
	// Error returns:
	//   - ErrNotFound if no snapshot was ever stored
	Retrieve() (*gravity.EpochStateSnapshot, error)
}

// Configs persists config store contents, keyed by parameter group. The
// concrete config types are opaque to the storage layer; implementations
// encode whatever they are handed.
type Configs interface {

	// StoreConfig persists the current value and, if pending is non-nil,
	// the pending value of a group, replacing any previous entry.
	StoreConfig(group gravity.ConfigGroup, current interface{}, pending interface{}) error

	// RetrieveConfig loads a group's entry, decoding the current value into
	// current and, when one is stored, the pending value into pending. The
	// returned flag reports whether a pending value was present.
	// Error returns:
	//   - ErrNotFound if the group was never stored
	RetrieveConfig(group gravity.ConfigGroup, current interface{}, pending interface{}) (bool, error)
}

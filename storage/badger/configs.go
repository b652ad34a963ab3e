package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/storage"
)

// configEntry is the stored form of one parameter group: the concrete
// config types are msgpack-encoded before they reach the entry, so one
// entry shape serves all groups.
type configEntry struct {
	Current []byte
	Pending []byte // nil when no pending value is staged
}

// Configs persists config store contents in badger, keyed by group.
type Configs struct {
	db *badger.DB
}

var _ storage.Configs = (*Configs)(nil)

func NewConfigs(db *badger.DB) *Configs {
	return &Configs{db: db}
}

func (c *Configs) StoreConfig(group gravity.ConfigGroup, current interface{}, pending interface{}) error {
	currentVal, err := msgpack.Marshal(current)
	if err != nil {
		return fmt.Errorf("could not encode current %s config: %w", group, err)
	}
	entry := configEntry{Current: currentVal}
	if pending != nil {
		pendingVal, err := msgpack.Marshal(pending)
		if err != nil {
			return fmt.Errorf("could not encode pending %s config: %w", group, err)
		}
		entry.Pending = pendingVal
	}

	err = c.db.Update(upsert(makePrefix(codeConfig, []byte(group)...), &entry))
	if err != nil {
		return fmt.Errorf("could not store %s config: %w", group, err)
	}
	return nil
}

func (c *Configs) RetrieveConfig(group gravity.ConfigGroup, current interface{}, pending interface{}) (bool, error) {
	var entry configEntry
	err := c.db.View(retrieve(makePrefix(codeConfig, []byte(group)...), &entry))
	if err != nil {
		return false, err
	}

	err = msgpack.Unmarshal(entry.Current, current)
	if err != nil {
		return false, fmt.Errorf("could not decode current %s config: %w", group, err)
	}
	if entry.Pending == nil {
		return false, nil
	}
	err = msgpack.Unmarshal(entry.Pending, pending)
	if err != nil {
		return false, fmt.Errorf("could not decode pending %s config: %w", group, err)
	}
	return true, nil
}

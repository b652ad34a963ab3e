// Package badger implements the storage interfaces on a badger key-value
// store, with msgpack-encoded, snappy-compressed values.
package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/gravityledger/gravity-core/storage"
)

// key prefixes
const (
	codeEpochState = 1
	codeConfig     = 2
)

func makePrefix(code byte, suffix ...byte) []byte {
	key := make([]byte, 0, 1+len(suffix))
	key = append(key, code)
	key = append(key, suffix...)
	return key
}

// upsert encodes the given entity and stores the binary data under the
// provided key, replacing any previous value.
func upsert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}
		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}
		return nil
	}
}

// retrieve decodes the value stored under the provided key into the given
// entity.
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not load data: %w", err)
		}
		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode value: %w", err)
		}
		return nil
	}
}

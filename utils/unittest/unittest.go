package unittest

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/require"
)

// BadgerDB opens a badger instance in dir, tuned for tests: level-0
// tables stay in memory and sync writes are off, since the data never
// outlives the test run. The badger-internal logger is silenced so that
// test output stays readable.
func BadgerDB(t testing.TB, dir string) *badger.DB {
	opts := badger.DefaultOptions(dir).
		WithKeepL0InMemory(true).
		WithSyncWrites(false).
		WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	return db
}

// RunWithBadgerDB runs f against a throwaway badger instance and closes
// it afterwards. The backing directory is cleaned up by the test runner.
func RunWithBadgerDB(t testing.TB, f func(*badger.DB)) {
	db := BadgerDB(t, t.TempDir())
	defer func() {
		require.NoError(t, db.Close())
	}()
	f(db)
}

// Package configs implements the two-phase commit pattern shared by every
// governable parameter group: governance stages a pending value, and only
// the orchestrator commits pending to current, at an epoch boundary.
package configs

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/state/protocol"
	"github.com/gravityledger/gravity-core/storage"
)

// Store holds the current and optional pending value of one parameter
// group. The current value is never mutated outside CommitPending after
// initialization; the pending value is only consumed by CommitPending and
// query functions. Staging a pending value twice overwrites the first
// (last-write-wins, no queue).
type Store[T gravity.GovernableConfig] struct {
	log      zerolog.Logger
	auth     *protocol.Authorizer
	consumer protocol.Consumer
	db       storage.Configs // optional; nil disables persistence

	mu          sync.RWMutex
	group       gravity.ConfigGroup
	current     T
	pending     *T
	initialized bool
}

var _ module.PendingCommitter = (*Store[gravity.EpochIntervalConfig])(nil)

// NewStore creates an uninitialized store for the parameter group T.
// Passing a nil storage.Configs keeps the store purely in-memory.
func NewStore[T gravity.GovernableConfig](log zerolog.Logger, auth *protocol.Authorizer,
	consumer protocol.Consumer, db storage.Configs) *Store[T] {

	var zero T
	group := zero.Group()
	return &Store[T]{
		log: log.With().
			Str("component", "config_store").
			Str("group", string(group)).
			Logger(),
		auth:     auth,
		consumer: consumer,
		db:       db,
		group:    group,
	}
}

// Group identifies the parameter group this store holds.
func (s *Store[T]) Group() gravity.ConfigGroup {
	return s.group
}

// Initialize sets the initial current value. Callable exactly once, only by
// the genesis identity.
// Error returns:
//   - protocol.InvalidCallerError if the caller is not the genesis identity
//   - protocol.ErrAlreadyInitialized on a second call
//   - protocol.InvalidConfigError if validation fails
func (s *Store[T]) Initialize(caller gravity.Identifier, value T) error {
	if err := s.auth.Require(caller, gravity.RoleGenesis); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return protocol.ErrAlreadyInitialized
	}
	if err := value.Validate(); err != nil {
		return protocol.NewInvalidConfigError(s.group, err)
	}

	s.current = value
	s.initialized = true

	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info().Interface("value", value).Msg("config initialized")
	return nil
}

// SetForNextEpoch stages a value for activation at the next epoch boundary.
// The current value is untouched.
// Error returns:
//   - protocol.InvalidCallerError if the caller is not the governance
//     identity
//   - protocol.ErrNotInitialized before genesis initialization
//   - protocol.InvalidConfigError if validation fails
func (s *Store[T]) SetForNextEpoch(caller gravity.Identifier, value T) error {
	if err := s.auth.Require(caller, gravity.RoleGovernance); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return protocol.ErrNotInitialized
	}
	if err := value.Validate(); err != nil {
		return protocol.NewInvalidConfigError(s.group, err)
	}

	s.pending = &value

	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info().Interface("value", value).Msg("pending config staged")
	return nil
}

// CommitPending promotes the pending value to current, if one is staged.
// Only the orchestrator may call it.
func (s *Store[T]) CommitPending(caller gravity.Identifier) (bool, error) {
	if err := s.auth.Require(caller, gravity.RoleOrchestrator); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false, nil
	}

	s.current = *s.pending
	s.pending = nil

	if err := s.persist(); err != nil {
		return false, err
	}

	s.consumer.ConfigCommitted(s.group)
	s.log.Info().Interface("value", s.current).Msg("pending config committed")
	return true, nil
}

// Current returns the active value.
func (s *Store[T]) Current() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Pending returns the staged value, if any.
func (s *Store[T]) Pending() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		var zero T
		return zero, false
	}
	return *s.pending, true
}

// HasPending returns true while a value is staged.
func (s *Store[T]) HasPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending != nil
}

// Restore loads persisted state, if the store has a database attached and
// an entry exists. Intended for process startup, before any other call.
func (s *Store[T]) Restore() error {
	if s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current, pending T
	hasPending, err := s.db.RetrieveConfig(s.group, &current, &pending)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("could not restore %s config: %w", s.group, err)
	}

	s.current = current
	s.pending = nil
	if hasPending {
		s.pending = &pending
	}
	s.initialized = true
	return nil
}

// persist writes through to storage. Callers must hold the write lock.
func (s *Store[T]) persist() error {
	if s.db == nil {
		return nil
	}
	var pending interface{}
	if s.pending != nil {
		pending = *s.pending
	}
	err := s.db.StoreConfig(s.group, s.current, pending)
	if err != nil {
		return fmt.Errorf("could not persist %s config: %w", s.group, err)
	}
	return nil
}

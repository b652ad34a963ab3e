// Package dkg implements the on-chain side of the distributed key
// generation lifecycle. The service owns at most one in-progress and one
// last-completed session; the cryptographic protocol itself runs off-chain,
// driven by the start signal emitted here.
package dkg

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/state/protocol"
)

// Service is a pure service with no autonomous behavior; every mutating
// operation is gated to the orchestrator identity.
type Service struct {
	log      zerolog.Logger
	auth     *protocol.Authorizer
	clock    module.Clock
	consumer protocol.Consumer
	metrics  module.EpochMetrics

	mu            sync.RWMutex
	inProgress    *gravity.DKGSession
	lastCompleted *gravity.DKGSession
}

var _ module.DKGService = (*Service)(nil)

// NewService creates an empty DKG service.
func NewService(log zerolog.Logger, auth *protocol.Authorizer, clock module.Clock,
	consumer protocol.Consumer, metrics module.EpochMetrics) *Service {

	return &Service{
		log:      log.With().Str("component", "dkg_service").Logger(),
		auth:     auth,
		clock:    clock,
		consumer: consumer,
		metrics:  metrics,
	}
}

// Start opens a session for the given dealer epoch, timestamps it with the
// current clock value, and emits the start signal. Starting while a session
// is open is fatal to the calling transaction: the orchestrator's own state
// check should have prevented it, so reaching the error indicates a logic
// bug, not a transient condition.
func (s *Service) Start(caller gravity.Identifier, dealerEpoch uint64, config gravity.RandomnessConfig,
	dealers gravity.ValidatorConsensusList, targets gravity.ValidatorConsensusList) error {

	if err := s.auth.Require(caller, gravity.RoleOrchestrator); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress != nil {
		return protocol.ErrDKGAlreadyInProgress
	}

	session := &gravity.DKGSession{
		DealerEpoch:     dealerEpoch,
		Config:          config,
		Dealers:         dealers.Copy(),
		Targets:         targets.Copy(),
		StartTimeMicros: s.clock.NowMicros(),
	}
	s.inProgress = session

	s.metrics.DKGStarted()
	s.consumer.DKGStarted(session.Copy())
	s.log.Info().
		Uint64("dealer_epoch", dealerEpoch).
		Str("variant", config.Variant.String()).
		Int("dealers", len(dealers)).
		Int("targets", len(targets)).
		Msg("DKG session started")

	return nil
}

// Finish records the transcript on the in-progress session, moves it to
// "last completed", and emits a completion event keyed by the transcript
// hash. Finishing with no open session is fatal-and-reported, never
// silently ignored.
func (s *Service) Finish(caller gravity.Identifier, transcript []byte) error {
	if err := s.auth.Require(caller, gravity.RoleOrchestrator); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress == nil {
		return protocol.ErrDKGNotInProgress
	}

	session := s.inProgress
	session.Transcript = transcript
	s.lastCompleted = session
	s.inProgress = nil

	hash := gravity.TranscriptHash(transcript)
	s.metrics.DKGCompleted()
	s.consumer.DKGCompleted(session.DealerEpoch, hash)
	s.log.Info().
		Uint64("dealer_epoch", session.DealerEpoch).
		Str("transcript_hash", hash.String()).
		Msg("DKG session completed")

	return nil
}

// ClearIncomplete discards the in-progress session, if any. Stale sessions
// are a recoverable consequence of skipped or delayed finishes, so clearing
// is a silent corrective action rather than an error.
func (s *Service) ClearIncomplete(caller gravity.Identifier) (bool, error) {
	if err := s.auth.Require(caller, gravity.RoleOrchestrator); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress == nil {
		return false, nil
	}

	dealerEpoch := s.inProgress.DealerEpoch
	s.inProgress = nil

	s.metrics.DKGCleared()
	s.consumer.DKGCleared(dealerEpoch)
	s.log.Info().Uint64("dealer_epoch", dealerEpoch).Msg("incomplete DKG session cleared")

	return true, nil
}

func (s *Service) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress != nil
}

func (s *Service) IncompleteSession() (*gravity.DKGSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inProgress == nil {
		return nil, false
	}
	return s.inProgress.Copy(), true
}

func (s *Service) LastCompletedSession() (*gravity.DKGSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastCompleted == nil {
		return nil, false
	}
	return s.lastCompleted.Copy(), true
}

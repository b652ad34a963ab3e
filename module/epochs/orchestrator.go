// Package epochs implements the epoch transition state machine and the
// per-block prologue driver. The orchestrator is the only component
// permitted to mutate the DKG service and to commit pending configs; it
// owns the epoch counter and the transition state.
package epochs

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/module/configs"
	"github.com/gravityledger/gravity-core/state/protocol"
	"github.com/gravityledger/gravity-core/storage"
)

// Orchestrator cycles between two states, forever:
//
//	Idle --TryStartTransition--> DkgInProgress --FinishTransition--> Idle
//
// The split into try-start / finish lets the off-chain DKG protocol, which
// cannot run synchronously, interleave with block production: the state
// machine, not a blocking call, represents the suspension. No timeout is
// enforced on how long a session may remain in progress; a stale session is
// cleared lazily the next time TryStartTransition runs for a later epoch.
type Orchestrator struct {
	log      zerolog.Logger
	me       module.Local
	auth     *protocol.Authorizer
	clock    module.Clock
	dkg      module.DKGService
	dir      module.ValidatorDirectory
	consumer protocol.Consumer
	metrics  module.EpochMetrics
	db       storage.EpochStates // optional; nil disables persistence

	interval   *configs.Store[gravity.EpochIntervalConfig]
	randomness *configs.Store[gravity.RandomnessConfig]
	// committers are applied in fixed order on every completed transition,
	// randomness first, before the epoch counter increments
	committers []module.PendingCommitter
	// notifiers are optional downstream collaborators whose failures are
	// reported but never abort a transition
	notifiers []module.EpochNotifier

	mu                       sync.RWMutex
	currentEpoch             uint64
	transitionState          gravity.TransitionState
	transitionStartedAtEpoch uint64
	lastEpochTransitionTime  uint64 // seconds
}

// NewOrchestrator wires the orchestrator against its collaborators. The
// committer list must contain every config store; the orchestrator prepends
// the randomness and epoch interval stores itself so newly governed
// parameters are active when the new epoch's first block executes.
//
// If db is non-nil and holds a snapshot, the orchestrator resumes from it.
func NewOrchestrator(
	log zerolog.Logger,
	me module.Local,
	auth *protocol.Authorizer,
	clock module.Clock,
	dkgService module.DKGService,
	dir module.ValidatorDirectory,
	interval *configs.Store[gravity.EpochIntervalConfig],
	randomness *configs.Store[gravity.RandomnessConfig],
	extraCommitters []module.PendingCommitter,
	notifiers []module.EpochNotifier,
	consumer protocol.Consumer,
	metrics module.EpochMetrics,
	db storage.EpochStates,
) (*Orchestrator, error) {

	o := &Orchestrator{
		log:        log.With().Str("component", "epoch_orchestrator").Logger(),
		me:         me,
		auth:       auth,
		clock:      clock,
		dkg:        dkgService,
		dir:        dir,
		interval:   interval,
		randomness: randomness,
		consumer:   consumer,
		metrics:    metrics,
		db:         db,
		notifiers:  notifiers,
	}

	// fixed commit order: randomness first, then the epoch interval, then
	// every remaining group in construction order
	o.committers = append(o.committers, randomness, interval)
	o.committers = append(o.committers, extraCommitters...)

	if err := auth.Require(me.Identity(), gravity.RoleOrchestrator); err != nil {
		return nil, fmt.Errorf("orchestrator identity does not hold the orchestrator role: %w", err)
	}

	// at genesis the interval is measured from the genesis clock value
	o.lastEpochTransitionTime = clock.NowSeconds()

	if db != nil {
		snapshot, err := db.Retrieve()
		if err != nil && !storage.IsNotFound(err) {
			return nil, fmt.Errorf("could not load epoch state snapshot: %w", err)
		}
		if err == nil {
			o.currentEpoch = snapshot.CurrentEpoch
			o.transitionState = snapshot.TransitionState
			o.transitionStartedAtEpoch = snapshot.TransitionStartedAtEpoch
			o.lastEpochTransitionTime = snapshot.LastEpochTransitionTime
			o.log.Info().
				Uint64("epoch", snapshot.CurrentEpoch).
				Str("transition_state", snapshot.TransitionState.String()).
				Msg("epoch state restored from snapshot")
		}
	}

	metrics.CurrentEpoch(o.currentEpoch)
	metrics.TransitionStateChanged(o.transitionState)

	return o, nil
}

// TryStartTransition is called once per block by the prologue driver. It
// returns true only when a new transition actually started. A "not yet"
// outcome is not an error: it is the expected steady-state result for most
// blocks.
//
// Chain downtime collapses into a single transition: the interval check
// compares only against the last completed transition time, so any number
// of missed intervals yields exactly one transition on resume.
// Error returns:
//   - protocol.InvalidCallerError if the caller is not the block driver
func (o *Orchestrator) TryStartTransition(caller gravity.Identifier) (bool, error) {
	if err := o.auth.Require(caller, gravity.RoleBlockDriver); err != nil {
		return false, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.transitionState == gravity.TransitionStateDKGInProgress {
		// A session belonging to the current epoch is simply still running.
		// A session from a prior epoch is stale (its finish was skipped) and
		// is force-cleared so the transition can restart below.
		session, ok := o.dkg.IncompleteSession()
		if ok && session.DealerEpoch == o.currentEpoch {
			return false, nil
		}
		o.log.Warn().Uint64("epoch", o.currentEpoch).Msg("clearing stale epoch transition")
		o.transitionState = gravity.TransitionStateIdle
	}

	if o.clock.NowSeconds() < o.lastEpochTransitionTime+o.interval.Current().IntervalSeconds() {
		return false, nil
	}

	dealers := o.dir.DealerSet()
	targets := o.dir.TargetSet()
	randomness := o.randomness.Current()

	// defensive: discard any leftover session before opening a new one
	cleared, err := o.dkg.ClearIncomplete(o.me.Identity())
	if err != nil {
		return false, fmt.Errorf("could not clear stale DKG session: %w", err)
	}
	if cleared {
		o.log.Warn().Uint64("epoch", o.currentEpoch).Msg("stale DKG session cleared before start")
	}

	err = o.dkg.Start(o.me.Identity(), o.currentEpoch, randomness, dealers, targets)
	if err != nil {
		return false, fmt.Errorf("could not start DKG for epoch %d: %w", o.currentEpoch, err)
	}

	o.transitionState = gravity.TransitionStateDKGInProgress
	o.transitionStartedAtEpoch = o.currentEpoch

	o.metrics.EpochTransitionStarted()
	o.metrics.TransitionStateChanged(o.transitionState)
	o.consumer.EpochTransitionStarted(o.currentEpoch)
	o.log.Info().
		Uint64("epoch", o.currentEpoch).
		Int("dealers", len(dealers)).
		Int("targets", len(targets)).
		Msg("epoch transition started")

	if err := o.persistLocked(); err != nil {
		return true, err
	}
	return true, nil
}

// FinishTransition is called once by the consensus engine after the
// off-chain DKG completes. A nil dkgResult finishes the transition without
// recording a transcript (the path taken when randomness is configured
// off). All precondition checks precede any mutation, so a failed call
// leaves the system in its pre-call state.
// Error returns:
//   - protocol.InvalidCallerError if the caller is not the consensus engine
//   - protocol.ErrNoTransitionInProgress if the orchestrator is idle
//   - protocol.EpochMismatchError if the transition started in a different
//     epoch than the current one
func (o *Orchestrator) FinishTransition(caller gravity.Identifier, dkgResult []byte) error {
	if err := o.auth.Require(caller, gravity.RoleConsensusEngine); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.transitionState != gravity.TransitionStateDKGInProgress {
		return protocol.ErrNoTransitionInProgress
	}
	if o.transitionStartedAtEpoch != o.currentEpoch {
		return protocol.EpochMismatchError{
			StartedAtEpoch: o.transitionStartedAtEpoch,
			CurrentEpoch:   o.currentEpoch,
		}
	}

	if len(dkgResult) > 0 {
		err := o.dkg.Finish(o.me.Identity(), dkgResult)
		if err != nil {
			return fmt.Errorf("could not finish DKG for epoch %d: %w", o.currentEpoch, err)
		}
	}
	// idempotent safety net; also the cleanup path for nil results
	_, err := o.dkg.ClearIncomplete(o.me.Identity())
	if err != nil {
		return fmt.Errorf("could not clear DKG session: %w", err)
	}

	// pending configs activate before the epoch counter increments, so the
	// new epoch's first block already runs under the new parameters
	for _, committer := range o.committers {
		updated, err := committer.CommitPending(o.me.Identity())
		if err != nil {
			return fmt.Errorf("could not commit pending %s config: %w", committer.Group(), err)
		}
		if updated {
			o.log.Info().Str("group", string(committer.Group())).Msg("pending config applied")
		}
	}

	// the directory reads the pre-increment epoch counter to decide which
	// validators become active next epoch; its failure, like that of any
	// downstream notifier, is reported but must never prevent the chain
	// from advancing epochs
	var collaboratorErrs *multierror.Error
	err = o.dir.OnNewEpoch(o.me.Identity(), o.currentEpoch)
	if err != nil {
		collaboratorErrs = multierror.Append(collaboratorErrs, fmt.Errorf("validator directory: %w", err))
	}
	for _, notifier := range o.notifiers {
		err := notifier.OnNewEpoch(o.currentEpoch)
		if err != nil {
			collaboratorErrs = multierror.Append(collaboratorErrs, err)
		}
	}
	if err := collaboratorErrs.ErrorOrNil(); err != nil {
		o.consumer.CollaboratorFailure(o.currentEpoch, err)
		o.log.Warn().Err(err).Uint64("epoch", o.currentEpoch).Msg("collaborator failed during epoch transition")
	}

	now := o.clock.NowSeconds()
	spacing := now - o.lastEpochTransitionTime
	o.currentEpoch++
	o.lastEpochTransitionTime = now
	o.transitionState = gravity.TransitionStateIdle

	o.metrics.CurrentEpoch(o.currentEpoch)
	o.metrics.TransitionStateChanged(o.transitionState)
	o.metrics.EpochTransitionCompleted(spacing)
	o.consumer.EpochTransitionCompleted(o.currentEpoch, now)
	o.log.Info().
		Uint64("epoch", o.currentEpoch).
		Uint64("transition_time", now).
		Bool("with_transcript", len(dkgResult) > 0).
		Msg("epoch transition completed")

	return o.persistLocked()
}

// CurrentEpoch returns the epoch counter.
func (o *Orchestrator) CurrentEpoch() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.currentEpoch
}

// TransitionState returns the transition state flag.
func (o *Orchestrator) TransitionState() gravity.TransitionState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.transitionState
}

// LastEpochTransitionTime returns the completion time, in seconds, of the
// last completed transition.
func (o *Orchestrator) LastEpochTransitionTime() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastEpochTransitionTime
}

// Snapshot returns the persistable view of the orchestrator state together
// with the current clock value.
func (o *Orchestrator) Snapshot() *gravity.EpochStateSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() *gravity.EpochStateSnapshot {
	return &gravity.EpochStateSnapshot{
		CurrentEpoch:             o.currentEpoch,
		TransitionState:          o.transitionState,
		TransitionStartedAtEpoch: o.transitionStartedAtEpoch,
		LastEpochTransitionTime:  o.lastEpochTransitionTime,
		ClockMicros:              o.clock.NowMicros(),
	}
}

func (o *Orchestrator) persistLocked() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Store(o.snapshotLocked())
	if err != nil {
		return fmt.Errorf("could not persist epoch state snapshot: %w", err)
	}
	return nil
}

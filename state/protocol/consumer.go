package protocol

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// Consumer defines the set of events that occur within the epoch core,
// which can be propagated to other components via an implementation of
// this interface. Implementations must be non-blocking: they are invoked
// synchronously from within block processing.
//
// All callbacks carry copies of service-owned state; consumers may retain
// the arguments.
type Consumer interface {

	// EpochTransitionStarted is called when the orchestrator enters the
	// DkgInProgress state.
	EpochTransitionStarted(epoch uint64)

	// EpochTransitionCompleted is called when a transition finishes.
	// newEpoch is the incremented epoch counter; transitionTime is the
	// completion time in seconds.
	EpochTransitionCompleted(newEpoch uint64, transitionTime uint64)

	// DKGStarted is the start signal consumed by the off-chain DKG
	// protocol. It carries the full session metadata: dealer set, target
	// set, randomness config snapshot, and start time.
	DKGStarted(session *gravity.DKGSession)

	// DKGCompleted is called when a DKG session finishes with a transcript,
	// keyed by the transcript hash.
	DKGCompleted(dealerEpoch uint64, transcriptHash gravity.Identifier)

	// DKGCleared is called when an in-progress DKG session is discarded
	// without completing.
	DKGCleared(dealerEpoch uint64)

	// ConfigCommitted is called when a pending config value replaces the
	// current value at an epoch boundary.
	ConfigCommitted(group gravity.ConfigGroup)

	// CollaboratorFailure is called when a downstream module notification
	// fails during a transition. Such failures are reported, never allowed
	// to prevent the chain from advancing epochs.
	CollaboratorFailure(epoch uint64, err error)
}

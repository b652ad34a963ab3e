package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// DKGService owns the in-progress and last-completed DKG sessions. It has
// no autonomous behavior; every mutating operation is gated to the
// orchestrator identity. Queries are unrestricted reads.
//
// At most one in-progress session and one last-completed session exist at
// any time, system-wide.
type DKGService interface {

	// Start opens a new session for the given dealer epoch and emits the
	// start signal consumed by the off-chain protocol.
	// Error returns:
	//   - protocol.InvalidCallerError if the caller is not the orchestrator
	//   - protocol.ErrDKGAlreadyInProgress if a session is already open;
	//     reaching this indicates a logic bug in the caller
	Start(caller gravity.Identifier, dealerEpoch uint64, config gravity.RandomnessConfig,
		dealers gravity.ValidatorConsensusList, targets gravity.ValidatorConsensusList) error

	// Finish moves the in-progress session, plus the supplied transcript,
	// to "last completed" and emits a completion event keyed by the
	// transcript hash.
	// Error returns:
	//   - protocol.InvalidCallerError if the caller is not the orchestrator
	//   - protocol.ErrDKGNotInProgress if no session is open
	Finish(caller gravity.Identifier, transcript []byte) error

	// ClearIncomplete discards the in-progress session without completing
	// it, returning true if a session was cleared. It is a no-op when
	// nothing is in progress. Used defensively by the orchestrator before
	// starting (stale sessions from a prior epoch) and after finishing.
	ClearIncomplete(caller gravity.Identifier) (bool, error)

	// InProgress returns true while a session is open.
	InProgress() bool

	// IncompleteSession returns a copy of the in-progress session, if any.
	IncompleteSession() (*gravity.DKGSession, bool)

	// LastCompletedSession returns a copy of the last completed session,
	// if any.
	LastCompletedSession() (*gravity.DKGSession, bool)
}

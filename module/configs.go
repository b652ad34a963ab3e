package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// PendingCommitter is the narrow view of a config store exposed to the
// orchestrator: the ability to commit a staged pending value at an epoch
// boundary. The orchestrator commits every store in a fixed order before
// incrementing the epoch counter.
type PendingCommitter interface {

	// Group identifies the parameter group the store holds.
	Group() gravity.ConfigGroup

	// CommitPending replaces the current value with the pending value, if
	// one is staged, and returns whether an update happened. A call with no
	// pending value is a no-op.
	// Error returns:
	//   - protocol.InvalidCallerError if the caller is not the orchestrator
	CommitPending(caller gravity.Identifier) (bool, error)
}

package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// ValidatorDirectory supplies the dealer and target validator sets for DKG
// sessions and performs stake and activation bookkeeping on a single
// notification call per epoch boundary.
type ValidatorDirectory interface {

	// DealerSet returns the currently active validator set, which runs the
	// current epoch's DKG.
	DealerSet() gravity.ValidatorConsensusList

	// TargetSet returns the validator set that will be active next epoch,
	// which holds the resulting key shares.
	TargetSet() gravity.ValidatorConsensusList

	// OnProposal records per-epoch proposal performance for a validator.
	// Called once per block by the block driver; success is false for
	// failed proposers recorded via null blocks.
	OnProposal(caller gravity.Identifier, proposer gravity.Identifier, success bool) error

	// OnNewEpoch is the single reconfiguration entry point, called by the
	// orchestrator once per transition, before the epoch counter
	// increments. Implementations MUST (1) distribute rewards to the
	// currently active set first, using performance data from the ending
	// epoch, (2) only then activate pending-active and deactivate
	// pending-inactive validators, and (3) recompute aggregate voting
	// power. Reversing (1) and (2) misdirects the final rewards of the
	// ending epoch.
	OnNewEpoch(caller gravity.Identifier, endingEpoch uint64) error
}

// EpochNotifier is implemented by downstream modules that want to observe
// epoch boundaries. Notification failures are reported by the orchestrator
// and never abort a transition.
type EpochNotifier interface {
	OnNewEpoch(endingEpoch uint64) error
}

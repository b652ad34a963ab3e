package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// EpochMetrics reports epoch lifecycle measurements.
type EpochMetrics interface {

	// CurrentEpoch reports the current epoch counter.
	CurrentEpoch(epoch uint64)

	// TransitionStateChanged reports the orchestrator's transition state.
	TransitionStateChanged(state gravity.TransitionState)

	// EpochTransitionStarted is called each time a transition starts.
	EpochTransitionStarted()

	// EpochTransitionCompleted is called each time a transition completes,
	// with the observed spacing, in seconds, since the previous completed
	// transition.
	EpochTransitionCompleted(spacingSeconds uint64)

	// DKGStarted is called each time a DKG session is opened.
	DKGStarted()

	// DKGCompleted is called each time a DKG session finishes with a
	// transcript.
	DKGCompleted()

	// DKGCleared is called each time an in-progress session is discarded.
	DKGCleared()
}

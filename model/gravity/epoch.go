package gravity

// TransitionState tracks whether an epoch transition is underway. The
// orchestrator cycles between exactly two states and has no terminal state.
type TransitionState uint8

const (
	// TransitionStateIdle means no epoch transition is in progress.
	TransitionStateIdle TransitionState = iota
	// TransitionStateDKGInProgress means a transition has started and the
	// off-chain DKG protocol is running; the transition completes when the
	// consensus engine delivers the result.
	TransitionStateDKGInProgress
)

func (s TransitionState) String() string {
	switch s {
	case TransitionStateIdle:
		return "idle"
	case TransitionStateDKGInProgress:
		return "dkg-in-progress"
	default:
		return "unknown"
	}
}

// EpochStateSnapshot is the persisted form of the orchestrator's long-lived
// chain state, together with the clock value observed when the snapshot was
// taken. All fields survive process restarts.
type EpochStateSnapshot struct {
	CurrentEpoch             uint64
	TransitionState          TransitionState
	TransitionStartedAtEpoch uint64
	// LastEpochTransitionTime is the time, in seconds, at which the last
	// transition completed. Updated only on completion, never on start.
	LastEpochTransitionTime uint64
	ClockMicros             uint64
}

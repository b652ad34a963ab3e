package gravity

import (
	"golang.org/x/crypto/sha3"
)

// DKGSession captures the metadata of one run of the off-chain DKG
// protocol. A session is created when an epoch transition starts; the
// dealer set runs the protocol and the target set holds the resulting key
// shares for the next epoch. Transcript is nil until the session finishes.
type DKGSession struct {
	// DealerEpoch is the epoch during which the session was started.
	DealerEpoch uint64
	// Config is the randomness configuration snapshot taken at start time.
	Config RandomnessConfig
	// Dealers run the current epoch's DKG.
	Dealers ValidatorConsensusList
	// Targets will hold keys for the next epoch.
	Targets ValidatorConsensusList
	// StartTimeMicros is the chain clock value at session start.
	StartTimeMicros uint64
	// Transcript is the verifiable-randomness transcript produced by the
	// off-chain protocol. Only set on completed sessions.
	Transcript []byte
}

// Completed returns true once a transcript has been recorded.
func (s *DKGSession) Completed() bool {
	return s.Transcript != nil
}

// Copy returns a deep copy of the session, so that callers holding a query
// result cannot mutate service-owned state.
func (s *DKGSession) Copy() *DKGSession {
	dup := *s
	dup.Dealers = s.Dealers.Copy()
	dup.Targets = s.Targets.Copy()
	if s.Transcript != nil {
		dup.Transcript = make([]byte, len(s.Transcript))
		copy(dup.Transcript, s.Transcript)
	}
	return &dup
}

// TranscriptHash returns the SHA3-256 digest of a DKG transcript. Completion
// events are keyed by this hash.
func TranscriptHash(transcript []byte) Identifier {
	return Identifier(sha3.Sum256(transcript))
}

package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// Clock is the on-chain time source, measured in microseconds since the
// unix epoch. It is advanced exactly once per block by the block-driver
// identity and never decreases.
type Clock interface {

	// Advance moves the clock to newTimeMicros. For normal blocks
	// (proposer is a real identity) the new value must be strictly greater
	// than the current value. For null blocks (proposer is gravity.ZeroID)
	// the new value must equal the current value exactly, and no state
	// changes.
	// Error returns:
	//   - protocol.InvalidCallerError if the caller is not the block driver
	//   - protocol.InvalidBlockTimestampError if the monotonicity rules are
	//     violated
	Advance(caller gravity.Identifier, proposer gravity.Identifier, newTimeMicros uint64) error

	// NowMicros returns the current chain time in microseconds.
	NowMicros() uint64

	// NowSeconds returns the current chain time truncated to seconds.
	NowSeconds() uint64
}

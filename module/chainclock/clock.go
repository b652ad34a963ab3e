// Package chainclock implements the on-chain microsecond clock. The clock
// is advanced exactly once per block by the block driver and gates epoch
// transitions: the orchestrator compares the clock against the last
// transition time plus the configured epoch interval.
package chainclock

import (
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/state/protocol"
)

// ChainClock holds the chain time in microseconds. Writes are serialized
// per block by the execution model; reads are unrestricted and lock-free.
type ChainClock struct {
	log    zerolog.Logger
	auth   *protocol.Authorizer
	micros atomic.Uint64
}

var _ module.Clock = (*ChainClock)(nil)

// New creates a clock starting at the given genesis time.
func New(log zerolog.Logger, auth *protocol.Authorizer, genesisTimeMicros uint64) *ChainClock {
	c := &ChainClock{
		log:  log.With().Str("component", "chain_clock").Logger(),
		auth: auth,
	}
	c.micros.Store(genesisTimeMicros)
	return c
}

// Advance moves the clock forward for a normal block, or verifies exact
// equality for a null block (proposer == gravity.ZeroID). Null blocks exist
// to record failed-proposer information without advancing time.
func (c *ChainClock) Advance(caller gravity.Identifier, proposer gravity.Identifier, newTimeMicros uint64) error {
	if err := c.auth.Require(caller, gravity.RoleBlockDriver); err != nil {
		return err
	}

	now := c.micros.Load()
	if proposer.IsZero() {
		// null block: time must stand exactly still
		if newTimeMicros != now {
			return protocol.NewInvalidBlockTimestamp(
				"null block timestamp (%d) must equal current time (%d)", newTimeMicros, now)
		}
		return nil
	}

	if newTimeMicros <= now {
		return protocol.NewInvalidBlockTimestamp(
			"block timestamp (%d) must advance current time (%d)", newTimeMicros, now)
	}
	c.micros.Store(newTimeMicros)

	c.log.Debug().
		Uint64("time_micros", newTimeMicros).
		Str("proposer", proposer.String()).
		Msg("chain time advanced")

	return nil
}

func (c *ChainClock) NowMicros() uint64 {
	return c.micros.Load()
}

func (c *ChainClock) NowSeconds() uint64 {
	return c.micros.Load() / 1_000_000
}

package epochs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
)

// BlockPrologue is the thin per-block driver: it advances the chain clock,
// records proposer performance, and gives the orchestrator one chance to
// start an epoch transition. It holds the block-driver identity.
type BlockPrologue struct {
	log   zerolog.Logger
	me    module.Local
	clock module.Clock
	dir   module.ValidatorDirectory
	orch  *Orchestrator
}

// NewBlockPrologue creates the prologue driver. me must hold the
// block-driver role.
func NewBlockPrologue(log zerolog.Logger, me module.Local, clock module.Clock,
	dir module.ValidatorDirectory, orch *Orchestrator) *BlockPrologue {

	return &BlockPrologue{
		log:   log.With().Str("component", "block_prologue").Logger(),
		me:    me,
		clock: clock,
		dir:   dir,
		orch:  orch,
	}
}

// OnBlock processes a normal block: strictly advances the clock, credits
// the proposer, and attempts an epoch transition. Returns whether a
// transition started.
func (p *BlockPrologue) OnBlock(proposer gravity.Identifier, timestampMicros uint64) (bool, error) {
	if proposer.IsZero() {
		return false, fmt.Errorf("normal block requires a real proposer")
	}

	err := p.clock.Advance(p.me.Identity(), proposer, timestampMicros)
	if err != nil {
		return false, fmt.Errorf("could not advance chain clock: %w", err)
	}
	err = p.dir.OnProposal(p.me.Identity(), proposer, true)
	if err != nil {
		return false, fmt.Errorf("could not record proposal: %w", err)
	}

	return p.tryStart()
}

// OnNullBlock processes a system-generated null block, which records a
// failed proposer without advancing time. The clock is still consulted so
// that an unequal timestamp fails the block.
func (p *BlockPrologue) OnNullBlock(failedProposer gravity.Identifier, timestampMicros uint64) (bool, error) {
	err := p.clock.Advance(p.me.Identity(), gravity.ZeroID, timestampMicros)
	if err != nil {
		return false, fmt.Errorf("could not verify null block timestamp: %w", err)
	}
	if !failedProposer.IsZero() {
		err = p.dir.OnProposal(p.me.Identity(), failedProposer, false)
		if err != nil {
			return false, fmt.Errorf("could not record failed proposal: %w", err)
		}
	}

	return p.tryStart()
}

func (p *BlockPrologue) tryStart() (bool, error) {
	started, err := p.orch.TryStartTransition(p.me.Identity())
	if err != nil {
		return false, fmt.Errorf("could not attempt epoch transition: %w", err)
	}
	if started {
		p.log.Info().Uint64("epoch", p.orch.CurrentEpoch()).Msg("epoch transition triggered by prologue")
	}
	return started, nil
}

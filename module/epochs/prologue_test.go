package epochs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/module/epochs"
	"github.com/gravityledger/gravity-core/utils/unittest"
)

func newPrologue(t *testing.T) (*epochs.BlockPrologue, *harness) {
	h := newHarness(t, unittest.RandomnessConfigFixture(), nil)
	p := epochs.NewBlockPrologue(unittest.Logger(), module.NewLocal(h.ids.BlockDriver),
		h.clock, h.dir, h.orch)
	return p, h
}

func TestOnBlock(t *testing.T) {
	t.Run("advances clock and eventually starts a transition", func(t *testing.T) {
		p, h := newPrologue(t)

		started, err := p.OnBlock(h.proposer, (intervalSeconds-1)*1_000_000)
		require.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, uint64((intervalSeconds-1)*1_000_000), h.clock.NowMicros())

		started, err = p.OnBlock(h.proposer, intervalSeconds*1_000_000)
		require.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, gravity.TransitionStateDKGInProgress, h.orch.TransitionState())
	})

	t.Run("rejects zero proposer", func(t *testing.T) {
		p, _ := newPrologue(t)

		_, err := p.OnBlock(gravity.ZeroID, 1_000_000)
		require.Error(t, err)
	})

	t.Run("rejects non-increasing timestamp", func(t *testing.T) {
		p, h := newPrologue(t)

		_, err := p.OnBlock(h.proposer, 1_000_000)
		require.NoError(t, err)
		_, err = p.OnBlock(h.proposer, 1_000_000)
		require.Error(t, err)
	})
}

func TestOnNullBlock(t *testing.T) {
	t.Run("accepts the current timestamp without advancing", func(t *testing.T) {
		p, h := newPrologue(t)

		_, err := p.OnBlock(h.proposer, 1_000_000)
		require.NoError(t, err)

		started, err := p.OnNullBlock(h.proposer, 1_000_000)
		require.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, uint64(1_000_000), h.clock.NowMicros())
	})

	t.Run("rejects any other timestamp", func(t *testing.T) {
		p, h := newPrologue(t)

		_, err := p.OnBlock(h.proposer, 1_000_000)
		require.NoError(t, err)

		_, err = p.OnNullBlock(h.proposer, 2_000_000)
		require.Error(t, err)
		assert.Equal(t, uint64(1_000_000), h.clock.NowMicros())
	})

	t.Run("can trigger a transition once due", func(t *testing.T) {
		p, h := newPrologue(t)

		_, err := p.OnBlock(h.proposer, intervalSeconds*1_000_000)
		require.NoError(t, err)
		require.NoError(t, h.orch.FinishTransition(h.ids.ConsensusEngine, unittest.TranscriptFixture()))

		_, err = p.OnBlock(h.proposer, 2*intervalSeconds*1_000_000)
		require.NoError(t, err)

		started, err := p.OnNullBlock(gravity.ZeroID, 2*intervalSeconds*1_000_000)
		require.NoError(t, err)
		assert.False(t, started, "the transition already started on the previous block")
		assert.Equal(t, gravity.TransitionStateDKGInProgress, h.orch.TransitionState())
	})
}

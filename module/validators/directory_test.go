package validators_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module/configs"
	"github.com/gravityledger/gravity-core/module/validators"
	"github.com/gravityledger/gravity-core/state/protocol"
	"github.com/gravityledger/gravity-core/state/protocol/events"
	"github.com/gravityledger/gravity-core/utils/unittest"
)

type fixture struct {
	dir  *validators.Directory
	ids  unittest.RoleIdentities
	vals []validators.InitialValidator
}

func newFixture(t *testing.T, n int, tweak func(*gravity.ValidatorConfig, *gravity.StakingConfig)) *fixture {
	auth, ids := unittest.AuthorizerFixture(t)

	validatorConf := unittest.ValidatorConfigFixture()
	stakingConf := unittest.StakingConfigFixture()
	if tweak != nil {
		tweak(&validatorConf, &stakingConf)
	}

	validatorStore := configs.NewStore[gravity.ValidatorConfig](unittest.Logger(), auth, events.NewNoop(), nil)
	require.NoError(t, validatorStore.Initialize(ids.Genesis, validatorConf))
	stakingStore := configs.NewStore[gravity.StakingConfig](unittest.Logger(), auth, events.NewNoop(), nil)
	require.NoError(t, stakingStore.Initialize(ids.Genesis, stakingConf))

	vals := make([]validators.InitialValidator, 0, n)
	for i := 0; i < n; i++ {
		info := unittest.ValidatorConsensusInfoFixture()
		vals = append(vals, validators.InitialValidator{
			NodeID:       info.NodeID,
			ConsensusKey: info.ConsensusKey,
			Bond:         1000,
		})
	}

	dir, err := validators.NewDirectory(unittest.Logger(), auth, validatorStore, stakingStore, vals)
	require.NoError(t, err)

	return &fixture{dir: dir, ids: ids, vals: vals}
}

func TestDealerAndTargetSets(t *testing.T) {
	f := newFixture(t, 3, nil)

	dealers := f.dir.DealerSet()
	require.Len(t, dealers, 3)
	assert.Equal(t, uint64(3000), dealers.TotalVotingPower())

	// with no pending changes the target set equals the dealer set
	targets := f.dir.TargetSet()
	assert.ElementsMatch(t, dealers.NodeIDs(), targets.NodeIDs())
}

func TestRegister(t *testing.T) {
	t.Run("joins target set, not dealer set", func(t *testing.T) {
		f := newFixture(t, 3, nil)
		joiner := unittest.ValidatorConsensusInfoFixture()

		err := f.dir.Register(f.ids.Governance, joiner, 500)
		require.NoError(t, err)

		_, isDealer := f.dir.DealerSet().ByNodeID(joiner.NodeID)
		assert.False(t, isDealer)
		_, isTarget := f.dir.TargetSet().ByNodeID(joiner.NodeID)
		assert.True(t, isTarget)
	})

	t.Run("rejects bond outside window", func(t *testing.T) {
		f := newFixture(t, 3, nil)

		err := f.dir.Register(f.ids.Governance, unittest.ValidatorConsensusInfoFixture(), 1)
		require.Error(t, err)
	})

	t.Run("rejects when set changes disabled", func(t *testing.T) {
		f := newFixture(t, 3, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
			vc.AllowValidatorSetChange = false
		})

		err := f.dir.Register(f.ids.Governance, unittest.ValidatorConsensusInfoFixture(), 500)
		require.Error(t, err)
	})

	t.Run("rejects non-governance caller", func(t *testing.T) {
		f := newFixture(t, 3, nil)

		err := f.dir.Register(f.ids.BlockDriver, unittest.ValidatorConsensusInfoFixture(), 500)
		require.Error(t, err)
		assert.True(t, protocol.IsInvalidCallerError(err))
	})
}

// TestRewardOrdering verifies the contractual ordering inside OnNewEpoch: a
// validator leaving this epoch still receives its final reward, and a
// validator joining this epoch receives nothing.
func TestRewardOrdering(t *testing.T) {
	f := newFixture(t, 3, func(_ *gravity.ValidatorConfig, sc *gravity.StakingConfig) {
		sc.RewardRatePermille = 100 // 10% per epoch for full performance
	})

	leaver := f.vals[0].NodeID
	joiner := unittest.ValidatorConsensusInfoFixture()

	// the leaver proposed perfectly during the ending epoch
	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, leaver, true))
	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, leaver, true))

	require.NoError(t, f.dir.Register(f.ids.Governance, joiner, 500))
	require.NoError(t, f.dir.RequestLeave(f.ids.Governance, leaver))

	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	// the leaver is fully removed after collecting its final reward
	_, tracked := f.dir.Bond(leaver)
	assert.False(t, tracked, "leaver must not remain tracked as active or pending")
	_, stillActive := f.dir.DealerSet().ByNodeID(leaver)
	assert.False(t, stillActive)

	// joiner is active with exactly its registered bond, no reward
	joined, ok := f.dir.DealerSet().ByNodeID(joiner.NodeID)
	require.True(t, ok)
	assert.Equal(t, uint64(500), joined.VotingPower)
}

func TestRewardScaledByPerformance(t *testing.T) {
	f := newFixture(t, 2, func(_ *gravity.ValidatorConfig, sc *gravity.StakingConfig) {
		sc.RewardRatePermille = 100
	})

	perfect := f.vals[0].NodeID
	flaky := f.vals[1].NodeID

	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, perfect, true))
	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, perfect, true))
	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, flaky, true))
	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, flaky, false))

	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	perfectBond, ok := f.dir.Bond(perfect)
	require.True(t, ok)
	assert.Equal(t, uint64(1100), perfectBond) // full 10%

	flakyBond, ok := f.dir.Bond(flaky)
	require.True(t, ok)
	assert.Equal(t, uint64(1050), flakyBond) // half the rate
}

func TestVotingPowerRecompute(t *testing.T) {
	f := newFixture(t, 2, func(_ *gravity.ValidatorConfig, sc *gravity.StakingConfig) {
		sc.RewardRatePermille = 100
	})

	require.NoError(t, f.dir.OnProposal(f.ids.BlockDriver, f.vals[0].NodeID, true))
	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	assert.Equal(t, uint64(2100), f.dir.TotalVotingPower())
}

func TestMaxSetSizeEnforced(t *testing.T) {
	f := newFixture(t, 3, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
		vc.MaxValidatorSetSize = 3
		vc.VotingPowerIncreaseLimitPct = 50
	})

	joiner := unittest.ValidatorConsensusInfoFixture()
	require.NoError(t, f.dir.Register(f.ids.Governance, joiner, 500))
	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	// the set is full, so the joiner stays queued
	assert.Len(t, f.dir.DealerSet(), 3)
	_, active := f.dir.DealerSet().ByNodeID(joiner.NodeID)
	assert.False(t, active)

	// a slot opens up next epoch
	require.NoError(t, f.dir.RequestLeave(f.ids.Governance, f.vals[0].NodeID))
	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 1))
	_, active = f.dir.DealerSet().ByNodeID(joiner.NodeID)
	assert.True(t, active)
}

func TestVotingPowerIncreaseLimit(t *testing.T) {
	f := newFixture(t, 2, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
		vc.VotingPowerIncreaseLimitPct = 10 // admit at most 10% growth per epoch
		vc.MaximumBond = 1_000_000
	})

	// active power is 2000; a 500-bond joiner would be 25% growth
	bigJoiner := unittest.ValidatorConsensusInfoFixture()
	require.NoError(t, f.dir.Register(f.ids.Governance, bigJoiner, 500))
	// a 150-bond joiner fits inside the 10% allowance
	smallJoiner := unittest.ValidatorConsensusInfoFixture()
	require.NoError(t, f.dir.Register(f.ids.Governance, smallJoiner, 150))

	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	_, bigActive := f.dir.DealerSet().ByNodeID(bigJoiner.NodeID)
	assert.False(t, bigActive)
	_, smallActive := f.dir.DealerSet().ByNodeID(smallJoiner.NodeID)
	assert.True(t, smallActive)
}

func TestAutoEvict(t *testing.T) {
	t.Run("evicts below threshold", func(t *testing.T) {
		f := newFixture(t, 3, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
			vc.AutoEvictEnabled = true
			vc.AutoEvictThreshold = 600
		})

		// the underfunded joiner activates at the first boundary and is
		// evicted at the second
		small := unittest.ValidatorConsensusInfoFixture()
		require.NoError(t, f.dir.Register(f.ids.Governance, small, 500))
		require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))
		_, active := f.dir.DealerSet().ByNodeID(small.NodeID)
		require.True(t, active)

		require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 1))
		_, active = f.dir.DealerSet().ByNodeID(small.NodeID)
		assert.False(t, active)
		assert.Len(t, f.dir.DealerSet(), 3)
	})

	t.Run("refuses to empty the set", func(t *testing.T) {
		f := newFixture(t, 3, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
			vc.AutoEvictEnabled = true
			vc.AutoEvictThreshold = 5000 // everyone is below threshold
		})

		err := f.dir.OnNewEpoch(f.ids.Orchestrator, 0)
		require.Error(t, err, "evicting the whole set must be reported")

		// the refused change leaves the membership untouched and the
		// aggregate consistent with it
		assert.Len(t, f.dir.DealerSet(), 3)
		assert.Equal(t, uint64(3000), f.dir.TotalVotingPower())
	})
}

// TestVotingPowerIncreaseLimitLargeBonds pins the growth-limit comparison
// for bonds whose percentage arithmetic exceeds 64 bits.
func TestVotingPowerIncreaseLimitLargeBonds(t *testing.T) {
	f := newFixture(t, 3, func(vc *gravity.ValidatorConfig, _ *gravity.StakingConfig) {
		vc.MaximumBond = math.MaxUint64
		vc.VotingPowerIncreaseLimitPct = 50
	})

	// chosen so that bond*100 wraps uint64 to a tiny value
	const hugeBond = uint64(184_467_440_737_095_517)
	huge := unittest.ValidatorConsensusInfoFixture()
	require.NoError(t, f.dir.Register(f.ids.Governance, huge, hugeBond))

	require.NoError(t, f.dir.OnNewEpoch(f.ids.Orchestrator, 0))

	_, active := f.dir.DealerSet().ByNodeID(huge.NodeID)
	assert.False(t, active, "growth limit must hold when the arithmetic would overflow")
	assert.Equal(t, uint64(3000), f.dir.TotalVotingPower())
}

func TestOnNewEpochAuth(t *testing.T) {
	f := newFixture(t, 3, nil)

	err := f.dir.OnNewEpoch(f.ids.Governance, 0)
	require.Error(t, err)
	assert.True(t, protocol.IsInvalidCallerError(err))
}

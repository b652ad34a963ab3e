package gravity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
)

func TestEpochIntervalConfig(t *testing.T) {
	assert.Error(t, gravity.EpochIntervalConfig{}.Validate())
	assert.NoError(t, gravity.EpochIntervalConfig{IntervalMicros: 1}.Validate())

	// enforcement happens at second resolution, truncating
	conf := gravity.EpochIntervalConfig{IntervalMicros: 7_200_999_999}
	assert.Equal(t, uint64(7200), conf.IntervalSeconds())
}

func TestValidatorConfigValidate(t *testing.T) {
	valid := gravity.ValidatorConfig{
		MinimumBond:                 100,
		MaximumBond:                 1000,
		UnbondingDelayMicros:        1,
		VotingPowerIncreaseLimitPct: 50,
		MaxValidatorSetSize:         10,
	}
	require.NoError(t, valid.Validate())

	t.Run("bond window must be ordered", func(t *testing.T) {
		conf := valid
		conf.MinimumBond = 2000
		assert.Error(t, conf.Validate())
	})

	t.Run("growth limit capped at 50 percent", func(t *testing.T) {
		conf := valid
		conf.VotingPowerIncreaseLimitPct = 51
		assert.Error(t, conf.Validate())
		conf.VotingPowerIncreaseLimitPct = 0
		assert.Error(t, conf.Validate())
	})
}

func TestRandomnessConfigValidate(t *testing.T) {
	t.Run("off variant needs nothing", func(t *testing.T) {
		conf := gravity.RandomnessConfig{Variant: gravity.RandomnessOff}
		assert.NoError(t, conf.Validate())
		assert.False(t, conf.Enabled())
	})

	t.Run("v2 threshold ordering", func(t *testing.T) {
		conf := gravity.RandomnessConfig{
			Variant:                  gravity.RandomnessV2,
			SecrecyThreshold:         50,
			ReconstructionThreshold:  67,
			FastPathSecrecyThreshold: 67,
		}
		require.NoError(t, conf.Validate())
		assert.True(t, conf.Enabled())

		zeroSecrecy := conf
		zeroSecrecy.SecrecyThreshold = 0
		assert.Error(t, zeroSecrecy.Validate())

		lowRecon := conf
		lowRecon.ReconstructionThreshold = 49
		assert.Error(t, lowRecon.Validate())

		lowFastPath := conf
		lowFastPath.FastPathSecrecyThreshold = 49
		assert.Error(t, lowFastPath.Validate())
	})

	t.Run("unknown variant rejected", func(t *testing.T) {
		assert.Error(t, gravity.RandomnessConfig{Variant: 7}.Validate())
	})
}

func TestConsensusConfigValidate(t *testing.T) {
	assert.Error(t, gravity.ConsensusConfig{}.Validate())
	assert.NoError(t, gravity.ConsensusConfig{Blob: []byte{0x01}}.Validate())
}

package genesis_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/genesis"
	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/utils/unittest"
)

func configFixture() *genesis.Config {
	ids := unittest.RoleIdentitiesFixture()
	conf := &genesis.Config{
		ChainID: 42,
		Identities: genesis.Identities{
			Genesis:         ids.Genesis,
			BlockDriver:     ids.BlockDriver,
			ConsensusEngine: ids.ConsensusEngine,
			Governance:      ids.Governance,
			Orchestrator:    ids.Orchestrator,
		},
		EpochInterval: unittest.EpochIntervalConfigFixture(),
		Staking:       unittest.StakingConfigFixture(),
		Validator:     unittest.ValidatorConfigFixture(),
		Randomness:    unittest.RandomnessConfigFixture(),
		Consensus:     unittest.ConsensusConfigFixture(),
		Governance:    unittest.GovernanceConfigFixture(),
	}
	for i := 0; i < 3; i++ {
		info := unittest.ValidatorConsensusInfoFixture()
		conf.Validators = append(conf.Validators, genesis.Validator{
			NodeID:       info.NodeID,
			ConsensusKey: genesis.HexBytes(info.ConsensusKey),
			Bond:         1000,
		})
	}
	return conf
}

func TestParseConfig(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		conf := configFixture()
		data, err := json.Marshal(conf)
		require.NoError(t, err)

		parsed, err := genesis.ParseConfig(data)
		require.NoError(t, err)
		assert.Equal(t, conf, parsed)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := genesis.ParseConfig([]byte(`{"chainId": `))
		require.Error(t, err)
	})

	t.Run("rejects malformed hex key", func(t *testing.T) {
		conf := configFixture()
		data, err := json.Marshal(conf)
		require.NoError(t, err)
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &raw))

		var vals []map[string]interface{}
		require.NoError(t, json.Unmarshal(raw["validators"], &vals))
		vals[0]["consensusKey"] = "not-hex"
		raw["validators"], err = json.Marshal(vals)
		require.NoError(t, err)
		data, err = json.Marshal(raw)
		require.NoError(t, err)

		_, err = genesis.ParseConfig(data)
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		require.NoError(t, configFixture().Validate())
	})

	t.Run("rejects missing role identity", func(t *testing.T) {
		conf := configFixture()
		conf.Identities.Orchestrator = gravity.ZeroID
		require.Error(t, conf.Validate())
	})

	t.Run("rejects empty validator set", func(t *testing.T) {
		conf := configFixture()
		conf.Validators = nil
		require.Error(t, conf.Validate())
	})

	t.Run("rejects duplicate node IDs", func(t *testing.T) {
		conf := configFixture()
		conf.Validators[1].NodeID = conf.Validators[0].NodeID
		err := conf.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate validator node ID")
	})

	t.Run("rejects bond outside window", func(t *testing.T) {
		conf := configFixture()
		conf.Validators[0].Bond = conf.Validator.MaximumBond + 1
		err := conf.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside window")
	})

	t.Run("aggregates group failures", func(t *testing.T) {
		conf := configFixture()
		conf.EpochInterval.IntervalMicros = 0
		conf.Randomness.ReconstructionThreshold = conf.Randomness.SecrecyThreshold - 1
		err := conf.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "epoch_interval config")
		assert.Contains(t, err.Error(), "randomness config")
	})
}

package unittest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/state/protocol"
)

func IdentifierFixture() gravity.Identifier {
	var id gravity.Identifier
	_, _ = rand.Read(id[:])
	return id
}

func IdentifierListFixture(n int) []gravity.Identifier {
	ids := make([]gravity.Identifier, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, IdentifierFixture())
	}
	return ids
}

func ValidatorConsensusInfoFixture(opts ...func(*gravity.ValidatorConsensusInfo)) gravity.ValidatorConsensusInfo {
	key := make([]byte, 48)
	_, _ = rand.Read(key)
	info := gravity.ValidatorConsensusInfo{
		NodeID:       IdentifierFixture(),
		ConsensusKey: key,
		VotingPower:  uint64(rand.Intn(1000) + 1),
	}
	for _, opt := range opts {
		opt(&info)
	}
	return info
}

func ValidatorConsensusListFixture(n int) gravity.ValidatorConsensusList {
	list := make(gravity.ValidatorConsensusList, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, ValidatorConsensusInfoFixture())
	}
	return list
}

// RoleIdentities is the set of privileged identities used throughout tests.
type RoleIdentities struct {
	Genesis         gravity.Identifier
	BlockDriver     gravity.Identifier
	ConsensusEngine gravity.Identifier
	Governance      gravity.Identifier
	Orchestrator    gravity.Identifier
}

func RoleIdentitiesFixture() RoleIdentities {
	return RoleIdentities{
		Genesis:         IdentifierFixture(),
		BlockDriver:     IdentifierFixture(),
		ConsensusEngine: IdentifierFixture(),
		Governance:      IdentifierFixture(),
		Orchestrator:    IdentifierFixture(),
	}
}

// AuthorizerFixture builds an authorizer over freshly generated role
// identities.
func AuthorizerFixture(t testing.TB) (*protocol.Authorizer, RoleIdentities) {
	ids := RoleIdentitiesFixture()
	auth, err := protocol.NewAuthorizer(map[gravity.Role]gravity.Identifier{
		gravity.RoleGenesis:         ids.Genesis,
		gravity.RoleBlockDriver:     ids.BlockDriver,
		gravity.RoleConsensusEngine: ids.ConsensusEngine,
		gravity.RoleGovernance:      ids.Governance,
		gravity.RoleOrchestrator:    ids.Orchestrator,
	})
	require.NoError(t, err)
	return auth, ids
}

func EpochIntervalConfigFixture() gravity.EpochIntervalConfig {
	return gravity.EpochIntervalConfig{IntervalMicros: 7200 * 1_000_000}
}

func StakingConfigFixture() gravity.StakingConfig {
	return gravity.StakingConfig{
		MinimumStake:         100,
		LockupDurationMicros: 86400 * 1_000_000,
		UnbondingDelayMicros: 86400 * 1_000_000,
		MinimumProposalStake: 100,
		RewardRatePermille:   10,
	}
}

func ValidatorConfigFixture() gravity.ValidatorConfig {
	return gravity.ValidatorConfig{
		MinimumBond:                 100,
		MaximumBond:                 1_000_000,
		UnbondingDelayMicros:        86400 * 1_000_000,
		AllowValidatorSetChange:     true,
		VotingPowerIncreaseLimitPct: 50,
		MaxValidatorSetSize:         100,
		AutoEvictEnabled:            false,
		AutoEvictThreshold:          0,
	}
}

func RandomnessConfigFixture() gravity.RandomnessConfig {
	return gravity.RandomnessConfig{
		Variant:                  gravity.RandomnessV2,
		SecrecyThreshold:         50,
		ReconstructionThreshold:  67,
		FastPathSecrecyThreshold: 67,
	}
}

func ConsensusConfigFixture() gravity.ConsensusConfig {
	blob := make([]byte, 64)
	_, _ = rand.Read(blob)
	return gravity.ConsensusConfig{Blob: blob}
}

func GovernanceConfigFixture() gravity.GovernanceConfig {
	return gravity.GovernanceConfig{
		MinVotingThreshold:    1000,
		RequiredProposerStake: 100,
		VotingDurationMicros:  86400 * 1_000_000,
		ExecutionDelayMicros:  3600 * 1_000_000,
		ExecutionWindowMicros: 86400 * 1_000_000,
	}
}

func TranscriptFixture() []byte {
	transcript := make([]byte, 96)
	_, _ = rand.Read(transcript)
	return transcript
}

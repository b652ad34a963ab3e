package gravity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ConfigGroup names one governable parameter group. Each group is backed by
// its own config store instance.
type ConfigGroup string

const (
	ConfigGroupEpochInterval ConfigGroup = "epoch_interval"
	ConfigGroupStaking       ConfigGroup = "staking"
	ConfigGroupValidator     ConfigGroup = "validator"
	ConfigGroupRandomness    ConfigGroup = "randomness"
	ConfigGroupConsensus     ConfigGroup = "consensus"
	ConfigGroupGovernance    ConfigGroup = "governance"
)

// GovernableConfig is implemented by every parameter group that follows the
// current/pending/commit pattern. Validate must hold for both genesis
// initialization and governance updates.
type GovernableConfig interface {
	Group() ConfigGroup
	Validate() error
}

// checker validates the struct tags on config groups. Cross-field rules
// that tags cannot express live in the respective Validate methods.
var checker = validator.New()

// EpochIntervalConfig sets the minimum spacing between epoch transition
// completions.
type EpochIntervalConfig struct {
	IntervalMicros uint64 `json:"epochIntervalMicros" validate:"gt=0"`
}

func (c EpochIntervalConfig) Group() ConfigGroup { return ConfigGroupEpochInterval }

func (c EpochIntervalConfig) Validate() error {
	return checker.Struct(c)
}

// IntervalSeconds returns the interval truncated to whole seconds, the
// resolution at which transition spacing is enforced.
func (c EpochIntervalConfig) IntervalSeconds() uint64 {
	return c.IntervalMicros / 1_000_000
}

// StakingConfig bounds stake lifecycle timing and proposal eligibility.
type StakingConfig struct {
	MinimumStake         uint64 `json:"minimumStake"`
	LockupDurationMicros uint64 `json:"lockupDurationMicros" validate:"gt=0"`
	UnbondingDelayMicros uint64 `json:"unbondingDelayMicros" validate:"gt=0"`
	MinimumProposalStake uint64 `json:"minimumProposalStake"`
	// RewardRatePermille is the per-epoch reward rate applied to a
	// validator's bond, in thousandths, scaled by proposal performance.
	RewardRatePermille uint64 `json:"rewardRatePermille" validate:"lte=1000"`
}

func (c StakingConfig) Group() ConfigGroup { return ConfigGroupStaking }

func (c StakingConfig) Validate() error {
	return checker.Struct(c)
}

// ValidatorConfig bounds the composition of the validator set.
type ValidatorConfig struct {
	MinimumBond                 uint64 `json:"minimumBond"`
	MaximumBond                 uint64 `json:"maximumBond"`
	UnbondingDelayMicros        uint64 `json:"unbondingDelayMicros" validate:"gt=0"`
	AllowValidatorSetChange     bool   `json:"allowValidatorSetChange"`
	VotingPowerIncreaseLimitPct uint64 `json:"votingPowerIncreaseLimitPct" validate:"gt=0,lte=50"`
	MaxValidatorSetSize         uint64 `json:"maxValidatorSetSize" validate:"gt=0"`
	AutoEvictEnabled            bool   `json:"autoEvictEnabled"`
	AutoEvictThreshold          uint64 `json:"autoEvictThreshold"`
}

func (c ValidatorConfig) Group() ConfigGroup { return ConfigGroupValidator }

func (c ValidatorConfig) Validate() error {
	if err := checker.Struct(c); err != nil {
		return err
	}
	if c.MinimumBond > c.MaximumBond {
		return fmt.Errorf("minimum bond (%d) exceeds maximum bond (%d)", c.MinimumBond, c.MaximumBond)
	}
	return nil
}

// RandomnessVariant selects the verifiable-randomness mode.
type RandomnessVariant uint8

const (
	// RandomnessOff disables verifiable randomness. Epoch transitions still
	// run a trivial DKG session so the transition flow is uniform.
	RandomnessOff RandomnessVariant = 0
	// RandomnessV2 enables the weighted DKG with fast-path support.
	RandomnessV2 RandomnessVariant = 1
)

func (v RandomnessVariant) String() string {
	switch v {
	case RandomnessOff:
		return "off"
	case RandomnessV2:
		return "v2"
	default:
		return "unknown"
	}
}

// RandomnessConfig parametrizes the DKG thresholds.
type RandomnessConfig struct {
	Variant                  RandomnessVariant `json:"variant"`
	SecrecyThreshold         uint64            `json:"secrecyThreshold"`
	ReconstructionThreshold  uint64            `json:"reconstructionThreshold"`
	FastPathSecrecyThreshold uint64            `json:"fastPathSecrecyThreshold"`
}

func (c RandomnessConfig) Group() ConfigGroup { return ConfigGroupRandomness }

// Enabled returns true when the DKG protocol produces real key material.
func (c RandomnessConfig) Enabled() bool {
	return c.Variant != RandomnessOff
}

func (c RandomnessConfig) Validate() error {
	switch c.Variant {
	case RandomnessOff:
		return nil
	case RandomnessV2:
		if c.SecrecyThreshold == 0 {
			return fmt.Errorf("secrecy threshold must be positive")
		}
		if c.ReconstructionThreshold < c.SecrecyThreshold {
			return fmt.Errorf("reconstruction threshold (%d) below secrecy threshold (%d)",
				c.ReconstructionThreshold, c.SecrecyThreshold)
		}
		if c.FastPathSecrecyThreshold < c.SecrecyThreshold {
			return fmt.Errorf("fast path secrecy threshold (%d) below secrecy threshold (%d)",
				c.FastPathSecrecyThreshold, c.SecrecyThreshold)
		}
		return nil
	default:
		return fmt.Errorf("unknown randomness variant (%d)", c.Variant)
	}
}

// ConsensusConfig carries the consensus engine's parameter blob. The core
// treats it as opaque bytes; only the engine interprets it.
type ConsensusConfig struct {
	Blob []byte `json:"blob" validate:"required,min=1"`
}

func (c ConsensusConfig) Group() ConfigGroup { return ConfigGroupConsensus }

func (c ConsensusConfig) Validate() error {
	return checker.Struct(c)
}

// GovernanceConfig bounds the on-chain governance process.
type GovernanceConfig struct {
	MinVotingThreshold    uint64 `json:"minVotingThreshold" validate:"gt=0"`
	RequiredProposerStake uint64 `json:"requiredProposerStake"`
	VotingDurationMicros  uint64 `json:"votingDurationMicros" validate:"gt=0"`
	ExecutionDelayMicros  uint64 `json:"executionDelayMicros"`
	ExecutionWindowMicros uint64 `json:"executionWindowMicros" validate:"gt=0"`
}

func (c GovernanceConfig) Group() ConfigGroup { return ConfigGroupGovernance }

func (c GovernanceConfig) Validate() error {
	return checker.Struct(c)
}

// Package genesis defines the chain genesis configuration and the one-time
// bootstrap that wires and initializes the epoch core from it.
package genesis

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"

	"github.com/gravityledger/gravity-core/model/gravity"
)

// Identities assigns the privileged roles. All values are 64-character hex
// identifiers.
type Identities struct {
	Genesis         gravity.Identifier `json:"genesis" validate:"required"`
	BlockDriver     gravity.Identifier `json:"blockDriver" validate:"required"`
	ConsensusEngine gravity.Identifier `json:"consensusEngine" validate:"required"`
	Governance      gravity.Identifier `json:"governance" validate:"required"`
	Orchestrator    gravity.Identifier `json:"orchestrator" validate:"required"`
}

// Validator describes one genesis validator.
type Validator struct {
	NodeID       gravity.Identifier `json:"nodeId" validate:"required"`
	ConsensusKey HexBytes           `json:"consensusKey" validate:"required"`
	Bond         uint64             `json:"bond" validate:"gt=0"`
}

// Config is the genesis file format. Every governable parameter group gets
// its initial value here; the epoch core refuses to run uninitialized.
type Config struct {
	ChainID           uint64                      `json:"chainId" validate:"gt=0"`
	GenesisTimeMicros uint64                      `json:"genesisTimeMicros"`
	Identities        Identities                  `json:"identities"`
	EpochInterval     gravity.EpochIntervalConfig `json:"epochInterval"`
	Staking           gravity.StakingConfig       `json:"stakingConfig"`
	Validator         gravity.ValidatorConfig     `json:"validatorConfig"`
	Randomness        gravity.RandomnessConfig    `json:"randomnessConfig"`
	Consensus         gravity.ConsensusConfig     `json:"consensusConfig"`
	Governance        gravity.GovernanceConfig    `json:"governanceConfig"`
	Validators        []Validator                 `json:"validators" validate:"min=1,dive"`
}

// HexBytes is a byte slice that marshals to/from a hex string in JSON.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%x", []byte(h)))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded := make([]byte, len(s)/2)
	_, err := fmt.Sscanf(s, "%x", &decoded)
	if err != nil {
		return fmt.Errorf("malformed hex string: %w", err)
	}
	*h = decoded
	return nil
}

var checker = validator.New()

// ParseConfig decodes and validates a genesis config file.
func ParseConfig(data []byte) (*Config, error) {
	var conf Config
	err := json.Unmarshal(data, &conf)
	if err != nil {
		return nil, fmt.Errorf("could not decode genesis config: %w", err)
	}
	err = conf.Validate()
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks the structural rules and every parameter group's own
// invariants, aggregating all failures so operators can fix a genesis file
// in one pass.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := checker.Struct(c); err != nil {
		result = multierror.Append(result, err)
	}
	for _, group := range []gravity.GovernableConfig{
		c.EpochInterval, c.Staking, c.Validator, c.Randomness, c.Consensus, c.Governance,
	} {
		if err := group.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s config: %w", group.Group(), err))
		}
	}

	seen := make(map[gravity.Identifier]struct{}, len(c.Validators))
	for _, v := range c.Validators {
		if _, dup := seen[v.NodeID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate validator node ID (%s)", v.NodeID))
		}
		seen[v.NodeID] = struct{}{}
		if v.Bond < c.Validator.MinimumBond || v.Bond > c.Validator.MaximumBond {
			result = multierror.Append(result, fmt.Errorf(
				"validator %s bond (%d) outside window [%d, %d]",
				v.NodeID, v.Bond, c.Validator.MinimumBond, c.Validator.MaximumBond))
		}
	}

	return result.ErrorOrNil()
}

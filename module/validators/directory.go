// Package validators implements the validator directory: the registry of
// active, pending-active and pending-inactive validators, their per-epoch
// proposal performance, and the reconfiguration bookkeeping that runs at
// every epoch boundary.
//
// The ordering inside OnNewEpoch is contractual: rewards are distributed to
// the set that was active during the ending epoch BEFORE any membership
// change is applied. Validators leaving this epoch keep their final reward;
// validators joining receive nothing for an epoch they did not serve.
package validators

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/state/protocol"
)

// record tracks one validator's bond and per-epoch performance.
type record struct {
	info     gravity.ValidatorConsensusInfo
	bond     uint64
	proposed uint64
	missed   uint64
}

// Directory implements module.ValidatorDirectory.
type Directory struct {
	log  zerolog.Logger
	auth *protocol.Authorizer

	// config stores are read-only from the directory's perspective
	validatorConf interface{ Current() gravity.ValidatorConfig }
	stakingConf   interface{ Current() gravity.StakingConfig }

	mu               sync.RWMutex
	active           []*record
	pendingActive    []*record
	pendingInactive  map[gravity.Identifier]struct{}
	totalVotingPower uint64
}

var _ module.ValidatorDirectory = (*Directory)(nil)

// NewDirectory creates a directory seeded with the given initial active
// set. Bonds double as voting power.
func NewDirectory(log zerolog.Logger, auth *protocol.Authorizer,
	validatorConf interface{ Current() gravity.ValidatorConfig },
	stakingConf interface{ Current() gravity.StakingConfig },
	initial []InitialValidator) (*Directory, error) {

	d := &Directory{
		log:             log.With().Str("component", "validator_directory").Logger(),
		auth:            auth,
		validatorConf:   validatorConf,
		stakingConf:     stakingConf,
		pendingInactive: make(map[gravity.Identifier]struct{}),
	}

	for _, v := range initial {
		if v.NodeID.IsZero() {
			return nil, fmt.Errorf("initial validator has zero node ID")
		}
		if _, ok := d.lookupLocked(v.NodeID); ok {
			return nil, fmt.Errorf("duplicate initial validator (%s)", v.NodeID)
		}
		d.active = append(d.active, &record{
			info: gravity.ValidatorConsensusInfo{
				NodeID:       v.NodeID,
				ConsensusKey: v.ConsensusKey,
				VotingPower:  v.Bond,
			},
			bond: v.Bond,
		})
	}
	d.recomputeVotingPowerLocked()

	return d, nil
}

// InitialValidator describes a genesis validator.
type InitialValidator struct {
	NodeID       gravity.Identifier
	ConsensusKey []byte
	Bond         uint64
}

// Register queues a validator for activation at the next epoch boundary.
// The bond must be inside the configured bond window.
func (d *Directory) Register(caller gravity.Identifier, info gravity.ValidatorConsensusInfo, bond uint64) error {
	if err := d.auth.Require(caller, gravity.RoleGovernance); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	conf := d.validatorConf.Current()
	if !conf.AllowValidatorSetChange {
		return fmt.Errorf("validator set changes are disabled")
	}
	if bond < conf.MinimumBond || bond > conf.MaximumBond {
		return fmt.Errorf("bond (%d) outside allowed window [%d, %d]", bond, conf.MinimumBond, conf.MaximumBond)
	}
	if _, ok := d.lookupLocked(info.NodeID); ok {
		return fmt.Errorf("validator already registered (%s)", info.NodeID)
	}

	info.VotingPower = bond
	d.pendingActive = append(d.pendingActive, &record{info: info, bond: bond})

	d.log.Info().Str("node_id", info.NodeID.String()).Uint64("bond", bond).Msg("validator queued for activation")
	return nil
}

// RequestLeave queues an active validator for deactivation at the next
// epoch boundary.
func (d *Directory) RequestLeave(caller gravity.Identifier, nodeID gravity.Identifier) error {
	if err := d.auth.Require(caller, gravity.RoleGovernance); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.validatorConf.Current().AllowValidatorSetChange {
		return fmt.Errorf("validator set changes are disabled")
	}
	for _, rec := range d.active {
		if rec.info.NodeID == nodeID {
			d.pendingInactive[nodeID] = struct{}{}
			d.log.Info().Str("node_id", nodeID.String()).Msg("validator queued for deactivation")
			return nil
		}
	}
	return fmt.Errorf("validator not active (%s)", nodeID)
}

// OnProposal records one block proposal outcome for the ending epoch's
// performance accounting.
func (d *Directory) OnProposal(caller gravity.Identifier, proposer gravity.Identifier, success bool) error {
	if err := d.auth.Require(caller, gravity.RoleBlockDriver); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, rec := range d.active {
		if rec.info.NodeID == proposer {
			if success {
				rec.proposed++
			} else {
				rec.missed++
			}
			return nil
		}
	}
	// proposals by non-active identities are ignored, not errors: the
	// proposer may have been deactivated between scheduling and execution
	return nil
}

// DealerSet returns the currently active validator set.
func (d *Directory) DealerSet() gravity.ValidatorConsensusList {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make(gravity.ValidatorConsensusList, 0, len(d.active))
	for _, rec := range d.active {
		list = append(list, rec.info)
	}
	return list.Copy()
}

// TargetSet returns the set that will be active next epoch: the current set
// minus pending-inactive, plus as many pending-active validators as the
// configured set size allows.
func (d *Directory) TargetSet() gravity.ValidatorConsensusList {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conf := d.validatorConf.Current()
	list := make(gravity.ValidatorConsensusList, 0, len(d.active)+len(d.pendingActive))
	for _, rec := range d.active {
		if _, leaving := d.pendingInactive[rec.info.NodeID]; leaving {
			continue
		}
		list = append(list, rec.info)
	}
	for _, rec := range d.pendingActive {
		if uint64(len(list)) >= conf.MaxValidatorSetSize {
			break
		}
		list = append(list, rec.info)
	}
	return list.Copy()
}

// TotalVotingPower returns the aggregate voting power of the active set.
func (d *Directory) TotalVotingPower() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totalVotingPower
}

// Bond returns the current bond of a validator in any state.
func (d *Directory) Bond(nodeID gravity.Identifier) (uint64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.lookupLocked(nodeID)
	if !ok {
		return 0, false
	}
	return rec.bond, true
}

// OnNewEpoch performs the epoch-boundary reconfiguration, in contractual
// order: rewards first, then set mutation, then voting power recompute.
// Called by the orchestrator before the epoch counter increments.
func (d *Directory) OnNewEpoch(caller gravity.Identifier, endingEpoch uint64) error {
	if err := d.auth.Require(caller, gravity.RoleOrchestrator); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// (1) rewards for the set that served the ending epoch
	d.distributeRewardsLocked()

	// (2) membership changes; a refused change keeps the current set
	membershipErr := d.applyMembershipChangesLocked()

	// (3) aggregate voting power. Recomputed even when membership changes
	// were refused, so the aggregate reflects the distributed rewards.
	d.recomputeVotingPowerLocked()

	// performance counters belong to the ending epoch only
	for _, rec := range d.active {
		rec.proposed = 0
		rec.missed = 0
	}

	if membershipErr != nil {
		return fmt.Errorf("could not apply membership changes for epoch %d: %w", endingEpoch, membershipErr)
	}

	d.log.Info().
		Uint64("ending_epoch", endingEpoch).
		Int("active", len(d.active)).
		Uint64("total_voting_power", d.totalVotingPower).
		Msg("validator set reconfigured")

	return nil
}

// distributeRewardsLocked credits each active validator with its per-epoch
// reward: bond * rate, scaled by the share of its proposals that succeeded.
// Validators that never proposed keep their bond unchanged.
func (d *Directory) distributeRewardsLocked() {
	rate := d.stakingConf.Current().RewardRatePermille
	if rate == 0 {
		return
	}
	maxBond := d.validatorConf.Current().MaximumBond

	for _, rec := range d.active {
		total := rec.proposed + rec.missed
		if total == 0 {
			continue
		}
		reward := rec.bond / 1000 * rate * rec.proposed / total
		rec.bond += reward
		if rec.bond > maxBond {
			rec.bond = maxBond
		}
		rec.info.VotingPower = rec.bond
	}
}

// applyMembershipChangesLocked activates pending-active validators and
// deactivates pending-inactive ones, honoring the configured set size and
// the voting-power increase limit. Must run after reward distribution.
// The new membership is computed in full before anything is applied: a
// refused change leaves the directory in its pre-call state.
func (d *Directory) applyMembershipChangesLocked() error {
	conf := d.validatorConf.Current()

	// deactivate leavers and auto-evicted validators first, freeing room
	remaining := make([]*record, 0, len(d.active))
	evicted := make([]*record, 0)
	for _, rec := range d.active {
		if _, leaving := d.pendingInactive[rec.info.NodeID]; leaving {
			continue
		}
		if conf.AutoEvictEnabled && rec.bond < conf.AutoEvictThreshold {
			evicted = append(evicted, rec)
			continue
		}
		remaining = append(remaining, rec)
	}

	// admit joiners within the set size and voting power growth limits
	var currentPower uint64
	for _, rec := range remaining {
		currentPower += rec.bond
	}
	var admittedPower uint64
	joined := make([]*record, 0, len(d.pendingActive))
	deferred := make([]*record, 0, len(d.pendingActive))
	for _, rec := range d.pendingActive {
		overSize := uint64(len(remaining)+len(joined)) >= conf.MaxValidatorSetSize
		overGrowth := currentPower > 0 &&
			exceedsGrowthLimit(admittedPower, rec.bond, currentPower, conf.VotingPowerIncreaseLimitPct)
		if overSize || overGrowth {
			// stays queued for a later epoch
			deferred = append(deferred, rec)
			continue
		}
		admittedPower += rec.bond
		joined = append(joined, rec)
	}

	if len(remaining)+len(joined) == 0 {
		return fmt.Errorf("validator set cannot be empty")
	}

	for _, rec := range evicted {
		d.log.Info().Str("node_id", rec.info.NodeID.String()).Uint64("bond", rec.bond).Msg("validator auto-evicted")
	}
	d.active = append(remaining, joined...)
	d.pendingInactive = make(map[gravity.Identifier]struct{})
	d.pendingActive = deferred
	return nil
}

// exceedsGrowthLimit reports whether admitting bond on top of the power
// admitted so far would push this epoch's growth past limitPct percent of
// the remaining set's power. Both products are taken at 128-bit width, so
// the comparison holds for bonds anywhere in the uint64 range.
func exceedsGrowthLimit(admittedPower, bond, currentPower, limitPct uint64) bool {
	growthHi, growthLo := bits.Mul64(admittedPower+bond, 100)
	limitHi, limitLo := bits.Mul64(currentPower, limitPct)
	if growthHi != limitHi {
		return growthHi > limitHi
	}
	return growthLo > limitLo
}

func (d *Directory) recomputeVotingPowerLocked() {
	var total uint64
	for _, rec := range d.active {
		rec.info.VotingPower = rec.bond
		total += rec.bond
	}
	d.totalVotingPower = total
}

func (d *Directory) lookupLocked(nodeID gravity.Identifier) (*record, bool) {
	for _, rec := range d.active {
		if rec.info.NodeID == nodeID {
			return rec, true
		}
	}
	for _, rec := range d.pendingActive {
		if rec.info.NodeID == nodeID {
			return rec, true
		}
	}
	return nil, false
}

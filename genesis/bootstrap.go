package genesis

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
	"github.com/gravityledger/gravity-core/module/chainclock"
	"github.com/gravityledger/gravity-core/module/configs"
	"github.com/gravityledger/gravity-core/module/dkg"
	"github.com/gravityledger/gravity-core/module/epochs"
	"github.com/gravityledger/gravity-core/module/validators"
	"github.com/gravityledger/gravity-core/state/protocol"
	"github.com/gravityledger/gravity-core/storage"
	bstorage "github.com/gravityledger/gravity-core/storage/badger"
)

// System is the fully wired epoch core.
type System struct {
	Authorizer   *protocol.Authorizer
	Clock        *chainclock.ChainClock
	DKG          *dkg.Service
	Directory    *validators.Directory
	Orchestrator *epochs.Orchestrator
	Prologue     *epochs.BlockPrologue

	EpochInterval *configs.Store[gravity.EpochIntervalConfig]
	Staking       *configs.Store[gravity.StakingConfig]
	Validator     *configs.Store[gravity.ValidatorConfig]
	Randomness    *configs.Store[gravity.RandomnessConfig]
	Consensus     *configs.Store[gravity.ConsensusConfig]
	Governance    *configs.Store[gravity.GovernanceConfig]
}

// Bootstrap wires the epoch core from a genesis config. Passing a nil db
// keeps all state in memory; with a db, previously persisted state takes
// precedence over the genesis values, so the same call path serves both
// genesis and restart.
func Bootstrap(log zerolog.Logger, conf *Config, db *badger.DB,
	consumer protocol.Consumer, metrics module.EpochMetrics) (*System, error) {

	err := conf.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid genesis config: %w", err)
	}

	auth, err := protocol.NewAuthorizer(map[gravity.Role]gravity.Identifier{
		gravity.RoleGenesis:         conf.Identities.Genesis,
		gravity.RoleBlockDriver:     conf.Identities.BlockDriver,
		gravity.RoleConsensusEngine: conf.Identities.ConsensusEngine,
		gravity.RoleGovernance:      conf.Identities.Governance,
		gravity.RoleOrchestrator:    conf.Identities.Orchestrator,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build authorizer: %w", err)
	}

	var epochStates storage.EpochStates
	var configsDB storage.Configs
	if db != nil {
		epochStates = bstorage.NewEpochStates(db)
		configsDB = bstorage.NewConfigs(db)
	}

	// a persisted snapshot carries the clock value across restarts
	genesisTime := conf.GenesisTimeMicros
	if epochStates != nil {
		snapshot, err := epochStates.Retrieve()
		if err == nil {
			genesisTime = snapshot.ClockMicros
		} else if !storage.IsNotFound(err) {
			return nil, fmt.Errorf("could not load epoch state snapshot: %w", err)
		}
	}
	clock := chainclock.New(log, auth, genesisTime)

	sys := &System{
		Authorizer:    auth,
		Clock:         clock,
		EpochInterval: configs.NewStore[gravity.EpochIntervalConfig](log, auth, consumer, configsDB),
		Staking:       configs.NewStore[gravity.StakingConfig](log, auth, consumer, configsDB),
		Validator:     configs.NewStore[gravity.ValidatorConfig](log, auth, consumer, configsDB),
		Randomness:    configs.NewStore[gravity.RandomnessConfig](log, auth, consumer, configsDB),
		Consensus:     configs.NewStore[gravity.ConsensusConfig](log, auth, consumer, configsDB),
		Governance:    configs.NewStore[gravity.GovernanceConfig](log, auth, consumer, configsDB),
	}

	genesisID := conf.Identities.Genesis
	err = initStore(sys.EpochInterval, genesisID, conf.EpochInterval)
	if err != nil {
		return nil, err
	}
	err = initStore(sys.Staking, genesisID, conf.Staking)
	if err != nil {
		return nil, err
	}
	err = initStore(sys.Validator, genesisID, conf.Validator)
	if err != nil {
		return nil, err
	}
	err = initStore(sys.Randomness, genesisID, conf.Randomness)
	if err != nil {
		return nil, err
	}
	err = initStore(sys.Consensus, genesisID, conf.Consensus)
	if err != nil {
		return nil, err
	}
	err = initStore(sys.Governance, genesisID, conf.Governance)
	if err != nil {
		return nil, err
	}

	initial := make([]validators.InitialValidator, 0, len(conf.Validators))
	for _, v := range conf.Validators {
		initial = append(initial, validators.InitialValidator{
			NodeID:       v.NodeID,
			ConsensusKey: v.ConsensusKey,
			Bond:         v.Bond,
		})
	}
	sys.Directory, err = validators.NewDirectory(log, auth, sys.Validator, sys.Staking, initial)
	if err != nil {
		return nil, fmt.Errorf("could not build validator directory: %w", err)
	}

	sys.DKG = dkg.NewService(log, auth, clock, consumer, metrics)

	orchestratorID := module.NewLocal(conf.Identities.Orchestrator)
	sys.Orchestrator, err = epochs.NewOrchestrator(
		log,
		orchestratorID,
		auth,
		clock,
		sys.DKG,
		sys.Directory,
		sys.EpochInterval,
		sys.Randomness,
		[]module.PendingCommitter{sys.Staking, sys.Validator, sys.Consensus, sys.Governance},
		nil,
		consumer,
		metrics,
		epochStates,
	)
	if err != nil {
		return nil, fmt.Errorf("could not build orchestrator: %w", err)
	}

	driverID := module.NewLocal(conf.Identities.BlockDriver)
	sys.Prologue = epochs.NewBlockPrologue(log, driverID, clock, sys.Directory, sys.Orchestrator)

	log.Info().
		Uint64("chain_id", conf.ChainID).
		Int("validators", len(conf.Validators)).
		Uint64("epoch_interval_micros", conf.EpochInterval.IntervalMicros).
		Msg("epoch core bootstrapped")

	return sys, nil
}

// initStore restores a persisted store or, on first boot, initializes it
// with the genesis value.
func initStore[T gravity.GovernableConfig](store *configs.Store[T], genesisID gravity.Identifier, value T) error {
	err := store.Restore()
	if err != nil {
		return err
	}
	err = store.Initialize(genesisID, value)
	if err != nil && !errors.Is(err, protocol.ErrAlreadyInitialized) {
		return fmt.Errorf("could not initialize %s config: %w", value.Group(), err)
	}
	return nil
}

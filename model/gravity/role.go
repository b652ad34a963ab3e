package gravity

// Role captures the privileged caller identities recognized by the epoch
// core. Every mutating entry point is bound to exactly one role; the
// binding between roles and identifiers is fixed at genesis.
type Role uint8

const (
	// RoleGenesis may initialize contracts exactly once, at chain genesis.
	RoleGenesis Role = iota + 1
	// RoleBlockDriver advances the clock and attempts epoch transitions,
	// once per block.
	RoleBlockDriver
	// RoleConsensusEngine finishes epoch transitions after the off-chain
	// DKG protocol completes.
	RoleConsensusEngine
	// RoleGovernance stages pending configuration values.
	RoleGovernance
	// RoleOrchestrator is held by the epoch orchestrator itself; it is the
	// only role permitted to mutate the DKG service and commit pending
	// configs.
	RoleOrchestrator
)

func (r Role) String() string {
	switch r {
	case RoleGenesis:
		return "genesis"
	case RoleBlockDriver:
		return "block-driver"
	case RoleConsensusEngine:
		return "consensus-engine"
	case RoleGovernance:
		return "governance"
	case RoleOrchestrator:
		return "orchestrator"
	default:
		return "unknown"
	}
}

// Roles returns the complete list of roles recognized by the core.
func Roles() []Role {
	return []Role{RoleGenesis, RoleBlockDriver, RoleConsensusEngine, RoleGovernance, RoleOrchestrator}
}

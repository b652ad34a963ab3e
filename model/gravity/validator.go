package gravity

// ValidatorConsensusInfo holds the consensus-facing view of a validator:
// its node identifier, the public key it signs consensus messages with,
// and its voting power (derived from its bond).
type ValidatorConsensusInfo struct {
	NodeID       Identifier
	ConsensusKey []byte
	VotingPower  uint64
}

// ValidatorConsensusList is a list of validator consensus infos, ordered by
// the component that produced it (the validator directory keeps activation
// order).
type ValidatorConsensusList []ValidatorConsensusInfo

// TotalVotingPower returns the sum of voting power over the list.
func (l ValidatorConsensusList) TotalVotingPower() uint64 {
	var total uint64
	for _, info := range l {
		total += info.VotingPower
	}
	return total
}

// NodeIDs returns the node identifiers in list order.
func (l ValidatorConsensusList) NodeIDs() []Identifier {
	ids := make([]Identifier, 0, len(l))
	for _, info := range l {
		ids = append(ids, info.NodeID)
	}
	return ids
}

// ByNodeID returns the info for the given node, if present.
func (l ValidatorConsensusList) ByNodeID(nodeID Identifier) (ValidatorConsensusInfo, bool) {
	for _, info := range l {
		if info.NodeID == nodeID {
			return info, true
		}
	}
	return ValidatorConsensusInfo{}, false
}

// Copy returns a deep copy of the list.
func (l ValidatorConsensusList) Copy() ValidatorConsensusList {
	dup := make(ValidatorConsensusList, 0, len(l))
	for _, info := range l {
		key := make([]byte, len(info.ConsensusKey))
		copy(key, info.ConsensusKey)
		info.ConsensusKey = key
		dup = append(dup, info)
	}
	return dup
}

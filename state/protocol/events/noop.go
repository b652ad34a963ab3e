package events

import (
	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/state/protocol"
)

// Noop implements protocol.Consumer with no-op callbacks.
type Noop struct{}

var _ protocol.Consumer = (*Noop)(nil)

func NewNoop() *Noop {
	return &Noop{}
}

func (n Noop) EpochTransitionStarted(uint64)           {}
func (n Noop) EpochTransitionCompleted(uint64, uint64) {}
func (n Noop) DKGStarted(*gravity.DKGSession)          {}
func (n Noop) DKGCompleted(uint64, gravity.Identifier) {}
func (n Noop) DKGCleared(uint64)                       {}
func (n Noop) ConfigCommitted(gravity.ConfigGroup)     {}
func (n Noop) CollaboratorFailure(uint64, error)       {}

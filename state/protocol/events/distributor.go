package events

import (
	"sync"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/state/protocol"
)

// Distributor distributes protocol events to a list of subscribers.
// Subscribers are called synchronously, in subscription order.
type Distributor struct {
	subscribers []protocol.Consumer
	mu          sync.RWMutex
}

var _ protocol.Consumer = (*Distributor)(nil)

// NewDistributor returns a new distributor with no subscribers.
func NewDistributor() *Distributor {
	return &Distributor{}
}

// AddConsumer adds a subscriber to the distributor.
func (d *Distributor) AddConsumer(consumer protocol.Consumer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, consumer)
}

func (d *Distributor) EpochTransitionStarted(epoch uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.EpochTransitionStarted(epoch)
	}
}

func (d *Distributor) DKGStarted(session *gravity.DKGSession) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.DKGStarted(session)
	}
}

func (d *Distributor) EpochTransitionCompleted(newEpoch uint64, transitionTime uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.EpochTransitionCompleted(newEpoch, transitionTime)
	}
}

func (d *Distributor) DKGCompleted(dealerEpoch uint64, transcriptHash gravity.Identifier) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.DKGCompleted(dealerEpoch, transcriptHash)
	}
}

func (d *Distributor) DKGCleared(dealerEpoch uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.DKGCleared(dealerEpoch)
	}
}

func (d *Distributor) ConfigCommitted(group gravity.ConfigGroup) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.ConfigCommitted(group)
	}
}

func (d *Distributor) CollaboratorFailure(epoch uint64, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subscribers {
		sub.CollaboratorFailure(epoch, err)
	}
}

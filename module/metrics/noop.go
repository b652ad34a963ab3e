package metrics

import (
	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
)

// NoopCollector implements the metrics interfaces with no-ops, for tests
// and tools that do not report metrics.
type NoopCollector struct{}

var _ module.EpochMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) CurrentEpoch(uint64)                             {}
func (nc *NoopCollector) TransitionStateChanged(gravity.TransitionState) {}
func (nc *NoopCollector) EpochTransitionStarted()                        {}
func (nc *NoopCollector) EpochTransitionCompleted(uint64)                {}
func (nc *NoopCollector) DKGStarted()                                    {}
func (nc *NoopCollector) DKGCompleted()                                  {}
func (nc *NoopCollector) DKGCleared()                                    {}

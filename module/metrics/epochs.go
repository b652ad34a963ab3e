package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module"
)

const (
	namespaceChain  = "gravity"
	subsystemEpochs = "epochs"
)

// EpochCollector reports epoch lifecycle metrics.
type EpochCollector struct {
	currentEpoch         prometheus.Gauge
	transitionInProgress prometheus.Gauge
	transitionsStarted   prometheus.Counter
	transitionsCompleted prometheus.Counter
	transitionSpacing    prometheus.Histogram
	dkgSessionsStarted   prometheus.Counter
	dkgSessionsCompleted prometheus.Counter
	dkgSessionsCleared   prometheus.Counter
}

var _ module.EpochMetrics = (*EpochCollector)(nil)

// NewEpochCollector creates and registers an epoch collector.
func NewEpochCollector(registerer prometheus.Registerer) *EpochCollector {
	currentEpoch := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "current_epoch",
		Help:      "the current epoch counter",
	})
	transitionInProgress := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "transition_in_progress",
		Help:      "1 while an epoch transition is underway, 0 otherwise",
	})
	transitionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "transitions_started_total",
		Help:      "the number of epoch transitions started",
	})
	transitionsCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "transitions_completed_total",
		Help:      "the number of epoch transitions completed",
	})
	transitionSpacing := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "transition_spacing_seconds",
		Help:      "observed spacing between consecutive completed transitions in seconds",
		Buckets:   prometheus.ExponentialBuckets(60, 2, 12),
	})
	dkgSessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "dkg_sessions_started_total",
		Help:      "the number of DKG sessions started",
	})
	dkgSessionsCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "dkg_sessions_completed_total",
		Help:      "the number of DKG sessions completed with a transcript",
	})
	dkgSessionsCleared := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceChain,
		Subsystem: subsystemEpochs,
		Name:      "dkg_sessions_cleared_total",
		Help:      "the number of incomplete DKG sessions discarded",
	})

	registerer.MustRegister(
		currentEpoch,
		transitionInProgress,
		transitionsStarted,
		transitionsCompleted,
		transitionSpacing,
		dkgSessionsStarted,
		dkgSessionsCompleted,
		dkgSessionsCleared,
	)

	return &EpochCollector{
		currentEpoch:         currentEpoch,
		transitionInProgress: transitionInProgress,
		transitionsStarted:   transitionsStarted,
		transitionsCompleted: transitionsCompleted,
		transitionSpacing:    transitionSpacing,
		dkgSessionsStarted:   dkgSessionsStarted,
		dkgSessionsCompleted: dkgSessionsCompleted,
		dkgSessionsCleared:   dkgSessionsCleared,
	}
}

func (ec *EpochCollector) CurrentEpoch(epoch uint64) {
	ec.currentEpoch.Set(float64(epoch))
}

func (ec *EpochCollector) TransitionStateChanged(state gravity.TransitionState) {
	if state == gravity.TransitionStateDKGInProgress {
		ec.transitionInProgress.Set(1)
		return
	}
	ec.transitionInProgress.Set(0)
}

func (ec *EpochCollector) EpochTransitionStarted() {
	ec.transitionsStarted.Inc()
}

func (ec *EpochCollector) EpochTransitionCompleted(spacingSeconds uint64) {
	ec.transitionsCompleted.Inc()
	ec.transitionSpacing.Observe(float64(spacingSeconds))
}

func (ec *EpochCollector) DKGStarted() {
	ec.dkgSessionsStarted.Inc()
}

func (ec *EpochCollector) DKGCompleted() {
	ec.dkgSessionsCompleted.Inc()
}

func (ec *EpochCollector) DKGCleared() {
	ec.dkgSessionsCleared.Inc()
}

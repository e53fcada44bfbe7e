// Package metrics registers the lock-free counters and histograms keyed
// by (actor, fragment, dispatcher) that spec.md §5 calls for, grounded
// on controller/api/destination/endpoint_metrics.go's promauto-based
// gauges and counters.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cascadedb/cascade/pkg/stream"
)

// Set is the metrics surface one actor runtime process registers. It is
// safe for concurrent use: every underlying collector is either
// lock-free (prometheus vectors) or backed by sync/atomic.
type Set struct {
	outputBlockingSeconds *prometheus.HistogramVec
	sendTimeouts          *prometheus.CounterVec
	dispatchersActive     *prometheus.GaugeVec
}

// NewSet registers a fresh metrics.Set against reg, the same
// promauto.With(reg) style the teacher's endpoint_metrics_test.go uses
// to keep each test's collectors on their own registry rather than
// fighting over the global default one. Production code passes
// prometheus.DefaultRegisterer; tests pass a throwaway
// prometheus.NewRegistry() so repeated Set construction within one test
// binary never hits a duplicate-registration panic.
func NewSet(reg prometheus.Registerer) *Set {
	f := promauto.With(reg)
	return &Set{
		outputBlockingSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name: "cascade_dispatch_output_blocking_seconds",
			Help: "Time spent blocked sending to one dispatcher output.",
		}, []string{"actor", "fragment", "dispatcher"}),
		sendTimeouts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cascade_dispatch_send_slow_total",
			Help: "Number of times an Output.Send call was still blocked on backpressure after a send-timeout interval (informational only: the send keeps suspending, it does not fail).",
		}, []string{"actor"}),
		dispatchersActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cascade_dispatch_dispatchers_active",
			Help: "Number of dispatchers currently owned by an actor's executor.",
		}, []string{"actor"}),
	}
}

// StartOutputBlocking begins timing one dispatcher's blocking-send
// duration for the current message; call ObserveDuration on the
// returned timer when the send completes.
func (s *Set) StartOutputBlocking(actorID stream.ActorID, fragmentID stream.FragmentID, dispatcherID stream.DispatcherID) *prometheus.Timer {
	return prometheus.NewTimer(s.outputBlockingSeconds.WithLabelValues(
		strconv.FormatUint(uint64(actorID), 10),
		strconv.FormatUint(uint64(fragmentID), 10),
		strconv.FormatUint(uint64(dispatcherID), 10),
	))
}

// SendTimeoutCounter returns the slow-send counter for one actor's
// outputs, suitable for passing as LocalOutput's sendTimeoutCounter. It
// counts suspended-too-long sends for observability; it is never used
// to fail a Send.
func (s *Set) SendTimeoutCounter(actorID stream.ActorID) prometheus.Counter {
	return s.sendTimeouts.WithLabelValues(strconv.FormatUint(uint64(actorID), 10))
}

// SetDispatchersActive records the current dispatcher count for an actor.
func (s *Set) SetDispatchersActive(actorID stream.ActorID, n int) {
	s.dispatchersActive.WithLabelValues(strconv.FormatUint(uint64(actorID), 10)).Set(float64(n))
}

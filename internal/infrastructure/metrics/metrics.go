// Package metrics exposes Prometheus counters for registration outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "event_registration"

// Recorder counts registration outcomes, waitlist promotions and writes
// that failed halfway through a multi-step operation.
type Recorder struct {
	outcomes        *prometheus.CounterVec
	promotions      prometheus.Counter
	partialFailures *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests so runs do not collide on the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "register_outcomes_total",
			Help:      "Register calls by outcome (registered, waitlisted, rejected).",
		}, []string{"outcome"}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waitlist_promotions_total",
			Help:      "Waitlisted users promoted to a confirmed registration.",
		}),
		partialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Multi-step writes left incomplete, by step.",
		}, []string{"step"}),
	}
	reg.MustRegister(r.outcomes, r.promotions, r.partialFailures)
	return r
}

func (r *Recorder) Outcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Promoted() {
	r.promotions.Inc()
}

func (r *Recorder) PartialFailure(step string) {
	r.partialFailures.WithLabelValues(step).Inc()
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.Outcome("registered")
	r.Outcome("registered")
	r.Outcome("waitlisted")
	r.Promoted()
	r.PartialFailure("release_seat")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomes.WithLabelValues("registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("waitlisted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.promotions))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.partialFailures.WithLabelValues("release_seat")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

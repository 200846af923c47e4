package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementUsersRegistered()
	m.IncrementMilestonesCreated()
	m.IncrementMilestonesCreated()
	m.IncrementMilestonesDeleted()
	m.IncrementTipsAdded()
	m.IncrementRateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MilestonesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MilestonesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TipsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("/milestones/{id}", "GET", 200, 15*time.Millisecond)
	m.ObserveRequest("/milestones/{id}", "GET", 404, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "bump_journal_http_request_duration_seconds" {
			found = true
		}
	}
	assert.True(t, found, "histogram should be registered on the injected registry")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("/healthz", "GET", 200, time.Millisecond)
		m.IncrementUsersRegistered()
		m.IncrementMilestonesCreated()
		m.IncrementMilestonesDeleted()
		m.IncrementTipsAdded()
		m.IncrementRateLimited()
	})
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

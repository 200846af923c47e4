// Package metrics holds the Prometheus collectors of the journal service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bump_journal"

// Metrics groups every collector the service reports. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	UsersRegistered   prometheus.Counter
	MilestonesCreated prometheus.Counter
	MilestonesDeleted prometheus.Counter
	TipsAdded         prometheus.Counter
	RateLimited       prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users",
		}),
		MilestonesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_created_total",
			Help:      "Total number of milestones created",
		}),
		MilestonesDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_deleted_total",
			Help:      "Total number of milestones deleted",
		}),
		TipsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tips_added_total",
			Help:      "Total number of tips added",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_rate_limited_total",
			Help:      "Total number of auth requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementUsersRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncrementMilestonesCreated() {
	if m == nil {
		return
	}
	m.MilestonesCreated.Inc()
}

func (m *Metrics) IncrementMilestonesDeleted() {
	if m == nil {
		return
	}
	m.MilestonesDeleted.Inc()
}

func (m *Metrics) IncrementTipsAdded() {
	if m == nil {
		return
	}
	m.TipsAdded.Inc()
}

func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

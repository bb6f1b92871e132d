package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Mutations       *prometheus.CounterVec
	Rollbacks       *prometheus.CounterVec
	PersistSeconds  *prometheus.HistogramVec
	CoalescedWrites prometheus.Counter
	LiveComments    prometheus.Gauge
	MapItems        prometheus.Gauge
	LoadFailures    prometheus.Counter
	RouteRequests   *prometheus.CounterVec
	RouteSeconds    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Mutations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "comments_mutations_total",
			Help: "Total number of settled comment mutations.",
		}, []string{"op", "status"}),
		Rollbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "comments_rollbacks_total",
			Help: "Total number of optimistic mutations reverted after a failed write.",
		}, []string{"op"}),
		PersistSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "comments_persist_duration_seconds",
			Help:    "Duration of writes of the comment collection to storage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"storage"}),
		CoalescedWrites: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "comments_coalesced_writes_total",
			Help: "Total number of persistence requests served by a write started for another request.",
		}),
		LiveComments: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "comments_live",
			Help: "Current number of comments held in memory.",
		}),
		MapItems: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "map_items",
			Help: "Current number of items rendered on the map.",
		}),
		LoadFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "comments_load_failures_total",
			Help: "Total number of persisted collections that could not be decoded.",
		}),
		RouteRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "directions_requests_total",
			Help: "Total number of walking route requests.",
		}, []string{"provider", "status"}),
		RouteSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "directions_request_duration_seconds",
			Help:    "Duration of walking route requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

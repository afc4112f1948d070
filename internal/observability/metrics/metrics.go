package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	AuthSignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Total number of signup attempts.",
		},
		[]string{"service", "result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of tokens issued or refreshed.",
		},
		[]string{"service", "flow", "result"},
	)

	AttemptsRecordedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_recorded_total",
			Help: "Total number of attempt records appended to the ledger.",
		},
		[]string{"service", "type", "result"},
	)

	BlocksAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_blocks_applied_total",
			Help: "Total number of time-boxed blocks applied to owners.",
		},
		[]string{"service", "type"},
	)

	SweepRemovalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sweep_removals_total",
			Help: "Rows reclaimed by the maintenance sweeper.",
		},
		[]string{"service", "kind"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	AuthLoginsTotal = AuthLoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	AuthSignupsTotal = AuthSignupsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	TokensIssuedTotal = TokensIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	AttemptsRecordedTotal = AttemptsRecordedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	BlocksAppliedTotal = BlocksAppliedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	SweepRemovalsTotal = SweepRemovalsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthLoginsTotal,
		AuthSignupsTotal,
		TokensIssuedTotal,
		AttemptsRecordedTotal,
		BlocksAppliedTotal,
		SweepRemovalsTotal,
	)
}

// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Sale metrics
	QuotesTotal      prometheus.Counter
	SettlementsTotal prometheus.Counter
	SettlementErrors *prometheus.CounterVec
	SoldSupply       prometheus.Gauge
	CurrentPrice     prometheus.Gauge

	// Deposit session metrics
	SessionsCreated  prometheus.Counter
	SessionsFinished *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge

	// Oracle metrics
	OracleChecksTotal  *prometheus.CounterVec
	OracleCheckLatency prometheus.Histogram
	PushHintsReceived  prometheus.Counter

	// Referral metrics
	CodesIssued       prometheus.Counter
	AttributionsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastConfirmedDeposit prometheus.Gauge
	UptimeSeconds        prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bdc_storefront"
	}

	return &Metrics{
		// Sale metrics
		QuotesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "quotes_total",
			Help:      "Total number of purchase quotes computed",
		}),
		SettlementsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "settlements_total",
			Help:      "Total number of purchases settled",
		}),
		SettlementErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "settlement_errors_total",
			Help:      "Total number of settlement failures by reason",
		}, []string{"reason"}),
		SoldSupply: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "sold_supply",
			Help:      "Current sold supply in whole tokens",
		}),
		CurrentPrice: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "current_price_usdc",
			Help:      "Current unit price in USDC",
		}),

		// Deposit session metrics
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deposit",
			Name:      "sessions_created_total",
			Help:      "Total number of deposit sessions created",
		}),
		SessionsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deposit",
			Name:      "sessions_finished_total",
			Help:      "Total number of deposit sessions finished by outcome",
		}, []string{"outcome"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "deposit",
			Name:      "active_sessions",
			Help:      "Current number of live deposit sessions",
		}),

		// Oracle metrics
		OracleChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "checks_total",
			Help:      "Total number of balance oracle checks by result",
		}, []string{"result"}),
		OracleCheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "check_latency_seconds",
			Help:      "Balance oracle check latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PushHintsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "push_hints_received_total",
			Help:      "Total number of account notifications received over WebSocket",
		}),

		// Referral metrics
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "referral",
			Name:      "codes_issued_total",
			Help:      "Total number of referral codes issued",
		}),
		AttributionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "referral",
			Name:      "attributions_total",
			Help:      "Total number of referral attribution attempts by result",
		}, []string{"result"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastConfirmedDeposit: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_confirmed_deposit_timestamp",
			Help:      "Unix timestamp of the last confirmed deposit",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordQuote increments the quotes counter.
func RecordQuote() {
	DefaultMetrics.QuotesTotal.Inc()
}

// RecordSettlement increments the settlements counter and updates the
// sale gauges.
func RecordSettlement(soldSupply int64, currentPrice float64) {
	DefaultMetrics.SettlementsTotal.Inc()
	DefaultMetrics.SoldSupply.Set(float64(soldSupply))
	DefaultMetrics.CurrentPrice.Set(currentPrice)
}

// RecordSettlementError increments the settlement error counter.
func RecordSettlementError(reason string) {
	DefaultMetrics.SettlementErrors.WithLabelValues(reason).Inc()
}

// RecordSessionCreated tracks a new deposit session.
func RecordSessionCreated() {
	DefaultMetrics.SessionsCreated.Inc()
	DefaultMetrics.ActiveSessions.Inc()
}

// RecordSessionFinished tracks a deposit session reaching a terminal state.
func RecordSessionFinished(outcome string) {
	DefaultMetrics.SessionsFinished.WithLabelValues(outcome).Inc()
	DefaultMetrics.ActiveSessions.Dec()
}

// RecordOracleCheck tracks one balance oracle round trip.
func RecordOracleCheck(result string, elapsed time.Duration) {
	DefaultMetrics.OracleChecksTotal.WithLabelValues(result).Inc()
	DefaultMetrics.OracleCheckLatency.Observe(elapsed.Seconds())
}

// RecordPushHint increments the push hint counter.
func RecordPushHint() {
	DefaultMetrics.PushHintsReceived.Inc()
}

// RecordCodeIssued increments the referral codes issued counter.
func RecordCodeIssued() {
	DefaultMetrics.CodesIssued.Inc()
}

// RecordAttribution tracks a referral attribution attempt.
func RecordAttribution(result string) {
	DefaultMetrics.AttributionsTotal.WithLabelValues(result).Inc()
}

// RecordConfirmedDeposit stamps the last confirmed deposit time.
func RecordConfirmedDeposit() {
	DefaultMetrics.LastConfirmedDeposit.SetToCurrentTime()
}

// ObserveDBQuery records a database query duration and outcome.
func ObserveDBQuery(database, operation string, elapsed time.Duration, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(elapsed.Seconds())
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	DeclarationsStarted   prometheus.Counter
	DeclarationsCancelled prometheus.Counter
	ActiveSessions        prometheus.Gauge
	EndpointLatency       *prometheus.HistogramVec

	// Submission metrics
	SubmissionsTotal    *prometheus.CounterVec
	SubmissionLatency   prometheus.Histogram
	ResolutionOutcomes  *prometheus.CounterVec
	IdentifiersReserved prometheus.Counter

	// Registry client metrics
	RegistryRequests *prometheus.CounterVec
	RegistryLatency  *prometheus.HistogramVec

	// Verification metrics
	VerificationsTotal *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DeclarationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thdf_declarations_started_total",
			Help: "Total number of declaration sessions started",
		}),
		DeclarationsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thdf_declarations_cancelled_total",
			Help: "Total number of declaration sessions cancelled",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "thdf_active_sessions",
			Help: "Current number of active declaration sessions",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "thdf_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thdf_submissions_total",
			Help: "Total number of declaration submissions, labeled by outcome",
		}, []string{"outcome"}),
		SubmissionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "thdf_submission_latency_seconds",
			Help:    "End to end latency of declaration submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ResolutionOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thdf_resolution_outcomes_total",
			Help: "Traveler resolution outcomes, labeled by kind",
		}, []string{"kind"}),
		IdentifiersReserved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thdf_identifiers_reserved_total",
			Help: "Total number of registry identifiers reserved",
		}),
		RegistryRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thdf_registry_requests_total",
			Help: "Requests made to the health registry, labeled by operation and status",
		}, []string{"operation", "status"}),
		RegistryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "thdf_registry_latency_seconds",
			Help:    "Latency of health registry calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thdf_verifications_total",
			Help: "Total number of declaration verifications, labeled by result",
		}, []string{"result"}),
	}
}

// IncrementDeclarationsStarted increments the declarations started counter by 1
func (m *Metrics) IncrementDeclarationsStarted() {
	m.DeclarationsStarted.Inc()
}

func (m *Metrics) IncrementDeclarationsCancelled() {
	m.DeclarationsCancelled.Inc()
}

func (m *Metrics) IncrementActiveSessions(count int) {
	m.ActiveSessions.Add(float64(count))
}

func (m *Metrics) DecrementActiveSessions(count int) {
	m.ActiveSessions.Sub(float64(count))
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// IncrementSubmissions increments the submissions counter with an outcome label
func (m *Metrics) IncrementSubmissions(outcome string) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSubmissionLatency records the end to end latency of a submission
func (m *Metrics) ObserveSubmissionLatency(durationSeconds float64) {
	m.SubmissionLatency.Observe(durationSeconds)
}

// IncrementResolutionOutcome increments the resolution outcome counter with a kind label
func (m *Metrics) IncrementResolutionOutcome(kind string) {
	m.ResolutionOutcomes.WithLabelValues(kind).Inc()
}

// AddIdentifiersReserved adds the number of identifiers reserved in one allocation
func (m *Metrics) AddIdentifiersReserved(count int) {
	m.IdentifiersReserved.Add(float64(count))
}

// IncrementRegistryRequest increments the registry request counter
func (m *Metrics) IncrementRegistryRequest(operation, status string) {
	m.RegistryRequests.WithLabelValues(operation, status).Inc()
}

// ObserveRegistryLatency records the latency of a registry call
func (m *Metrics) ObserveRegistryLatency(operation string, durationSeconds float64) {
	m.RegistryLatency.WithLabelValues(operation).Observe(durationSeconds)
}

// IncrementVerifications increments the verifications counter with a result label
func (m *Metrics) IncrementVerifications(result string) {
	m.VerificationsTotal.WithLabelValues(result).Inc()
}

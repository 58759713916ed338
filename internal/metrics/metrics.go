package metrics

import "github.com/prometheus/client_golang/prometheus"

// Insight and governor Prometheus metrics.
var (
	InsightRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "insight_requests_total",
			Help:      "Total number of LLM insight requests",
		},
		[]string{"provider", "model", "status"},
	)

	InsightRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zoeklicht",
			Name:      "insight_request_duration_seconds",
			Help:      "LLM insight request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	InsightTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "insight_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	InsightCostTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "insight_cost_dollars_total",
			Help:      "Cumulative LLM spend in USD",
		},
		[]string{"provider", "model"},
	)

	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "gate_decisions_total",
			Help:      "Governor gate decisions by outcome",
		},
		[]string{"decision"}, // "approved" / "quota_exhausted"
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zoeklicht",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registered bool

// Register registers the insight and governor metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(InsightRequestsTotal)
	prometheus.MustRegister(InsightRequestDuration)
	prometheus.MustRegister(InsightTokensTotal)
	prometheus.MustRegister(InsightCostTotal)
	prometheus.MustRegister(GateDecisionsTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	registered = true
}

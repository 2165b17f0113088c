package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nipow/logx"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds    prometheus.Gauge
	chainHeight          prometheus.Gauge
	chainTotalDifficulty prometheus.Gauge
	chainTotalWork       prometheus.Gauge
	headerCount          *prometheus.CounterVec
	proofCount           *prometheus.CounterVec
	reorgCount           prometheus.Counter
	reorgDepth           prometheus.Histogram
	panicCount           prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "nipow_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		chainHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "nipow_node_chain_height",
				Help: "Height of the current main chain head",
			},
		),
		chainTotalDifficulty: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "nipow_node_chain_total_difficulty",
				Help: "Cumulative difficulty of the main chain",
			},
		),
		chainTotalWork: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "nipow_node_chain_total_work",
				Help: "Cumulative real proof-of-work of the main chain",
			},
		),
		headerCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nipow_node_headers_processed_total",
				Help: "Headers processed by push result",
			},
			[]string{"result"},
		),
		proofCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nipow_node_proofs_processed_total",
				Help: "Chain proofs processed by outcome",
			},
			[]string{"outcome"},
		),
		reorgCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nipow_node_reorgs_total",
				Help: "Number of main chain rebranches",
			},
		),
		reorgDepth: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nipow_node_reorg_depth",
				Help:    "Number of blocks switched per rebranch",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "nipow_node_panics_total",
				Help: "Recovered panics in background goroutines",
			},
		),
	}
}

var metrics = newNodePromMetrics()

func SetChainHeight(height uint64) {
	metrics.chainHeight.Set(float64(height))
}

func SetChainTotalDifficulty(totalDifficulty int64) {
	metrics.chainTotalDifficulty.Set(float64(totalDifficulty))
}

func SetChainTotalWork(totalWork int64) {
	metrics.chainTotalWork.Set(float64(totalWork))
}

func IncreaseHeaderCount(result string) {
	metrics.headerCount.WithLabelValues(result).Inc()
}

func IncreaseProofCount(outcome string) {
	metrics.proofCount.WithLabelValues(outcome).Inc()
}

func IncreaseReorgCount(depth int) {
	metrics.reorgCount.Inc()
	metrics.reorgDepth.Observe(float64(depth))
}

func IncreasePanicCount() {
	metrics.panicCount.Inc()
}

// StartMetricsServer exposes /metrics on addr. Blocks until the listener
// fails, so callers run it on its own goroutine.
func StartMetricsServer(addr string) {
	metrics.nodeUpUnixSeconds.Set(float64(time.Now().Unix()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logx.Info("MONITORING", "Serving prometheus metrics on ", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logx.Error("MONITORING", "Metrics server stopped: ", err)
	}
}

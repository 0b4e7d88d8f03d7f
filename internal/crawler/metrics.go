package crawler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksTotal      *prometheus.CounterVec
	statementsTotal prometheus.Counter
	wavesTotal      prometheus.Counter
	frontierDepth   prometheus.Gauge

	metricsOnce sync.Once
)

// initMetrics registers the crawl collectors. Safe to call repeatedly.
func initMetrics() {
	metricsOnce.Do(func() {
		tasksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripser_tasks_total",
				Help: "Total tasks dispatched, labeled by outcome.",
			},
			[]string{"status"},
		)

		statementsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tripser_statements_merged_total",
				Help: "Total statements merged into the accumulated graph.",
			},
		)

		wavesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tripser_waves_total",
				Help: "Total dispatch waves completed.",
			},
		)

		frontierDepth = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tripser_frontier_depth",
				Help: "Tasks currently pending in the frontier.",
			},
		)
	})
}

func observeTask(status string) {
	tasksTotal.WithLabelValues(status).Inc()
}

func observeWave(merged int, pending int) {
	wavesTotal.Inc()
	statementsTotal.Add(float64(merged))
	frontierDepth.Set(float64(pending))
}

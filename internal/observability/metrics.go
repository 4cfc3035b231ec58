package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_app",
		Subsystem: "selector",
		Name:      "recommendations_total",
		Help:      "Number of recommendation queries answered, by equipment type.",
	}, []string{"equipment"})

	emptyResultsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_app",
		Subsystem: "selector",
		Name:      "empty_results_total",
		Help:      "Number of recommendation queries that matched no exercises.",
	}, []string{"equipment"})

	catalogSizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_app",
		Subsystem: "catalog",
		Name:      "records",
		Help:      "Number of exercise records returned by the most recent catalog load.",
	})

	catalogLoadGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_app",
		Subsystem: "catalog",
		Name:      "last_load_timestamp_seconds",
		Help:      "Unix timestamp of the most recent catalog load.",
	})
)

func init() {
	prometheus.MustRegister(recommendationsCounter, emptyResultsCounter, catalogSizeGauge, catalogLoadGauge)
}

// UnknownEquipment labels queries whose equipment type is outside the fixed set.
const UnknownEquipment = "unknown"

// RecordRecommendation counts an answered query and whether it came back empty.
func RecordRecommendation(equipment string, results int) {
	recommendationsCounter.WithLabelValues(equipment).Inc()
	if results == 0 {
		emptyResultsCounter.WithLabelValues(equipment).Inc()
	}
}

// RecordCatalogLoad updates the catalog size and load watermark.
func RecordCatalogLoad(size int, ts time.Time) {
	catalogSizeGauge.Set(float64(size))
	if ts.IsZero() {
		return
	}
	catalogLoadGauge.Set(float64(ts.Unix()))
}

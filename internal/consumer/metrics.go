package consumer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/events"
)

const eventTypeHeader = events.HeaderEventType

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_app",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of catalog events applied by the consumer.",
	}, []string{"topic", "event_type"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_app",
		Subsystem: "consumer",
		Name:      "messages_failed_total",
		Help:      "Number of catalog events the consumer could not apply.",
	}, []string{"topic", "event_type"})

	lastMessageGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "exercise_app",
		Subsystem: "consumer",
		Name:      "last_message_timestamp_seconds",
		Help:      "Timestamp of the most recent Kafka message processed.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(processedCounter, failedCounter, lastMessageGauge)
}

// RecordProcessed updates counters for successfully handled messages.
func RecordProcessed(msg Message) {
	processedCounter.WithLabelValues(msg.Topic, msg.Headers[eventTypeHeader]).Inc()
	if !msg.Timestamp.IsZero() {
		lastMessageGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

// RecordFailed counts messages whose handler returned an error.
func RecordFailed(msg Message) {
	failedCounter.WithLabelValues(msg.Topic, msg.Headers[eventTypeHeader]).Inc()
}

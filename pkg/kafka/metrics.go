package kafka

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	producerMsgs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findash_kafka_producer_messages_total",
			Help: "Messages published to Kafka",
		},
		[]string{"topic", "compression", "result"},
	)
	producerBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findash_kafka_producer_bytes_total",
			Help: "Payload bytes published",
		},
		[]string{"topic"},
	)
	producerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "findash_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
	consumerHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findash_kafka_consumer_messages_total",
			Help: "Messages handled by topic and result",
		},
		[]string{"topic", "result"},
	)

	producerOnce sync.Once
	consumerOnce sync.Once
	registerer   prometheus.Registerer = prometheus.DefaultRegisterer
)

// SetMetricsRegisterer redirects Kafka metrics, e.g. to a test registry. Call before
// the first producer or consumer is built.
func SetMetricsRegisterer(reg prometheus.Registerer) { registerer = reg }

func initProducerMetricsOnce() {
	producerOnce.Do(func() {
		registerer.MustRegister(producerMsgs, producerBytes, producerLatency)
	})
}

func initConsumerMetricsOnce() {
	consumerOnce.Do(func() {
		registerer.MustRegister(consumerHandled)
	})
}

func observeProducer(topic, comp string, bytes int, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	producerMsgs.WithLabelValues(topic, comp, result).Inc()
	producerBytes.WithLabelValues(topic).Add(float64(bytes))
	producerLatency.WithLabelValues(topic).Observe(dur.Seconds())
}

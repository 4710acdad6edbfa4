package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(jobsIngestedTotal, jobsCompletedTotal, consumerErrorsTotal, quarantinedTotal)
}

var jobsIngestedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_jobs_ingested_total",
		Help: "Submission messages processed, labeled by outcome.",
	},
	[]string{"outcome"}, // 'launched', 'duplicate', 'failed'
)

var jobsCompletedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gas_jobs_completed_total",
		Help: "Jobs whose results and logs reached hot storage.",
	},
)

var consumerErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_consumer_errors_total",
		Help: "Per-iteration consumer failures, labeled by queue and kind.",
	},
	[]string{"queue", "kind"}, // 'receive', 'handle', 'delete'
)

var quarantinedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_messages_quarantined_total",
		Help: "Messages routed to the quarantine queue, labeled by source queue.",
	},
	[]string{"queue"},
)

func IncJobIngested(outcome string) { jobsIngestedTotal.WithLabelValues(norm(outcome)).Inc() }
func IncJobCompleted()              { jobsCompletedTotal.Inc() }

func IncConsumerError(queue, kind string) {
	consumerErrorsTotal.WithLabelValues(norm(queue), norm(kind)).Inc()
}

func IncQuarantined(queue string) { quarantinedTotal.WithLabelValues(norm(queue)).Inc() }

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(jobsArchivedTotal, restoreRequestsTotal, jobsThawedTotal, archiveBytes, cacheRequestsTotal)
}

var jobsArchivedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_jobs_archived_total",
		Help: "Archival queue messages processed, labeled by outcome.",
	},
	[]string{"outcome"}, // 'archived', 'premium_skip', 'failed'
)

var restoreRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_restore_requests_total",
		Help: "Cold-storage retrieval requests issued, labeled by tier and outcome.",
	},
	[]string{"tier", "outcome"}, // tier 'expedited'|'standard', outcome 'ok'|'failed'
)

var jobsThawedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gas_jobs_thawed_total",
		Help: "Jobs restored from cold to hot storage.",
	},
)

var archiveBytes = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "gas_archive_bytes",
		Help:    "Size distribution of result files moved to cold storage.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	},
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_cache_requests_total",
		Help: "Profile cache lookups by result.",
	},
	[]string{"entity", "result"}, // 'hit', 'miss'
)

func IncJobArchived(outcome string) { jobsArchivedTotal.WithLabelValues(norm(outcome)).Inc() }

func IncRestoreRequest(tier, outcome string) {
	restoreRequestsTotal.WithLabelValues(norm(tier), norm(outcome)).Inc()
}

func IncJobThawed()               { jobsThawedTotal.Inc() }
func ObserveArchiveBytes(n int64) { archiveBytes.Observe(float64(n)) }
func IncCacheRequest(entity, result string) {
	cacheRequestsTotal.WithLabelValues(norm(entity), norm(result)).Inc()
}

package ethsgw

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "ethsgw"
)

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "cache_lookups_total",
			Help:      "durable cache lookups by bucket and hit",
		},
		[]string{"bucket", "hit"},
	)

	cacheEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "cache_entries",
			Help:      "entries per durable cache bucket",
		},
		[]string{"bucket"},
	)

	responseCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "response_cache_entries",
			Help:      "rendered responses kept in memory",
		},
	)

	snapshotPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "snapshot_pages_total",
			Help:      "collection pages fetched for snapshots",
		},
	)
)

func init() {
	prometheus.MustRegister(
		cacheLookups,
		cacheEntries,
		responseCacheEntries,
		snapshotPages,
	)
}

func metricCache(bucket string, hit bool) {
	cacheLookups.WithLabelValues(bucket, strconv.FormatBool(hit)).Inc()
}

func metricCacheEntries(bucket string, n int) {
	cacheEntries.WithLabelValues(bucket).Set(float64(n))
}

func metricResponseCache(n int) {
	responseCacheEntries.Set(float64(n))
}

func metricSnapshotPage() {
	snapshotPages.Inc()
}

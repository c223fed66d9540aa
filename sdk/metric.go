package sdk

import (
	"net/url"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ethsgw",
			Name:      "upstream_requests_total",
			Help:      "outbound requests by upstream host and status",
		},
		[]string{"host", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		upstreamRequests,
	)
}

func metricUpstream(target string, status int) {
	host := target
	if u, err := url.Parse(target); err == nil {
		host = u.Host
	}
	upstreamRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
}

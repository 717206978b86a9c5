package sellauth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency is the duration of storefront API requests.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "sellauth_api_latency",
			Help: "Duration of storefront API requests",
		},
		[]string{"endpoint"},
	)

	// APITotalRequests is the total number of storefront API requests.
	APITotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellauth_api_total_requests",
			Help: "Total number of storefront API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	// CacheLookups is the total number of invoice cache lookups.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellauth_invoice_cache_lookups",
			Help: "Total number of invoice cache lookups",
		},
		[]string{"result"},
	)
)

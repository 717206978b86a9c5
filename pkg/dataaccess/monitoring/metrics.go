package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MongoLatency is the duration of Mongo queries.
	MongoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "invoicer_dataaccess_mongo_latency",
			Help: "Duration of Mongo queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// MongoTotalRequests is the total number of Mongo requests.
	MongoTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicer_dataaccess_mongo_total_requests",
			Help: "Total number of Mongo requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// FileStoreOperations is the total number of guild configuration file reads and writes.
	FileStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicer_dataaccess_file_operations_total",
			Help: "Total number of guild configuration file operations",
		},
		[]string{"operation", "result"},
	)
)

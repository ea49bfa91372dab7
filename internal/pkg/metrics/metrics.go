package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Document insight Prometheus metrics.
var (
	DocumentsUploadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docinsight",
			Name:      "documents_uploaded_total",
			Help:      "Total number of documents uploaded",
		},
		[]string{"type"},
	)

	DocumentSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docinsight",
			Name:      "document_size_bytes",
			Help:      "Uploaded document size in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"type"},
	)

	RAGQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docinsight",
			Name:      "rag_queries_total",
			Help:      "Total number of retrieval-augmented queries",
		},
	)

	RAGContextChunks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docinsight",
			Name:      "rag_context_chunks",
			Help:      "Number of context chunks used per query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docinsight",
			Name:      "rate_limit_requests_total",
			Help:      "Requests allowed through the rate limiter",
		},
		[]string{"authenticated"},
	)

	RateLimitViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docinsight",
			Name:      "rate_limit_violations_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"authenticated", "endpoint"},
	)
)

var registered bool

// Register registers all metrics with the default registry. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(DocumentsUploadedTotal)
	prometheus.MustRegister(DocumentSizeBytes)
	prometheus.MustRegister(RAGQueriesTotal)
	prometheus.MustRegister(RAGContextChunks)
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(RateLimitViolationsTotal)
	registered = true
}

// RecordDocumentUpload records a stored upload and its size.
func RecordDocumentUpload(fileType string, sizeBytes int64) {
	DocumentsUploadedTotal.WithLabelValues(fileType).Inc()
	DocumentSizeBytes.WithLabelValues(fileType).Observe(float64(sizeBytes))
}

// RecordRAGQuery records one query and the number of context chunks it used.
func RecordRAGQuery(contextChunks int) {
	RAGQueriesTotal.Inc()
	RAGContextChunks.Observe(float64(contextChunks))
}

func RecordRateLimitAllowed(authenticated bool) {
	RateLimitRequestsTotal.WithLabelValues(strconv.FormatBool(authenticated)).Inc()
}

func RecordRateLimitExceeded(authenticated bool, endpoint string) {
	RateLimitViolationsTotal.WithLabelValues(strconv.FormatBool(authenticated), endpoint).Inc()
}

package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal         *prometheus.CounterVec
	HttpRequestDuration       *prometheus.HistogramVec
	StatusCodeCategoryCounter *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Ledger metrics
	LedgerOperationsCounter *prometheus.CounterVec
	StockRejectionsCounter  prometheus.Counter

	// Inventory metrics
	ProductAvailableGauge *prometheus.GaugeVec

	// Cache and event metrics
	CacheLookupsCounter  *prometheus.CounterVec
	EventsPublishedTotal *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the metrics under the given prefix. Only the first call has effect.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		register(prefix)
	})
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StatusCodeCategoryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	LedgerOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of catalog and ledger operations",
		},
		[]string{"entity", "operation"},
	)

	StockRejectionsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of imports rejected for insufficient stock",
		},
	)

	ProductAvailableGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_available_quantity",
			Help: "Last observed available quantity per product",
		},
		[]string{"product_id", "product_name"},
	)

	CacheLookupsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_events_published_total",
			Help: "Ledger events handed to the publisher by type and result",
		},
		[]string{"type", "result"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records a finished request, including its status category
func RecordHTTPRequest(method, path, status string, code int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	var category string
	switch {
	case code >= 200 && code < 300:
		category = "2xx"
	case code >= 400 && code < 500:
		category = "4xx"
	case code >= 500 && code < 600:
		category = "5xx"
	default:
		return
	}
	StatusCodeCategoryCounter.WithLabelValues(category, method, path).Inc()
}

// RecordAuthAttempt counts an identity resolution attempt and its outcome
func RecordAuthAttempt(success bool) {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
	if success {
		AuthSuccessCounter.Inc()
	} else {
		AuthErrorsCounter.Inc()
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	if LedgerOperationsCounter == nil {
		return
	}
	LedgerOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordStockRejection counts an import refused for insufficient stock
func RecordStockRejection() {
	if StockRejectionsCounter == nil {
		return
	}
	StockRejectionsCounter.Inc()
}

// UpdateProductAvailable updates the gauge for a product's available quantity
func UpdateProductAvailable(productID, productName string, quantity float64) {
	if ProductAvailableGauge == nil {
		return
	}
	ProductAvailableGauge.WithLabelValues(productID, productName).Set(quantity)
}

// ForgetProduct drops the gauge series of a deleted product
func ForgetProduct(productID, productName string) {
	if ProductAvailableGauge == nil {
		return
	}
	ProductAvailableGauge.DeleteLabelValues(productID, productName)
}

// RecordCacheLookup counts a cache hit or miss
func RecordCacheLookup(hit bool) {
	if CacheLookupsCounter == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsCounter.WithLabelValues(result).Inc()
}

// RecordEventPublished counts an event publish attempt
func RecordEventPublished(eventType string, err error) {
	if EventsPublishedTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}

// Handler returns an HTTP handler for exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bid outcomes recorded by RecordBid
const (
	BidAccepted = "accepted"
	BidRejected = "rejected"
	BidFailed   = "failed"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "auction_house",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction_house",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "auction_house",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	bidsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction_house",
			Subsystem: "bidding",
			Name:      "bids_total",
			Help:      "Bids received, by outcome.",
		},
		[]string{"outcome"},
	)

	itemsListed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auction_house",
			Subsystem: "catalog",
			Name:      "items_listed_total",
			Help:      "Items put up for auction.",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "auction_house",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "auction_house",
			Subsystem: "janitor",
			Name:      "job_runs_total",
			Help:      "Housekeeping job runs.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "auction_house",
			Subsystem: "janitor",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of housekeeping job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		bidsPlaced,
		itemsListed,
		rateLimited,
		jobRuns,
		jobDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency, labelled by the matched route template.
func GinMiddleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}

	start := time.Now()
	httpInFlight.Inc()
	defer httpInFlight.Dec()

	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	method := strings.ToUpper(c.Request.Method)

	httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

// RecordBid counts a bid attempt by outcome.
func RecordBid(outcome string) {
	bidsPlaced.WithLabelValues(outcome).Inc()
}

// RecordItemListed counts a newly listed item.
func RecordItemListed() {
	itemsListed.Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited() {
	rateLimited.Inc()
}

// RecordJobRun records metrics for a housekeeping job run.
func RecordJobRun(job string, duration time.Duration, success bool) {
	if job == "" {
		job = "unknown"
	}
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "feedbackhub", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "feedbackhub", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	ImportRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "feedbackhub", Name: "import_runs_total", Help: "Completed CSV import runs",
	})
	ImportRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "feedbackhub", Name: "import_rows_total", Help: "CSV import rows by result",
	}, []string{"result"}) // imported|skipped
	FeedbackRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "feedbackhub", Name: "feedback_records", Help: "Stored feedback records by author role",
	}, []string{"author_role"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "feedbackhub", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, ImportRuns, ImportRows, FeedbackRecords, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func CountImport(imported, skipped int) {
	ImportRuns.Inc()
	ImportRows.WithLabelValues("imported").Add(float64(imported))
	ImportRows.WithLabelValues("skipped").Add(float64(skipped))
}

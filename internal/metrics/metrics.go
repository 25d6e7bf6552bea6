package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracking metrics
	VisitorsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_visitors_recorded_total",
		Help: "Visitor records appended to the store",
	})
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_click_events_recorded_total",
		Help: "Click events appended to the store",
	})
	TrackingDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_tracking_dropped_total",
		Help: "Tracking events dropped because the queue was full or closed",
	})
	TrackingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_tracking_errors_total",
		Help: "Tracking events that failed to persist",
	}, []string{"kind"})

	// Store metrics
	VisitorCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_visitor_cache_size",
		Help: "Visitor records held in the in-process cache",
	})
	BackendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_backend_errors_total",
		Help: "Key-value backend errors by operation",
	}, []string{"operation"})

	// Admin metrics
	AdminUnauthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_admin_unauthorized_total",
		Help: "Admin requests rejected for a missing or wrong token",
	})
	AdminRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_admin_requests_total",
		Help: "Admin requests by route and status code",
	}, []string{"route", "code"})

	LiveFeedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_live_feed_clients",
		Help: "Connected live visitor feed clients",
	})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

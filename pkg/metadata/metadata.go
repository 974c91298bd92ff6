package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsPath is the HTTP path the prometheus handler is mounted on
const MetricsPath = "/metrics"

var (
	// RefreshesTotal counts successful alert store refreshes from the backend
	RefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_refreshes_total",
		Help: "Number of successful alert store refreshes.",
	})

	// RefreshFailuresTotal counts refreshes that left the store untouched
	RefreshFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_refresh_failures_total",
		Help: "Number of failed alert store refreshes.",
	})

	// ActionsTotal counts successfully dispatched mutating actions
	ActionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_actions_total",
		Help: "Number of successfully dispatched record actions.",
	})

	// ActionFailuresTotal counts mutating actions rejected by the backend or
	// lost in transport
	ActionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_action_failures_total",
		Help: "Number of failed record actions.",
	})

	// UploadsTotal counts file batches forwarded for analysis
	UploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_uploads_total",
		Help: "Number of file batches forwarded to the analysis backend.",
	})

	// NotificationsTotal counts messages posted to the notification sink
	NotificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentryview_notifications_total",
		Help: "Number of notifications posted to the sink.",
	})
)

// AddMetricsToPrometheusRegistry registers all console metrics with the
// default registry
func AddMetricsToPrometheusRegistry() {
	prometheus.MustRegister(
		RefreshesTotal,
		RefreshFailuresTotal,
		ActionsTotal,
		ActionFailuresTotal,
		UploadsTotal,
		NotificationsTotal,
	)
}

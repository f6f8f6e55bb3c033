package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 監控引擎的 Prometheus 指標。引擎本身不保證通知送達，
// 這些計數是排查漏通知時唯一的線索。
var (
	cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_cycles_total",
		Help: "Total number of monitoring cycles started.",
	})
	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alert_cycle_duration_seconds",
		Help:    "Wall time of one monitoring cycle.",
		Buckets: prometheus.DefBuckets,
	})
	triggeredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alerts_triggered_total",
		Help: "Alerts transitioned active to triggered.",
	})
	notifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_notify_failures_total",
		Help: "Notification sends that failed after a committed transition.",
	})
	feedErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_feed_errors_total",
		Help: "Price feed fetches that returned no usable data.",
	})
)

func IncCycles()         { cyclesTotal.Inc() }
func IncTriggered()      { triggeredTotal.Inc() }
func IncNotifyFailures() { notifyFailuresTotal.Inc() }
func IncFeedErrors()     { feedErrorsTotal.Inc() }

func ObserveCycleDuration(d time.Duration) {
	cycleDuration.Observe(d.Seconds())
}

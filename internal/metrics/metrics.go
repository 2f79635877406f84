package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	SubmissionsReceived   prometheus.Counter
	SubmissionsStored     prometheus.Counter
	SpamDetected          *prometheus.CounterVec
	SignalPersistFailures prometheus.Counter
	NotificationsSent     prometheus.Counter
	NotificationsFailed   prometheus.Counter
	IntakeDuration        prometheus.Histogram
	ActiveForms           prometheus.Gauge
	TotalForms            prometheus.Gauge
}

// New creates new Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SubmissionsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_submissions_received_total",
			Help: "Total number of submissions received at the intake endpoint",
		}),
		SubmissionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_submissions_stored_total",
			Help: "Total number of submissions durably persisted",
		}),
		SpamDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_spam_detected_total",
			Help: "Total number of submissions classified as spam, by deciding signal",
		}, []string{"signal"}),
		SignalPersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_signal_persist_failures_total",
			Help: "Total number of failed spam signal writes",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_notifications_sent_total",
			Help: "Total number of notification emails delivered",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formgate_notifications_failed_total",
			Help: "Total number of notification emails that failed to deliver",
		}),
		IntakeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "formgate_intake_duration_seconds",
			Help:    "Time spent handling intake requests",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveForms: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "formgate_active_forms",
			Help: "Number of currently active forms",
		}),
		TotalForms: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "formgate_total_forms",
			Help: "Total number of forms (active and inactive)",
		}),
	}
}

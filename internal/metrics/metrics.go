// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	downloadStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "downloads_started_total",
		Help:      "Total number of downloads started by platform",
	}, []string{"platform"})
	downloadCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "downloads_completed_total",
		Help:      "Total number of downloads successfully completed by platform",
	}, []string{"platform"})
	downloadFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "downloads_failed_total",
		Help:      "Total number of downloads failed by platform",
	}, []string{"platform"})
	downloadCanceled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "downloads_canceled_total",
		Help:      "Total number of downloads canceled by platform",
	}, []string{"platform"})
	downloadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "streamrip_bot",
		Name:      "download_duration_seconds",
		Help:      "Histogram of download durations in seconds by platform",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // ~1s up to over an hour
	}, []string{"platform"})

	sessionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "session_outcomes_total",
		Help:      "Interactive session outcomes by session kind and outcome",
	}, []string{"kind", "outcome"})
	filesDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "streamrip_bot",
		Name:      "files_delivered_total",
		Help:      "Total number of audio files delivered into chats",
	})
	activeTasksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "streamrip_bot",
		Name:      "active_tasks",
		Help:      "Current number of in-flight download tasks",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(downloadStarted, downloadCompleted, downloadFailed, downloadCanceled, downloadDuration,
			sessionOutcomes, filesDelivered, activeTasksGauge)
	})
}

// Download lifecycle helpers
func IncDownloadStarted(platform string)   { downloadStarted.WithLabelValues(platform).Inc() }
func IncDownloadCompleted(platform string) { downloadCompleted.WithLabelValues(platform).Inc() }
func IncDownloadFailed(platform string)    { downloadFailed.WithLabelValues(platform).Inc() }
func IncDownloadCanceled(platform string)  { downloadCanceled.WithLabelValues(platform).Inc() }
func ObserveDownloadDuration(platform string, d time.Duration) {
	downloadDuration.WithLabelValues(platform).Observe(d.Seconds())
}

// Sessions and delivery
func IncSessionOutcome(kind, outcome string) { sessionOutcomes.WithLabelValues(kind, outcome).Inc() }
func IncFilesDelivered(n int)                { filesDelivered.Add(float64(n)) }
func SetActiveTasks(n int)                   { activeTasksGauge.Set(float64(n)) }

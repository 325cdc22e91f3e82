// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsFailed    *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge

	AudioBytesReceived prometheus.Counter
	AudioFramesDropped prometheus.Counter

	TranscribeDuration *prometheus.HistogramVec
	GlossTokens        prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "glossa_sessions_started_total",
			Help: "Total number of recording sessions started",
		}),
		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "glossa_sessions_completed_total",
			Help: "Total number of sessions that produced a result",
		}),
		SessionsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_sessions_failed_total",
			Help: "Total number of sessions that ended with an error, by failure kind",
		}, []string{"kind"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "glossa_active_sessions",
			Help: "Current number of connected recording sessions",
		}),
		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "glossa_audio_bytes_received_total",
			Help: "Total audio bytes accepted from clients",
		}),
		AudioFramesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "glossa_audio_frames_dropped_total",
			Help: "Total non-control text frames ignored during receive",
		}),
		TranscribeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "glossa_transcribe_duration_seconds",
			Help:    "Wall time of engine inference per utterance",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"engine"}),
		GlossTokens: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "glossa_gloss_tokens_per_utterance",
			Help:    "Number of gloss tokens extracted per utterance",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
	}
}

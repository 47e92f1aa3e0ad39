package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

const (
	// SourceGRPC labels analyses requested over gRPC.
	SourceGRPC = "grpc"
	// SourceMQTT labels analyses triggered by MQTT snapshots.
	SourceMQTT = "mqtt"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spectrum_engine",
			Name:      "analyses_total",
			Help:      "Total number of snapshot analyses, partitioned by source.",
		},
		[]string{"source"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spectrum_engine",
			Name:      "analysis_seconds",
			Help:      "Snapshot analysis latency in seconds.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	findingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spectrum_engine",
			Name:      "findings_total",
			Help:      "Interference findings emitted, partitioned by kind and severity.",
		},
		[]string{"kind", "severity"},
	)

	huntTargets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "spectrum_engine",
			Name:      "hunt_targets_active",
			Help:      "Number of access points under active hunt tracking.",
		},
	)

	channelCongestion = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "spectrum_engine",
			Name:      "channel_congestion",
			Help:      "Latest congestion score (0-1) per 2.4GHz channel.",
		},
		[]string{"channel"},
	)

	ingestErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spectrum_engine",
			Name:      "ingest_errors_total",
			Help:      "Snapshot messages that could not be decoded or published.",
		},
	)
)

// Register attaches spectrum-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		findingsTotal,
		huntTargets,
		channelCongestion,
		ingestErrorsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	for _, kind := range models.FindingKinds {
		for _, severity := range models.Severities {
			findingsTotal.WithLabelValues(string(kind), string(severity))
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration and source, the findings it produced and
// the congestion it sampled.
func ObserveAnalysis(source string, duration time.Duration, report models.Report) {
	label := source
	if label != SourceMQTT {
		label = SourceGRPC
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
	for _, f := range report.Findings {
		findingsTotal.WithLabelValues(string(f.Kind), string(f.Severity)).Inc()
	}
	for _, status := range report.Congestion {
		if status.Latest != nil {
			channelCongestion.WithLabelValues(strconv.Itoa(status.Channel)).Set(status.Latest.CongestionScore)
		}
	}
}

// SetHuntTargets records the number of active hunt targets.
func SetHuntTargets(n int) {
	huntTargets.Set(float64(n))
}

// IncIngestErrors counts a failed ingest message.
func IncIngestErrors() {
	ingestErrorsTotal.Inc()
}

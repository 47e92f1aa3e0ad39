// Package ingest feeds scanner snapshots delivered over MQTT into the engine and
// publishes reports and engine events back to the broker.
package ingest

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/miradorstack/spectrum-engine/internal/api"
	"github.com/miradorstack/spectrum-engine/internal/metrics"
	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

// Analyzer runs one analysis pass.
type Analyzer interface {
	Analyze(snapshot models.Snapshot, location *models.Coordinate) models.Report
}

// Publisher delivers a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Topics derives the topic layout under a prefix.
type Topics struct {
	Prefix string
}

func (t Topics) Snapshots() string          { return t.Prefix + "/snapshots" }
func (t Topics) Reports() string            { return t.Prefix + "/reports" }
func (t Topics) TargetEvents() string       { return t.Prefix + "/events/target" }
func (t Topics) InterferenceEvents() string { return t.Prefix + "/events/interference" }

// InterferenceEvent is published when an analysis pass produced findings.
type InterferenceEvent struct {
	ReportID  string                       `json:"report_id"`
	Timestamp time.Time                    `json:"timestamp"`
	Findings  []models.InterferenceFinding `json:"findings"`
}

// TargetEvent is published when a hunt target recorded a new sample.
type TargetEvent struct {
	Timestamp time.Time             `json:"timestamp"`
	Target    models.TargetSnapshot `json:"target"`
}

// Ingester decodes snapshot messages, analyses them and publishes the results. It also
// implements engine.Observer so events from any analysis source reach the broker.
type Ingester struct {
	logger   *slog.Logger
	analyzer Analyzer
	pub      Publisher
	topics   Topics
	now      func() time.Time
}

// NewIngester constructs an Ingester.
func NewIngester(logger *slog.Logger, analyzer Analyzer, pub Publisher, topics Topics) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{logger: logger, analyzer: analyzer, pub: pub, topics: topics, now: time.Now}
}

// HandleMessage processes one snapshot payload. The payload is an AnalyzeRequest
// encoded as JSON.
func (i *Ingester) HandleMessage(payload []byte) error {
	var req api.AnalyzeRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		metrics.IncIngestErrors()
		return utils.NewAppError("ingest.decode", "malformed snapshot payload", err)
	}
	snapshot, location, err := api.FromAnalyzeRequest(&req)
	if err != nil {
		metrics.IncIngestErrors()
		return utils.NewAppError("ingest.validate", "rejected snapshot", err)
	}

	start := time.Now()
	report := i.analyzer.Analyze(snapshot, location)
	metrics.ObserveAnalysis(metrics.SourceMQTT, time.Since(start), report)

	if err := i.publishJSON(i.topics.Reports(), report); err != nil {
		metrics.IncIngestErrors()
		return utils.NewAppError("ingest.publish", "publish report", err)
	}
	i.logger.Debug("snapshot ingested",
		slog.String("report_id", report.ID),
		slog.Int("networks", report.NetworkCount))
	return nil
}

// TargetUpdated publishes a target event.
func (i *Ingester) TargetUpdated(target models.TargetSnapshot) {
	event := TargetEvent{Timestamp: i.now(), Target: target}
	if err := i.publishJSON(i.topics.TargetEvents(), event); err != nil {
		metrics.IncIngestErrors()
		i.logger.Warn("publish target event failed", slog.String("bssid", target.Target.BSSID), slog.Any("error", err))
	}
}

// InterferenceDetected publishes an interference event.
func (i *Ingester) InterferenceDetected(reportID string, findings []models.InterferenceFinding) {
	event := InterferenceEvent{ReportID: reportID, Timestamp: i.now(), Findings: findings}
	if err := i.publishJSON(i.topics.InterferenceEvents(), event); err != nil {
		metrics.IncIngestErrors()
		i.logger.Warn("publish interference event failed", slog.String("report_id", reportID), slog.Any("error", err))
	}
}

func (i *Ingester) publishJSON(topic string, v any) error {
	if i.pub == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return i.pub.Publish(topic, data)
}

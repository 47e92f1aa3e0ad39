package engine

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/spectrum"
	"github.com/miradorstack/spectrum-engine/internal/tracker"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

const (
	// MinScanInterval and MaxScanInterval bound the idle refresh interval.
	MinScanInterval = 3 * time.Second
	MaxScanInterval = 120 * time.Second

	defaultScanInterval = 5 * time.Second
	defaultHuntInterval = 2 * time.Second
)

// Observer receives notifications after an analysis pass. Calls happen outside the
// engine lock and receive copies.
type Observer interface {
	TargetUpdated(target models.TargetSnapshot)
	InterferenceDetected(reportID string, findings []models.InterferenceFinding)
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	CongestionCapacity int
	HuntCapacity       int
	TrendWindow        time.Duration
	ScanInterval       time.Duration
	HuntInterval       time.Duration
	Rules              *RuleEngine
	ClassifierOptions  []spectrum.ClassifierOption
	Clock              func() time.Time
}

// Engine owns the scorers, the classifier and every mutable history. All mutation
// goes through one lock; analysis itself runs on immutable inputs.
type Engine struct {
	logger     *slog.Logger
	scorers    []*spectrum.ChannelScorer
	classifier *spectrum.InterferenceClassifier
	rules      *RuleEngine
	now        func() time.Time

	trendWindow  time.Duration
	scanInterval time.Duration
	huntInterval time.Duration

	mu         sync.Mutex
	congestion *tracker.CongestionTracker
	hunt       *tracker.HuntTracker
	observers  []Observer
}

// New constructs an Engine.
func New(logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	if opts.TrendWindow <= 0 {
		opts.TrendWindow = tracker.DefaultTrendWindow
	}
	if opts.ScanInterval <= 0 {
		opts.ScanInterval = defaultScanInterval
	}
	if opts.HuntInterval <= 0 {
		opts.HuntInterval = defaultHuntInterval
	}

	return &Engine{
		logger: logger,
		scorers: []*spectrum.ChannelScorer{
			spectrum.ScorerFor(models.Band24GHz),
			spectrum.ScorerFor(models.Band5GHz),
		},
		classifier:   spectrum.NewInterferenceClassifier(opts.ClassifierOptions...),
		rules:        opts.Rules,
		now:          clock,
		trendWindow:  opts.TrendWindow,
		scanInterval: utils.ClampDuration(opts.ScanInterval, MinScanInterval, MaxScanInterval),
		huntInterval: opts.HuntInterval,
		congestion:   tracker.NewCongestionTracker(opts.CongestionCapacity),
		hunt:         tracker.NewHuntTracker(opts.HuntCapacity, tracker.WithClock(clock)),
	}
}

// AddObserver registers o for post-analysis notifications.
func (e *Engine) AddObserver(o Observer) {
	if o == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Analyze runs one full pass over snapshot. location, when valid, is copied into every
// hunt sample recorded by this pass.
func (e *Engine) Analyze(snapshot models.Snapshot, location *models.Coordinate) models.Report {
	networks := spectrum.Normalize(snapshot)
	ts := snapshot.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	report := models.Report{
		ID:           uuid.NewString(),
		Timestamp:    ts,
		NetworkCount: len(networks),
	}
	for _, scorer := range e.scorers {
		result := scorer.Analyze(networks)
		if result.Suggestion.Channel != nil {
			e.logger.Debug("channel suggested",
				slog.String("band", string(scorer.Band())),
				slog.Int("channel", *result.Suggestion.Channel),
				slog.Float64("score", result.Suggestion.Score))
		}
		report.Bands = append(report.Bands, result)
	}
	report.Findings = e.classifier.Classify(networks)
	report.Recommendations = ComposeRecommendations(report.Findings, report.Bands, e.rules)

	e.mu.Lock()
	recorded := e.congestion.Record(spectrum.FilterBand(networks, models.Band24GHz), ts)
	channels := make([]int, 0, len(recorded))
	for ch := range recorded {
		channels = append(channels, ch)
	}
	sort.Ints(channels)
	for _, ch := range channels {
		report.Congestion = append(report.Congestion, e.congestion.Status(ch))
	}

	updated := make(map[string]struct{})
	for _, n := range networks {
		if !e.hunt.IsTracking(n.BSSID) {
			continue
		}
		if e.hunt.RecordObservation(n.BSSID, n.Signal, location, n.FrequencyMHz, n.Channel) {
			updated[n.BSSID] = struct{}{}
		}
	}
	for bssid := range updated {
		report.Targets = append(report.Targets, withoutHistory(e.hunt.Snapshot(bssid, e.trendWindow)))
	}
	report.NextScanSeconds = e.refreshIntervalLocked().Seconds()
	observers := append([]Observer(nil), e.observers...)
	e.mu.Unlock()

	sort.Slice(report.Targets, func(i, j int) bool {
		return report.Targets[i].Target.BSSID < report.Targets[j].Target.BSSID
	})

	e.logger.Debug("snapshot analysed",
		slog.String("report_id", report.ID),
		slog.Int("networks", report.NetworkCount),
		slog.Int("findings", len(report.Findings)),
		slog.Int("targets_updated", len(report.Targets)))

	for _, o := range observers {
		for _, target := range report.Targets {
			o.TargetUpdated(target)
		}
		if len(report.Findings) > 0 {
			o.InterferenceDetected(report.ID, append([]models.InterferenceFinding(nil), report.Findings...))
		}
	}
	return report
}

// TrackTarget starts (or continues) tracking bssid.
func (e *Engine) TrackTarget(bssid, ssid string) models.TargetSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hunt.AddTarget(bssid, ssid)
	e.logger.Info("hunt target tracked", slog.String("bssid", bssid), slog.String("ssid", ssid))
	return e.hunt.Snapshot(bssid, e.trendWindow)
}

// UntrackTarget stops tracking bssid and discards its history.
func (e *Engine) UntrackTarget(bssid string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.hunt.RemoveTarget(bssid)
	if removed {
		e.logger.Info("hunt target removed", slog.String("bssid", bssid))
	}
	return removed
}

// SetTargetActive pauses or resumes sampling for bssid.
func (e *Engine) SetTargetActive(bssid string, active bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hunt.SetActive(bssid, active)
}

// Target returns the current state of bssid; unknown BSSIDs yield a neutral snapshot.
func (e *Engine) Target(bssid string) models.TargetSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hunt.Snapshot(bssid, e.trendWindow)
}

// Targets lists every tracked target without sample history.
func (e *Engine) Targets() []models.TargetSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	targets := e.hunt.Targets()
	out := make([]models.TargetSnapshot, 0, len(targets))
	for _, t := range targets {
		out = append(out, withoutHistory(e.hunt.Snapshot(t.BSSID, e.trendWindow)))
	}
	return out
}

// ActiveTargets returns how many targets are sampling.
func (e *Engine) ActiveTargets() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hunt.ActiveCount()
}

// ChannelStatus returns the congestion summary for channel.
func (e *Engine) ChannelStatus(channel int) models.ChannelStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.congestion.Status(channel)
}

// CongestionHistory returns the retained samples for channel, oldest first.
func (e *Engine) CongestionHistory(channel int) []models.ChannelCongestionSample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.congestion.History(channel)
}

// RefreshInterval is how soon the scanner should deliver the next snapshot.
func (e *Engine) RefreshInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshIntervalLocked()
}

func (e *Engine) refreshIntervalLocked() time.Duration {
	if e.hunt.ActiveCount() > 0 {
		return e.huntInterval
	}
	return e.scanInterval
}

func withoutHistory(s models.TargetSnapshot) models.TargetSnapshot {
	s.Target.History = nil
	return s
}

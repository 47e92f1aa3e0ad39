package tracker

import (
	"sort"
	"time"

	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/spectrum"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

const (
	// DefaultHuntCapacity bounds samples kept per target.
	DefaultHuntCapacity = 1000
	// DefaultTrendWindow is the trailing window used by RecentTrend.
	DefaultTrendWindow = 5 * time.Minute
)

type huntTarget struct {
	bssid        string
	ssid         string
	active       bool
	history      *utils.Ring[models.HuntSample]
	strongest    *float64
	strongestLoc *models.Coordinate
	lastSeen     time.Time
	frequencyMHz int
	channel      int
}

// HuntTracker follows individual access points over time.
type HuntTracker struct {
	capacity int
	now      func() time.Time
	targets  map[string]*huntTarget
}

// HuntOption customises a HuntTracker.
type HuntOption func(*HuntTracker)

// WithClock overrides the time source used to stamp samples and evaluate trend windows.
func WithClock(now func() time.Time) HuntOption {
	return func(t *HuntTracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewHuntTracker creates a tracker keeping capacity samples per target.
func NewHuntTracker(capacity int, opts ...HuntOption) *HuntTracker {
	if capacity <= 0 {
		capacity = DefaultHuntCapacity
	}
	t := &HuntTracker{
		capacity: capacity,
		now:      time.Now,
		targets:  make(map[string]*huntTarget),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddTarget starts tracking bssid. Tracking an existing target returns it unchanged,
// except that an empty SSID is filled in.
func (t *HuntTracker) AddTarget(bssid, ssid string) models.HuntTarget {
	target, ok := t.targets[bssid]
	if !ok {
		target = &huntTarget{
			bssid:   bssid,
			ssid:    ssid,
			active:  true,
			history: utils.NewRing[models.HuntSample](t.capacity),
		}
		t.targets[bssid] = target
	} else if target.ssid == "" {
		target.ssid = ssid
	}
	return target.export()
}

// RemoveTarget stops tracking bssid and discards its history.
func (t *HuntTracker) RemoveTarget(bssid string) bool {
	if _, ok := t.targets[bssid]; !ok {
		return false
	}
	delete(t.targets, bssid)
	return true
}

// SetActive pauses or resumes sampling for bssid.
func (t *HuntTracker) SetActive(bssid string, active bool) bool {
	target, ok := t.targets[bssid]
	if !ok {
		return false
	}
	target.active = active
	return true
}

// IsTracking reports whether bssid is tracked and active.
func (t *HuntTracker) IsTracking(bssid string) bool {
	target, ok := t.targets[bssid]
	return ok && target.active
}

// ActiveCount returns how many targets are currently sampling.
func (t *HuntTracker) ActiveCount() int {
	count := 0
	for _, target := range t.targets {
		if target.active {
			count++
		}
	}
	return count
}

// RecordObservation appends a sample for an active target; unknown or paused targets
// are ignored. The strongest signal only moves on a strictly greater reading.
func (t *HuntTracker) RecordObservation(bssid string, signal float64, location *models.Coordinate, frequencyMHz, channel int) bool {
	target, ok := t.targets[bssid]
	if !ok || !target.active {
		return false
	}
	now := t.now()
	loc := location.Copy()
	target.history.Push(models.HuntSample{
		Timestamp:    now,
		Signal:       signal,
		Location:     loc,
		FrequencyMHz: frequencyMHz,
		Channel:      channel,
	})
	target.lastSeen = now
	target.frequencyMHz = frequencyMHz
	target.channel = channel

	if target.strongest == nil || signal > *target.strongest {
		strongest := signal
		target.strongest = &strongest
		target.strongestLoc = loc.Copy()
	}
	return true
}

// Target returns a copy of the tracked state for bssid.
func (t *HuntTracker) Target(bssid string) (models.HuntTarget, bool) {
	target, ok := t.targets[bssid]
	if !ok {
		return models.HuntTarget{BSSID: bssid}, false
	}
	return target.export(), true
}

// Targets returns copies of every tracked target ordered by BSSID, without history.
func (t *HuntTracker) Targets() []models.HuntTarget {
	out := make([]models.HuntTarget, 0, len(t.targets))
	for _, target := range t.targets {
		exported := target.export()
		exported.History = nil
		out = append(out, exported)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BSSID < out[j].BSSID })
	return out
}

// Statistics summarises the retained history. Unknown targets get the empty sentinel.
func (t *HuntTracker) Statistics(bssid string) models.SignalStats {
	target, ok := t.targets[bssid]
	if !ok {
		return spectrum.Stats(nil)
	}
	return spectrum.Stats(signals(target.history.Slice()))
}

// RecentTrend compares the halves of the samples inside the trailing window.
// Unknown targets and windows with fewer than two samples are stable.
func (t *HuntTracker) RecentTrend(bssid string, window time.Duration) models.Trend {
	target, ok := t.targets[bssid]
	if !ok {
		return models.TrendStable
	}
	if window <= 0 {
		window = DefaultTrendWindow
	}
	now := t.now()
	var recent []float64
	for _, s := range target.history.Slice() {
		if utils.WithinWindow(s.Timestamp, now, window) {
			recent = append(recent, s.Signal)
		}
	}
	return spectrum.Trend(recent, len(recent)/2)
}

// Snapshot bundles a target with statistics and trend. Unknown targets yield a
// neutral, untracked snapshot.
func (t *HuntTracker) Snapshot(bssid string, window time.Duration) models.TargetSnapshot {
	target, ok := t.Target(bssid)
	snap := models.TargetSnapshot{
		Target:     target,
		Tracked:    ok,
		Statistics: t.Statistics(bssid),
		Trend:      t.RecentTrend(bssid, window),
	}
	if n := len(target.History); n > 0 {
		current := target.History[n-1].Signal
		snap.CurrentSignal = &current
	}
	return snap
}

func (h *huntTarget) export() models.HuntTarget {
	out := models.HuntTarget{
		BSSID:             h.bssid,
		SSID:              h.ssid,
		IsActive:          h.active,
		History:           h.history.Slice(),
		StrongestLocation: h.strongestLoc.Copy(),
		LastSeen:          h.lastSeen,
		FrequencyMHz:      h.frequencyMHz,
		Channel:           h.channel,
	}
	if h.strongest != nil {
		s := *h.strongest
		out.StrongestSignal = &s
	}
	for i := range out.History {
		out.History[i].Location = out.History[i].Location.Copy()
	}
	return out
}

func signals(samples []models.HuntSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Signal
	}
	return out
}

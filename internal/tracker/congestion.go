// Package tracker keeps the engine's bounded histories: per-channel congestion and
// per-BSSID hunt samples. Trackers are not safe for concurrent use; the engine
// serialises access behind one lock.
package tracker

import (
	"math"
	"sort"
	"time"

	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

const (
	// DefaultCongestionCapacity bounds samples kept per channel.
	DefaultCongestionCapacity = 100
	// RecommendationWindow is how many recent samples feed a recommendation.
	RecommendationWindow = 10

	minTrackedChannel = 1
	maxTrackedChannel = 14

	poorAbove = 0.7
	fairAbove = 0.4
)

// CongestionScore blends density (70%) and average dBm (30%) into [0,1].
func CongestionScore(count int, averageSignal float64) float64 {
	countScore := math.Min(float64(count)/10.0, 1.0)
	signalScore := math.Max(0, math.Min((averageSignal+100)/100, 1.0))
	return countScore*0.7 + signalScore*0.3
}

// CongestionTier maps an average congestion score onto a recommendation.
func CongestionTier(average float64) models.CongestionTier {
	switch {
	case average > poorAbove:
		return models.TierPoor
	case average > fairAbove:
		return models.TierFair
	default:
		return models.TierGood
	}
}

// CongestionTracker keeps a rolling congestion history for channels 1-14.
type CongestionTracker struct {
	capacity int
	history  map[int]*utils.Ring[models.ChannelCongestionSample]
}

// NewCongestionTracker creates a tracker keeping capacity samples per channel.
func NewCongestionTracker(capacity int) *CongestionTracker {
	if capacity <= 0 {
		capacity = DefaultCongestionCapacity
	}
	return &CongestionTracker{
		capacity: capacity,
		history:  make(map[int]*utils.Ring[models.ChannelCongestionSample]),
	}
}

// Record appends one sample for every tracked channel with at least one network
// and returns the appended samples keyed by channel.
func (t *CongestionTracker) Record(networks []models.NetworkObservation, ts time.Time) map[int]models.ChannelCongestionSample {
	type agg struct {
		count int
		sum   float64
	}
	perChannel := make(map[int]*agg)
	for _, n := range networks {
		if n.Channel < minTrackedChannel || n.Channel > maxTrackedChannel {
			continue
		}
		a, ok := perChannel[n.Channel]
		if !ok {
			a = &agg{}
			perChannel[n.Channel] = a
		}
		a.count++
		a.sum += n.Signal
	}

	recorded := make(map[int]models.ChannelCongestionSample, len(perChannel))
	for ch, a := range perChannel {
		avg := a.sum / float64(a.count)
		sample := models.ChannelCongestionSample{
			Timestamp:       ts,
			NetworkCount:    a.count,
			AverageSignal:   avg,
			CongestionScore: CongestionScore(a.count, avg),
		}
		t.ring(ch).Push(sample)
		recorded[ch] = sample
	}
	return recorded
}

// Recommendation averages the last RecommendationWindow samples of channel.
func (t *CongestionTracker) Recommendation(channel int) models.CongestionTier {
	ring, ok := t.history[channel]
	if !ok || ring.Len() == 0 {
		return models.TierNoData
	}
	recent := ring.Tail(RecommendationWindow)
	sum := 0.0
	for _, s := range recent {
		sum += s.CongestionScore
	}
	return CongestionTier(sum / float64(len(recent)))
}

// History returns a copy of the samples for channel, oldest first.
func (t *CongestionTracker) History(channel int) []models.ChannelCongestionSample {
	ring, ok := t.history[channel]
	if !ok {
		return nil
	}
	return ring.Slice()
}

// Status summarises channel. Unknown or invalid channels report no-data.
func (t *CongestionTracker) Status(channel int) models.ChannelStatus {
	status := models.ChannelStatus{Channel: channel, Recommendation: t.Recommendation(channel)}
	if ring, ok := t.history[channel]; ok {
		status.Samples = ring.Len()
		if last, ok := ring.Last(); ok {
			status.Latest = &last
		}
	}
	return status
}

// Channels lists channels with history, ascending.
func (t *CongestionTracker) Channels() []int {
	channels := make([]int, 0, len(t.history))
	for ch := range t.history {
		channels = append(channels, ch)
	}
	sort.Ints(channels)
	return channels
}

func (t *CongestionTracker) ring(channel int) *utils.Ring[models.ChannelCongestionSample] {
	ring, ok := t.history[channel]
	if !ok {
		ring = utils.NewRing[models.ChannelCongestionSample](t.capacity)
		t.history[channel] = ring
	}
	return ring
}

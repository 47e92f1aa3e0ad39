package tracker

import (
	"math"
	"testing"
	"time"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

func TestCongestionScoreBounds(t *testing.T) {
	if got := CongestionScore(20, 0); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected saturated score 1, got %f", got)
	}
	if got := CongestionScore(20, -10); math.Abs(got-0.97) > 1e-9 {
		t.Fatalf("expected count-saturated score 0.97, got %f", got)
	}
	if got := CongestionScore(1, -150); math.Abs(got-0.07) > 1e-9 {
		t.Fatalf("expected signal component clamped at 0, got %f", got)
	}
	if got := CongestionScore(5, -50); math.Abs(got-(0.35+0.15)) > 1e-9 {
		t.Fatalf("unexpected blended score %f", got)
	}
}

func TestRecordAppendsOnlyOccupiedChannels(t *testing.T) {
	tr := NewCongestionTracker(0)
	now := time.Now()
	recorded := tr.Record([]models.NetworkObservation{
		{BSSID: "a", Channel: 6, Signal: -60},
		{BSSID: "b", Channel: 6, Signal: -40},
		{BSSID: "c", Channel: 36, Signal: -50},
		{BSSID: "d", Channel: 0, Signal: -50},
	}, now)

	if len(recorded) != 1 {
		t.Fatalf("expected one recorded channel, got %d", len(recorded))
	}
	sample := recorded[6]
	if sample.NetworkCount != 2 || sample.AverageSignal != -50 || !sample.Timestamp.Equal(now) {
		t.Fatalf("unexpected sample %+v", sample)
	}
	if chans := tr.Channels(); len(chans) != 1 || chans[0] != 6 {
		t.Fatalf("unexpected channels %v", chans)
	}
	if tr.Recommendation(1) != models.TierNoData {
		t.Fatalf("expected no-data for unobserved channel")
	}
	if tr.Recommendation(99) != models.TierNoData {
		t.Fatalf("expected no-data for invalid channel")
	}
}

func TestRecordEvictsPastCapacity(t *testing.T) {
	tr := NewCongestionTracker(DefaultCongestionCapacity)
	start := time.Now()
	for i := 0; i < DefaultCongestionCapacity+5; i++ {
		tr.Record([]models.NetworkObservation{{Channel: 1, Signal: -70}}, start.Add(time.Duration(i)*time.Second))
	}
	history := tr.History(1)
	if len(history) != DefaultCongestionCapacity {
		t.Fatalf("expected %d samples, got %d", DefaultCongestionCapacity, len(history))
	}
	if !history[0].Timestamp.Equal(start.Add(5 * time.Second)) {
		t.Fatalf("expected oldest samples to be evicted first, got %v", history[0].Timestamp)
	}
}

func TestRecommendationTiers(t *testing.T) {
	tr := NewCongestionTracker(0)
	put := func(channel int, score float64, n int) {
		ring := tr.ring(channel)
		for i := 0; i < n; i++ {
			ring.Push(models.ChannelCongestionSample{CongestionScore: score})
		}
	}

	put(1, 0.9, 10)
	put(6, 0.2, 10)
	put(11, 0.5, 10)
	if got := tr.Recommendation(1); got != models.TierPoor {
		t.Fatalf("expected poor, got %s", got)
	}
	if got := tr.Recommendation(6); got != models.TierGood {
		t.Fatalf("expected good, got %s", got)
	}
	if got := tr.Recommendation(11); got != models.TierFair {
		t.Fatalf("expected fair, got %s", got)
	}

	// Only the newest ten samples count.
	put(6, 0.9, 10)
	if got := tr.Recommendation(6); got != models.TierPoor {
		t.Fatalf("expected recent samples to dominate, got %s", got)
	}
}

func TestStatusReportsLatest(t *testing.T) {
	tr := NewCongestionTracker(0)
	now := time.Now()
	tr.Record([]models.NetworkObservation{{Channel: 11, Signal: -80}}, now)
	status := tr.Status(11)
	if status.Samples != 1 || status.Latest == nil || status.Latest.NetworkCount != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
	if empty := tr.Status(3); empty.Latest != nil || empty.Recommendation != models.TierNoData {
		t.Fatalf("unexpected empty status %+v", empty)
	}
}

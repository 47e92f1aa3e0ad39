package spectrum

import (
	"testing"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

func TestChannelForFrequency(t *testing.T) {
	cases := map[int]int{2412: 1, 2437: 6, 2462: 11, 2472: 13, 2484: 14, 5180: 36, 5745: 149, 5825: 165, 0: 0, 3000: 0}
	for mhz, want := range cases {
		if got := ChannelForFrequency(mhz); got != want {
			t.Fatalf("frequency %d: expected channel %d, got %d", mhz, want, got)
		}
	}
}

func TestBandOfFallsBackToChannel(t *testing.T) {
	if b := BandOf(models.NetworkObservation{FrequencyMHz: 2437}); b != models.Band24GHz {
		t.Fatalf("expected 2.4GHz, got %s", b)
	}
	if b := BandOf(models.NetworkObservation{Channel: 44}); b != models.Band5GHz {
		t.Fatalf("expected 5GHz from channel, got %s", b)
	}
	if b := BandOf(models.NetworkObservation{}); b != models.BandUnknown {
		t.Fatalf("expected unknown band, got %s", b)
	}
}

func TestQualityConversionRoundTrip(t *testing.T) {
	if q := Quality(-75); q != 50 {
		t.Fatalf("expected 50%% for -75dBm, got %f", q)
	}
	if q := Quality(-30); q != 100 {
		t.Fatalf("expected clamp to 100, got %f", q)
	}
	if q := Quality(-120); q != 0 {
		t.Fatalf("expected clamp to 0, got %f", q)
	}
	if d := PercentToDBm(50); d != -75 {
		t.Fatalf("expected -75dBm, got %f", d)
	}
}

func TestNormalizeConvertsPercentAndDerivesChannel(t *testing.T) {
	snap := models.Snapshot{
		SignalScale: models.SignalScalePercent,
		Networks: []models.NetworkObservation{
			{BSSID: "aa", FrequencyMHz: 2437, Signal: 80},
			{BSSID: "bb", Signal: 40},
		},
	}
	out := Normalize(snap)
	if out[0].Channel != 6 || out[0].Signal != -60 {
		t.Fatalf("unexpected first observation %+v", out[0])
	}
	if out[1].Channel != 0 || out[1].Signal != -80 {
		t.Fatalf("unexpected malformed observation %+v", out[1])
	}
	if snap.Networks[0].Signal != 80 {
		t.Fatalf("normalize must not mutate the input snapshot")
	}
}

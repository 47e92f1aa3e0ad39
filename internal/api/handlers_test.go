package api

import (
	"testing"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

func TestNormalizeBSSID(t *testing.T) {
	cases := map[string]string{
		"AA:BB:CC:DD:EE:FF":   "aa:bb:cc:dd:ee:ff",
		" aa-bb-cc-dd-ee-01 ": "aa:bb:cc:dd:ee:01",
		"Not-A-Mac":           "not-a-mac",
		"":                    "",
	}
	for in, want := range cases {
		if got := NormalizeBSSID(in); got != want {
			t.Fatalf("NormalizeBSSID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromAnalyzeRequest(t *testing.T) {
	req := &AnalyzeRequest{
		Snapshot: models.Snapshot{
			SignalScale: models.SignalScalePercent,
			Networks:    []models.NetworkObservation{{BSSID: "AA:BB:CC:DD:EE:FF", Channel: 6, Signal: 70}},
		},
		Location: &models.Coordinate{Latitude: 1, Longitude: 2, Valid: true},
	}

	snapshot, loc, err := FromAnalyzeRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Networks[0].BSSID != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("expected normalised bssid, got %q", snapshot.Networks[0].BSSID)
	}
	if req.Snapshot.Networks[0].BSSID != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("request must not be mutated")
	}
	if loc == nil || loc == req.Location || loc.Latitude != 1 {
		t.Fatalf("expected copied location, got %+v", loc)
	}
}

func TestFromAnalyzeRequestInvalid(t *testing.T) {
	if _, _, err := FromAnalyzeRequest(nil); err == nil {
		t.Fatalf("expected error for nil request")
	}
	req := &AnalyzeRequest{Snapshot: models.Snapshot{SignalScale: "bars"}}
	if _, _, err := FromAnalyzeRequest(req); err == nil {
		t.Fatalf("expected error for unknown scale")
	}
}

func TestFromAnalyzeRequestDropsInvalidFix(t *testing.T) {
	req := &AnalyzeRequest{Location: &models.Coordinate{Latitude: 1, Valid: false}}
	_, loc, err := FromAnalyzeRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != nil {
		t.Fatalf("expected invalid fix to be dropped")
	}
}

func TestFromTargetRequest(t *testing.T) {
	if _, err := FromTargetRequest(&TargetRequest{BSSID: "  "}); err == nil {
		t.Fatalf("expected error for blank bssid")
	}
	bssid, err := FromTargetRequest(&TargetRequest{BSSID: "AA:BB:CC:00:00:01"})
	if err != nil || bssid != "aa:bb:cc:00:00:01" {
		t.Fatalf("unexpected result %q, %v", bssid, err)
	}
}

func TestFromChannelRequest(t *testing.T) {
	if _, err := FromChannelRequest(nil); err == nil {
		t.Fatalf("expected error for nil request")
	}
	for _, want := range []int{11, 36, 0, -3} {
		if ch, err := FromChannelRequest(&ChannelRequest{Channel: want}); err != nil || ch != want {
			t.Fatalf("channel %d: unexpected result %d, %v", want, ch, err)
		}
	}
}

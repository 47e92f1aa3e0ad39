package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFindingEnumsValid(t *testing.T) {
	for _, kind := range FindingKinds {
		if !kind.Valid() {
			t.Fatalf("kind %q should be valid", kind)
		}
	}
	for _, severity := range Severities {
		if !severity.Valid() {
			t.Fatalf("severity %q should be valid", severity)
		}
	}
	if FindingKind("bluetooth").Valid() || Severity("critical").Valid() {
		t.Fatalf("undeclared values must be invalid")
	}
}

func TestSeverityCounts(t *testing.T) {
	counts := SeverityCounts([]InterferenceFinding{
		{Kind: FindingChannelCongestion, Severity: SeverityHigh},
		{Kind: FindingWeakSignals, Severity: SeverityLow},
		{Kind: FindingChannelOverlap, Severity: SeverityLow},
	})
	if counts[SeverityHigh] != 1 || counts[SeverityLow] != 2 || counts[SeverityMedium] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestCoordinateCopy(t *testing.T) {
	var nilFix *Coordinate
	if nilFix.Copy() != nil {
		t.Fatalf("nil coordinate should copy to nil")
	}
	if (&Coordinate{Latitude: 1}).Copy() != nil {
		t.Fatalf("invalid fix should copy to nil")
	}
	fix := &Coordinate{Latitude: 1, Longitude: 2, Valid: true}
	dup := fix.Copy()
	dup.Latitude = 9
	if fix.Latitude != 1 {
		t.Fatalf("copy must be independent")
	}
}

func TestReportBandLookup(t *testing.T) {
	report := Report{Bands: []ChannelAnalysisResult{{Band: Band24GHz}, {Band: Band5GHz}}}
	if band, ok := report.Band(Band5GHz); !ok || band.Band != Band5GHz {
		t.Fatalf("expected 5GHz band result")
	}
	if _, ok := report.Band(BandUnknown); ok {
		t.Fatalf("unknown band should not be found")
	}
}

func TestFindingKeepsChannelZero(t *testing.T) {
	data, err := json.Marshal(InterferenceFinding{Kind: FindingChannelCongestion, Severity: SeverityMedium, Channel: 0, Count: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"channel":0`) {
		t.Fatalf("expected channel 0 to be serialised, got %s", data)
	}
}

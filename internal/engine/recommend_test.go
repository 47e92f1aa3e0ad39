package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

func TestRuleEngineRecommend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(`rules:
  - id: congestion
    match:
      kind: channel_congestion
      severity: high
    recommendations: ["Move the access point off the shared channel"]
  - id: any-weak
    match:
      kind: weak_signals
    recommendations: ["Check antenna placement"]
`), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	engine, err := NewRuleEngine(path, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err != nil {
		t.Fatalf("new rule engine: %v", err)
	}

	findings := []models.InterferenceFinding{
		{Kind: models.FindingChannelCongestion, Severity: models.SeverityMedium},
		{Kind: models.FindingWeakSignals, Severity: models.SeverityLow},
	}
	recs := engine.Recommend(findings)
	if len(recs) != 1 || recs[0] != "Check antenna placement" {
		t.Fatalf("unexpected recommendations %v", recs)
	}
}

func TestRuleEngineNoFile(t *testing.T) {
	engine, err := NewRuleEngine("non-existent", nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if engine != nil {
		t.Fatalf("expected nil engine when file missing")
	}
	if recs := engine.Recommend([]models.InterferenceFinding{{Kind: models.FindingWeakSignals}}); recs != nil {
		t.Fatalf("nil engine should recommend nothing")
	}
}

func TestRuleEngineInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: [unterminated"), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := NewRuleEngine(path, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestComposeRecommendations(t *testing.T) {
	one, thirtySix := 1, 36
	bands := []models.ChannelAnalysisResult{
		{Band: models.Band24GHz, Suggestion: models.Suggestion{Channel: &one, Reason: "2.4GHz band is free"}},
		{Band: models.Band5GHz, Suggestion: models.Suggestion{Channel: &thirtySix, Reason: "5GHz band is free"}},
	}

	clean := ComposeRecommendations(nil, bands, nil)
	if len(clean) != 3 || !strings.Contains(clean[0], "No interference") {
		t.Fatalf("unexpected clean recommendations %v", clean)
	}
	if !strings.Contains(clean[1], "channel 1") || !strings.Contains(clean[2], "channel 36") {
		t.Fatalf("expected channel suggestions, got %v", clean)
	}

	findings := []models.InterferenceFinding{
		{Kind: models.FindingChannelCongestion, Severity: models.SeverityHigh},
		{Kind: models.FindingChannelCongestion, Severity: models.SeverityHigh},
		{Kind: models.FindingWeakSignals, Severity: models.SeverityLow},
	}
	recs := ComposeRecommendations(findings, bands, nil)
	if !strings.HasPrefix(recs[0], "2 high-severity") {
		t.Fatalf("expected high severity summary, got %q", recs[0])
	}
}

func TestDefaultRulePackLoads(t *testing.T) {
	engine, err := NewRuleEngine(filepath.Join("..", "..", "configs", "rules", "default.yaml"), nil)
	if err != nil {
		t.Fatalf("load default rules: %v", err)
	}
	if engine == nil || len(engine.rules) == 0 {
		t.Fatalf("expected default rules to load")
	}
	for _, rule := range engine.rules {
		if !models.FindingKind(rule.Match.Kind).Valid() {
			t.Fatalf("rule %s matches unknown kind %q", rule.ID, rule.Match.Kind)
		}
	}
}

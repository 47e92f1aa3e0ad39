package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// RuleEngine adds operator-supplied advice for matching findings.
type RuleEngine struct {
	rules  []Rule
	logger *slog.Logger
}

// Rule represents a single recommendation rule.
type Rule struct {
	ID              string    `yaml:"id"`
	Match           RuleMatch `yaml:"match"`
	Recommendations []string  `yaml:"recommendations"`
}

// RuleMatch defines optional attributes for rule matching. Empty fields match anything.
type RuleMatch struct {
	Kind     string `yaml:"kind"`
	Severity string `yaml:"severity"`
}

// RuleConfigFile is the YAML root structure.
type RuleConfigFile struct {
	Rules []Rule `yaml:"rules"`
}

// NewRuleEngine loads rules from the provided path. If path is empty or missing, returns nil engine.
func NewRuleEngine(path string, logger *slog.Logger) (*RuleEngine, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg RuleConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, rule := range cfg.Rules {
		if rule.Match.Kind != "" && !models.FindingKind(rule.Match.Kind).Valid() {
			logger.Warn("rule matches unknown finding kind", slog.String("rule", rule.ID), slog.String("kind", rule.Match.Kind))
		}
	}
	return &RuleEngine{rules: cfg.Rules, logger: logger}, nil
}

// Recommend returns the deduplicated advice of every rule matching at least one finding.
func (e *RuleEngine) Recommend(findings []models.InterferenceFinding) []string {
	if e == nil {
		return nil
	}
	matched := make([]string, 0)
	for _, rule := range e.rules {
		for _, f := range findings {
			if ruleMatches(rule.Match, f) {
				matched = appendUnique(matched, rule.Recommendations...)
				break
			}
		}
	}
	return matched
}

func ruleMatches(m RuleMatch, f models.InterferenceFinding) bool {
	if m.Kind != "" && !strings.EqualFold(m.Kind, string(f.Kind)) {
		return false
	}
	if m.Severity != "" && !strings.EqualFold(m.Severity, string(f.Severity)) {
		return false
	}
	return true
}

// ComposeRecommendations builds human-readable advice from finding counts and suggestions.
// It never re-derives findings.
func ComposeRecommendations(findings []models.InterferenceFinding, bands []models.ChannelAnalysisResult, rules *RuleEngine) []string {
	recs := make([]string, 0)
	counts := models.SeverityCounts(findings)

	switch {
	case len(findings) == 0:
		recs = append(recs, "No interference detected; current channel plan looks healthy")
	case counts[models.SeverityHigh] > 0:
		recs = append(recs, fmt.Sprintf("%d high-severity interference issues need attention", counts[models.SeverityHigh]))
	case counts[models.SeverityMedium] > 0:
		recs = append(recs, fmt.Sprintf("%d medium-severity interference issues detected", counts[models.SeverityMedium]))
	default:
		recs = append(recs, fmt.Sprintf("%d minor interference notes", counts[models.SeverityLow]))
	}

	for _, band := range bands {
		s := band.Suggestion
		if s.Channel == nil {
			continue
		}
		recs = append(recs, fmt.Sprintf("Use channel %d on %s (%s)", *s.Channel, band.Band, s.Reason))
	}

	return appendUnique(recs, rules.Recommend(findings)...)
}

func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec] = struct{}{}
	}
	for _, item := range additions {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		existing = append(existing, item)
		seen[item] = struct{}{}
	}
	return existing
}

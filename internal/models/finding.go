package models

import "fmt"

// FindingKind enumerates interference heuristics.
type FindingKind string

const (
	FindingChannelCongestion     FindingKind = "channel_congestion"
	FindingChannelOverlap        FindingKind = "channel_overlap"
	FindingWeakSignals           FindingKind = "weak_signals"
	FindingSignalVariance        FindingKind = "signal_variance"
	FindingSimilarSignals        FindingKind = "similar_signals"
	FindingFrequencyHoppingProxy FindingKind = "frequency_hopping_proxy"
)

// FindingKinds lists every kind in presentation order.
var FindingKinds = []FindingKind{
	FindingChannelCongestion,
	FindingChannelOverlap,
	FindingWeakSignals,
	FindingSignalVariance,
	FindingSimilarSignals,
	FindingFrequencyHoppingProxy,
}

// Valid reports whether k is one of the declared kinds.
func (k FindingKind) Valid() bool {
	switch k {
	case FindingChannelCongestion, FindingChannelOverlap, FindingWeakSignals,
		FindingSignalVariance, FindingSimilarSignals, FindingFrequencyHoppingProxy:
		return true
	}
	return false
}

// Severity captures impact levels.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// InterferenceFinding is one heuristic result. Only the fields relevant to Kind are set.
type InterferenceFinding struct {
	Kind        FindingKind `json:"kind"`
	Severity    Severity    `json:"severity"`
	Channel     int         `json:"channel"`
	PairChannel int         `json:"pair_channel,omitempty"`
	Overlap     int         `json:"overlap,omitempty"`
	Count       int         `json:"count,omitempty"`
	Variance    float64     `json:"variance,omitempty"`
	Description string      `json:"description"`
}

func (f InterferenceFinding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Kind, f.Description)
}

// SeverityCounts tallies findings by severity.
func SeverityCounts(findings []InterferenceFinding) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

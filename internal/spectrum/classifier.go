package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// Thresholds on the 0-100 quality scale.
const (
	WeakQualityBelow     = 30.0
	HighVarianceAbove    = 1000.0
	SimilarQualityWithin = 5.0
	HopProxyCountAbove   = 15
)

// HopDetector emits a frequency-hopping finding for a set of 2.4GHz networks.
type HopDetector interface {
	Detect(networks []models.NetworkObservation) (models.InterferenceFinding, bool)
}

// CountThresholdHopProxy flags dense 2.4GHz environments. It does not detect hopping:
// it only uses network count as a coarse stand-in for spectrum churn.
type CountThresholdHopProxy struct {
	Threshold int
}

// Detect implements HopDetector.
func (p CountThresholdHopProxy) Detect(networks []models.NetworkObservation) (models.InterferenceFinding, bool) {
	if len(networks) <= p.Threshold {
		return models.InterferenceFinding{}, false
	}
	return models.InterferenceFinding{
		Kind:        models.FindingFrequencyHoppingProxy,
		Severity:    models.SeverityMedium,
		Count:       len(networks),
		Description: fmt.Sprintf("%d networks on 2.4GHz; dense environments often coincide with frequency-hopping devices", len(networks)),
	}, true
}

// InterferenceClassifier combines congestion, overlap and signal heuristics into findings.
type InterferenceClassifier struct {
	overlap *OverlapDetector
	hop     HopDetector
}

// ClassifierOption customises an InterferenceClassifier.
type ClassifierOption func(*InterferenceClassifier)

// WithHopDetector swaps the frequency-hopping heuristic. A nil detector disables it.
func WithHopDetector(d HopDetector) ClassifierOption {
	return func(c *InterferenceClassifier) {
		c.hop = d
	}
}

// WithOverlapDetector replaces the default overlap detector.
func WithOverlapDetector(d *OverlapDetector) ClassifierOption {
	return func(c *InterferenceClassifier) {
		if d != nil {
			c.overlap = d
		}
	}
}

// NewInterferenceClassifier constructs a classifier with the default heuristics.
func NewInterferenceClassifier(opts ...ClassifierOption) *InterferenceClassifier {
	c := &InterferenceClassifier{
		overlap: NewOverlapDetector(),
		hop:     CountThresholdHopProxy{Threshold: HopProxyCountAbove},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns findings for the 2.4GHz part of networks in presentation order:
// congestion, overlap, weak signals, variance, similar signals, hopping proxy.
func (c *InterferenceClassifier) Classify(networks []models.NetworkObservation) []models.InterferenceFinding {
	band := FilterBand(networks, models.Band24GHz)
	if len(band) == 0 {
		return nil
	}
	channels := Channels(band)
	findings := make([]models.InterferenceFinding, 0)

	for _, cc := range c.overlap.Congested(channels) {
		findings = append(findings, models.InterferenceFinding{
			Kind:        models.FindingChannelCongestion,
			Severity:    cc.Severity,
			Channel:     cc.Channel,
			Count:       cc.Count,
			Description: fmt.Sprintf("%d networks share channel %d", cc.Count, cc.Channel),
		})
	}

	for _, ov := range c.overlap.Overlaps(channels) {
		severity := models.SeverityLow
		if ov.Overlap >= 3 {
			severity = models.SeverityMedium
		}
		findings = append(findings, models.InterferenceFinding{
			Kind:        models.FindingChannelOverlap,
			Severity:    severity,
			Channel:     ov.Channel1,
			PairChannel: ov.Channel2,
			Overlap:     ov.Overlap,
			Count:       ov.NetworkPairs,
			Description: fmt.Sprintf("channels %d and %d overlap (magnitude %d)", ov.Channel1, ov.Channel2, ov.Overlap),
		})
	}

	qualities := make([]float64, len(band))
	weak := 0
	for i, n := range band {
		qualities[i] = Quality(n.Signal)
		if qualities[i] < WeakQualityBelow {
			weak++
		}
	}
	if weak > 0 {
		findings = append(findings, models.InterferenceFinding{
			Kind:        models.FindingWeakSignals,
			Severity:    models.SeverityLow,
			Count:       weak,
			Description: fmt.Sprintf("%d networks below %.0f%% signal", weak, WeakQualityBelow),
		})
	}

	if variance := stat.PopVariance(qualities, nil); variance > HighVarianceAbove {
		findings = append(findings, models.InterferenceFinding{
			Kind:        models.FindingSignalVariance,
			Severity:    models.SeverityMedium,
			Variance:    variance,
			Description: fmt.Sprintf("signal variance %.0f suggests non-Wi-Fi interference", variance),
		})
	}

	if pairs := similarPairs(qualities); pairs > 0 {
		findings = append(findings, models.InterferenceFinding{
			Kind:        models.FindingSimilarSignals,
			Severity:    models.SeverityLow,
			Count:       pairs,
			Description: fmt.Sprintf("%d network pairs within %.0f%% of each other", pairs, SimilarQualityWithin),
		})
	}

	if c.hop != nil {
		if f, ok := c.hop.Detect(band); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

func similarPairs(qualities []float64) int {
	pairs := 0
	for i := range qualities {
		for j := i + 1; j < len(qualities); j++ {
			if math.Abs(qualities[i]-qualities[j]) <= SimilarQualityWithin {
				pairs++
			}
		}
	}
	return pairs
}

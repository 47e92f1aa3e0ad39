package spectrum

import (
	"sort"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// ChannelOverlap is one pair of distinct 2.4GHz channels close enough to interfere.
type ChannelOverlap struct {
	Channel1 int `json:"channel1"`
	Channel2 int `json:"channel2"`
	// Overlap grows as the channels get closer: range+1-|c1-c2|.
	Overlap int `json:"overlap"`
	// NetworkPairs is how many network pairs sit on this channel pair.
	NetworkPairs int `json:"network_pairs"`
}

// CongestedChannel is a channel shared by enough networks to be flagged.
type CongestedChannel struct {
	Channel  int             `json:"channel"`
	Count    int             `json:"count"`
	Severity models.Severity `json:"severity"`
}

// OverlapDetector finds interfering channel pairs and overcrowded channels.
type OverlapDetector struct {
	Range        int
	CongestedAt  int
	HighSeverity int
}

// NewOverlapDetector returns a detector with the 2.4GHz defaults.
func NewOverlapDetector() *OverlapDetector {
	return &OverlapDetector{Range: Policy24GHz.OverlapRange, CongestedAt: 3, HighSeverity: 5}
}

// ChannelCounts tallies networks per channel. Channel 0 is its own bucket.
func ChannelCounts(channels []int) map[int]int {
	counts := make(map[int]int, len(channels))
	for _, ch := range channels {
		counts[ch]++
	}
	return counts
}

// Overlaps enumerates unordered channel pairs with 0 < |c1-c2| <= Range, ascending.
// Unmapped channels (<= 0) never overlap.
func (d *OverlapDetector) Overlaps(channels []int) []ChannelOverlap {
	counts := ChannelCounts(channels)
	distinct := make([]int, 0, len(counts))
	for ch := range counts {
		if ch > 0 {
			distinct = append(distinct, ch)
		}
	}
	sort.Ints(distinct)

	var overlaps []ChannelOverlap
	for i, c1 := range distinct {
		for _, c2 := range distinct[i+1:] {
			delta := c2 - c1
			if delta > d.Range {
				break
			}
			overlaps = append(overlaps, ChannelOverlap{
				Channel1:     c1,
				Channel2:     c2,
				Overlap:      d.Range + 1 - delta,
				NetworkPairs: counts[c1] * counts[c2],
			})
		}
	}
	return overlaps
}

// Congested flags channels with at least CongestedAt networks, ascending by channel.
func (d *OverlapDetector) Congested(channels []int) []CongestedChannel {
	counts := ChannelCounts(channels)
	var congested []CongestedChannel
	for ch, count := range counts {
		if count < d.CongestedAt {
			continue
		}
		severity := models.SeverityMedium
		if count >= d.HighSeverity {
			severity = models.SeverityHigh
		}
		congested = append(congested, CongestedChannel{Channel: ch, Count: count, Severity: severity})
	}
	sort.Slice(congested, func(i, j int) bool {
		return congested[i].Channel < congested[j].Channel
	})
	return congested
}

// Channels extracts channel numbers from observations.
func Channels(networks []models.NetworkObservation) []int {
	out := make([]int, len(networks))
	for i, n := range networks {
		out[i] = n.Channel
	}
	return out
}

package spectrum

import (
	"fmt"
	"sort"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// BandPolicy fixes how a band is scored.
type BandPolicy struct {
	Band models.Band
	// Channels are always reported, occupied or not.
	Channels []int
	// Candidates are searched in order when suggesting a channel.
	Candidates []int
	// OverlapRange is the channel-number distance at which networks still interfere.
	OverlapRange   int
	DefaultChannel int
	// ByOccupancy scores candidates by co-channel network count instead of interference.
	ByOccupancy bool
}

// Policy24GHz scores 20MHz channels spaced 5MHz apart, suggesting only 1, 6 and 11.
var Policy24GHz = BandPolicy{
	Band:           models.Band24GHz,
	Channels:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
	Candidates:     []int{1, 6, 11},
	OverlapRange:   4,
	DefaultChannel: 1,
}

// Policy5GHz treats adjacent-channel overlap as negligible and prefers non-DFS channels.
var Policy5GHz = BandPolicy{
	Band:           models.Band5GHz,
	Candidates:     []int{36, 40, 44, 48, 149, 153, 157, 161, 165},
	OverlapRange:   0,
	DefaultChannel: 36,
	ByOccupancy:    true,
}

// ChannelScorer computes per-channel interference and channel suggestions for one band.
type ChannelScorer struct {
	policy BandPolicy
}

// NewChannelScorer returns a scorer for the given policy.
func NewChannelScorer(policy BandPolicy) *ChannelScorer {
	return &ChannelScorer{policy: policy}
}

// ScorerFor returns the scorer for a known band, or nil.
func ScorerFor(band models.Band) *ChannelScorer {
	switch band {
	case models.Band24GHz:
		return NewChannelScorer(Policy24GHz)
	case models.Band5GHz:
		return NewChannelScorer(Policy5GHz)
	default:
		return nil
	}
}

// Band returns the band this scorer covers.
func (s *ChannelScorer) Band() models.Band {
	return s.policy.Band
}

// InterferenceScore sums quality+1 over in-band networks within the overlap range of channel.
// The +1 keeps a 0% network from scoring like an empty channel.
func (s *ChannelScorer) InterferenceScore(networks []models.NetworkObservation, channel int) float64 {
	score := 0.0
	for _, n := range networks {
		if BandOf(n) != s.policy.Band {
			continue
		}
		if abs(n.Channel-channel) <= s.policy.OverlapRange {
			score += Quality(n.Signal) + 1
		}
	}
	return score
}

// Analyze scores every reported channel of the band and attaches a suggestion.
func (s *ChannelScorer) Analyze(networks []models.NetworkObservation) models.ChannelAnalysisResult {
	inBand := FilterBand(networks, s.policy.Band)
	byChannel := make(map[int][]models.NetworkObservation)
	for _, n := range inBand {
		byChannel[n.Channel] = append(byChannel[n.Channel], n)
	}

	result := models.ChannelAnalysisResult{Band: s.policy.Band}
	for _, ch := range s.reportedChannels(byChannel) {
		result.Channels = append(result.Channels, models.ChannelScore{
			Channel:           ch,
			Networks:          byChannel[ch],
			InterferenceScore: s.InterferenceScore(inBand, ch),
		})
	}
	result.Suggestion = s.Suggest(inBand)
	return result
}

// Suggest picks the lowest-scoring candidate; ties go to the earliest candidate.
func (s *ChannelScorer) Suggest(networks []models.NetworkObservation) models.Suggestion {
	inBand := FilterBand(networks, s.policy.Band)
	if len(inBand) == 0 {
		ch := s.policy.DefaultChannel
		return models.Suggestion{
			Channel: &ch,
			Score:   0,
			Reason:  fmt.Sprintf("%s band is free", s.policy.Band),
		}
	}

	best := -1
	bestScore := 0.0
	for _, candidate := range s.policy.Candidates {
		var score float64
		if s.policy.ByOccupancy {
			score = float64(countOnChannel(inBand, candidate))
			if score == 0 {
				ch := candidate
				return models.Suggestion{
					Channel: &ch,
					Score:   0,
					Reason:  fmt.Sprintf("channel %d has no networks", candidate),
				}
			}
		} else {
			score = s.InterferenceScore(inBand, candidate)
		}
		if best == -1 || score < bestScore {
			best = candidate
			bestScore = score
		}
	}
	if best == -1 {
		return models.Suggestion{Reason: "no candidate channels configured"}
	}

	reason := fmt.Sprintf("lowest interference score %.0f", bestScore)
	if s.policy.ByOccupancy {
		reason = fmt.Sprintf("fewest networks (%d) among preferred channels", int(bestScore))
	}
	return models.Suggestion{Channel: &best, Score: bestScore, Reason: reason}
}

func (s *ChannelScorer) reportedChannels(byChannel map[int][]models.NetworkObservation) []int {
	seen := make(map[int]struct{})
	channels := make([]int, 0, len(s.policy.Channels)+len(s.policy.Candidates))
	add := func(ch int) {
		if _, ok := seen[ch]; ok {
			return
		}
		seen[ch] = struct{}{}
		channels = append(channels, ch)
	}
	for _, ch := range s.policy.Channels {
		add(ch)
	}
	for _, ch := range s.policy.Candidates {
		add(ch)
	}
	for ch := range byChannel {
		add(ch)
	}
	sort.Ints(channels)
	return channels
}

func countOnChannel(networks []models.NetworkObservation, channel int) int {
	count := 0
	for _, n := range networks {
		if n.Channel == channel {
			count++
		}
	}
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

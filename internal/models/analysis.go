package models

import "time"

// ChannelScore holds the networks seen on one channel and the interference they accumulate.
type ChannelScore struct {
	Channel           int                  `json:"channel"`
	Networks          []NetworkObservation `json:"networks"`
	InterferenceScore float64              `json:"interference_score"`
}

// Suggestion is the best candidate channel for a band. Lower scores are better.
type Suggestion struct {
	Channel *int    `json:"channel"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// ChannelAnalysisResult is the per-band scoring output.
type ChannelAnalysisResult struct {
	Band       Band           `json:"band"`
	Channels   []ChannelScore `json:"channels"`
	Suggestion Suggestion     `json:"suggestion"`
}

// Channel returns the score entry for channel, if present.
func (r ChannelAnalysisResult) Channel(channel int) (ChannelScore, bool) {
	for _, c := range r.Channels {
		if c.Channel == channel {
			return c, true
		}
	}
	return ChannelScore{}, false
}

// Report is the full result of one analysis pass.
type Report struct {
	ID              string                  `json:"id"`
	Timestamp       time.Time               `json:"timestamp"`
	NetworkCount    int                     `json:"network_count"`
	Bands           []ChannelAnalysisResult `json:"bands"`
	Findings        []InterferenceFinding   `json:"findings"`
	Recommendations []string                `json:"recommendations"`
	Congestion      []ChannelStatus         `json:"congestion"`
	Targets         []TargetSnapshot        `json:"targets,omitempty"`
	NextScanSeconds float64                 `json:"next_scan_seconds"`
}

// Band returns the analysis for band, if present.
func (r Report) Band(band Band) (ChannelAnalysisResult, bool) {
	for _, b := range r.Bands {
		if b.Band == band {
			return b, true
		}
	}
	return ChannelAnalysisResult{}, false
}

package models

import "time"

// ChannelCongestionSample is one per-channel congestion measurement. CongestionScore is in [0,1].
type ChannelCongestionSample struct {
	Timestamp       time.Time `json:"timestamp"`
	NetworkCount    int       `json:"network_count"`
	AverageSignal   float64   `json:"average_signal"`
	CongestionScore float64   `json:"congestion_score"`
}

// CongestionTier is the coarse recommendation derived from recent congestion.
type CongestionTier string

const (
	TierGood   CongestionTier = "good"
	TierFair   CongestionTier = "fair"
	TierPoor   CongestionTier = "poor"
	TierNoData CongestionTier = "no-data"
)

// ChannelStatus summarises congestion history for one channel.
type ChannelStatus struct {
	Channel        int                      `json:"channel"`
	Latest         *ChannelCongestionSample `json:"latest,omitempty"`
	Samples        int                      `json:"samples"`
	Recommendation CongestionTier           `json:"recommendation"`
}

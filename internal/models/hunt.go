package models

import "time"

// HuntSample is one observation of a tracked access point.
type HuntSample struct {
	Timestamp    time.Time   `json:"timestamp"`
	Signal       float64     `json:"signal"`
	Location     *Coordinate `json:"location,omitempty"`
	FrequencyMHz int         `json:"frequency_mhz"`
	Channel      int         `json:"channel"`
}

// Trend classifies recent signal movement.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// SignalStats summarises a signal series in dBm.
type SignalStats struct {
	Average           float64 `json:"average"`
	Minimum           float64 `json:"minimum"`
	Maximum           float64 `json:"maximum"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standard_deviation"`
	Samples           int     `json:"samples"`
}

// HuntTarget is a copy of a tracked access point's state.
type HuntTarget struct {
	BSSID             string       `json:"bssid"`
	SSID              string       `json:"ssid,omitempty"`
	IsActive          bool         `json:"is_active"`
	History           []HuntSample `json:"history,omitempty"`
	StrongestSignal   *float64     `json:"strongest_signal,omitempty"`
	StrongestLocation *Coordinate  `json:"strongest_location,omitempty"`
	LastSeen          time.Time    `json:"last_seen,omitempty"`
	FrequencyMHz      int          `json:"frequency_mhz,omitempty"`
	Channel           int          `json:"channel,omitempty"`
}

// TargetSnapshot is a hunt target with statistics computed at read time.
type TargetSnapshot struct {
	Target        HuntTarget  `json:"target"`
	Tracked       bool        `json:"tracked"`
	CurrentSignal *float64    `json:"current_signal,omitempty"`
	Statistics    SignalStats `json:"statistics"`
	Trend         Trend       `json:"trend"`
}

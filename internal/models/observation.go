package models

import "time"

// Band groups channels by frequency range.
type Band string

const (
	Band24GHz   Band = "2.4GHz"
	Band5GHz    Band = "5GHz"
	BandUnknown Band = "unknown"
)

// SignalScale declares the unit a snapshot reports signal strength in.
type SignalScale string

const (
	SignalScaleDBm     SignalScale = "dbm"
	SignalScalePercent SignalScale = "percent"
)

// NetworkObservation is one scan-time reading of an access point. Signal is in dBm.
type NetworkObservation struct {
	SSID         string  `json:"ssid,omitempty"`
	BSSID        string  `json:"bssid"`
	FrequencyMHz int     `json:"frequency_mhz"`
	Channel      int     `json:"channel"`
	Signal       float64 `json:"signal"`
	Security     string  `json:"security,omitempty"`
}

// Snapshot is an ordered set of observations delivered by the scanner on one refresh cycle.
type Snapshot struct {
	Timestamp   time.Time            `json:"timestamp"`
	SignalScale SignalScale          `json:"signal_scale,omitempty"`
	Networks    []NetworkObservation `json:"networks"`
}

// Coordinate is a location fix from the GPS collaborator.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Valid     bool    `json:"valid"`
}

// Copy returns an independent copy of c, or nil when c is nil or not a valid fix.
func (c *Coordinate) Copy() *Coordinate {
	if c == nil || !c.Valid {
		return nil
	}
	dup := *c
	return &dup
}

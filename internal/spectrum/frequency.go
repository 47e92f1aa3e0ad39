// Package spectrum holds the pure scoring and classification routines: channel
// interference, overlap detection, interference heuristics and signal statistics.
// Every function here is a synchronous computation over caller-owned slices.
package spectrum

import "github.com/miradorstack/spectrum-engine/internal/models"

const (
	// NoSignalFloor is the dBm value reported when there is nothing to measure.
	NoSignalFloor = -100.0
	// maxQualityDBm maps to 100% quality.
	maxQualityDBm = -50.0
)

// ChannelForFrequency maps a centre frequency to its channel number, or 0 when unmapped.
func ChannelForFrequency(mhz int) int {
	switch {
	case mhz == 2484:
		return 14
	case mhz >= 2412 && mhz <= 2472:
		return (mhz - 2407) / 5
	case mhz >= 5000 && mhz <= 5900:
		return (mhz - 5000) / 5
	default:
		return 0
	}
}

// BandForFrequency returns the band a frequency falls in.
func BandForFrequency(mhz int) models.Band {
	switch {
	case mhz >= 2400 && mhz <= 2500:
		return models.Band24GHz
	case mhz >= 5000 && mhz <= 5900:
		return models.Band5GHz
	default:
		return models.BandUnknown
	}
}

// BandOf classifies an observation, falling back to its channel when the frequency is missing.
func BandOf(n models.NetworkObservation) models.Band {
	if n.FrequencyMHz > 0 {
		return BandForFrequency(n.FrequencyMHz)
	}
	switch {
	case n.Channel >= 1 && n.Channel <= 14:
		return models.Band24GHz
	case n.Channel >= 32 && n.Channel <= 177:
		return models.Band5GHz
	default:
		return models.BandUnknown
	}
}

// FilterBand returns the observations that belong to band, preserving order.
func FilterBand(networks []models.NetworkObservation, band models.Band) []models.NetworkObservation {
	out := make([]models.NetworkObservation, 0, len(networks))
	for _, n := range networks {
		if BandOf(n) == band {
			out = append(out, n)
		}
	}
	return out
}

// Quality converts dBm into the 0-100 percentage used by NetworkManager.
func Quality(dbm float64) float64 {
	return clamp(2*(dbm-NoSignalFloor), 0, 100)
}

// PercentToDBm is the inverse of Quality for in-range values.
func PercentToDBm(percent float64) float64 {
	return clamp(percent, 0, 100)/2 + NoSignalFloor
}

// Normalize converts a snapshot into canonical dBm observations with channels filled in.
// Observations with a missing or unknown frequency keep channel 0 unless one was supplied.
func Normalize(snapshot models.Snapshot) []models.NetworkObservation {
	out := make([]models.NetworkObservation, 0, len(snapshot.Networks))
	for _, n := range snapshot.Networks {
		if snapshot.SignalScale == models.SignalScalePercent {
			n.Signal = PercentToDBm(n.Signal)
		}
		if ch := ChannelForFrequency(n.FrequencyMHz); ch > 0 {
			n.Channel = ch
		}
		out = append(out, n)
	}
	return out
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

package api

import (
	"fmt"
	"net"
	"strings"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// NormalizeBSSID lower-cases a hardware address so lookups are case-insensitive.
// Addresses that do not parse as MAC addresses are trimmed and lower-cased as-is.
func NormalizeBSSID(bssid string) string {
	bssid = strings.TrimSpace(bssid)
	if hw, err := net.ParseMAC(bssid); err == nil {
		return hw.String()
	}
	return strings.ToLower(bssid)
}

// FromAnalyzeRequest validates req and returns the snapshot and location to analyse.
func FromAnalyzeRequest(req *AnalyzeRequest) (models.Snapshot, *models.Coordinate, error) {
	if req == nil {
		return models.Snapshot{}, nil, fmt.Errorf("request cannot be nil")
	}
	snapshot := req.Snapshot
	switch snapshot.SignalScale {
	case "", models.SignalScaleDBm, models.SignalScalePercent:
	default:
		return models.Snapshot{}, nil, fmt.Errorf("unknown signal_scale %q", snapshot.SignalScale)
	}

	networks := make([]models.NetworkObservation, len(snapshot.Networks))
	for i, n := range snapshot.Networks {
		n.BSSID = NormalizeBSSID(n.BSSID)
		networks[i] = n
	}
	snapshot.Networks = networks

	return snapshot, req.Location.Copy(), nil
}

// FromTargetRequest validates req and returns its normalised BSSID.
func FromTargetRequest(req *TargetRequest) (string, error) {
	if req == nil {
		return "", fmt.Errorf("request cannot be nil")
	}
	bssid := NormalizeBSSID(req.BSSID)
	if bssid == "" {
		return "", fmt.Errorf("bssid is required")
	}
	return bssid, nil
}

// FromChannelRequest validates req for a channel lookup. Channels without congestion
// history, including non-2.4GHz channels, yield a neutral no-data status downstream.
func FromChannelRequest(req *ChannelRequest) (int, error) {
	if req == nil {
		return 0, fmt.Errorf("request cannot be nil")
	}
	return req.Channel, nil
}

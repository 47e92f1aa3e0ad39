package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// TrendThreshold is the mean difference, in signal units, between window halves
// needed to call a trend.
const TrendThreshold = 5.0

// Stats summarises values. An empty series yields the no-signal floor with zero spread.
func Stats(values []float64) models.SignalStats {
	if len(values) == 0 {
		return models.SignalStats{
			Average: NoSignalFloor,
			Minimum: NoSignalFloor,
			Maximum: NoSignalFloor,
		}
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return models.SignalStats{
		Average:           mean,
		Minimum:           floats.Min(values),
		Maximum:           floats.Max(values),
		Variance:          variance,
		StandardDeviation: math.Sqrt(variance),
		Samples:           len(values),
	}
}

// Trend compares the mean of values[:split] against values[split:].
// A split outside (0, len) is replaced by len/2. Fewer than two values is stable.
func Trend(values []float64, split int) models.Trend {
	if len(values) < 2 {
		return models.TrendStable
	}
	if split <= 0 || split >= len(values) {
		split = len(values) / 2
	}
	diff := stat.Mean(values[split:], nil) - stat.Mean(values[:split], nil)
	switch {
	case diff > TrendThreshold:
		return models.TrendImproving
	case diff < -TrendThreshold:
		return models.TrendDegrading
	default:
		return models.TrendStable
	}
}

package spectrum

import (
	"math"
	"testing"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

func TestStatsEmptyReturnsFloor(t *testing.T) {
	s := Stats(nil)
	if s.Average != -100 || s.Minimum != -100 || s.Maximum != -100 {
		t.Fatalf("expected -100 floor, got %+v", s)
	}
	if s.Variance != 0 || s.StandardDeviation != 0 || s.Samples != 0 {
		t.Fatalf("expected zero spread, got %+v", s)
	}
}

func TestStatsValues(t *testing.T) {
	s := Stats([]float64{-70, -60, -50})
	if s.Average != -60 || s.Minimum != -70 || s.Maximum != -50 {
		t.Fatalf("unexpected summary %+v", s)
	}
	wantVar := 200.0 / 3.0
	if math.Abs(s.Variance-wantVar) > 1e-9 {
		t.Fatalf("expected population variance %f, got %f", wantVar, s.Variance)
	}
	if math.Abs(s.StandardDeviation-math.Sqrt(wantVar)) > 1e-9 {
		t.Fatalf("unexpected stddev %f", s.StandardDeviation)
	}
}

func TestTrend(t *testing.T) {
	rising := make([]float64, 20)
	falling := make([]float64, 20)
	flat := make([]float64, 20)
	for i := range rising {
		rising[i] = -80 + float64(i)*40/19
		falling[i] = -40 - float64(i)*40/19
		flat[i] = -60
	}

	if got := Trend(rising, len(rising)/2); got != models.TrendImproving {
		t.Fatalf("expected improving, got %s", got)
	}
	if got := Trend(falling, 0); got != models.TrendDegrading {
		t.Fatalf("expected degrading, got %s", got)
	}
	if got := Trend(flat, 10); got != models.TrendStable {
		t.Fatalf("expected stable, got %s", got)
	}
	if got := Trend([]float64{-90}, 0); got != models.TrendStable {
		t.Fatalf("expected stable for single sample, got %s", got)
	}
	if got := Trend([]float64{-60, -57}, 1); got != models.TrendStable {
		t.Fatalf("expected stable within threshold, got %s", got)
	}
}

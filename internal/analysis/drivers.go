// Package analysis derives preference insight from a rated activity
// collection: which dimensions drive choices, how tags cluster, and a full
// profile summary.
package analysis

import (
	"math"
	"sort"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// PreferenceDriver pairs a dimension with how strongly its values correlate
// with the user's ratings.
type PreferenceDriver struct {
	Dimension   string  `json:"dimension"`
	Key         string  `json:"key"`
	Correlation float64 `json:"correlation"`
	Low         string  `json:"low"`
	High        string  `json:"high"`
}

// Correlation computes the Pearson correlation between two equally sized
// samples. It returns NaN when fewer than two points are available or when
// either sample has zero variance.
func Correlation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return math.NaN()
	}
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			return math.NaN()
		}
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return math.NaN()
	}
	return numerator / denominator
}

// PreferenceDrivers correlates ratings against each dimension and returns
// the dimensions ordered by absolute correlation, strongest first.
// Dimensions without a computable correlation sort last.
func PreferenceDrivers(activities []types.Activity) []PreferenceDriver {
	elos := make([]float64, len(activities))
	for i := range activities {
		elos[i] = activities[i].Elo
	}

	drivers := make([]PreferenceDriver, 0, types.DimensionCount)
	for di, meta := range types.DimensionsMeta {
		dims := make([]float64, len(activities))
		for i := range activities {
			dims[i] = activities[i].Dimensions()[di]
		}
		drivers = append(drivers, PreferenceDriver{
			Dimension:   meta.Label,
			Key:         meta.Key,
			Correlation: Correlation(elos, dims),
			Low:         meta.Low,
			High:        meta.High,
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		ci, cj := drivers[i].Correlation, drivers[j].Correlation
		switch {
		case math.IsNaN(ci):
			return false
		case math.IsNaN(cj):
			return true
		default:
			return math.Abs(ci) > math.Abs(cj)
		}
	})
	return drivers
}

// Package strength tracks how well the rating engine predicts the user's
// choices and decides when the quiz has learned enough to stop.
package strength

import (
	"math"

	"github.com/ddebettencourt/social-activity-matcher/internal/elo"
	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const (
	// MinMatchups is the number of matchups required before strength is
	// computed at all.
	MinMatchups = 6

	// HistorySize is the number of most recent resolved predictions used
	// when scoring the algorithm.
	HistorySize = 10

	// TargetStrength is the completion threshold before decay kicks in.
	TargetStrength = 0.85

	// MaxMatchups is the hard cap on quiz length regardless of strength.
	MaxMatchups = 120

	minResolvedForReady = 20
)

// Confidence grades a strength score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Prediction records the engine's pick for a single matchup, resolved once
// the user actually chooses.
type Prediction struct {
	MatchupNumber          int                `json:"matchupNumber"`
	PredictedWinnerID      int                `json:"predictedWinnerId"`
	ActualWinnerID         int                `json:"actualWinnerId,omitempty"`
	Resolved               bool               `json:"resolved"`
	WasCorrect             bool               `json:"wasCorrect"`
	ConfidenceLevel        float64            `json:"confidenceLevel"`
	EloA                   float64            `json:"eloA"`
	EloB                   float64            `json:"eloB"`
	EloRange               float64            `json:"eloRange"`
	DimensionalDifferences map[string]float64 `json:"dimensionalDifferences"`
}

// Strength is the current read on prediction quality.
type Strength struct {
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
	IsReady    bool       `json:"isReady"`
}

// MakePrediction scores a pending matchup before the user chooses. The full
// collection is needed so confidence can be expressed relative to the spread
// of ratings seen so far.
func MakePrediction(a, b *types.Activity, activities []types.Activity, matchupNumber int) Prediction {
	minElo := math.Inf(1)
	maxElo := math.Inf(-1)
	for i := range activities {
		if activities[i].Elo < minElo {
			minElo = activities[i].Elo
		}
		if activities[i].Elo > maxElo {
			maxElo = activities[i].Elo
		}
	}
	eloRange := 0.0
	if len(activities) > 0 {
		eloRange = maxElo - minElo
	}

	expectedA := elo.ExpectedScore(a.Elo, b.Elo)
	predicted := b.ID
	if expectedA > 0.5 {
		predicted = a.ID
	}

	confidence := 0.0
	if eloRange > 0 {
		confidence = math.Abs(a.Elo-b.Elo) / eloRange
	}

	diffs := make(map[string]float64, types.DimensionCount)
	dimsA := a.Dimensions()
	dimsB := b.Dimensions()
	for i, meta := range types.DimensionsMeta {
		diffs[meta.Key] = math.Abs(dimsA[i] - dimsB[i])
	}

	return Prediction{
		MatchupNumber:          matchupNumber,
		PredictedWinnerID:      predicted,
		ConfidenceLevel:        confidence,
		EloA:                   a.Elo,
		EloB:                   b.Elo,
		EloRange:               eloRange,
		DimensionalDifferences: diffs,
	}
}

// Resolve marks a prediction with the user's actual choice.
func Resolve(p Prediction, actualWinnerID int) Prediction {
	p.ActualWinnerID = actualWinnerID
	p.Resolved = true
	p.WasCorrect = p.PredictedWinnerID == actualWinnerID
	return p
}

// dimensionalPredictiveness measures, per dimension, how often predictions
// were right when that dimension showed a meaningful difference.
func dimensionalPredictiveness(recent []Prediction) map[string]float64 {
	type tally struct {
		weightedCorrect float64
		weightedTotal   float64
	}
	tallies := make(map[string]*tally, types.DimensionCount)
	for _, meta := range types.DimensionsMeta {
		tallies[meta.Key] = &tally{}
	}

	for _, p := range recent {
		if !p.Resolved {
			continue
		}
		for _, meta := range types.DimensionsMeta {
			diff := p.DimensionalDifferences[meta.Key]
			if diff < 2 {
				continue
			}
			weight := diff / types.DimensionSpan
			tallies[meta.Key].weightedTotal += weight
			if p.WasCorrect {
				tallies[meta.Key].weightedCorrect += weight
			}
		}
	}

	out := make(map[string]float64, types.DimensionCount)
	for _, meta := range types.DimensionsMeta {
		t := tallies[meta.Key]
		if t.weightedTotal > 0 {
			out[meta.Key] = t.weightedCorrect / t.weightedTotal
		} else {
			out[meta.Key] = 0.5
		}
	}
	return out
}

// Calculate scores recent prediction accuracy and decides readiness. The
// completion threshold decays linearly from 0.85 at matchup 30 to 0.75 at
// matchup 70 so long sessions still converge.
func Calculate(history []Prediction, currentMatchup int) Strength {
	if currentMatchup < MinMatchups {
		return Strength{Confidence: ConfidenceLow}
	}

	resolved := make([]Prediction, 0, len(history))
	for _, p := range history {
		if p.Resolved {
			resolved = append(resolved, p)
		}
	}
	if len(resolved) == 0 {
		return Strength{Confidence: ConfidenceLow}
	}

	recent := resolved
	if len(recent) > HistorySize {
		recent = recent[len(recent)-HistorySize:]
	}

	predictiveness := dimensionalPredictiveness(recent)

	totalWeight := 0.0
	weightedCorrect := 0.0
	for _, p := range recent {
		weight := math.Max(0.1, p.ConfidenceLevel)

		boost := 0.0
		count := 0
		for _, meta := range types.DimensionsMeta {
			if p.DimensionalDifferences[meta.Key] >= 2 {
				boost += predictiveness[meta.Key]
				count++
			}
		}
		if count > 0 {
			avg := boost / float64(count)
			multiplier := 1 + 0.2*(avg-0.5)
			weight *= math.Max(0.8, math.Min(1.2, multiplier))
		}

		totalWeight += weight
		if p.WasCorrect {
			weightedCorrect += weight
		}
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedCorrect / totalWeight
	}

	confidence := ConfidenceLow
	switch {
	case score >= 0.8 && len(recent) >= 8:
		confidence = ConfidenceHigh
	case score >= 0.65 && len(recent) >= 5:
		confidence = ConfidenceMedium
	}

	sampleRatio := float64(len(recent)) / float64(HistorySize)
	threshold := CompletionThreshold(currentMatchup)
	isReady := score >= threshold &&
		len(resolved) >= minResolvedForReady &&
		sampleRatio >= 0.7

	return Strength{Score: score, Confidence: confidence, IsReady: isReady}
}

// CompletionThreshold returns the strength score required to finish the quiz
// at the given matchup count.
func CompletionThreshold(currentMatchup int) float64 {
	if currentMatchup <= 30 {
		return TargetStrength
	}
	decayProgress := math.Min(1, float64(currentMatchup-30)/40)
	return TargetStrength - decayProgress*0.10
}

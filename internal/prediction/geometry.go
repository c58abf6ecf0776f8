// Package prediction estimates how much a user would enjoy a custom event,
// given their rated activity collection. Three strategies are provided: a
// geometric one built on dimension distance and tag overlap, one driven by
// externally supplied similarity judgments, and a hybrid that layers tag
// statistics on top of the external strategy.
package prediction

import (
	"fmt"
	"math"
	"sort"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const (
	dimensionWeight = 0.3
	tagWeight       = 0.7

	topSimilarCount = 20
	neutralScore    = 5.0
	defaultElo      = 1200.0
)

// ScoredActivity pairs an activity with its similarity to the event.
type ScoredActivity struct {
	Title      string  `json:"title"`
	Elo        float64 `json:"elo"`
	Similarity float64 `json:"similarity"`
}

// GeometricBreakdown exposes the arithmetic behind a geometric prediction.
type GeometricBreakdown struct {
	DimensionWeight   float64 `json:"dimensionWeight"`
	TagWeight         float64 `json:"tagWeight"`
	TotalActivities   int     `json:"totalActivitiesAnalyzed"`
	TopSimilarCount   int     `json:"topSimilarActivitiesCount"`
	WeightedEloSum    float64 `json:"weightedEloSum"`
	TotalWeight       float64 `json:"totalWeight"`
	EstimatedElo      float64 `json:"estimatedElo"`
	Rank              int     `json:"rank"`
	TotalRanked       int     `json:"totalRanked"`
	Percentile        float64 `json:"percentile"`
}

// GeometricPrediction is the result of the distance-based strategy.
type GeometricPrediction struct {
	EnjoymentScore       float64            `json:"enjoymentScore"`
	Explanation          string             `json:"explanation"`
	TopSimilarActivities []ScoredActivity   `json:"topSimilarActivities"`
	Breakdown            GeometricBreakdown `json:"breakdown"`
}

// EventSimilarity scores how alike an event and an activity are, in [0, 1].
// Dimensional closeness contributes 30% and tag overlap 70%.
func EventSimilarity(event types.EventDimensions, activity *types.Activity, eventTags []string) float64 {
	eventVals := event.Values()
	actVals := activity.Dimensions()

	sumSquared := 0.0
	for i := 0; i < types.DimensionCount; i++ {
		diff := eventVals[i] - actVals[i]
		sumSquared += diff * diff
	}
	maxDistance := math.Sqrt(types.DimensionCount * types.DimensionSpan * types.DimensionSpan)
	dimensionalSim := 1 - math.Sqrt(sumSquared)/maxDistance

	tagSim := 0.0
	if len(eventTags) > 0 && len(activity.Tags) > 0 {
		tagSim = jaccard(eventTags, activity.Tags)
	}

	combined := dimensionalSim*dimensionWeight + tagSim*tagWeight
	if math.IsNaN(combined) {
		return 0
	}
	return math.Max(0, math.Min(1, combined))
}

// jaccard computes intersection over union of two tag sets after
// normalization.
func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		setA[types.NormalizeTag(tag)] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for tag := range setA {
		union[tag] = struct{}{}
	}
	overlap := 0
	seenB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		normalized := types.NormalizeTag(tag)
		if _, dup := seenB[normalized]; dup {
			continue
		}
		seenB[normalized] = struct{}{}
		if _, ok := setA[normalized]; ok {
			overlap++
		}
		union[normalized] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(overlap) / float64(len(union))
}

// scoreFromElo places an estimated rating among the user's activities and
// maps its percentile onto the 0.5 to 9.5 enjoyment scale.
func scoreFromElo(estimatedElo float64, activities []types.Activity) (score float64, rank int, percentile float64) {
	sortedDesc := make([]float64, len(activities))
	for i := range activities {
		sortedDesc[i] = activities[i].Elo
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sortedDesc)))

	for i, elo := range sortedDesc {
		if estimatedElo > elo {
			rank = i
			break
		}
		rank = i + 1
	}
	percentile = 1 - float64(rank)/float64(len(sortedDesc))
	score = 0.5 + percentile*9
	return score, rank, percentile
}

// PredictGeometric estimates enjoyment from dimension distance and tag
// overlap alone, with no external similarity input.
func PredictGeometric(event types.EventDimensions, activities []types.Activity, eventTags []string) GeometricPrediction {
	if len(activities) == 0 {
		return GeometricPrediction{
			EnjoymentScore:       neutralScore,
			Explanation:          "No profile data available for prediction",
			TopSimilarActivities: []ScoredActivity{},
			Breakdown: GeometricBreakdown{
				DimensionWeight: dimensionWeight,
				TagWeight:       tagWeight,
				EstimatedElo:    defaultElo,
				Percentile:      0.5,
			},
		}
	}

	scored := make([]ScoredActivity, len(activities))
	for i := range activities {
		scored[i] = ScoredActivity{
			Title:      activities[i].Title,
			Elo:        activities[i].Elo,
			Similarity: EventSimilarity(event, &activities[i], eventTags),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > topSimilarCount {
		scored = scored[:topSimilarCount]
	}

	weightedEloSum := 0.0
	totalWeight := 0.0
	for _, s := range scored {
		weight := s.Similarity * s.Similarity * s.Similarity
		weightedEloSum += s.Elo * weight
		totalWeight += weight
	}
	estimatedElo := defaultElo
	if totalWeight > 0 {
		estimatedElo = weightedEloSum / totalWeight
	}

	score, rank, percentile := scoreFromElo(estimatedElo, activities)

	var explanation string
	switch {
	case percentile >= 0.8:
		explanation = fmt.Sprintf("Would likely be in your top %d%% of activities", int(math.Round((1-percentile)*100)))
	case percentile >= 0.6:
		explanation = "Would rank in your upper-middle preferences"
	case percentile >= 0.4:
		explanation = "Would be somewhere in the middle of your preferences"
	case percentile >= 0.2:
		explanation = "Would rank in your lower-middle preferences"
	default:
		explanation = fmt.Sprintf("Would likely be in your bottom %d%% of activities", int(math.Round(percentile*100+20)))
	}
	explanation += fmt.Sprintf(" (estimated ELO: %d, similar to %s)", int(math.Round(estimatedElo)), scored[0].Title)

	top := scored
	if len(top) > 3 {
		top = top[:3]
	}

	return GeometricPrediction{
		EnjoymentScore:       math.Round(score*10) / 10,
		Explanation:          explanation,
		TopSimilarActivities: top,
		Breakdown: GeometricBreakdown{
			DimensionWeight: dimensionWeight,
			TagWeight:       tagWeight,
			TotalActivities: len(activities),
			TopSimilarCount: len(scored),
			WeightedEloSum:  weightedEloSum,
			TotalWeight:     totalWeight,
			EstimatedElo:    estimatedElo,
			Rank:            rank,
			TotalRanked:     len(activities),
			Percentile:      percentile,
		},
	}
}

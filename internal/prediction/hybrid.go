package prediction

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const (
	maxTagAdjustment    = 3.0
	minTaggedForStats   = 2
	minTaggedForInsight = 3
)

// TagStat is the statistical read on one event tag against the user's
// ratings, weighted by the tag's importance to the event.
type TagStat struct {
	Tag               string   `json:"tag"`
	Importance        int      `json:"importance"`
	UserAvgElo        float64  `json:"userAvgElo"`
	OverallAvgElo     float64  `json:"overallAvgElo"`
	StandardDeviation float64  `json:"standardDeviation"`
	StandardError     float64  `json:"standardError"`
	ZScore            float64  `json:"zScore"`
	ActivityCount     int      `json:"activityCount"`
	ImportanceWeight  float64  `json:"importanceWeight"`
	Adjustment        float64  `json:"adjustment"`
	TopActivities     []string `json:"topActivities"`
}

// Insights are the human-readable takeaways from a hybrid prediction.
type Insights struct {
	LikedSimilarActivities []string `json:"likedSimilarActivities"`
	EnjoyedTags            []string `json:"enjoyedTags"`
	DislikedTags           []string `json:"dislikedTags"`
	PersonalityInsights    []string `json:"personalityInsights"`
}

// HybridBreakdown exposes the arithmetic behind a hybrid prediction.
type HybridBreakdown struct {
	BaseScore             float64           `json:"baseScore"`
	TagAnalysis           []TagStat         `json:"tagAnalysis"`
	FinalAdjustment       float64           `json:"finalAdjustment"`
	SimilarActivitiesUsed []MatchedActivity `json:"similarActivitiesUsed"`
}

// HybridPrediction is the result of the combined strategy: a similarity
// base score nudged by tag-level rating statistics.
type HybridPrediction struct {
	Score       float64         `json:"score"`
	Explanation string          `json:"explanation"`
	Insights    Insights        `json:"insights"`
	Breakdown   HybridBreakdown `json:"breakdown"`
}

func emptyHybrid(explanation string) HybridPrediction {
	return HybridPrediction{
		Score:       neutralScore,
		Explanation: explanation,
		Insights: Insights{
			LikedSimilarActivities: []string{},
			EnjoyedTags:            []string{},
			DislikedTags:           []string{},
			PersonalityInsights:    []string{},
		},
		Breakdown: HybridBreakdown{
			BaseScore:             neutralScore,
			TagAnalysis:           []TagStat{},
			SimilarActivitiesUsed: []MatchedActivity{},
		},
	}
}

// tagStat computes one tag's standard-error z-score, or nil when the tag
// labels fewer than two activities.
func tagStat(tag types.WeightedTag, activities []types.Activity, overallAvg float64) *TagStat {
	normalized := types.NormalizeTag(tag.Name)
	tagged := make([]types.Activity, 0)
	for i := range activities {
		if activities[i].HasTag(normalized) {
			tagged = append(tagged, activities[i])
		}
	}
	if len(tagged) < minTaggedForStats {
		return nil
	}

	tagElos := make([]float64, len(tagged))
	sum := 0.0
	for i := range tagged {
		tagElos[i] = tagged[i].Elo
		sum += tagged[i].Elo
	}
	tagAvg := sum / float64(len(tagged))
	variance := 0.0
	for _, elo := range tagElos {
		variance += (elo - tagAvg) * (elo - tagAvg)
	}
	tagStdDev := math.Sqrt(variance / float64(len(tagged)))

	standardError := tagStdDev / math.Sqrt(float64(len(tagged)))
	zScore := 0.0
	if standardError > 0 {
		zScore = (tagAvg - overallAvg) / standardError
	}

	importanceWeight := float64(tag.Importance) / 5

	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Elo > tagged[j].Elo })
	top := make([]string, 0, 3)
	for i := 0; i < len(tagged) && i < 3; i++ {
		top = append(top, tagged[i].Title)
	}

	return &TagStat{
		Tag:               tag.Name,
		Importance:        tag.Importance,
		UserAvgElo:        math.Round(tagAvg*10) / 10,
		OverallAvgElo:     math.Round(overallAvg*10) / 10,
		StandardDeviation: math.Round(tagStdDev*10) / 10,
		StandardError:     math.Round(standardError*100) / 100,
		ZScore:            math.Round(zScore*100) / 100,
		ActivityCount:     len(tagged),
		ImportanceWeight:  math.Round(importanceWeight*100) / 100,
		Adjustment:        math.Round(zScore*importanceWeight*100) / 100,
		TopActivities:     top,
	}
}

// PredictHybrid starts from the similarity-weighted base score and adjusts
// it by how the user's ratings cluster around the event's tags. The final
// score always lands in [0.5, 10.0].
func PredictHybrid(similar []types.SimilarActivity, eventTags []types.WeightedTag, activities []types.Activity) HybridPrediction {
	if len(similar) == 0 || len(activities) == 0 {
		return emptyHybrid("Insufficient data for hybrid prediction")
	}

	matched := matchByTitle(similar, activities)
	if len(matched) == 0 {
		return emptyHybrid("No matching activities found in user profile")
	}

	weightedEloSum := 0.0
	totalWeight := 0.0
	for _, m := range matched {
		weightedEloSum += m.Elo * m.Similarity
		totalWeight += m.Similarity
	}
	estimatedElo := defaultElo
	if totalWeight > 0 {
		estimatedElo = weightedEloSum / totalWeight
	}
	baseScore, _, _ := scoreFromElo(estimatedElo, activities)

	overallSum := 0.0
	for i := range activities {
		overallSum += activities[i].Elo
	}
	overallAvg := overallSum / float64(len(activities))

	stats := make([]TagStat, 0, len(eventTags))
	weightedZSum := 0.0
	totalImportance := 0.0
	for _, tag := range eventTags {
		if stat := tagStat(tag, activities, overallAvg); stat != nil {
			stats = append(stats, *stat)
			weightedZSum += stat.ZScore * stat.ImportanceWeight
			totalImportance += stat.ImportanceWeight
		}
	}
	overallWeightedZ := 0.0
	if totalImportance > 0 {
		overallWeightedZ = weightedZSum / totalImportance
	}

	// tanh keeps large z-scores from producing runaway adjustments, and the
	// extremeness factor shrinks the nudge when the base score already sits
	// near either end of the scale.
	rawAdjustment := math.Tanh(overallWeightedZ/3.0) * maxTagAdjustment
	distanceFromMiddle := math.Abs(baseScore - 5.5)
	extremenessFactor := math.Max(0.6, 1-(distanceFromMiddle/4.5)*0.4)
	finalAdjustment := rawAdjustment * extremenessFactor

	finalScore := math.Max(0.5, math.Min(10.0, baseScore+finalAdjustment))
	finalScore = math.Round(finalScore*10) / 10

	explanation := fmt.Sprintf("Hybrid prediction: %.1f/10", finalScore)
	if math.Abs(finalAdjustment) > 0.1 {
		explanation += fmt.Sprintf(" (base: %.1f, tag adjustment: %+.1f)", baseScore, finalAdjustment)
	}

	return HybridPrediction{
		Score:       finalScore,
		Explanation: explanation,
		Insights:    buildInsights(finalScore, matched, stats, overallAvg),
		Breakdown: HybridBreakdown{
			BaseScore:             math.Round(baseScore*10) / 10,
			TagAnalysis:           stats,
			FinalAdjustment:       math.Round(finalAdjustment*100) / 100,
			SimilarActivitiesUsed: matched,
		},
	}
}

func buildInsights(finalScore float64, matched []MatchedActivity, stats []TagStat, overallAvg float64) Insights {
	liked := make([]string, 0, 3)
	for _, m := range matched {
		if m.Elo > overallAvg {
			liked = append(liked, m.Title)
			if len(liked) == 3 {
				break
			}
		}
	}

	enjoyed := make([]string, 0, 3)
	disliked := make([]string, 0, 3)
	for _, stat := range stats {
		if stat.ActivityCount < minTaggedForInsight {
			continue
		}
		if stat.ZScore > 0.5 && len(enjoyed) < 3 {
			enjoyed = append(enjoyed, stat.Tag)
		}
		if stat.ZScore < -0.5 && len(disliked) < 3 {
			disliked = append(disliked, stat.Tag)
		}
	}

	personality := make([]string, 0, 5)
	switch {
	case finalScore >= 8:
		personality = append(personality, "This person would likely love this type of event")
	case finalScore >= 6.5:
		personality = append(personality, "This person would probably enjoy this event")
	case finalScore >= 4:
		personality = append(personality, "This person might be neutral about this event")
	default:
		personality = append(personality, "This person would likely prefer other activities")
	}
	if len(liked) > 0 {
		personality = append(personality, "They enjoyed similar activities like "+strings.Join(liked, ", "))
	}
	if len(enjoyed) > 0 {
		personality = append(personality, "They tend to enjoy "+strings.Join(enjoyed, ", ")+" activities")
	}
	for i, stat := range stats {
		if i == 2 {
			break
		}
		if stat.Adjustment > 0.3 {
			personality = append(personality, fmt.Sprintf("Strong preference for %s activities (%d examples)", stat.Tag, stat.ActivityCount))
		} else if stat.Adjustment < -0.3 {
			personality = append(personality, fmt.Sprintf("Generally avoids %s activities (%d examples)", stat.Tag, stat.ActivityCount))
		}
	}

	return Insights{
		LikedSimilarActivities: liked,
		EnjoyedTags:            enjoyed,
		DislikedTags:           disliked,
		PersonalityInsights:    personality,
	}
}

package analysis

import (
	"math"
	"sort"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// maxWorstTags caps the least-favorites view.
const maxWorstTags = 10

// TagScore measures how far a tag's mean rating sits from the collection
// mean, in standard errors of the collection.
type TagScore struct {
	Tag           string  `json:"tag"`
	ActivityCount int     `json:"activityCount"`
	MeanElo       float64 `json:"meanElo"`
	OverallMean   float64 `json:"overallMean"`
	ZScore        float64 `json:"zScore"`
}

// TagScores computes a z-score for every tag carried by at least two
// activities, sorted best-loved first. The standard error for a tag of n
// members is the collection-wide stddev over √n, so small groups need a
// larger deviation to stand out.
func TagScores(activities []types.Activity) []TagScore {
	if len(activities) == 0 {
		return []TagScore{}
	}

	elos := make([]float64, len(activities))
	for i := range activities {
		elos[i] = activities[i].Elo
	}
	overallMean := mean(elos)
	overallStdDev := stdDev(elos, overallMean)

	scores := make([]TagScore, 0)
	for _, tag := range uniqueTags(activities) {
		tagged := make([]float64, 0)
		for i := range activities {
			if activities[i].HasTag(tag) {
				tagged = append(tagged, activities[i].Elo)
			}
		}
		if len(tagged) < 2 {
			continue
		}

		tagMean := mean(tagged)
		standardError := overallStdDev / math.Sqrt(float64(len(tagged)))
		z := 0.0
		if standardError > 0 {
			z = (tagMean - overallMean) / standardError
		}

		scores = append(scores, TagScore{
			Tag:           tag,
			ActivityCount: len(tagged),
			MeanElo:       round1(tagMean),
			OverallMean:   round1(overallMean),
			ZScore:        round2(z),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].ZScore > scores[j].ZScore })
	return scores
}

// WorstTagScores returns the negative-z tags, most disliked first, capped
// at ten entries.
func WorstTagScores(activities []types.Activity) []TagScore {
	worst := make([]TagScore, 0)
	for _, score := range TagScores(activities) {
		if score.ZScore < 0 {
			worst = append(worst, score)
		}
	}
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].ZScore < worst[j].ZScore })
	if len(worst) > maxWorstTags {
		worst = worst[:maxWorstTags]
	}
	return worst
}

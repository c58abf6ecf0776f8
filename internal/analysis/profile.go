package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// Significance labels a tag z-score.
type Significance string

const (
	SignificanceHigh     Significance = "Highly Significant"
	SignificanceStandard Significance = "Significant"
	SignificanceModerate Significance = "Moderate"
	SignificanceWeak     Significance = "Weak"
	SignificanceNone     Significance = "None"
)

// TagAnalysis summarizes how a tag's activities rate against the collection.
type TagAnalysis struct {
	Tag               string       `json:"tag"`
	ActivityCount     int          `json:"activityCount"`
	UserAvgElo        float64      `json:"userAvgElo"`
	OverallAvgElo     float64      `json:"overallAvgElo"`
	StandardDeviation float64      `json:"standardDeviation"`
	ZScore            float64      `json:"zScore"`
	Percentile        float64      `json:"percentile"`
	TopActivities     []string     `json:"topActivities"`
	Significance      Significance `json:"significance"`
}

// RankedActivity is one row of the full ranking table.
type RankedActivity struct {
	Rank       int     `json:"rank"`
	Title      string  `json:"title"`
	Elo        float64 `json:"elo"`
	Percentile float64 `json:"percentile"`
}

// OverallStats describes the shape of the rating distribution.
type OverallStats struct {
	MeanElo           float64 `json:"meanElo"`
	MedianElo         float64 `json:"medianElo"`
	StandardDeviation float64 `json:"standardDeviation"`
	MinElo            float64 `json:"minElo"`
	MaxElo            float64 `json:"maxElo"`
	Q1                float64 `json:"q1"`
	Q3                float64 `json:"q3"`
}

// DimensionPreference is the elo-weighted read on a single dimension.
type DimensionPreference struct {
	Preference  string  `json:"preference"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// ProfileSummary is the full post-quiz report for one user.
type ProfileSummary struct {
	Username       string                         `json:"username"`
	TotalMatchups  int                            `json:"totalMatchups"`
	CompletionDate string                         `json:"completionDate"`
	OverallStats   OverallStats                   `json:"overallStats"`
	AllActivities  []RankedActivity               `json:"allActivities"`
	TagAnalysis    []TagAnalysis                  `json:"tagAnalysis"`
	Dimensions     map[string]DimensionPreference `json:"dimensions"`
}

const minActivitiesPerTag = 3

// uniqueTags returns every distinct raw tag in the collection, sorted.
func uniqueTags(activities []types.Activity) []string {
	seen := make(map[string]struct{})
	for i := range activities {
		for _, tag := range activities[i].Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// rankAmong returns the position a value would take in a descending sort of
// elos, counting from zero.
func rankAmong(value float64, sortedDesc []float64) int {
	rank := 0
	for i, elo := range sortedDesc {
		if value > elo {
			return i
		}
		rank = i + 1
	}
	return rank
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// analyzeTag computes a pooled z-score for one tag, or nil when it labels
// too few activities for the statistics to mean anything.
func analyzeTag(tag string, activities []types.Activity) *TagAnalysis {
	normalized := types.NormalizeTag(tag)
	tagged := make([]types.Activity, 0)
	for i := range activities {
		if activities[i].HasTag(normalized) {
			tagged = append(tagged, activities[i])
		}
	}
	if len(tagged) < minActivitiesPerTag {
		return nil
	}

	allElos := make([]float64, len(activities))
	for i := range activities {
		allElos[i] = activities[i].Elo
	}
	overallMean := mean(allElos)
	overallStdDev := stdDev(allElos, overallMean)

	tagElos := make([]float64, len(tagged))
	for i := range tagged {
		tagElos[i] = tagged[i].Elo
	}
	tagMean := mean(tagElos)
	tagStdDev := stdDev(tagElos, tagMean)

	// Pooled z-score: raw deviation in overall standard deviations scaled
	// by sample size, assuming 0.3 within-tag correlation.
	raw := 0.0
	if overallStdDev > 0 {
		raw = (tagMean - overallMean) / overallStdDev
	}
	n := float64(len(tagged))
	pooledFactor := math.Sqrt(n / (1 + 0.3*(n-1)))
	zScore := raw * pooledFactor

	sortedDesc := append([]float64(nil), allElos...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sortedDesc)))
	rank := rankAmong(tagMean, sortedDesc)
	percentile := 1 - float64(rank)/float64(len(sortedDesc))

	var significance Significance
	switch absZ := math.Abs(zScore); {
	case absZ > 3:
		significance = SignificanceHigh
	case absZ > 2:
		significance = SignificanceStandard
	case absZ > 1:
		significance = SignificanceModerate
	case absZ > 0.5:
		significance = SignificanceWeak
	default:
		significance = SignificanceNone
	}

	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Elo > tagged[j].Elo })
	top := make([]string, 0, 5)
	for i := 0; i < len(tagged) && i < 5; i++ {
		top = append(top, tagged[i].Title)
	}

	return &TagAnalysis{
		Tag:               tag,
		ActivityCount:     len(tagged),
		UserAvgElo:        round1(tagMean),
		OverallAvgElo:     round1(overallMean),
		StandardDeviation: round1(tagStdDev),
		ZScore:            round2(zScore),
		Percentile:        round3(percentile),
		TopActivities:     top,
		Significance:      significance,
	}
}

// eventDimensionNames maps profile-facing dimension names to their index in
// the canonical dimension order.
var eventDimensionNames = [types.DimensionCount]string{
	"socialIntensity",
	"structure",
	"novelty",
	"formality",
	"energyLevel",
	"scaleImmersion",
}

type preferenceLabels struct {
	high, mid, low         string
	highExp, midExp, lowExp string
}

var dimensionLabels = map[string]preferenceLabels{
	"socialIntensity": {
		high: "Large Groups", highExp: "Prefers big social gatherings and events with many people",
		mid: "Moderate Groups", midExp: "Comfortable with medium-sized social settings",
		low: "Intimate Settings", lowExp: "Prefers small, close-knit gatherings and one-on-one activities",
	},
	"structure": {
		high: "Highly Organized", highExp: "Likes well-planned, structured activities with clear agendas",
		mid: "Semi-Structured", midExp: "Enjoys a mix of planned and spontaneous elements",
		low: "Spontaneous", lowExp: "Prefers unplanned, go-with-the-flow activities",
	},
	"novelty": {
		high: "Adventure Seeker", highExp: "Loves new experiences and trying unfamiliar activities",
		mid: "Balanced Explorer", midExp: "Enjoys mix of familiar favorites and new experiences",
		low: "Comfort Zone", lowExp: "Prefers familiar, tried-and-true activities",
	},
	"formality": {
		high: "Formal/Elegant", highExp: "Enjoys sophisticated, upscale, and polished experiences",
		mid: "Smart Casual", midExp: "Comfortable with moderately formal settings",
		low: "Casual/Relaxed", lowExp: "Prefers laid-back, informal atmospheres",
	},
	"energyLevel": {
		high: "High Energy", highExp: "Loves active, dynamic, physically or mentally stimulating activities",
		mid: "Moderate Energy", midExp: "Enjoys a balance of active and relaxed activities",
		low: "Low Key", lowExp: "Prefers calm, peaceful, and restorative activities",
	},
	"scaleImmersion": {
		high: "Long-term Commitment", highExp: "Enjoys immersive experiences and longer-duration activities",
		mid: "Moderate Duration", midExp: "Comfortable with medium-length activities and commitments",
		low: "Brief & Flexible", lowExp: "Prefers short, low-commitment activities",
	},
}

// analyzeDimensions computes elo-weighted dimension averages. Ratings above
// the 1000 baseline pull a dimension's average toward the activities the
// user favored.
func analyzeDimensions(activities []types.Activity) map[string]DimensionPreference {
	results := make(map[string]DimensionPreference, types.DimensionCount)
	for di, name := range eventDimensionNames {
		weightedSum := 0.0
		weightSum := 0.0
		for i := range activities {
			weight := activities[i].Elo - 1000
			weightedSum += activities[i].Dimensions()[di] * weight
			weightSum += weight
		}
		avg := 5.5
		if weightSum > 0 {
			avg = weightedSum / weightSum
		}
		score := round1(avg)

		labels := dimensionLabels[name]
		pref := DimensionPreference{Score: score}
		switch {
		case score >= 7:
			pref.Preference, pref.Explanation = labels.high, labels.highExp
		case score >= 4:
			pref.Preference, pref.Explanation = labels.mid, labels.midExp
		default:
			pref.Preference, pref.Explanation = labels.low, labels.lowExp
		}
		results[name] = pref
	}
	return results
}

func emptyDimensions() map[string]DimensionPreference {
	results := make(map[string]DimensionPreference, types.DimensionCount)
	for _, name := range eventDimensionNames {
		results[name] = DimensionPreference{Preference: "Unknown", Explanation: "No data"}
	}
	return results
}

// GenerateProfileSummary builds the full post-quiz report. An empty
// collection yields an empty profile rather than an error.
func GenerateProfileSummary(username string, activities []types.Activity, totalMatchups int) ProfileSummary {
	if len(activities) == 0 {
		return ProfileSummary{
			Username:       username,
			CompletionDate: "No quiz data",
			AllActivities:  []RankedActivity{},
			TagAnalysis:    []TagAnalysis{},
			Dimensions:     emptyDimensions(),
		}
	}

	elos := make([]float64, len(activities))
	for i := range activities {
		elos[i] = activities[i].Elo
	}
	sortedAsc := append([]float64(nil), elos...)
	sort.Float64s(sortedAsc)

	meanElo := mean(elos)
	sd := stdDev(elos, meanElo)

	n := len(sortedAsc)
	var median float64
	if n%2 == 0 {
		median = (sortedAsc[n/2-1] + sortedAsc[n/2]) / 2
	} else {
		median = sortedAsc[n/2]
	}
	q1 := sortedAsc[int(float64(n)*0.25)]
	q3 := sortedAsc[int(float64(n)*0.75)]

	ranked := append([]types.Activity(nil), activities...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Elo > ranked[j].Elo })
	allActivities := make([]RankedActivity, len(ranked))
	for i := range ranked {
		allActivities[i] = RankedActivity{
			Rank:       i + 1,
			Title:      ranked[i].Title,
			Elo:        ranked[i].Elo,
			Percentile: 1 - float64(i)/float64(len(ranked)),
		}
	}

	tagAnalysis := make([]TagAnalysis, 0)
	for _, tag := range uniqueTags(activities) {
		if ta := analyzeTag(tag, activities); ta != nil {
			tagAnalysis = append(tagAnalysis, *ta)
		}
	}
	sort.SliceStable(tagAnalysis, func(i, j int) bool {
		return math.Abs(tagAnalysis[i].ZScore) > math.Abs(tagAnalysis[j].ZScore)
	})

	return ProfileSummary{
		Username:       username,
		TotalMatchups:  totalMatchups,
		CompletionDate: time.Now().UTC().Format("2006-01-02"),
		OverallStats: OverallStats{
			MeanElo:           round1(meanElo),
			MedianElo:         round1(median),
			StandardDeviation: round1(sd),
			MinElo:            sortedAsc[0],
			MaxElo:            sortedAsc[n-1],
			Q1:                round1(q1),
			Q3:                round1(q3),
		},
		AllActivities: allActivities,
		TagAnalysis:   tagAnalysis,
		Dimensions:    analyzeDimensions(activities),
	}
}

package elo

import (
	"math"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// DimensionalSimilarity scores how alike two activities are across the six
// preference dimensions: 1 means identical, 0 means maximally far apart on
// every dimension.
func DimensionalSimilarity(a, b *types.Activity) float64 {
	if a == nil || b == nil {
		return 0
	}
	da, db := a.Dimensions(), b.Dimensions()
	sumAbsDiff := 0.0
	for i := 0; i < types.DimensionCount; i++ {
		sumAbsDiff += math.Abs(da[i] - db[i])
	}
	maxPossible := float64(types.DimensionCount) * types.DimensionSpan
	return 1 - sumAbsDiff/maxPossible
}

type propagationChange struct {
	index  int
	change float64
	oldElo float64
}

// propagate ripples a decisive outcome out to third-party activities that
// resemble the winner or loser, then normalizes the accumulated deltas to be
// zero-sum so propagation never inflates or deflates the whole ladder.
func (e *Engine) propagate(updated []types.Activity, winner, loser *types.Activity) {
	tagFrequency := make(map[string]int)
	for i := range updated {
		for _, tag := range updated[i].Tags {
			tagFrequency[types.NormalizeTag(tag)]++
		}
	}

	var changes []propagationChange
	for i := range updated {
		other := &updated[i]
		if other.ID == winner.ID || other.ID == loser.ID {
			continue
		}

		netChange := 0.0

		// Dimensional similarity: looking like the winner earns a share of a
		// win against the loser; looking like the loser takes a loss against
		// the winner.
		if sim := DimensionalSimilarity(other, winner); sim > e.cfg.SimilarityThreshold {
			expectedVsLoser := ExpectedScore(other.Elo, loser.Elo)
			netChange += e.cfg.DimensionalK * sim * (1 - expectedVsLoser)
		}
		if sim := DimensionalSimilarity(other, loser); sim > e.cfg.SimilarityThreshold {
			expectedVsWinner := ExpectedScore(other.Elo, winner.Elo)
			netChange += e.cfg.DimensionalK * sim * (0 - expectedVsWinner)
		}

		// Tag overlap: each shared tag nudges the rating, weighted by how
		// rare the tag is across the collection.
		tagChange := e.tagDelta(winner.Tags, other, tagFrequency, len(updated)) -
			e.tagDelta(loser.Tags, other, tagFrequency, len(updated))
		if math.Abs(tagChange) > e.cfg.MinPropagationDelta {
			netChange += tagChange
		}

		if math.Abs(netChange) > e.cfg.MinPropagationDelta {
			changes = append(changes, propagationChange{index: i, change: netChange, oldElo: other.Elo})
		}
	}

	if len(changes) == 0 {
		return
	}

	total := 0.0
	for _, c := range changes {
		total += c.change
	}

	// Subtract the mean change so the deltas sum to zero. When the total is
	// already near zero, apply as-is.
	avg := 0.0
	if math.Abs(total) > e.cfg.MinPropagationDelta {
		avg = total / float64(len(changes))
	}

	for _, c := range changes {
		act := &updated[c.index]
		act.Elo = math.Round(c.oldElo + c.change - avg)
		act.EloUpdateCount += 0.25
	}
}

// tagDelta sums the rarity-weighted boost for every tag of side shared with
// other.
func (e *Engine) tagDelta(sideTags []string, other *types.Activity, tagFrequency map[string]int, collectionSize int) float64 {
	delta := 0.0
	for _, tag := range sideTags {
		if !other.HasTag(tag) {
			continue
		}
		count := tagFrequency[types.NormalizeTag(tag)]
		if count < 1 {
			count = 1
		}
		rarity := float64(collectionSize) / float64(count)
		normalizedRarity := math.Min(3, math.Max(0.5, rarity/5))
		delta += e.cfg.TagK * (normalizedRarity / 3) * 0.10
	}
	return delta
}

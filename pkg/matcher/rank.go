package matcher

import (
	"math"
	"sort"
)

// sortResults sorts results descending by RawScore, the "ranker" half of
// spec §4.3 (the other half, CheckRank, is below).
func sortResults[T any](results []RankResult[T]) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RawScore > results[j].RawScore
	})
}

// normalizedScore is (raw/maxScore)^2, the squared normalization of spec
// §4.3 that amplifies the separation between a good and a barely-good
// pairing.
func normalizedScore(raw, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	r := raw / maxScore
	return r * r
}

// RawFromScore is the inverse of normalizedScore: rawFromScore(s, M) =
// sqrt(s) * M. Spec §4.3 uses it exactly once, to derive the
// per-candidate mismatch budget handed to classifiers.
func RawFromScore(score, maxScore float64) float64 {
	return math.Sqrt(score) * maxScore
}

// MaxMismatch computes spec §4.5 step 3's per-candidate mismatch budget:
// maxScore minus the raw score a candidate would need to still have a
// chance at clearing the acceptance thresholds, i.e. maxScore -
// rawFromScore(absThreshold*(1-relThreshold), maxScore).
func MaxMismatch(maxScore, absThreshold, relThreshold float64) float64 {
	return maxScore - RawFromScore(absThreshold*(1-relThreshold), maxScore)
}

// CheckRank implements spec §4.3's acceptance rule:
//  1. the top result's normalized score >= absThreshold
//  2. either there is exactly one result, or the second result's
//     normalized score < topScore * (1 - relThreshold)
func CheckRank[T any](ranking []RankResult[T], absThreshold, relThreshold, maxScore float64) bool {
	if len(ranking) == 0 {
		return false
	}

	top := normalizedScore(ranking[0].RawScore, maxScore)
	if top < absThreshold {
		return false
	}
	if len(ranking) == 1 {
		return true
	}

	second := normalizedScore(ranking[1].RawScore, maxScore)
	return second < top*(1-relThreshold)
}

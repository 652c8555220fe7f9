package matcher

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCheckRankEmptyRankingRejects(t *testing.T) {
	Convey("Given an empty ranking", t, func() {
		var ranking []RankResult[*Class]

		Convey("CheckRank always reports no acceptable candidate", func() {
			So(CheckRank(ranking, 0.85, 0.085, 10), ShouldBeFalse)
		})
	})
}

func TestCheckRankSingleCandidate(t *testing.T) {
	Convey("Given one candidate clearing the absolute threshold", t, func() {
		ranking := []RankResult[*Class]{{RawScore: 9}}

		Convey("CheckRank accepts without needing a runner-up gap", func() {
			So(CheckRank(ranking, 0.8, 0.085, 10), ShouldBeTrue)
		})
	})

	Convey("Given one candidate below the absolute threshold", t, func() {
		ranking := []RankResult[*Class]{{RawScore: 2}}

		Convey("CheckRank rejects it", func() {
			So(CheckRank(ranking, 0.8, 0.085, 10), ShouldBeFalse)
		})
	})
}

func TestCheckRankRelativeGap(t *testing.T) {
	Convey("Given a top candidate too close to the runner-up", t, func() {
		ranking := []RankResult[*Class]{{RawScore: 9}, {RawScore: 8.9}}

		Convey("CheckRank rejects for lack of separation", func() {
			So(CheckRank(ranking, 0.8, 0.085, 10), ShouldBeFalse)
		})
	})

	Convey("Given a top candidate clearly separated from the runner-up", t, func() {
		ranking := []RankResult[*Class]{{RawScore: 9.8}, {RawScore: 1}}

		Convey("CheckRank accepts", func() {
			So(CheckRank(ranking, 0.8, 0.085, 10), ShouldBeTrue)
		})
	})
}

// TestNormalizationRoundTrip checks spec §8's rank-normalization law:
// normalizedScore(rawFromScore(s, M), M) == s for any s in [0,1], i.e.
// RawFromScore is the true inverse normalizedScore composes against.
func TestNormalizationRoundTrip(t *testing.T) {
	Convey("Given a normalized score and a max score", t, func() {
		const maxScore = 7.5

		for _, s := range []float64{0, 0.085, 0.5, 0.85, 1} {
			raw := RawFromScore(s, maxScore)
			got := normalizedScore(raw, maxScore)

			Convey("round-tripping through rawFromScore recovers the original score", func() {
				So(got, ShouldAlmostEqual, s, 1e-9)
			})
		}
	})
}

func TestMaxMismatchUsesRawFromScore(t *testing.T) {
	Convey("Given threshold and max-score inputs", t, func() {
		const maxScore = 12.0
		abs, rel := 0.85, 0.085

		Convey("MaxMismatch equals maxScore minus the raw score at the acceptance floor", func() {
			want := maxScore - RawFromScore(abs*(1-rel), maxScore)
			So(MaxMismatch(maxScore, abs, rel), ShouldAlmostEqual, want, 1e-9)
		})
	})
}

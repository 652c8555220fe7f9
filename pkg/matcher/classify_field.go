package matcher

var fieldClassifier = []fieldCriterion{
	{
		Name:   "type-match",
		Weight: 1.5,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *Field) float64 {
			return typeSimilarity(a.Type(), b.Type())
		},
	},
	{
		Name:   "enclosing-class",
		Weight: 0.5,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *Field) float64 {
			if a.Class().Match() == b.Class() {
				return 1
			}
			return 0
		},
	},
}

func fieldMaxScore(level Level) float64 {
	var total float64
	for _, c := range fieldClassifier {
		if c.Levels[level] {
			total += c.Weight
		}
	}
	return total
}

// RankFields scores subject against every candidate at level.
func RankFields(env *Env, subject *Field, candidates []*Field, level Level, maxMismatch float64) []RankResult[*Field] {
	maxScore := fieldMaxScore(level)
	var out []RankResult[*Field]

	for _, cand := range candidates {
		if subject.Type() != nil && cand.Type() != nil && !potentialEqualClasses(subject.Type(), cand.Type()) {
			continue
		}

		score, pruned := scoreField(env, subject, cand, level, maxScore, maxMismatch)
		if pruned {
			continue
		}
		out = append(out, RankResult[*Field]{Candidate: cand, RawScore: score})
	}

	sortResults(out)
	return out
}

func scoreField(env *Env, a, b *Field, level Level, maxScore, maxMismatch float64) (score float64, pruned bool) {
	var mismatch float64
	for _, c := range fieldClassifier {
		if !c.Levels[level] {
			continue
		}
		weighted := c.Weight * c.Score(env, a, b)
		score += weighted
		mismatch += c.Weight - weighted
		if mismatch > maxMismatch {
			return 0, true
		}
	}
	return score, false
}

// FieldMaxScore exposes fieldMaxScore for driver code outside this file.
func FieldMaxScore(level Level) float64 { return fieldMaxScore(level) }

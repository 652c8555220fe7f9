package matcher

var varClassifier = []varCriterion{
	{
		Name:   "type-match",
		Weight: 1.5,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *MethodVar) float64 {
			return typeSimilarity(a.Type(), b.Type())
		},
	},
	{
		Name:   "position",
		Weight: 1.0,
		Levels: atLevel(Intermediate),
		Score: func(env *Env, a, b *MethodVar) float64 {
			return ratioSimilarity(a.Index()+1, b.Index()+1)
		},
	},
	{
		Name:   "lifetime-length",
		Weight: 0.5,
		Levels: atLevel(Full),
		Score: func(env *Env, a, b *MethodVar) float64 {
			la := a.EndInsn() - a.StartInsn()
			lb := b.EndInsn() - b.StartInsn()
			return ratioSimilarity(la, lb)
		},
	},
}

func varMaxScore(level Level) float64 {
	var total float64
	for _, c := range varClassifier {
		if c.Levels[level] {
			total += c.Weight
		}
	}
	return total
}

// RankVars scores subject against every candidate at level. Both must
// already be known to satisfy v.method.match == candidate.method and
// v.isArg == candidate.isArg (the auto-match driver's eligibility
// filtering); this function enforces the var potential-equality gate.
func RankVars(env *Env, subject *MethodVar, candidates []*MethodVar, level Level, maxMismatch float64) []RankResult[*MethodVar] {
	maxScore := varMaxScore(level)
	var out []RankResult[*MethodVar]

	for _, cand := range candidates {
		if !potentialEqualVars(subject, cand) {
			continue
		}

		score, pruned := scoreVar(env, subject, cand, level, maxScore, maxMismatch)
		if pruned {
			continue
		}
		out = append(out, RankResult[*MethodVar]{Candidate: cand, RawScore: score})
	}

	sortResults(out)
	return out
}

func scoreVar(env *Env, a, b *MethodVar, level Level, maxScore, maxMismatch float64) (score float64, pruned bool) {
	var mismatch float64
	for _, c := range varClassifier {
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

// VarMaxScore exposes varMaxScore for driver code outside this file.
func VarMaxScore(level Level) float64 { return varMaxScore(level) }

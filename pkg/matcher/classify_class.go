package matcher

// classClassifier scores a subject class (side A, unmatched) against
// candidate classes on side B. Criteria are examples within the weighted-
// composition contract of spec §4.2; the contract (pure, monotonic,
// symmetric-equivalent), not this exact criterion set, is what the spec
// fixes.
var classClassifier = []classCriterion{
	{
		Name:   "array-dims",
		Weight: 1.0,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *Class) float64 {
			if a.ArrayDims() == b.ArrayDims() {
				return 1
			}
			return 0
		},
	},
	{
		Name:   "super-interface-shape",
		Weight: 1.5,
		Levels: atLevel(Intermediate),
		Score: func(env *Env, a, b *Class) float64 {
			aHas, bHas := a.Super() != nil, b.Super() != nil
			superScore := 0.0
			if aHas == bHas {
				superScore = 1
			}
			ifaceScore := ratioSimilarity(len(a.Interfaces()), len(b.Interfaces()))
			return (superScore + ifaceScore) / 2
		},
	},
	{
		Name:   "member-set-overlap",
		Weight: 2.0,
		Levels: atLevel(Full),
		Score: func(env *Env, a, b *Class) float64 {
			methodScore := idOverlap(methodIDs(a), methodIDs(b))
			fieldScore := idOverlap(fieldIDs(a), fieldIDs(b))
			return (methodScore + fieldScore) / 2
		},
	},
	{
		Name:   "matched-method-instructions",
		Weight: 2.5,
		Levels: atLevel(Extra),
		Score: func(env *Env, a, b *Class) float64 {
			return avgMatchedMethodSimilarity(env, a, b)
		},
	},
}

func classMaxScore(level Level) float64 {
	var total float64
	for _, c := range classClassifier {
		if c.Levels[level] {
			total += c.Weight
		}
	}
	return total
}

// RankClasses scores subject against every candidate at level, pruning
// any candidate whose accumulated mismatch exceeds maxMismatch (spec
// §4.2/§4.5 step 3-4).
func RankClasses(env *Env, subject *Class, candidates []*Class, level Level, maxMismatch float64) []RankResult[*Class] {
	maxScore := classMaxScore(level)
	var out []RankResult[*Class]

	for _, cand := range candidates {
		if !potentialEqualClasses(subject, cand) {
			continue
		}

		score, pruned := scoreClass(env, subject, cand, level, maxScore, maxMismatch)
		if pruned {
			continue
		}
		out = append(out, RankResult[*Class]{Candidate: cand, RawScore: score})
	}

	sortResults(out)
	return out
}

func scoreClass(env *Env, a, b *Class, level Level, maxScore, maxMismatch float64) (score float64, pruned bool) {
	var mismatch float64
	for _, c := range classClassifier {
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

func methodIDs(c *Class) map[string]bool {
	m := make(map[string]bool, len(c.Methods()))
	for _, mm := range c.Methods() {
		m[mm.ID()] = true
	}
	return m
}

func fieldIDs(c *Class) map[string]bool {
	m := make(map[string]bool, len(c.Fields()))
	for _, f := range c.Fields() {
		m[f.ID()] = true
	}
	return m
}

func idOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	shared := 0
	for id := range a {
		if b[id] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 1
	}
	return float64(shared) / float64(union)
}

func ratioSimilarity(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == 0 {
		return 1
	}
	return float64(lo) / float64(hi)
}

func avgMatchedMethodSimilarity(env *Env, a, b *Class) float64 {
	var total float64
	var n int
	for _, m := range a.Methods() {
		if m.Match() == nil || m.Match().Class() != b {
			continue
		}
		total += env.compareInsnsCached(m, m.Match())
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// ClassMaxScore exposes classMaxScore for driver code outside this file.
func ClassMaxScore(level Level) float64 { return classMaxScore(level) }

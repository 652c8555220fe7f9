package matcher

var methodClassifier = []methodCriterion{
	{
		Name:   "arg-count",
		Weight: 1.0,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *Method) float64 {
			return ratioSimilarity(len(a.Args()), len(b.Args()))
		},
	},
	{
		Name:   "return-type",
		Weight: 1.0,
		Levels: atLevel(Initial),
		Score: func(env *Env, a, b *Method) float64 {
			return typeSimilarity(a.Return(), b.Return())
		},
	},
	{
		Name:   "hierarchy-size",
		Weight: 1.0,
		Levels: atLevel(Intermediate),
		Score: func(env *Env, a, b *Method) float64 {
			return ratioSimilarity(len(env.Graph.HierarchySet(a)), len(env.Graph.HierarchySet(b)))
		},
	},
	{
		Name:   "local-count",
		Weight: 1.0,
		Levels: atLevel(Full),
		Score: func(env *Env, a, b *Method) float64 {
			return ratioSimilarity(len(a.Locals()), len(b.Locals()))
		},
	},
	{
		Name:   "instruction-similarity",
		Weight: 3.0,
		Levels: atLevel(Full),
		Score: func(env *Env, a, b *Method) float64 {
			return env.compareInsnsCached(a, b)
		},
	},
}

func methodMaxScore(level Level) float64 {
	var total float64
	for _, c := range methodClassifier {
		if c.Levels[level] {
			total += c.Weight
		}
	}
	return total
}

// RankMethods scores subject against every candidate at level (spec
// §4.2/§4.5). Both subject and every candidate must already belong to
// matched classes (eligibility is the auto-match driver's job, not the
// ranker's); this function only enforces the potential-equality gate on
// return type.
func RankMethods(env *Env, subject *Method, candidates []*Method, level Level, maxMismatch float64) []RankResult[*Method] {
	maxScore := methodMaxScore(level)
	var out []RankResult[*Method]

	for _, cand := range candidates {
		if subject.Return() != nil && cand.Return() != nil && !potentialEqualClasses(subject.Return(), cand.Return()) {
			continue
		}

		score, pruned := scoreMethod(env, subject, cand, level, maxScore, maxMismatch)
		if pruned {
			continue
		}
		out = append(out, RankResult[*Method]{Candidate: cand, RawScore: score})
	}

	sortResults(out)
	return out
}

func scoreMethod(env *Env, a, b *Method, level Level, maxScore, maxMismatch float64) (score float64, pruned bool) {
	var mismatch float64
	for _, c := range methodClassifier {
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

func typeSimilarity(a, b *Class) float64 {
	if a == nil && b == nil {
		return 1
	}
	if a == nil || b == nil {
		return 0
	}
	if potentialEqualClasses(a, b) {
		return 1
	}
	return 0
}

// MethodMaxScore exposes methodMaxScore for driver code outside this file.
func MethodMaxScore(level Level) float64 { return methodMaxScore(level) }

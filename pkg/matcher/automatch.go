package matcher

import (
	"context"
	"sync"

	"github.com/Chocohead/Matcher/internal/config"
	"github.com/Chocohead/Matcher/internal/log"
	"github.com/Chocohead/Matcher/internal/parallel"
)

// Driver is the auto-match driver (spec §4.5): it iterates level-by-level,
// kind-by-kind, fanning each pass out over the concurrency substrate and
// committing serially through the arbiter.
type Driver struct {
	g   *Graph
	ar  *Arbiter
	env *Env

	thresholds config.Thresholds
	runOpts    parallel.RunOpts
}

// NewDriver binds a driver to a graph, its arbiter, a scoring environment
// and threshold/concurrency configuration.
func NewDriver(g *Graph, ar *Arbiter, env *Env, thresholds config.Thresholds, runOpts parallel.RunOpts) *Driver {
	return &Driver{g: g, ar: ar, env: env, thresholds: thresholds, runOpts: runOpts}
}

// runAutoMatchPass is the shared shape of every per-kind auto-match (spec
// §4.5 steps 1-6): score every subject in parallel, pick its top candidate
// if checkRank passes, sanitize away any peer claimed twice, then commit
// the survivors serially in subject order.
func runAutoMatchPass[T comparable](
	ctx context.Context,
	subjects []T,
	rank func(subject T) []RankResult[T],
	abs, rel, maxScore float64,
	runOpts parallel.RunOpts,
	progress parallel.Progress,
	commit func(subject, peer T) error,
) (bool, error) {
	if len(subjects) == 0 {
		return false, nil
	}

	results := make(map[T]T, len(subjects))
	var mu sync.Mutex

	opts := runOpts
	opts.Progress = progress
	errs := parallel.RunInParallel(ctx, subjects, func(_ context.Context, subj T) error {
		ranking := rank(subj)
		if peer, ok := pickTop(ranking, abs, rel, maxScore); ok {
			mu.Lock()
			results[subj] = peer
			mu.Unlock()
		}
		return nil
	}, opts)
	if wf := newWorkerFailure(errs); wf != nil {
		return false, wf
	}

	sanitized := sanitizeResults(results)
	if len(sanitized) == 0 {
		return false, nil
	}

	committed := false
	for _, subj := range subjects {
		peer, ok := sanitized[subj]
		if !ok {
			continue
		}
		if err := commit(subj, peer); err != nil {
			return committed, err
		}
		committed = true
	}
	return committed, nil
}

// pickTop applies checkRank to a ranking and returns its top candidate.
func pickTop[T any](ranking []RankResult[T], abs, rel, maxScore float64) (T, bool) {
	var zero T
	if !CheckRank(ranking, abs, rel, maxScore) {
		return zero, false
	}
	return ranking[0].Candidate, true
}

// sanitizeResults drops any entry whose peer was chosen by more than one
// subject (spec §4.5 step 5: "these conflicts are discarded, not
// resolved").
func sanitizeResults[T comparable](results map[T]T) map[T]T {
	counts := make(map[T]int, len(results))
	for _, peer := range results {
		counts[peer]++
	}
	out := make(map[T]T, len(results))
	for subj, peer := range results {
		if counts[peer] == 1 {
			out[subj] = peer
		}
	}
	return out
}

func eligibleClasses(cs []*Class) []*Class {
	out := make([]*Class, 0, len(cs))
	for _, c := range cs {
		if c.URI() != nil && c.NameObfuscated() && c.Match() == nil {
			out = append(out, c)
		}
	}
	return out
}

func eligibleMethods(ms []*Method) []*Method {
	out := make([]*Method, 0, len(ms))
	for _, m := range ms {
		if m.IsReal() && m.NameObfuscated() && m.Match() == nil {
			out = append(out, m)
		}
	}
	return out
}

func eligibleFields(fs []*Field) []*Field {
	out := make([]*Field, 0, len(fs))
	for _, f := range fs {
		if f.IsReal() && f.NameObfuscated() && f.Match() == nil {
			out = append(out, f)
		}
	}
	return out
}

func eligibleVars(vs []*MethodVar) []*MethodVar {
	out := make([]*MethodVar, 0, len(vs))
	for _, v := range vs {
		if v.NameObfuscated() && v.Match() == nil {
			out = append(out, v)
		}
	}
	return out
}

// AutoMatchClasses runs one parallel pass of class auto-match at level.
func (d *Driver) AutoMatchClasses(ctx context.Context, level Level, progress parallel.Progress) (bool, error) {
	subjects := eligibleClasses(d.g.ClassesA())
	candidates := eligibleClasses(d.g.ClassesB())
	if len(candidates) == 0 {
		return false, nil
	}

	maxScore := ClassMaxScore(level)
	maxMismatch := MaxMismatch(maxScore, d.thresholds.AbsClass, d.thresholds.RelClass)

	rank := func(subj *Class) []RankResult[*Class] {
		return RankClasses(d.env, subj, candidates, level, maxMismatch)
	}
	commit := func(subj, peer *Class) error { return d.ar.MatchClasses(subj, peer) }

	return runAutoMatchPass(ctx, subjects, rank, d.thresholds.AbsClass, d.thresholds.RelClass, maxScore, d.runOpts, progress, commit)
}

// AutoMatchMethods runs one parallel pass of method auto-match at level,
// scoped to classes already matched to each other (spec §4.5: "restricts
// to classes that have at least one unmatched member of that kind").
func (d *Driver) AutoMatchMethods(ctx context.Context, level Level, progress parallel.Progress) (bool, error) {
	var subjects []*Method
	for _, ca := range d.g.ClassesA() {
		if ca.Match() == nil {
			continue
		}
		subs := eligibleMethods(ca.Methods())
		if len(subs) == 0 {
			continue
		}
		subjects = append(subjects, subs...)
	}
	if len(subjects) == 0 {
		return false, nil
	}

	maxScore := MethodMaxScore(level)
	maxMismatch := MaxMismatch(maxScore, d.thresholds.AbsMethod, d.thresholds.RelMethod)

	rank := func(subj *Method) []RankResult[*Method] {
		cands := eligibleMethods(subj.Class().Match().Methods())
		return RankMethods(d.env, subj, cands, level, maxMismatch)
	}
	commit := func(subj, peer *Method) error { return d.ar.MatchMethods(subj, peer) }

	return runAutoMatchPass(ctx, subjects, rank, d.thresholds.AbsMethod, d.thresholds.RelMethod, maxScore, d.runOpts, progress, commit)
}

// AutoMatchFields runs one parallel pass of field auto-match at level,
// scoped the same way as AutoMatchMethods.
func (d *Driver) AutoMatchFields(ctx context.Context, level Level, progress parallel.Progress) (bool, error) {
	var subjects []*Field
	for _, ca := range d.g.ClassesA() {
		if ca.Match() == nil {
			continue
		}
		subs := eligibleFields(ca.Fields())
		if len(subs) == 0 {
			continue
		}
		subjects = append(subjects, subs...)
	}
	if len(subjects) == 0 {
		return false, nil
	}

	maxScore := FieldMaxScore(level)
	maxMismatch := MaxMismatch(maxScore, d.thresholds.AbsField, d.thresholds.RelField)

	rank := func(subj *Field) []RankResult[*Field] {
		cands := eligibleFields(subj.Class().Match().Fields())
		return RankFields(d.env, subj, cands, level, maxMismatch)
	}
	commit := func(subj, peer *Field) error { return d.ar.MatchFields(subj, peer) }

	return runAutoMatchPass(ctx, subjects, rank, d.thresholds.AbsField, d.thresholds.RelField, maxScore, d.runOpts, progress, commit)
}

// AutoMatchMethodArgs runs one parallel pass of argument-var auto-match at
// level, scoped to methods already matched to each other.
func (d *Driver) AutoMatchMethodArgs(ctx context.Context, level Level, progress parallel.Progress) (bool, error) {
	return d.autoMatchVars(ctx, level, progress, true)
}

// AutoMatchMethodVars runs one parallel pass of local-var auto-match at
// level, scoped to methods already matched to each other.
func (d *Driver) AutoMatchMethodVars(ctx context.Context, level Level, progress parallel.Progress) (bool, error) {
	return d.autoMatchVars(ctx, level, progress, false)
}

func (d *Driver) autoMatchVars(ctx context.Context, level Level, progress parallel.Progress, isArg bool) (bool, error) {
	var subjects []*MethodVar
	for _, ca := range d.g.ClassesA() {
		for _, ma := range ca.Methods() {
			if ma.Match() == nil {
				continue
			}
			var pool []*MethodVar
			if isArg {
				pool = ma.Args()
			} else {
				pool = ma.Locals()
			}
			subs := eligibleVars(pool)
			if len(subs) == 0 {
				continue
			}
			subjects = append(subjects, subs...)
		}
	}
	if len(subjects) == 0 {
		return false, nil
	}

	maxScore := VarMaxScore(level)
	maxMismatch := MaxMismatch(maxScore, d.thresholds.AbsVar, d.thresholds.RelVar)

	rank := func(subj *MethodVar) []RankResult[*MethodVar] {
		mb := subj.Method().Match()
		var pool []*MethodVar
		if subj.IsArg() {
			pool = mb.Args()
		} else {
			pool = mb.Locals()
		}
		cands := eligibleVars(pool)
		return RankVars(d.env, subj, cands, level, maxMismatch)
	}
	commit := func(subj, peer *MethodVar) error { return d.ar.MatchVars(subj, peer) }

	return runAutoMatchPass(ctx, subjects, rank, d.thresholds.AbsVar, d.thresholds.RelVar, maxScore, d.runOpts, progress, commit)
}

// levelLoop implements spec §4.5 levelLoop(level): repeat method then field
// auto-match while either changes something; when neither does, retry
// class auto-match, stopping only once two consecutive class attempts in a
// row both produce nothing.
func (d *Driver) levelLoop(ctx context.Context, level Level, progress parallel.Progress) error {
	prevClassEmpty := false

	for {
		mChanged, err := d.AutoMatchMethods(ctx, level, progress)
		if err != nil {
			return err
		}
		fChanged, err := d.AutoMatchFields(ctx, level, progress)
		if err != nil {
			return err
		}
		if mChanged || fChanged {
			prevClassEmpty = false
			continue
		}

		cChanged, err := d.AutoMatchClasses(ctx, level, progress)
		if err != nil {
			return err
		}
		if cChanged {
			prevClassEmpty = false
			continue
		}

		if prevClassEmpty {
			return nil
		}
		prevClassEmpty = true
	}
}

// AutoMatchAll runs spec §4.5's top-level driver sequence to a fixed
// point.
func (d *Driver) AutoMatchAll(ctx context.Context, progress parallel.Progress) error {
	changed, err := d.AutoMatchClasses(ctx, Initial, progress)
	if err != nil {
		return err
	}
	if changed {
		if _, err := d.AutoMatchClasses(ctx, Initial, progress); err != nil {
			return err
		}
	}

	for _, level := range []Level{Intermediate, Full, Extra} {
		if err := d.levelLoop(ctx, level, progress); err != nil {
			return err
		}
	}

	for {
		argsChanged, err := d.AutoMatchMethodArgs(ctx, Full, progress)
		if err != nil {
			return err
		}
		localsChanged, err := d.AutoMatchMethodVars(ctx, Full, progress)
		if err != nil {
			return err
		}
		if !argsChanged && !localsChanged {
			break
		}
	}

	d.g.cache.Clear()
	return nil
}

// MergeMatchClasses is the merge-match verification pass (spec §4.5/§4.6):
// any matched class whose matched methods diverge below the instruction-
// similarity floor is unmatched entirely, then the newly-unmatched pool is
// reconsidered.
//
// The reference implementation's re-matching worker body is empty (spec
// §9 Open Questions); this implementation resolves that gap by running a
// fresh Initial-level class auto-match pass over the expanded unmatched
// pool, the first of the two alternatives the spec offers.
func (d *Driver) MergeMatchClasses(ctx context.Context, progress parallel.Progress) (bool, error) {
	const similarityFloor = 0.99

	var mismatched []*Class
	for _, ca := range d.g.ClassesA() {
		cb := ca.Match()
		if cb == nil {
			continue
		}
		for _, ma := range ca.Methods() {
			mb := ma.Match()
			if mb == nil {
				continue
			}
			if d.env.compareInsnsCached(ma, mb) < similarityFloor {
				mismatched = append(mismatched, ca)
				break
			}
		}
	}
	if len(mismatched) == 0 {
		return false, nil
	}

	for _, ca := range mismatched {
		log.WARN("merge-match: unmatching class %s, instruction similarity below %.2f", ca.ID(), similarityFloor)
		d.ar.UnmatchClass(ca)
	}

	return d.AutoMatchClasses(ctx, Initial, progress)
}

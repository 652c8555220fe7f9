package matcher

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Chocohead/Matcher/internal/config"
	"github.com/Chocohead/Matcher/internal/parallel"
)

func newTestDriver(g *Graph, ar *Arbiter) *Driver {
	env := &Env{Graph: g, Insns: NoInstructions{}}
	return NewDriver(g, ar, env, config.Default().Thresholds, parallel.RunOpts{})
}

func TestAutoMatchClassesBindsUniqueCandidate(t *testing.T) {
	Convey("Given one obfuscated, unmatched, array-dims-equal class on each side", t, func() {
		g, ca, cb := buildPair()
		ar := NewArbiter(g)
		d := newTestDriver(g, ar)

		Convey("auto-match at Initial level binds them", func() {
			changed, err := d.AutoMatchClasses(context.Background(), Initial, nil)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(ca.Match(), ShouldEqual, cb)
		})
	})
}

func TestAutoMatchClassesSanitizesConflicts(t *testing.T) {
	Convey("Given two subjects that would both rank the same single peer top", t, func() {
		g := NewGraph()
		uriA1, uriA2, uriB := "a1.jar", "a2.jar", "b.jar"
		s1 := NewClass(SideA, "LS1;", "s1", true, &uriA1)
		s2 := NewClass(SideA, "LS2;", "s2", true, &uriA2)
		p := NewClass(SideB, "LP;", "p", true, &uriB)
		g.AddClass(s1)
		g.AddClass(s2)
		g.AddClass(p)
		ar := NewArbiter(g)
		d := newTestDriver(g, ar)

		Convey("sanitize discards both, leaving the peer unmatched", func() {
			_, err := d.AutoMatchClasses(context.Background(), Initial, nil)
			So(err, ShouldBeNil)
			So(s1.Match(), ShouldBeNil)
			So(s2.Match(), ShouldBeNil)
			So(p.Match(), ShouldBeNil)
		})
	})
}

func TestAutoMatchSkipsNonObfuscatedAndAlreadyMatched(t *testing.T) {
	Convey("Given an already-matched class and a non-obfuscated class", t, func() {
		g, ca, cb := buildPair()
		ar := NewArbiter(g)
		So(ar.MatchClasses(ca, cb), ShouldBeNil)

		uriA, uriB := "plain-a.jar", "plain-b.jar"
		plainA := NewClass(SideA, "LPlainA;", "Plain", false, &uriA)
		plainB := NewClass(SideB, "LPlainB;", "Plain", false, &uriB)
		g.AddClass(plainA)
		g.AddClass(plainB)

		d := newTestDriver(g, ar)

		Convey("neither is picked up as an eligible subject", func() {
			changed, err := d.AutoMatchClasses(context.Background(), Initial, nil)
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
		})
	})
}

func TestAutoMatchMethodsScopedToMatchedClasses(t *testing.T) {
	Convey("Given a matched class pair each with one obfuscated unmatched method", t, func() {
		g, ca, cb := buildPair()
		ar := NewArbiter(g)
		So(ar.MatchClasses(ca, cb), ShouldBeNil)

		mA := addMethod(g, ca, "a", "()V", true)
		mB := addMethod(g, cb, "b", "()V", true)

		d := newTestDriver(g, ar)

		Convey("auto-match methods binds the sole pair", func() {
			changed, err := d.AutoMatchMethods(context.Background(), Initial, nil)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(mA.Match(), ShouldEqual, mB)
		})
	})
}

func TestLevelLoopTerminates(t *testing.T) {
	Convey("Given a graph with nothing left to match", t, func() {
		g, ca, cb := buildPair()
		ar := NewArbiter(g)
		So(ar.MatchClasses(ca, cb), ShouldBeNil)
		d := newTestDriver(g, ar)

		Convey("levelLoop returns promptly instead of looping forever", func() {
			err := d.levelLoop(context.Background(), Full, nil)
			So(err, ShouldBeNil)
		})
	})
}

func TestAutoMatchAllIsSafeOnEmptyGraph(t *testing.T) {
	Convey("Given an empty graph", t, func() {
		g := NewGraph()
		ar := NewArbiter(g)
		d := newTestDriver(g, ar)

		Convey("AutoMatchAll completes without error", func() {
			So(d.AutoMatchAll(context.Background(), nil), ShouldBeNil)
		})
	})
}

func TestMergeMatchUnmatchesDivergentClass(t *testing.T) {
	Convey("Given a matched class pair whose matched method diverges", t, func() {
		g, ca, cb := buildPair()
		// Non-obfuscated so the follow-up auto-match pass merge-match
		// triggers does not immediately re-pick these as eligible
		// subjects, which would mask the unmatch this test checks for.
		ca.nameObfuscated = false
		cb.nameObfuscated = false
		ar := NewArbiter(g)
		So(ar.MatchClasses(ca, cb), ShouldBeNil)

		mA := addMethod(g, ca, "run", "()V", false)
		mB := addMethod(g, cb, "run", "()V", false)
		So(ar.MatchMethods(mA, mB), ShouldBeNil)

		env := &Env{Graph: g, Insns: constInsns{0.1}}
		d := NewDriver(g, ar, env, config.Default().Thresholds, parallel.RunOpts{})

		Convey("merge-match unmatches the class", func() {
			_, err := d.MergeMatchClasses(context.Background(), nil)
			So(err, ShouldBeNil)
			So(ca.Match(), ShouldBeNil)
			So(mA.Match(), ShouldBeNil)
		})
	})
}

func TestAutoMatchClassesAggregatesWorkerFailures(t *testing.T) {
	Convey("Given two eligible subjects and an already-canceled context", t, func() {
		g := NewGraph()
		uriA1, uriA2, uriB := "a1.jar", "a2.jar", "b.jar"
		s1 := NewClass(SideA, "LS1;", "s1", true, &uriA1)
		s2 := NewClass(SideA, "LS2;", "s2", true, &uriA2)
		p := NewClass(SideB, "LP;", "p", true, &uriB)
		g.AddClass(s1)
		g.AddClass(s2)
		g.AddClass(p)
		ar := NewArbiter(g)
		d := newTestDriver(g, ar)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("every worker's cancellation is collected into one aggregated failure", func() {
			_, err := d.AutoMatchClasses(ctx, Initial, nil)
			So(err, ShouldNotBeNil)

			matchErr, ok := err.(*MatchError)
			So(ok, ShouldBeTrue)
			So(matchErr.Kind, ShouldEqual, WorkerFailure)

			multi, ok := matchErr.Cause.(MultiError)
			So(ok, ShouldBeTrue)
			So(len(multi.Errors), ShouldEqual, 2)
		})
	})
}

type constInsns struct{ v float64 }

func (c constInsns) CompareInsns(*Method, *Method) float64 { return c.v }

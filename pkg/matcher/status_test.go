package matcher

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStatusCountsMatchedAndTotal(t *testing.T) {
	Convey("Given a graph with one matched and one unmatched class, and a mix of real/synthetic methods", t, func() {
		g, ca, cb := buildPair()
		ar := NewArbiter(g)
		So(ar.MatchClasses(ca, cb), ShouldBeNil)

		uriA := "unmatched.jar"
		unmatched := NewClass(SideA, "LUn;", "un", true, &uriA)
		g.AddClass(unmatched)

		real := NewMethod(ca, "run", "()V", nil, true, false)
		ca.methods = append(ca.methods, real)
		synthetic := NewMethod(ca, "bridge", "()V", nil, false, false)
		ca.methods = append(ca.methods, synthetic)

		realB := NewMethod(cb, "run", "()V", nil, true, false)
		cb.methods = append(cb.methods, realB)
		So(ar.MatchMethods(real, realB), ShouldBeNil)

		Convey("Status counts only real methods and every class", func() {
			st := g.Status(true)
			So(st.Classes.Total, ShouldEqual, 2)
			So(st.Classes.Matched, ShouldEqual, 1)
			So(st.Methods.Total, ShouldEqual, 1)
			So(st.Methods.Matched, ShouldEqual, 1)
		})
	})
}

func TestStatusInputsOnlyExcludesSyntheticClasses(t *testing.T) {
	Convey("Given one input class and one synthesized placeholder with no URI", t, func() {
		g := NewGraph()
		uriA := "real.jar"
		real := NewClass(SideA, "LReal;", "real", true, &uriA)
		placeholder := NewClass(SideA, "LPlaceholder;", "placeholder", true, nil)
		g.AddClass(real)
		g.AddClass(placeholder)

		Convey("inputsOnly=true excludes the placeholder", func() {
			st := g.Status(true)
			So(st.Classes.Total, ShouldEqual, 1)
		})

		Convey("inputsOnly=false includes it", func() {
			st := g.Status(false)
			So(st.Classes.Total, ShouldEqual, 2)
		})
	})
}

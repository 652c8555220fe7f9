package matcher

import "fmt"

// KindStatus is the matched/total tally for one entity kind (spec §6
// getStatus).
type KindStatus struct {
	Matched int
	Total   int
}

// MatchingStatus is the snapshot returned by Graph.Status: totals and
// matched counts for classes, methods, method args, method locals and
// fields. Only real entities contribute (spec §9 "isReal semantics").
type MatchingStatus struct {
	Classes     KindStatus
	Methods     KindStatus
	MethodArgs  KindStatus
	MethodLocal KindStatus
	Fields      KindStatus
}

func (s MatchingStatus) String() string {
	return fmt.Sprintf(
		"classes: %d/%d, methods: %d/%d, method args: %d/%d, method locals: %d/%d, fields: %d/%d",
		s.Classes.Matched, s.Classes.Total,
		s.Methods.Matched, s.Methods.Total,
		s.MethodArgs.Matched, s.MethodArgs.Total,
		s.MethodLocal.Matched, s.MethodLocal.Total,
		s.Fields.Matched, s.Fields.Total,
	)
}

// Status computes a MatchingStatus over side A. When inputsOnly is true,
// only classes with a non-nil URI (actual input artifacts, not
// synthesized/library placeholders) are counted.
func (g *Graph) Status(inputsOnly bool) MatchingStatus {
	var st MatchingStatus

	for _, c := range g.ClassesA() {
		if inputsOnly && c.URI() == nil {
			continue
		}
		st.Classes.Total++
		if c.Match() != nil {
			st.Classes.Matched++
		}

		for _, m := range c.Methods() {
			if !m.IsReal() {
				continue
			}
			st.Methods.Total++
			if m.Match() != nil {
				st.Methods.Matched++
			}
			for _, v := range m.Args() {
				st.MethodArgs.Total++
				if v.Match() != nil {
					st.MethodArgs.Matched++
				}
			}
			for _, v := range m.Locals() {
				st.MethodLocal.Total++
				if v.Match() != nil {
					st.MethodLocal.Matched++
				}
			}
		}

		for _, f := range c.Fields() {
			if !f.IsReal() {
				continue
			}
			st.Fields.Total++
			if f.Match() != nil {
				st.Fields.Matched++
			}
		}
	}

	return st
}

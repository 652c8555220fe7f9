package matcher

// Hierarchy-set computation (spec §3 GLOSSARY "Hierarchy set"): the
// transitive closure over supertype/subtype chains of methods sharing the
// same name+descriptor that override one another, inclusive of the method
// itself. Classes only carry upward (super/interface) references, so the
// graph builds a reverse (subclass) index once, the same way the teacher's
// DependencyGraph turns a one-directional Dependencies list into a
// Dependents list (dependency_graph.go AddDependency) before it can walk
// either direction.
func (g *Graph) buildSubclassIndex() {
	g.subclassesOnce.Do(func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		idx := make(map[*Class][]*Class)
		all := make([]*Class, 0, len(g.classesA)+len(g.classesB))
		for _, c := range g.classesA {
			all = append(all, c)
		}
		for _, c := range g.classesB {
			all = append(all, c)
		}
		for _, c := range all {
			if c.super != nil {
				idx[c.super] = append(idx[c.super], c)
			}
			for _, i := range c.interfaces {
				idx[i] = append(idx[i], c)
			}
		}
		g.subclasses = idx
	})
}

func (g *Graph) subclassesOf(c *Class) []*Class {
	g.buildSubclassIndex()
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.subclasses[c]
}

// neighborClasses returns every class directly reachable from c along a
// super or subtype edge.
func (g *Graph) neighborClasses(c *Class) []*Class {
	neighbors := g.subclassesOf(c)
	if c.super != nil {
		neighbors = append(neighbors, c.super)
	}
	neighbors = append(neighbors, c.interfaces...)
	return neighbors
}

// HierarchySet returns the transitive closure of methods overriding (or
// overridden by) m, including m itself. A matched hierarchy member is any
// entry whose Match() is non-nil (spec §3).
func (g *Graph) HierarchySet(m *Method) []*Method {
	visitedClasses := map[*Class]bool{m.class: true}
	queue := []*Class{m.class}
	var set []*Method

	for len(queue) > 0 {
		cls := queue[0]
		queue = queue[1:]

		if mm, ok := cls.MethodByID(m.id); ok {
			set = append(set, mm)
		}

		for _, n := range g.neighborClasses(cls) {
			if !visitedClasses[n] {
				visitedClasses[n] = true
				queue = append(queue, n)
			}
		}
	}

	return set
}

// MatchedHierarchyMembers filters HierarchySet to entries with a non-nil
// match.
func (g *Graph) MatchedHierarchyMembers(m *Method) []*Method {
	var out []*Method
	for _, h := range g.HierarchySet(m) {
		if h.match != nil {
			out = append(out, h)
		}
	}
	return out
}

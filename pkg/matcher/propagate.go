package matcher

// PropagateNames walks side B classes and spreads mapped names across
// method hierarchy cliques (spec §4.7). It is single-threaded and only
// reads/writes mapped-name fields, respecting the arbiter's contract that
// setMappedName is only called on an entity without a prior mapped name.
func (ar *Arbiter) PropagateNames(progress func(done, total int)) bool {
	classesB := ar.g.ClassesB()

	visited := make(map[*Method]bool)
	propagated := false

	var total, done int
	for _, c := range classesB {
		total += len(c.Methods())
	}

	for _, c := range classesB {
		for _, m := range c.Methods() {
			done++
			if progress != nil {
				progress(done, total)
			}

			if visited[m] {
				continue
			}
			hierarchy := ar.g.HierarchySet(m)
			if len(hierarchy) <= 1 {
				continue
			}
			for _, h := range hierarchy {
				visited[h] = true
			}

			if propagateOne(ar, hierarchy) {
				propagated = true
			}
		}
	}

	return propagated
}

// propagateOne implements spec §4.7 steps 2-4 for a single hierarchy
// clique.
func propagateOne(ar *Arbiter, hierarchy []*Method) bool {
	anchor := hierarchy[0]
	if anchor.MappedNameOwn() != nil && allArgsMapped(anchor) {
		return false
	}

	var methodName *string
	argNames := make([]*string, len(anchor.Args()))

	for _, h := range hierarchy {
		if methodName == nil {
			if n := h.MappedNameOwn(); n != nil {
				methodName = n
			}
		}
		for i, arg := range h.Args() {
			if i >= len(argNames) {
				continue
			}
			if argNames[i] == nil {
				if n := arg.MappedNameOwn(); n != nil {
					argNames[i] = n
				}
			}
		}
	}

	if methodName == nil {
		allNil := true
		for _, n := range argNames {
			if n != nil {
				allNil = false
				break
			}
		}
		if allNil {
			return false
		}
	}

	propagated := false
	for _, h := range hierarchy {
		if methodName != nil && h.MappedNameOwn() == nil {
			name := *methodName
			setMethodMappedName(h, &name)
			propagated = true
		}
		for i, arg := range h.Args() {
			if i >= len(argNames) || argNames[i] == nil {
				continue
			}
			if arg.MappedNameOwn() == nil {
				name := *argNames[i]
				setVarMappedName(arg, &name)
				propagated = true
			}
		}
	}

	return propagated
}

func allArgsMapped(m *Method) bool {
	for _, arg := range m.Args() {
		if arg.MappedNameOwn() == nil {
			return false
		}
	}
	return true
}

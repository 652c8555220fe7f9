package matcher

// buildPair constructs a minimal graph with one class on each side,
// neither array nor matched, for use across test files.
func buildPair() (*Graph, *Class, *Class) {
	g := NewGraph()
	uriA, uriB := "a.jar", "b.jar"

	ca := NewClass(SideA, "LFoo;", "a", true, &uriA)
	cb := NewClass(SideB, "LBar;", "b", true, &uriB)
	g.AddClass(ca)
	g.AddClass(cb)

	return g, ca, cb
}

func addMethod(g *Graph, c *Class, name, desc string, obf bool) *Method {
	m := NewMethod(c, name, desc, nil, true, obf)
	c.methods = append(c.methods, m)
	return m
}

func addField(g *Graph, c *Class, name, desc string, obf bool) *Field {
	f := NewField(c, name, desc, nil, true, obf)
	c.fields = append(c.fields, f)
	return f
}

func addArg(m *Method, typ *Class, index int, obf bool) *MethodVar {
	v := NewMethodVar(m, true, index, index, index, typ, 0, 10, "v", obf)
	m.args = append(m.args, v)
	return v
}

func addLocal(m *Method, typ *Class, index int, obf bool) *MethodVar {
	v := NewMethodVar(m, false, index, index, index, typ, 0, 10, "l", obf)
	m.locals = append(m.locals, v)
	return v
}

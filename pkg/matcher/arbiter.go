package matcher

import (
	"github.com/Chocohead/Matcher/internal/log"
)

// Arbiter owns every mutation of the entity graph's match links (spec
// §4.4). It is the only thing allowed to call setMatch/setMappedName/
// setTmpName; every precondition check happens before any mutation, so a
// contract violation leaves the graph untouched (spec §7).
type Arbiter struct {
	g *Graph
}

// NewArbiter returns an arbiter bound to g.
func NewArbiter(g *Graph) *Arbiter { return &Arbiter{g: g} }

// MatchClasses binds a and b (spec §4.4 "match(a: C, b: C)").
func (ar *Arbiter) MatchClasses(a, b *Class) error {
	if a == nil || b == nil {
		return newContractViolation("match(class): nil operand")
	}
	if a.ArrayDims() != b.ArrayDims() {
		return newContractViolation("match(class): array dims differ (%d vs %d)", a.ArrayDims(), b.ArrayDims())
	}
	if a.match == b {
		return nil // already matched to each other: no-op, no log, no cache clear
	}

	if a.match != nil {
		ar.unbindClass(a.match)
	}
	if b.match != nil {
		ar.unbindClass(b.match)
	}

	setClassMatch(a, b)
	log.INFO("match class %s -> %s", a.ID(), b.ID())

	ar.cascadeArrays(a, b)
	ar.cascadeMethods(a, b)
	ar.cascadeFields(a, b)

	ar.g.cache.Clear()
	return nil
}

func (ar *Arbiter) unbindClass(c *Class) {
	if c == nil || c.match == nil {
		return
	}
	setClassMatch(c, nil)
	ar.unmatchMembers(c)
}

func (ar *Arbiter) cascadeArrays(a, b *Class) {
	if a.IsArray() {
		if a.Element() != nil && a.Element().Match() == nil && b.Element() != nil {
			_ = ar.MatchClasses(a.Element(), b.Element())
		}
		return
	}

	for dim, arrA := range a.arrays {
		if arrA.Match() != nil {
			continue
		}
		arrB, ok := b.ArrayAt(dim)
		if !ok || arrB.Match() != nil {
			continue
		}
		_ = ar.MatchClasses(arrA, arrB)
	}
}

func (ar *Arbiter) cascadeMethods(a, b *Class) {
	for _, sm := range a.Methods() {
		if sm.NameObfuscated() {
			ar.cascadeMethodViaHierarchy(sm, b)
			continue
		}
		if dst, ok := b.MethodByID(sm.ID()); ok {
			_ = ar.MatchMethods(sm, dst)
			continue
		}
		if dst, ok := b.MethodByName(sm.Name(), nil); ok {
			_ = ar.MatchMethods(sm, dst)
			continue
		}
		ar.cascadeMethodViaHierarchy(sm, b)
	}
}

// cascadeMethodViaHierarchy implements the hierarchy fallback of spec
// §4.4: if sm has an already-matched hierarchy sibling, find the dst
// method on b whose hierarchy set intersects that sibling's match's
// hierarchy set, and bind.
func (ar *Arbiter) cascadeMethodViaHierarchy(sm *Method, b *Class) {
	if sm.Match() != nil {
		return
	}
	for _, sibling := range ar.g.MatchedHierarchyMembers(sm) {
		siblingHierarchy := ar.g.HierarchySet(sibling.Match())
		for _, dst := range b.Methods() {
			if dst.Match() != nil {
				continue
			}
			if hierarchyIntersects(ar.g.HierarchySet(dst), siblingHierarchy) {
				_ = ar.MatchMethods(sm, dst)
				return
			}
		}
	}
}

func hierarchyIntersects(a, b []*Method) bool {
	set := make(map[*Method]bool, len(a))
	for _, m := range a {
		set[m] = true
	}
	for _, m := range b {
		if set[m] {
			return true
		}
	}
	return false
}

func (ar *Arbiter) cascadeFields(a, b *Class) {
	for _, sf := range a.Fields() {
		if sf.NameObfuscated() {
			continue
		}
		if dst, ok := b.FieldByID(sf.ID()); ok {
			_ = ar.MatchFields(sf, dst)
			continue
		}
		if dst, ok := b.FieldByName(sf.Name(), nil); ok {
			_ = ar.MatchFields(sf, dst)
		}
	}
}

// MatchMethods binds a and b (spec §4.4 "match(a: M, b: M)").
func (ar *Arbiter) MatchMethods(a, b *Method) error {
	if a == nil || b == nil {
		return newContractViolation("match(method): nil operand")
	}
	if a.class.match != b.class {
		return newContractViolation("match(method): enclosing classes not matched to each other")
	}
	if a.match == b {
		return nil
	}

	if a.match != nil {
		ar.unmatchMethod(a.match)
	}
	if b.match != nil {
		ar.unmatchMethod(b.match)
	}

	setMethodMatch(a, b)
	log.INFO("match method %s.%s -> %s.%s", a.class.ID(), a.ID(), b.class.ID(), b.ID())

	for _, sm := range ar.g.HierarchySet(a) {
		if sm == a || sm.Match() != nil {
			continue
		}
		if sm.class.match == nil {
			continue
		}
		for _, dst := range sm.class.match.Methods() {
			if dst.Match() != nil {
				continue
			}
			if hierarchyIntersects(ar.g.HierarchySet(dst), ar.g.HierarchySet(b)) {
				_ = ar.MatchMethods(sm, dst)
				break
			}
		}
	}

	ar.g.cache.Clear()
	return nil
}

// MatchFields binds a and b (spec §4.4 "match(a: F, b: F)").
func (ar *Arbiter) MatchFields(a, b *Field) error {
	if a == nil || b == nil {
		return newContractViolation("match(field): nil operand")
	}
	if a.class.match != b.class {
		return newContractViolation("match(field): enclosing classes not matched to each other")
	}
	if a.match == b {
		return nil
	}

	if a.match != nil {
		ar.unmatchField(a.match)
	}
	if b.match != nil {
		ar.unmatchField(b.match)
	}

	setFieldMatch(a, b)
	log.INFO("match field %s.%s -> %s.%s", a.class.ID(), a.ID(), b.class.ID(), b.ID())

	ar.g.cache.Clear()
	return nil
}

// MatchVars binds a and b (spec §4.4 "match(a: V, b: V)").
func (ar *Arbiter) MatchVars(a, b *MethodVar) error {
	if a == nil || b == nil {
		return newContractViolation("match(var): nil operand")
	}
	if a.method.match != b.method {
		return newContractViolation("match(var): enclosing methods not matched to each other")
	}
	if a.isArg != b.isArg {
		return newContractViolation("match(var): arg/local mismatch")
	}
	if a.match == b {
		return nil
	}

	if a.match != nil {
		ar.unmatchVar(a.match)
	}
	if b.match != nil {
		ar.unmatchVar(b.match)
	}

	setVarMatch(a, b)
	log.INFO("match var %s#%d -> %s#%d", a.method.ID(), a.index, b.method.ID(), b.index)

	ar.g.cache.Clear()
	return nil
}

// UnmatchClass unmatches c, cascading to every member and var, and to its
// array classes or element class (spec §4.4 "unmatch(C)").
func (ar *Arbiter) UnmatchClass(c *Class) {
	if c == nil || c.match == nil {
		return
	}
	other := c.match
	setClassMatch(c, nil)
	log.INFO("unmatch class %s", c.ID())

	ar.unmatchMembers(c)
	ar.unmatchMembers(other)

	if c.IsArray() {
		if c.Element() != nil {
			ar.UnmatchClass(c.Element())
		}
	} else {
		for _, arr := range c.Arrays() {
			ar.UnmatchClass(arr)
		}
	}

	ar.g.cache.Clear()
}

// unmatchMembers drops the match of every method, field and var on c,
// without touching c's own match link.
func (ar *Arbiter) unmatchMembers(c *Class) {
	for _, m := range c.Methods() {
		ar.unmatchMethod(m)
	}
	for _, f := range c.Fields() {
		ar.unmatchField(f)
	}
}

// UnmatchMethod implements spec §4.4 "unmatch(member)" for an M: recurse
// into args then over all hierarchy members.
func (ar *Arbiter) UnmatchMethod(m *Method) { ar.unmatchMethod(m) }

func (ar *Arbiter) unmatchMethod(m *Method) {
	if m == nil || m.match == nil {
		return
	}
	setMethodMatch(m, nil)
	log.INFO("unmatch method %s.%s", m.class.ID(), m.ID())

	for _, v := range m.Args() {
		ar.unmatchVar(v)
	}
	for _, v := range m.Locals() {
		ar.unmatchVar(v)
	}

	for _, sm := range ar.g.HierarchySet(m) {
		if sm != m {
			ar.unmatchMethod(sm)
		}
	}

	ar.g.cache.Clear()
}

// UnmatchField implements spec §4.4 "unmatch(member)" for an F.
func (ar *Arbiter) UnmatchField(f *Field) { ar.unmatchField(f) }

func (ar *Arbiter) unmatchField(f *Field) {
	if f == nil || f.match == nil {
		return
	}
	setFieldMatch(f, nil)
	log.INFO("unmatch field %s.%s", f.class.ID(), f.ID())
	ar.g.cache.Clear()
}

// UnmatchVar implements spec §4.4 "unmatch(V)".
func (ar *Arbiter) UnmatchVar(v *MethodVar) { ar.unmatchVar(v) }

func (ar *Arbiter) unmatchVar(v *MethodVar) {
	if v == nil || v.match == nil {
		return
	}
	setVarMatch(v, nil)
	log.INFO("unmatch var %s#%d", v.method.ID(), v.index)
	ar.g.cache.Clear()
}

// SetMappedName assigns a user-chosen name to a class. It must only be
// called on an entity without a prior mapped name (spec §4.7 contract).
func (ar *Arbiter) SetMappedName(c *Class, name string) {
	setMappedName(c, &name)
}

func (ar *Arbiter) SetMethodMappedName(m *Method, name string) {
	setMethodMappedName(m, &name)
}

func (ar *Arbiter) SetVarMappedName(v *MethodVar, name string) {
	setVarMappedName(v, &name)
}

// Package matcher implements the core of a two-sided bytecode matcher: an
// entity graph of classes, methods, fields and method-vars across two
// obfuscated builds of the same program, a classifier/ranker that scores
// candidate pairings, an auto-match driver that promotes high-confidence
// pairs, and a name-propagation pass over method hierarchies.
//
// Loading class artifacts, reading instruction streams and emitting mapping
// files are external collaborators; this package consumes an already
// populated graph and only ever mutates match/tentative-name/mapped-name
// fields.
package matcher

// Side identifies which of the two inputs being matched an entity belongs to.
type Side int

const (
	SideA Side = iota
	SideB
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Class is a class on side A or B. Its stable identity is its type
// descriptor (ID); names are untrustworthy until matched or mapped.
type Class struct {
	g    *Graph
	side Side

	id   string
	name string

	nameObfuscated bool
	tmpName        *string
	mappedName     *string

	arrayDims int
	element   *Class          // non-nil when this class is an array
	arrays    map[int]*Class  // dim -> array-of-this-class, only set when arrayDims == 0

	methods []*Method
	fields  []*Field

	uri *string // nil => synthesized/library placeholder, not an input artifact

	super      *Class
	interfaces []*Class

	match *Class
}

// NewClass constructs a class for side s. uri may be nil for a synthesized
// or library placeholder class (see spec §3, §4.5 eligibility: only classes
// with a non-nil uri are auto-match subjects/candidates).
func NewClass(side Side, id, name string, nameObfuscated bool, uri *string) *Class {
	return &Class{
		side:           side,
		id:             id,
		name:           name,
		nameObfuscated: nameObfuscated,
		uri:            uri,
		arrays:         make(map[int]*Class),
	}
}

func (c *Class) ID() string             { return c.id }
func (c *Class) OriginalName() string   { return c.name }
func (c *Class) NameObfuscated() bool   { return c.nameObfuscated }
func (c *Class) Side() Side             { return c.side }
func (c *Class) URI() *string           { return c.uri }
func (c *Class) IsInput() bool          { return c.uri != nil }
func (c *Class) ArrayDims() int         { return c.arrayDims }
func (c *Class) IsArray() bool          { return c.arrayDims > 0 }
func (c *Class) Element() *Class        { return c.element }
func (c *Class) Super() *Class          { return c.super }
func (c *Class) Interfaces() []*Class   { return c.interfaces }
func (c *Class) Methods() []*Method     { return c.methods }
func (c *Class) Fields() []*Field       { return c.fields }
func (c *Class) Match() *Class          { return c.match }
func (c *Class) TmpName() *string       { return c.tmpName }
func (c *Class) MappedNameOwn() *string { return c.mappedName }

// GetMappedName returns this class's own mapped name if set, otherwise the
// matched peer's mapped name if any, otherwise nil. Propagation is by
// lookup, never by storage (spec §4.1).
func (c *Class) GetMappedName() *string {
	if c.mappedName != nil {
		return c.mappedName
	}
	if c.match != nil {
		return c.match.mappedName
	}
	return nil
}

// Arrays returns every live array class whose element is c. Only
// meaningful for a non-array class.
func (c *Class) Arrays() []*Class {
	out := make([]*Class, 0, len(c.arrays))
	for _, a := range c.arrays {
		out = append(out, a)
	}
	return out
}

// ArrayAt returns the unique live array-of-c at the given dimension, if any.
func (c *Class) ArrayAt(dim int) (*Class, bool) {
	a, ok := c.arrays[dim]
	return a, ok
}

// MethodByID looks up a method by composite id (name+descriptor).
func (c *Class) MethodByID(id string) (*Method, bool) {
	for _, m := range c.methods {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

// MethodByName looks up a method by name, optionally constrained by
// descriptor. A nil descriptor matches by name only and returns a result
// only if exactly one candidate exists (spec §4.1).
func (c *Class) MethodByName(name string, desc *string) (*Method, bool) {
	if desc != nil {
		return c.MethodByID(name + *desc)
	}
	var found *Method
	for _, m := range c.methods {
		if m.name == name {
			if found != nil {
				return nil, false
			}
			found = m
		}
	}
	if found == nil {
		return nil, false
	}
	return found, true
}

// FieldByID looks up a field by composite id (name+descriptor).
func (c *Class) FieldByID(id string) (*Field, bool) {
	for _, f := range c.fields {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

// FieldByName looks up a field by name, optionally constrained by
// descriptor, with the same null-descriptor uniqueness rule as
// MethodByName.
func (c *Class) FieldByName(name string, desc *string) (*Field, bool) {
	if desc != nil {
		return c.FieldByID(name + *desc)
	}
	var found *Field
	for _, f := range c.fields {
		if f.name == name {
			if found != nil {
				return nil, false
			}
			found = f
		}
	}
	if found == nil {
		return nil, false
	}
	return found, true
}

// Method is a member of a class.
type Method struct {
	class *Class

	name string
	desc string
	id   string // name+descriptor

	ret    *Class
	args   []*MethodVar
	locals []*MethodVar

	real bool

	nameObfuscated bool
	tmpName        *string
	mappedName     *string

	match *Method
}

func NewMethod(class *Class, name, desc string, ret *Class, real, nameObfuscated bool) *Method {
	return &Method{
		class:          class,
		name:           name,
		desc:           desc,
		id:             name + desc,
		ret:            ret,
		real:           real,
		nameObfuscated: nameObfuscated,
	}
}

func (m *Method) Class() *Class          { return m.class }
func (m *Method) Name() string           { return m.name }
func (m *Method) OriginalName() string   { return m.name }
func (m *Method) Desc() string           { return m.desc }
func (m *Method) ID() string             { return m.id }
func (m *Method) Return() *Class         { return m.ret }
func (m *Method) Args() []*MethodVar     { return m.args }
func (m *Method) Locals() []*MethodVar   { return m.locals }
func (m *Method) IsReal() bool           { return m.real }
func (m *Method) NameObfuscated() bool   { return m.nameObfuscated }
func (m *Method) Match() *Method         { return m.match }
func (m *Method) TmpName() *string       { return m.tmpName }
func (m *Method) MappedNameOwn() *string { return m.mappedName }

func (m *Method) GetMappedName() *string {
	if m.mappedName != nil {
		return m.mappedName
	}
	if m.match != nil {
		return m.match.mappedName
	}
	return nil
}

// ArgByIndex returns the var at the given position among arg vars, or nil.
func (m *Method) ArgByIndex(i int) *MethodVar {
	if i < 0 || i >= len(m.args) {
		return nil
	}
	return m.args[i]
}

// Field is a member of a class.
type Field struct {
	class *Class

	name string
	desc string
	id   string

	typ *Class

	real bool

	nameObfuscated bool
	tmpName        *string
	mappedName     *string

	match *Field
}

func NewField(class *Class, name, desc string, typ *Class, real, nameObfuscated bool) *Field {
	return &Field{
		class:          class,
		name:           name,
		desc:           desc,
		id:             name + desc,
		typ:            typ,
		real:           real,
		nameObfuscated: nameObfuscated,
	}
}

func (f *Field) Class() *Class        { return f.class }
func (f *Field) Name() string         { return f.name }
func (f *Field) OriginalName() string { return f.name }
func (f *Field) Desc() string         { return f.desc }
func (f *Field) ID() string           { return f.id }
func (f *Field) Type() *Class         { return f.typ }
func (f *Field) IsReal() bool         { return f.real }
func (f *Field) NameObfuscated() bool { return f.nameObfuscated }
func (f *Field) Match() *Field        { return f.match }
func (f *Field) TmpName() *string     { return f.tmpName }
func (f *Field) MappedNameOwn() *string { return f.mappedName }

func (f *Field) GetMappedName() *string {
	if f.mappedName != nil {
		return f.mappedName
	}
	if f.match != nil {
		return f.match.mappedName
	}
	return nil
}

// MethodVar is an argument or local variable belonging to a single method.
type MethodVar struct {
	method *Method

	isArg    bool
	index    int
	lvIndex  int
	asmIndex int

	typ *Class

	startInsn int
	endInsn   int // exclusive

	name           string
	nameObfuscated bool
	tmpName        *string
	mappedName     *string

	match *MethodVar
}

func NewMethodVar(method *Method, isArg bool, index, lvIndex, asmIndex int, typ *Class, start, end int, name string, nameObfuscated bool) *MethodVar {
	return &MethodVar{
		method:         method,
		isArg:          isArg,
		index:          index,
		lvIndex:        lvIndex,
		asmIndex:       asmIndex,
		typ:            typ,
		startInsn:      start,
		endInsn:        end,
		name:           name,
		nameObfuscated: nameObfuscated,
	}
}

func (v *MethodVar) Method() *Method       { return v.method }
func (v *MethodVar) IsArg() bool           { return v.isArg }
func (v *MethodVar) Index() int            { return v.index }
func (v *MethodVar) LVIndex() int          { return v.lvIndex }
func (v *MethodVar) AsmIndex() int         { return v.asmIndex }
func (v *MethodVar) Type() *Class          { return v.typ }
func (v *MethodVar) StartInsn() int        { return v.startInsn }
func (v *MethodVar) EndInsn() int          { return v.endInsn }
func (v *MethodVar) OriginalName() string  { return v.name }
func (v *MethodVar) NameObfuscated() bool  { return v.nameObfuscated }
func (v *MethodVar) Match() *MethodVar     { return v.match }
func (v *MethodVar) TmpName() *string      { return v.tmpName }
func (v *MethodVar) MappedNameOwn() *string { return v.mappedName }

func (v *MethodVar) GetMappedName() *string {
	if v.mappedName != nil {
		return v.mappedName
	}
	if v.match != nil {
		return v.match.mappedName
	}
	return nil
}

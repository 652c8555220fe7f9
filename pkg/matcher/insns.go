package matcher

// InstructionComparer is the opaque instruction-reader collaborator
// (spec §1 "out of scope", §4.6): it compares two methods' instruction
// streams and returns a similarity in [0,1]. Identical streams return
// 1.0, completely disjoint streams return 0.0, the function is symmetric,
// and changes limited to local-variable renames or constant-pool
// reordering yield >= 0.99 (spec §4.6). The core only consumes this
// contract; it never reads bytecode itself.
type InstructionComparer interface {
	CompareInsns(a, b *Method) float64
}

// NoInstructions is an InstructionComparer that always reports "unknown"
// similarity (0), for callers that have no instruction reader wired up —
// instruction-sequence criteria then contribute nothing, which is always
// safe since every criterion is additive mismatch.
type NoInstructions struct{}

func (NoInstructions) CompareInsns(*Method, *Method) float64 { return 0 }

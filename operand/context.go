package operand

import "github.com/lookbusy1344/gcnasm/arch"

// ModBits is the VOP source-modifier bitset spec.md §3 attaches to an
// operand: {ABS, NEG, SEXT}.
type ModBits uint8

const (
	ModAbs ModBits = 1 << iota
	ModNeg
	ModSext
)

// FloatWidth names the default float interpretation of an operand
// field, which decides which canonical-float table collapsing (spec.md
// §4.3, parse constraint 4) consults.
type FloatWidth int

const (
	FloatNone FloatWidth = iota
	Float16
	Float32
	Float64
)

// Context carries everything Parse/Print need beyond the operand text
// itself: the field's width in bits, its default float interpretation,
// the active architecture, and whether "buggy-compat" 0-collapsing is
// enabled (spec.md §4.3's parse-constraint note). Vars resolves a
// previously declared register variable (parse case 3); it may be nil
// if the caller has none in scope.
type Context struct {
	FieldWidth  int // 9 for SRC, 8 for VSRC/SDST
	Float       FloatWidth
	Arch        arch.Arch
	BuggyCompat bool
	Vars        map[string]Range
}

// acceptsOneOverTwoPi reports whether this context's float width
// accepts the 1/(2*pi) inline constant, per arch.AcceptsInlineOneOverTwoPi.
func (c Context) acceptsOneOverTwoPi() bool {
	fw := 32
	switch c.Float {
	case Float16:
		fw = 16
	case Float64:
		fw = 64
	}
	return arch.AcceptsInlineOneOverTwoPi(c.Arch, fw)
}

// Package arch models the closed set of GCN architecture revisions and
// the capability flags every other codec package reads to gate opcodes,
// operand widths, and modifiers. It holds no mutable state.
package arch

import "fmt"

// Arch is one of the six GCN revisions this codec supports.
type Arch int

const (
	GCN10 Arch = iota
	GCN11
	GCN12
	GCN14
	GCN141
	GCN15
)

// String renders the architecture the way device names and diagnostics
// expect to see it.
func (a Arch) String() string {
	switch a {
	case GCN10:
		return "GCN1.0"
	case GCN11:
		return "GCN1.1"
	case GCN12:
		return "GCN1.2"
	case GCN14:
		return "GCN1.4"
	case GCN141:
		return "GCN1.4.1"
	case GCN15:
		return "GCN1.5"
	default:
		return fmt.Sprintf("Arch(%d)", int(a))
	}
}

// Mask returns the single-bit mask used in isa.Entry.ArchMask.
func (a Arch) Mask() uint8 {
	return 1 << uint(a)
}

// All enumerates every supported architecture in ascending order.
func All() []Arch {
	return []Arch{GCN10, GCN11, GCN12, GCN14, GCN141, GCN15}
}

// MaskAll is the arch-mask value meaning "every architecture".
const MaskAll uint8 = 1<<GCN10 | 1<<GCN11 | 1<<GCN12 | 1<<GCN14 | 1<<GCN141 | 1<<GCN15

// AtLeast reports whether a is the given revision or a later one in the
// enum order above. GCN1.4.1 sorts after GCN1.4, so AtLeast(GCN14) is
// true for GCN141 and GCN15; HasGCN14Family tests for GCN1.4/GCN1.4.1
// alone.
func (a Arch) AtLeast(min Arch) bool {
	return a >= min
}

// HasGCN14Family reports whether a is GCN1.4 or GCN1.4.1.
func (a Arch) HasGCN14Family() bool {
	return a == GCN14 || a == GCN141
}

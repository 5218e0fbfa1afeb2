// Package operand implements the OPERAND component of spec.md §4.3:
// parsing and printing a single register range, inline constant, or
// 32-bit literal, and encoding it to/from a 9-bit SRC or 8-bit
// VSRC/SDST field. Grounded on the teacher's encoder.Operand handling
// in encoder/encoder.go (register-name switch, literal detection) and
// generalized from ARM's fixed 16-register file to GCN's much larger,
// multi-family register space.
package operand

import "github.com/lookbusy1344/gcnasm/arch"

// Field codes for the named single/paired scalar registers and the
// fixed-code pseudo-operands, following the layout LLVM's AMDGPU
// backend and CLRX use for the SRC operand field. FLAT_SCRATCH and
// XNACK_MASK only exist from GCN1.4 on; callers must consult
// arch.Caps before accepting them.
const (
	FlatScratchLo     = 102
	FlatScratchHi     = 103
	XnackMaskLo       = 104
	XnackMaskHi       = 105
	VCCLo             = 106
	VCCHi             = 107
	TBALo             = 108
	TBAHi             = 109
	TMALo             = 110
	TMAHi             = 111
	TTMPBase          = 112
	M0                = 124
	EXECLo            = 126
	EXECHi            = 127
	InlineIntZeroBase = 128 // codes 128..192 are integers 0..64
	InlineIntNegBase  = 193 // codes 193..208 are integers -1..-16
	SharedBase        = 235
	SharedLimit       = 236
	PrivateBase       = 237
	PrivateLimit      = 238
	PopsExitingWaveID = 239
	VCCZ              = 251
	EXECZ             = 252
	SCC               = 253
	LiteralCode       = 255

	VGPRBase = 256 // vector registers occupy [256, 256+maxVGPR)
)

// VarRef is a handle to a register variable declared earlier in the
// same assembly session (spec.md §3's "variable-reference: optional
// handle", §4.3 parse case 3). The zero value means "no variable".
type VarRef struct {
	Name  string
	Range Range
}

// Range is a register range: [Start, End) in the unified SRC code
// space, or an inline-constant/literal marker when Var is nil and
// Start is one of the fixed codes above.
type Range struct {
	Start uint16
	End   uint16
	Var   *VarRef
}

// Width reports the range's size in 32-bit registers.
func (r Range) Width() int { return int(r.End) - int(r.Start) }

// IsLiteral reports whether this range is the literal-immediate
// sentinel (spec.md §3: "start=code, end=0, no variable").
func (r Range) IsLiteral() bool { return r.Var == nil && r.Start == LiteralCode && r.End == 0 }

// IsInlineConstant reports whether this range is a fixed inline-
// constant code rather than an addressable register.
func (r Range) IsInlineConstant() bool {
	if r.Var != nil || r.End != 0 {
		return false
	}
	switch {
	case r.Start >= InlineIntZeroBase && r.Start < InlineIntZeroBase+65:
		return true
	case r.Start >= InlineIntNegBase && r.Start < InlineIntNegBase+16:
		return true
	case r.Start == arch.InlineConstHalf, r.Start == arch.InlineConstNegHalf,
		r.Start == arch.InlineConstOne, r.Start == arch.InlineConstNegOne,
		r.Start == arch.InlineConstTwo, r.Start == arch.InlineConstNegTwo,
		r.Start == arch.InlineConstFour, r.Start == arch.InlineConstNegFour,
		r.Start == arch.InlineConstOneOverTwoPi:
		return true
	case r.Start == VCCZ, r.Start == EXECZ, r.Start == SCC:
		return true
	}
	return false
}

// IsScalar reports whether the range addresses the scalar file
// (plain SGPRs below maxSGPR, excluding the named specials above it).
func (r Range) IsScalar(a arch.Arch) bool {
	return r.Var == nil && r.End > r.Start && int(r.End) <= arch.CapsFor(a).MaxSGPR
}

// IsVector reports whether the range addresses the vector file.
func (r Range) IsVector() bool {
	return r.Var == nil && r.Start >= VGPRBase && r.End > r.Start
}

// IsTTMP reports whether the range addresses the trap-temporary file.
func (r Range) IsTTMP(a arch.Arch) bool {
	if r.Var != nil || r.End <= r.Start {
		return false
	}
	count := arch.CapsFor(a).TTMPCount
	return int(r.Start) >= TTMPBase && int(r.End) <= TTMPBase+count
}

// AlignmentOK applies spec.md §3's scalar-alignment invariant: width 2
// must start even, width >= 3 must align to 4, unless unaligned is
// permitted (opcode-level override, or GCN1.2+'s relaxed same-line
// rule for width 2, which callers check separately via Caps).
func (r Range) AlignmentOK(unaligned bool) bool {
	if unaligned {
		return true
	}
	switch w := r.Width(); {
	case w <= 1:
		return true
	case w == 2:
		return r.Start%2 == 0
	default:
		return r.Start%4 == 0
	}
}

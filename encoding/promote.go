package encoding

import (
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// PromotionCandidate is the neutral intermediate spec.md §4.4's
// "Promotion between encodings" redesign flag calls for: the driver
// encodes into this shape first and a single pure function decides
// the final class, rather than attempting to undo a short-form
// encoding after the fact. PreferWidth/PreferVOP carry isa.SplitSuffix's
// tie-break hint from the mnemonic's stripped _e32/_e64/_dpp/_sdwa
// suffix.
type PromotionCandidate struct {
	Entry        isa.Entry
	Operands     []operand.Operand
	ModifierText string
	Arch         arch.Arch
	PreferWidth  isa.PreferredWidth
	PreferVOP    isa.PreferredVOP
}

// vop3OnlyModifiers lists the modifier keywords that force VOP3 per
// spec.md §4.4's promotion rule 2 (a VOP3-only modifier is set).
var vop3OnlyModifiers = []string{"op_sel", "op_sel_hi", "clamp", "omod", "neg_hi", "abs", "neg"}

// Promote decides the final encoding class for a VOP2/VOP1/VOPC
// candidate per spec.md §4.4's three promotion rules: a second scalar
// source or a disallowed second literal, a VOP3-only modifier, or an
// explicit `_e64` suffix / `vop3` modifier.
func Promote(c PromotionCandidate) isa.EncodingClass {
	if c.PreferVOP == isa.VOPSDWA || strings.Contains(c.ModifierText, "sdwa") {
		return c.Entry.Class // SDWA rides on the short-form word; class unchanged
	}
	if c.PreferVOP == isa.VOPDPP || strings.Contains(c.ModifierText, "dpp") {
		return c.Entry.Class // DPP likewise rides on the short-form word
	}
	if c.PreferWidth == isa.Width64 || strings.Contains(c.ModifierText, "vop3") {
		return promotedClassFor(c.Entry)
	}
	if hasVOP3OnlyModifier(c.ModifierText) {
		return promotedClassFor(c.Entry)
	}
	if needsSecondScalarOrLiteral(c.Operands) {
		return promotedClassFor(c.Entry)
	}
	return c.Entry.Class
}

// promotedClassFor applies spec.md §4.4's note that VOP3B carries an
// extra SDST (div_scale, add_co/sub_co); everything else, including
// VINTRP, promotes to VOP3A.
func promotedClassFor(e isa.Entry) isa.EncodingClass {
	if e.Mode&isa.ModeVOP3BForm != 0 {
		return isa.VOP3B
	}
	return isa.VOP3A
}

func hasVOP3OnlyModifier(modifierText string) bool {
	if modifierText == "" {
		return false
	}
	for _, name := range vop3OnlyModifiers {
		if strings.Contains(modifierText, name) {
			return true
		}
	}
	return false
}

// needsSecondScalarOrLiteral reports whether more than one operand
// reaches outside the vector file (two distinct SGPR sources, or a
// second literal), which the VOP2/VOP1/VOPC short forms cannot carry.
func needsSecondScalarOrLiteral(ops []operand.Operand) bool {
	scalarOrLit := 0
	for _, op := range ops {
		if op.HasLiteral() || (!op.Range.IsVector() && !op.Range.IsInlineConstant()) {
			scalarOrLit++
		}
	}
	return scalarOrLit > 1
}

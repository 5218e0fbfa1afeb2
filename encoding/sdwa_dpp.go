package encoding

import (
	"fmt"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/modifier"
	"github.com/lookbusy1344/gcnasm/operand"
)

// SDWACodec implements spec.md §4.4.d: a VOP2/VOP1/VOPC base word whose
// SRC0 is forced to the 0xF9 sentinel, followed by a second word
// carrying per-lane byte/word/dword selects for dst/src0/src1 plus
// sext/neg/abs on each source. Only available from GCN1.2 on
// (arch.Caps.HasSDWA).
type SDWACodec struct{ Base isa.EncodingClass }

func sdwaOperandCtx(a arch.Arch, mnemonic string) operand.Context {
	return vopContext(a, mnemonic, 9)
}

func (c SDWACodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if !arch.CapsFor(req.Arch).HasSDWA {
		return AssembleResult{}, &gcnerr.SemanticError{Message: fmt.Sprintf("sdwa not available on %s", req.Arch)}
	}
	if len(req.Operands) < 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SDWA wants a destination and at least one source"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	ctx := sdwaOperandCtx(req.Arch, req.Entry.Mnemonic)

	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SDWA destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	src0, err := operand.Parse(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SDWA src0", Wrapped: err}
	}
	src0Code, err := encodeVGPR(src0)
	if err != nil {
		return AssembleResult{}, err
	}
	var vsrc1Code uint32
	var src1Mods operand.ModBits
	haveSrc1 := len(req.Operands) > 2
	if haveSrc1 {
		src1, perr := operand.Parse(req.Operands[2], ctx)
		if perr != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "SDWA src1", Wrapped: perr}
		}
		src1Mods = src1.Mods
		vsrc1Code, err = encodeVGPR(src1)
		if err != nil {
			return AssembleResult{}, err
		}
	}

	var w0 uint32
	switch c.Base {
	case isa.VOP1:
		PutField(&w0, vop2OpPos, 6, vop1FixedBits)
		PutField(&w0, vop1OpPos, vop1OpWidth, req.Entry.Primary)
	case isa.VOPC:
		PutField(&w0, vop2OpPos, 6, vopcFixedBits)
		PutField(&w0, vopcOpPos, vopcOpWidth, req.Entry.Primary)
	default:
		PutField(&w0, vop2OpPos, vop2OpWidth, req.Entry.Primary)
	}
	PutField(&w0, vopVDstPos, vopVDstWidth, vdstCode)
	PutField(&w0, vopSrc1Pos, vopSrc1Width, vsrc1Code)
	PutField(&w0, vopSrc0Pos, vopSrc0Width, SDWASentinel)

	var w1 uint32
	PutField(&w1, sdwaSrc0Pos, sdwaSrc0Width, src0Code)
	if mod.Clamp {
		PutField(&w1, sdwaClampPos, 1, 1)
	}
	setSDWASel(&w1, sdwaDstSelPos, sdwaDstSelWidth, mod.DstSel)
	setSDWASel(&w1, sdwaSrc0SelPos, sdwaSrc0SelWidth, mod.Src0Sel)
	setSDWASel(&w1, sdwaSrc1SelPos, sdwaSrc1SelWidth, mod.Src1Sel)
	if src0.Mods&operand.ModSext != 0 {
		PutField(&w1, sdwaSrc0SextPos, 1, 1)
	}
	if src0.Mods&operand.ModNeg != 0 {
		PutField(&w1, sdwaSrc0NegPos, 1, 1)
	}
	if src0.Mods&operand.ModAbs != 0 {
		PutField(&w1, sdwaSrc0AbsPos, 1, 1)
	}
	if src1Mods&operand.ModSext != 0 {
		PutField(&w1, sdwaSrc1SextPos, 1, 1)
	}
	if src1Mods&operand.ModNeg != 0 {
		PutField(&w1, sdwaSrc1NegPos, 1, 1)
	}
	if src1Mods&operand.ModAbs != 0 {
		PutField(&w1, sdwaSrc1AbsPos, 1, 1)
	}

	return AssembleResult{Words: []uint32{w0, w1}}, nil
}

func setSDWASel(word *uint32, pos, width int, sel *modifier.SDWASel) {
	if sel == nil {
		return
	}
	PutField(word, pos, width, uint32(*sel))
}

func (c SDWACodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated SDWA instruction")
	}
	w0, w1 := words[0], words[1]
	var op, vdst, vsrc1 uint32
	class := isa.VOP2
	switch c.Base {
	case isa.VOP1:
		op = GetField(w0, vop1OpPos, vop1OpWidth)
		class = isa.VOP1
	case isa.VOPC:
		op = GetField(w0, vopcOpPos, vopcOpWidth)
		class = isa.VOPC
	default:
		op = GetField(w0, vop2OpPos, vop2OpWidth)
	}
	vdst = GetField(w0, vopVDstPos, vopVDstWidth)
	vsrc1 = GetField(w0, vopSrc1Pos, vopSrc1Width)
	src0 := GetField(w1, sdwaSrc0Pos, sdwaSrc0Width)

	entries := findByPrimary(class, op, a)
	name := illName("SDWA", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := sdwaOperandCtx(a, name)
	text := fmt.Sprintf("%s %s, %s", name, operand.Print(decodeVGPR(vdst), ctx), operand.Print(decodeVGPR(src0), ctx))
	if class != isa.VOP1 {
		text += ", " + operand.Print(decodeVGPR(vsrc1), ctx)
	}
	if mods := modifier.Print(decodeSDWAClause(w1)); mods != "" {
		text += " " + mods
	}
	return DisassembleResult{Text: text}, 8, nil
}

// decodeSDWAClause reads SDWA's per-field byte/word/dword selects back
// into a modifier.Clause for printing; every field always carries a
// select on the wire, so all three are set and modifier.Print prints
// each of them, the dword default included.
func decodeSDWAClause(w1 uint32) modifier.Clause {
	dstSel := modifier.SDWASel(GetField(w1, sdwaDstSelPos, sdwaDstSelWidth))
	src0Sel := modifier.SDWASel(GetField(w1, sdwaSrc0SelPos, sdwaSrc0SelWidth))
	src1Sel := modifier.SDWASel(GetField(w1, sdwaSrc1SelPos, sdwaSrc1SelWidth))
	return modifier.Clause{DstSel: &dstSel, Src0Sel: &src0Sel, Src1Sel: &src1Sel}
}

// DPPCodec implements spec.md §4.4.d's cross-lane encoding: a VOP2/VOP1
// base word with SRC0 forced to the 0xFA sentinel, followed by a
// dpp_ctrl/bound_ctrl/bank_mask/row_mask word. DPP never reads a second
// scalar operand or a literal; its sources are always VGPRs.
type DPPCodec struct{ Base isa.EncodingClass }

func (c DPPCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if !arch.CapsFor(req.Arch).HasDPP {
		return AssembleResult{}, &gcnerr.SemanticError{Message: fmt.Sprintf("dpp not available on %s", req.Arch)}
	}
	if len(req.Operands) < 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "DPP wants a destination and at least one source"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	ctx := sdwaOperandCtx(req.Arch, req.Entry.Mnemonic)
	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "DPP destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	src0, err := operand.Parse(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "DPP src0", Wrapped: err}
	}
	src0Code, err := encodeVGPR(src0)
	if err != nil {
		return AssembleResult{}, err
	}
	var vsrc1Code uint32
	if len(req.Operands) > 2 {
		src1, perr := operand.Parse(req.Operands[2], ctx)
		if perr != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "DPP src1", Wrapped: perr}
		}
		vsrc1Code, err = encodeVGPR(src1)
		if err != nil {
			return AssembleResult{}, err
		}
	}

	var w0 uint32
	if c.Base == isa.VOP1 {
		PutField(&w0, vop2OpPos, 6, vop1FixedBits)
		PutField(&w0, vop1OpPos, vop1OpWidth, req.Entry.Primary)
	} else {
		PutField(&w0, vop2OpPos, vop2OpWidth, req.Entry.Primary)
	}
	PutField(&w0, vopVDstPos, vopVDstWidth, vdstCode)
	PutField(&w0, vopSrc1Pos, vopSrc1Width, vsrc1Code)
	PutField(&w0, vopSrc0Pos, vopSrc0Width, DPPSentinel)

	var w1 uint32
	PutField(&w1, dppCtrlPos, dppCtrlWidth, dppCtrlCode(mod))
	if mod.BoundCtrl {
		PutField(&w1, dppBoundCtrlPos, 1, 1)
	}
	bank := uint32(0xF)
	if mod.BankMask != nil {
		bank = uint32(*mod.BankMask)
	}
	row := uint32(0xF)
	if mod.RowMask != nil {
		row = uint32(*mod.RowMask)
	}
	PutField(&w1, dppBankMaskPos, dppBankMaskWidth, bank)
	PutField(&w1, dppRowMaskPos, dppRowMaskWidth, row)
	PutField(&w1, sdwaSrc0Pos, sdwaSrc0Width, src0Code) // src0 VGPR rides in the same byte SDWA uses

	return AssembleResult{Words: []uint32{w0, w1}}, nil
}

// dppCtrlCode packs the one-of {quad_perm, row_shl/shr/ror,
// wave_shl/shr/rol/ror, row_mirror, row_half_mirror, row_bcast15/31}
// exclusive selector into DPP's 9-bit dpp_ctrl field, following the
// layout CLRX's GCNDPPCtrl table uses.
func dppCtrlCode(c modifier.Clause) uint32 {
	switch {
	case c.QuadPerm != nil:
		p := *c.QuadPerm
		return uint32(p[0]) | uint32(p[1])<<2 | uint32(p[2])<<4 | uint32(p[3])<<6
	case c.RowShl != nil:
		return 0x100 | uint32(*c.RowShl)
	case c.RowShr != nil:
		return 0x110 | uint32(*c.RowShr)
	case c.RowRor != nil:
		return 0x120 | uint32(*c.RowRor)
	case c.WaveShl != nil:
		return 0x130
	case c.WaveRol != nil:
		return 0x134
	case c.WaveShr != nil:
		return 0x138
	case c.WaveRor != nil:
		return 0x13C
	case c.RowMirror:
		return 0x140
	case c.RowHalfMirror:
		return 0x141
	case c.RowBcast15:
		return 0x142
	case c.RowBcast31:
		return 0x143
	default:
		return 0x100
	}
}

func (c DPPCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated DPP instruction")
	}
	w0, w1 := words[0], words[1]
	var op uint32
	class := isa.VOP2
	if c.Base == isa.VOP1 {
		op = GetField(w0, vop1OpPos, vop1OpWidth)
		class = isa.VOP1
	} else {
		op = GetField(w0, vop2OpPos, vop2OpWidth)
	}
	vdst := GetField(w0, vopVDstPos, vopVDstWidth)
	vsrc1 := GetField(w0, vopSrc1Pos, vopSrc1Width)
	src0 := GetField(w1, sdwaSrc0Pos, sdwaSrc0Width)

	entries := findByPrimary(class, op, a)
	name := illName("DPP", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := sdwaOperandCtx(a, name)
	text := fmt.Sprintf("%s %s, %s", name, operand.Print(decodeVGPR(vdst), ctx), operand.Print(decodeVGPR(src0), ctx))
	if class != isa.VOP1 {
		text += ", " + operand.Print(decodeVGPR(vsrc1), ctx)
	}
	text += " dpp"
	return DisassembleResult{Text: text}, 8, nil
}

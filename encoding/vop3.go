package encoding

import (
	"fmt"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

func vop3Src(op operand.Operand) uint32 {
	if op.HasLiteral() {
		return LiteralSentinel
	}
	return uint32(op.Range.Start)
}

func parseVOP3Src(text string, ctx operand.Context) (operand.Operand, error) {
	op, err := operand.Parse(text, ctx)
	if err != nil {
		return operand.Operand{}, &gcnerr.SyntaxError{Message: "VOP3 source operand", Wrapped: err}
	}
	return op, nil
}

func vop3Neg(mods operand.ModBits) uint32 {
	if mods&operand.ModNeg != 0 {
		return 1
	}
	return 0
}

func vop3Abs(mods operand.ModBits) uint32 {
	if mods&operand.ModAbs != 0 {
		return 1
	}
	return 0
}

// VOP3ACodec implements spec.md §4.4.b's general three-source promoted
// form: a vector destination plus up to three SRC operands each capable
// of abs/neg, clamp, and output-modifier (omod).
type VOP3ACodec struct{}

// opcode resolves the promoted opcode: a fused VOP2/VOP1/VOPC/VINTRP
// row carries its VOP3A opcode in Secondary (isa's fusion pass), while
// a mnemonic with no short form encodes its opcode directly as Primary.
func (VOP3ACodec) opcode(req AssembleRequest) uint32 {
	if req.Entry.HasSecondary() {
		return req.Entry.Secondary
	}
	return req.Entry.Primary
}

func (c VOP3ACodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) < 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3A wants a destination and at least one source"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	dst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3A destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(dst)
	if err != nil {
		return AssembleResult{}, err
	}

	srcs := req.Operands[1:]
	if len(srcs) > 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3A takes at most 3 sources"}
	}
	var parsed [3]operand.Operand
	for i, s := range srcs {
		op, perr := parseVOP3Src(s, ctx)
		if perr != nil {
			return AssembleResult{}, perr
		}
		parsed[i] = op
	}

	mod, _, merr := parseVOP3Modifiers(req)
	if merr != nil {
		return AssembleResult{}, merr
	}

	var w0 uint32
	PutField(&w0, vop3PrefixPos, vop3PrefixWidth, vop3Prefix)
	PutField(&w0, vop3OpPos, vop3OpWidth, c.opcode(req))
	PutField(&w0, vop3aVDstPos, vop3aVDstWidth, vdstCode)
	if mod.clamp {
		PutField(&w0, vop3aClampPos, 1, 1)
	}
	PutField(&w0, vop3OModPos, vop3OModWidth, uint32(mod.omod))
	var abs, neg uint32
	for i := 0; i < len(srcs); i++ {
		abs |= vop3Abs(parsed[i].Mods) << uint(i)
		neg |= vop3Neg(parsed[i].Mods) << uint(i)
	}
	PutField(&w0, vop3aAbsPos, vop3aAbsWidth, abs)

	var w1 uint32
	PutField(&w1, vop3NegPos, vop3NegWidth, neg)
	var lit *uint32
	if len(srcs) > 0 {
		v := vop3Src(parsed[0])
		PutField(&w1, vop3Src0Pos, vop3Src0Width, v)
		if v == LiteralSentinel {
			l := parsed[0].Literal
			lit = &l
		}
	}
	if len(srcs) > 1 {
		PutField(&w1, vop3Src1Pos, vop3Src1Width, vop3Src(parsed[1]))
	}
	if len(srcs) > 2 {
		PutField(&w1, vop3Src2Pos, vop3Src2Width, vop3Src(parsed[2]))
	}

	res := AssembleResult{Words: []uint32{w0, w1}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOP3ACodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated VOP3A instruction")
	}
	w0, w1 := words[0], words[1]
	op := GetField(w0, vop3OpPos, vop3OpWidth)
	vdst := GetField(w0, vop3aVDstPos, vop3aVDstWidth)
	clamp := GetField(w0, vop3aClampPos, 1)
	omod := GetField(w0, vop3OModPos, vop3OModWidth)
	abs := GetField(w0, vop3aAbsPos, vop3aAbsWidth)
	neg := GetField(w1, vop3NegPos, vop3NegWidth)

	src0 := GetField(w1, vop3Src0Pos, vop3Src0Width)
	src1 := GetField(w1, vop3Src1Pos, vop3Src1Width)
	src2 := GetField(w1, vop3Src2Pos, vop3Src2Width)

	entries := findVOP3(isa.VOP3A, op, a)
	name := illName("VOP3A", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 8
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[2]
		consumed = 12
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, %s", name, operand.Print(decodeVGPR(vdst), ctx), printVOP3Src(src0, lit, abs, neg, 0, ctx))
	if src1 != 0 || abs != 0 || neg != 0 {
		text += ", " + printVOP3Src(src1, lit, abs, neg, 1, ctx)
	}
	if src2 != 0 {
		text += ", " + printVOP3Src(src2, lit, abs, neg, 2, ctx)
	}
	if clamp != 0 {
		text += " clamp"
	}
	if omod != 0 {
		text += fmt.Sprintf(" omod:%d", omod)
	}
	return DisassembleResult{Text: text}, consumed, nil
}

func printVOP3Src(code, lit, abs, neg uint32, idx uint, ctx operand.Context) string {
	var mods operand.ModBits
	if abs&(1<<idx) != 0 {
		mods |= operand.ModAbs
	}
	if neg&(1<<idx) != 0 {
		mods |= operand.ModNeg
	}
	op := operand.Operand{Mods: mods}
	if code == LiteralSentinel {
		op.Range = operand.Range{Start: operand.LiteralCode}
		op.Literal = lit
	} else {
		op.Range = operand.Range{Start: uint16(code), End: uint16(code) + 1}
	}
	return operand.Print(op, ctx)
}

// ClassifyVOP3 tells VOP3A, VOP3B and VOP3P apart for a raw word0
// sharing the common 0x34 prefix: VOP3P is identified by its opcode
// matching a VOP3P table row; VOP3B is the class carrying the extra
// (SGPR-pair) destination, identified by its opcode matching a
// table entry marked isa.ModeVOP3BForm (div_scale, add_co/sub_co, ...).
func ClassifyVOP3(word0 uint32, a arch.Arch) isa.EncodingClass {
	op := GetField(word0, vop3OpPos, vop3OpWidth)
	for _, e := range isa.All() {
		if !e.LegalOn(a) {
			continue
		}
		if e.Class == isa.VOP3P && e.Primary == op {
			return isa.VOP3P
		}
		if e.Class == isa.VOP3B && e.Primary == op {
			return isa.VOP3B
		}
		if e.Mode&isa.ModeVOP3BForm != 0 && e.HasSecondary() && e.Secondary == op {
			return isa.VOP3B
		}
	}
	return isa.VOP3A
}

func findVOP3(class isa.EncodingClass, op uint32, a arch.Arch) []isa.Entry {
	var out []isa.Entry
	for _, e := range isa.All() {
		if !e.LegalOn(a) {
			continue
		}
		if e.Class == class && e.Primary == op {
			out = append(out, e)
		}
		if e.HasSecondary() && (e.Class == isa.VOP2 || e.Class == isa.VOP1 || e.Class == isa.VOPC || e.Class == isa.VINTRP) && e.Secondary == op {
			out = append(out, e)
		}
	}
	return out
}

type vop3Mods struct {
	clamp bool
	omod  uint8
}

func parseVOP3Modifiers(req AssembleRequest) (vop3Mods, []gcnerr.PendingTarget, error) {
	var m vop3Mods
	if req.ModifierText == "" {
		return m, nil, nil
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return m, nil, err
	}
	if mod.Clamp {
		m.clamp = true
	}
	if mod.OMod != nil {
		m.omod = *mod.OMod
	}
	return m, nil, nil
}

// VOP3BCodec implements spec.md §4.4.b's promoted form that writes a
// second (scalar-pair) destination alongside the vector destination
// (div_scale, add_co/sub_co's carry-out).
type VOP3BCodec struct{}

func (VOP3BCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) < 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3B wants vdst, sdst, and at least one source"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3B vdst", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	sdst, err := operand.Parse(req.Operands[1], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3B sdst", Wrapped: err}
	}

	srcs := req.Operands[2:]
	if len(srcs) > 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3B takes at most 3 sources"}
	}
	var parsed [3]operand.Operand
	for i, s := range srcs {
		op, perr := parseVOP3Src(s, ctx)
		if perr != nil {
			return AssembleResult{}, perr
		}
		parsed[i] = op
	}

	var w0 uint32
	PutField(&w0, vop3PrefixPos, vop3PrefixWidth, vop3Prefix)
	opcode := req.Entry.Primary
	if req.Entry.HasSecondary() {
		opcode = req.Entry.Secondary
	}
	PutField(&w0, vop3OpPos, vop3OpWidth, opcode)
	PutField(&w0, vop3aVDstPos, vop3aVDstWidth, vdstCode)
	PutField(&w0, vop3bSDstPos, vop3bSDstWidth, uint32(sdst.Range.Start))
	var neg uint32
	for i := 0; i < len(srcs); i++ {
		neg |= vop3Neg(parsed[i].Mods) << uint(i)
	}

	var w1 uint32
	PutField(&w1, vop3NegPos, vop3NegWidth, neg)
	var lit *uint32
	if len(srcs) > 0 {
		v := vop3Src(parsed[0])
		PutField(&w1, vop3Src0Pos, vop3Src0Width, v)
		if v == LiteralSentinel {
			l := parsed[0].Literal
			lit = &l
		}
	}
	if len(srcs) > 1 {
		PutField(&w1, vop3Src1Pos, vop3Src1Width, vop3Src(parsed[1]))
	}
	if len(srcs) > 2 {
		PutField(&w1, vop3Src2Pos, vop3Src2Width, vop3Src(parsed[2]))
	}

	res := AssembleResult{Words: []uint32{w0, w1}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOP3BCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated VOP3B instruction")
	}
	w0, w1 := words[0], words[1]
	op := GetField(w0, vop3OpPos, vop3OpWidth)
	vdst := GetField(w0, vop3aVDstPos, vop3aVDstWidth)
	sdst := GetField(w0, vop3bSDstPos, vop3bSDstWidth)
	neg := GetField(w1, vop3NegPos, vop3NegWidth)

	src0 := GetField(w1, vop3Src0Pos, vop3Src0Width)
	src1 := GetField(w1, vop3Src1Pos, vop3Src1Width)
	src2 := GetField(w1, vop3Src2Pos, vop3Src2Width)

	entries := findVOP3(isa.VOP3B, op, a)
	name := illName("VOP3B", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 8
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[2]
		consumed = 12
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, s[%d:%d], %s", name, operand.Print(decodeVGPR(vdst), ctx), sdst, sdst+1,
		printVOP3Src(src0, lit, 0, neg, 0, ctx))
	if src1 != 0 || neg != 0 {
		text += ", " + printVOP3Src(src1, lit, 0, neg, 1, ctx)
	}
	if src2 != 0 {
		text += ", " + printVOP3Src(src2, lit, 0, neg, 2, ctx)
	}
	return DisassembleResult{Text: text}, consumed, nil
}

// VOP3PCodec implements spec.md §4.4.b's packed 16-bit form (GCN1.4+
// VOP3P: two 16-bit lanes per operand, selected by op_sel/op_sel_hi).
type VOP3PCodec struct{}

func (VOP3PCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) < 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3P wants a destination and at least one source"}
	}
	if !arch.CapsFor(req.Arch).HasVOP3P {
		return AssembleResult{}, &gcnerr.SemanticError{Message: fmt.Sprintf("VOP3P not available on %s", req.Arch)}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	dst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3P destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(dst)
	if err != nil {
		return AssembleResult{}, err
	}

	srcs := req.Operands[1:]
	if len(srcs) > 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP3P takes at most 3 sources"}
	}
	var parsed [3]operand.Operand
	for i, s := range srcs {
		op, perr := parseVOP3Src(s, ctx)
		if perr != nil {
			return AssembleResult{}, perr
		}
		parsed[i] = op
	}

	var w0 uint32
	PutField(&w0, vop3PrefixPos, vop3PrefixWidth, vop3Prefix)
	opcode := req.Entry.Primary
	PutField(&w0, vop3OpPos, vop3OpWidth, opcode)
	PutField(&w0, vop3aVDstPos, vop3aVDstWidth, vdstCode)
	var negLo uint32
	for i := 0; i < len(srcs); i++ {
		negLo |= vop3Neg(parsed[i].Mods) << uint(i)
	}

	var w1 uint32
	PutField(&w1, vop3NegPos, vop3NegWidth, negLo)
	var lit *uint32
	if len(srcs) > 0 {
		v := vop3Src(parsed[0])
		PutField(&w1, vop3Src0Pos, vop3Src0Width, v)
		if v == LiteralSentinel {
			l := parsed[0].Literal
			lit = &l
		}
	}
	if len(srcs) > 1 {
		PutField(&w1, vop3Src1Pos, vop3Src1Width, vop3Src(parsed[1]))
	}
	if len(srcs) > 2 {
		PutField(&w1, vop3Src2Pos, vop3Src2Width, vop3Src(parsed[2]))
	}

	res := AssembleResult{Words: []uint32{w0, w1}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOP3PCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated VOP3P instruction")
	}
	w0, w1 := words[0], words[1]
	op := GetField(w0, vop3OpPos, vop3OpWidth)
	vdst := GetField(w0, vop3aVDstPos, vop3aVDstWidth)
	negLo := GetField(w1, vop3NegPos, vop3NegWidth)

	src0 := GetField(w1, vop3Src0Pos, vop3Src0Width)
	src1 := GetField(w1, vop3Src1Pos, vop3Src1Width)
	src2 := GetField(w1, vop3Src2Pos, vop3Src2Width)

	entries := findByPrimary(isa.VOP3P, op, a)
	name := illName("VOP3P", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 8
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[2]
		consumed = 12
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, %s", name, operand.Print(decodeVGPR(vdst), ctx), printVOP3Src(src0, lit, 0, negLo, 0, ctx))
	if src1 != 0 || negLo != 0 {
		text += ", " + printVOP3Src(src1, lit, 0, negLo, 1, ctx)
	}
	if src2 != 0 {
		text += ", " + printVOP3Src(src2, lit, 0, negLo, 2, ctx)
	}
	return DisassembleResult{Text: text}, consumed, nil
}

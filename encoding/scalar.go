package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/modifier"
	"github.com/lookbusy1344/gcnasm/operand"
)

func scalarOperandContext(a arch.Arch, width int) operand.Context {
	return operand.Context{FieldWidth: width, Float: operand.FloatNone, Arch: a}
}

// encodeScalarSrc writes a scalar SRC operand (8 or 9-bit field
// depending on class) and appends a literal word when needed.
func encodeScalarSrc(text string, a arch.Arch, width int) (uint32, *uint32, error) {
	op, err := operand.Parse(text, scalarOperandContext(a, width))
	if err != nil {
		return 0, nil, &gcnerr.SyntaxError{Message: "scalar source operand", Wrapped: err}
	}
	if op.HasLiteral() {
		lit := op.Literal
		return uint32(operand.LiteralCode), &lit, nil
	}
	return uint32(op.Range.Start), nil, nil
}

// SOP2Codec implements spec.md §4.4.a for the two-scalar-source,
// one-scalar-dest format.
type SOP2Codec struct{}

func (SOP2Codec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: fmt.Sprintf("s_* SOP2 wants 3 operands, got %d", len(req.Operands))}
	}
	dst, err := operand.Parse(req.Operands[0], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOP2 destination", Wrapped: err}
	}
	src0, lit0, err := encodeScalarSrc(req.Operands[1], req.Arch, 8)
	if err != nil {
		return AssembleResult{}, err
	}
	src1, lit1, err := encodeScalarSrc(req.Operands[2], req.Arch, 8)
	if err != nil {
		return AssembleResult{}, err
	}
	if lit0 != nil && lit1 != nil {
		return AssembleResult{}, &gcnerr.SemanticError{Message: "SOP2 cannot take two distinct literals"}
	}
	var word uint32
	PutField(&word, scalarTopPos, scalarTopWidth, scalarTopValue)
	PutField(&word, sop2OpPos, sop2OpWidth, req.Entry.Primary)
	PutField(&word, sop2SDSTPos, sop2SDSTWidth, uint32(dst.Range.Start))
	PutField(&word, sop2SSrc1Pos, sop2SSrc1Width, src1)
	PutField(&word, sop2SSrc0Pos, sop2SSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit0 != nil {
		res.Words = append(res.Words, *lit0)
	} else if lit1 != nil {
		res.Words = append(res.Words, *lit1)
	}
	return res, nil
}

func (SOP2Codec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, sop2OpPos, sop2OpWidth)
	sdst := GetField(word, sop2SDSTPos, sop2SDSTWidth)
	src1 := GetField(word, sop2SSrc1Pos, sop2SSrc1Width)
	src0 := GetField(word, sop2SSrc0Pos, sop2SSrc0Width)

	entries := findByPrimary(isa.SOP2, op, a)
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel || src1 == LiteralSentinel {
		if len(words) < 2 {
			return DisassembleResult{}, 0, fmt.Errorf("truncated literal word")
		}
		lit = words[1]
		consumed = 8
	}
	name := illName("SOP2", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := scalarOperandContext(a, 8)
	text := fmt.Sprintf("%s s%d, %s, %s", name, sdst,
		printScalarField(src0, lit, ctx), printScalarField(src1, lit, ctx))
	return DisassembleResult{Text: text}, consumed, nil
}

func printScalarField(code uint32, lit uint32, ctx operand.Context) string {
	if code == LiteralSentinel {
		return operand.Print(operand.Operand{Range: operand.Range{Start: operand.LiteralCode}, Literal: lit}, ctx)
	}
	return operand.Print(operand.Operand{Range: operand.Range{Start: uint16(code), End: uint16(code) + 1}}, ctx)
}

func illName(class string, op uint32) string {
	return fmt.Sprintf("%s_ill_%d", class, op)
}

func findByPrimary(class isa.EncodingClass, op uint32, a arch.Arch) []isa.Entry {
	var out []isa.Entry
	for _, e := range isa.All() {
		if e.Class == class && e.Primary == op && e.LegalOn(a) {
			out = append(out, e)
		}
	}
	return out
}

// SOP1Codec implements spec.md §4.4.a's one-source one-dest format.
type SOP1Codec struct{}

func (SOP1Codec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "s_* SOP1 wants 2 operands"}
	}
	dst, err := operand.Parse(req.Operands[0], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOP1 destination", Wrapped: err}
	}
	src0, lit0, err := encodeScalarSrc(req.Operands[1], req.Arch, 8)
	if err != nil {
		return AssembleResult{}, err
	}
	var word uint32
	PutField(&word, scalarTopPos, scalarTopWidth, scalarTopValue)
	PutField(&word, sop2SelectorPos, sop2SelectorWidth, sop1Selector)
	PutField(&word, sop1SDSTPos, sop1SDSTWidth, uint32(dst.Range.Start))
	PutField(&word, sop1OpPos, sop1OpWidth, req.Entry.Primary)
	PutField(&word, sop1SSrc0Pos, sop1SSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit0 != nil {
		res.Words = append(res.Words, *lit0)
	}
	return res, nil
}

func (SOP1Codec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, sop1OpPos, sop1OpWidth)
	sdst := GetField(word, sop1SDSTPos, sop1SDSTWidth)
	src0 := GetField(word, sop1SSrc0Pos, sop1SSrc0Width)

	entries := findByPrimary(isa.SOP1, op, a)
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[1]
		consumed = 8
	}
	name := illName("SOP1", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	text := fmt.Sprintf("%s s%d, %s", name, sdst, printScalarField(src0, lit, scalarOperandContext(a, 8)))
	return DisassembleResult{Text: text}, consumed, nil
}

// SOPCCodec implements spec.md §4.4.a's compare format (no dest word,
// writes SCC implicitly).
type SOPCCodec struct{}

func (SOPCCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "s_cmp_* wants 2 operands"}
	}
	src0, lit0, err := encodeScalarSrc(req.Operands[0], req.Arch, 8)
	if err != nil {
		return AssembleResult{}, err
	}
	src1, lit1, err := encodeScalarSrc(req.Operands[1], req.Arch, 8)
	if err != nil {
		return AssembleResult{}, err
	}
	if lit0 != nil && lit1 != nil {
		return AssembleResult{}, &gcnerr.SemanticError{Message: "SOPC cannot take two distinct literals"}
	}
	var word uint32
	PutField(&word, scalarTopPos, scalarTopWidth, scalarTopValue)
	PutField(&word, sop2SelectorPos, sop2SelectorWidth, sopcSelector)
	PutField(&word, sopcOpPos, sopcOpWidth, req.Entry.Primary)
	PutField(&word, sopcSSrc1Pos, sopcSSrc1Width, src1)
	PutField(&word, sopcSSrc0Pos, sopcSSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit0 != nil {
		res.Words = append(res.Words, *lit0)
	} else if lit1 != nil {
		res.Words = append(res.Words, *lit1)
	}
	return res, nil
}

func (SOPCCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, sopcOpPos, sopcOpWidth)
	src1 := GetField(word, sopcSSrc1Pos, sopcSSrc1Width)
	src0 := GetField(word, sopcSSrc0Pos, sopcSSrc0Width)

	entries := findByPrimary(isa.SOPC, op, a)
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel || src1 == LiteralSentinel {
		lit = words[1]
		consumed = 8
	}
	name := illName("SOPC", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := scalarOperandContext(a, 8)
	text := fmt.Sprintf("%s %s, %s", name, printScalarField(src0, lit, ctx), printScalarField(src1, lit, ctx))
	return DisassembleResult{Text: text}, consumed, nil
}

// SOPKCodec implements spec.md §4.4.a's 16-bit immediate format,
// including the hwreg/sendmsg compound payloads and branch targets.
type SOPKCodec struct{}

func (SOPKCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) < 1 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOPK wants at least a destination"}
	}
	dst, err := operand.Parse(req.Operands[0], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOPK destination", Wrapped: err}
	}

	var simm16 uint32
	var pending []gcnerr.PendingTarget
	switch {
	case req.Entry.Mode&isa.ModeIsBranch != 0:
		if len(req.Operands) < 2 {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOPK branch wants a target operand"}
		}
		target, perr := parseBranchTarget(req.Operands[1], req.PC)
		if perr != nil {
			return AssembleResult{}, perr
		}
		simm16 = uint32(uint16(target))
	case strings.Contains(req.ModifierText, "hwreg("):
		mod, _, merr := modifier.Parse(req.ModifierText, req.Arch, isa.SOPK)
		if merr != nil {
			return AssembleResult{}, merr
		}
		if mod.HwReg == nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "s_getreg/s_setreg wants hwreg(...)"}
		}
		simm16 = uint32(mod.HwReg.ID) | uint32(mod.HwReg.Offset)<<6 | (uint32(mod.HwReg.Width)-1)&0x1f<<11
	default:
		if len(req.Operands) >= 2 {
			n, ok := parseImmediateOrPending(req.Operands[1], &pending)
			if !ok {
				return AssembleResult{}, &gcnerr.SyntaxError{Message: fmt.Sprintf("bad SOPK immediate %q", req.Operands[1])}
			}
			simm16 = n
		}
	}

	var word uint32
	PutField(&word, sopkTopPos, sopkTopWidth, sopkTopValue)
	PutField(&word, sopkOpPos, sopkOpWidth, req.Entry.Primary)
	PutField(&word, sopkSDSTPos, sopkSDSTWidth, uint32(dst.Range.Start))
	PutField(&word, sopkSimm16Pos, sopkSimm16Width, simm16)
	return AssembleResult{Words: []uint32{word}, Pending: pending}, nil
}

func (SOPKCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, sopkOpPos, sopkOpWidth)
	sdst := GetField(word, sopkSDSTPos, sopkSDSTWidth)
	simm16 := GetField(word, sopkSimm16Pos, sopkSimm16Width)

	entries := findByPrimary(isa.SOPK, op, a)
	name := illName("SOPK", op)
	var mode isa.ModeFlags
	if len(entries) > 0 {
		name = entries[0].Mnemonic
		mode = entries[0].Mode
	}
	var text string
	if mode&isa.ModeIsBranch != 0 {
		text = fmt.Sprintf("%s s%d, %d", name, sdst, signExtend16(simm16))
	} else {
		text = fmt.Sprintf("%s s%d, 0x%x", name, sdst, simm16)
	}
	return DisassembleResult{Text: text}, 4, nil
}

// SOPPCodec implements spec.md §4.4.a's no-scalar-register format
// (branches, waitcnt, sendmsg, nop, endpgm).
type SOPPCodec struct{}

func (SOPPCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	var simm16 uint32
	var pending []gcnerr.PendingTarget
	switch {
	case req.Entry.Mode&(isa.ModeIsBranch|isa.ModeIsCall) != 0:
		if len(req.Operands) < 1 {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "SOPP branch wants a target operand"}
		}
		target, perr := parseBranchTarget(req.Operands[0], req.PC)
		if perr != nil {
			return AssembleResult{}, perr
		}
		simm16 = uint32(uint16(target))
	case strings.Contains(req.ModifierText, "vmcnt") || strings.Contains(req.ModifierText, "lgkmcnt"):
		wc, werr := modifier.ParseWaitcnt(req.ModifierText)
		if werr != nil {
			return AssembleResult{}, werr
		}
		simm16 = uint32(modifier.Encode(wc, req.Arch))
	case strings.Contains(req.ModifierText, "sendmsg("):
		mod, _, merr := modifier.Parse(req.ModifierText, req.Arch, isa.SOPP)
		if merr != nil {
			return AssembleResult{}, merr
		}
		if mod.SendMsg != nil {
			simm16 = uint32(mod.SendMsg.Message) | uint32(mod.SendMsg.GSOp)<<4 | uint32(mod.SendMsg.Stream)<<8
		}
	}

	var word uint32
	PutField(&word, scalarTopPos, scalarTopWidth, scalarTopValue)
	PutField(&word, sop2SelectorPos, sop2SelectorWidth, soppSelector)
	PutField(&word, soppOpPos, soppOpWidth, req.Entry.Primary)
	PutField(&word, soppSimm16Pos, soppSimm16Width, simm16)
	return AssembleResult{Words: []uint32{word}, Pending: pending}, nil
}

func (SOPPCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, soppOpPos, soppOpWidth)
	simm16 := GetField(word, soppSimm16Pos, soppSimm16Width)

	entries := findByPrimary(isa.SOPP, op, a)
	name := illName("SOPP", op)
	var mode isa.ModeFlags
	if len(entries) > 0 {
		name = entries[0].Mnemonic
		mode = entries[0].Mode
	}
	var text string
	switch {
	case mode&(isa.ModeIsBranch|isa.ModeIsCall) != 0:
		text = fmt.Sprintf("%s %d", name, signExtend16(simm16))
	case name == "s_waitcnt":
		text = fmt.Sprintf("%s %s", name, modifier.Decode(uint16(simm16), a).Print())
	default:
		if simm16 == 0 {
			text = name
		} else {
			text = fmt.Sprintf("%s 0x%x", name, simm16)
		}
	}
	return DisassembleResult{Text: text}, 4, nil
}

func signExtend16(v uint32) int32 {
	return int32(int16(uint16(v)))
}

// parseBranchTarget implements spec.md §4.4.a's PC-relative branch
// arithmetic: (target - pc - 4) >> 2, required to fit in 16 signed bits
// and be word-aligned.
func parseBranchTarget(text string, pc uint32) (int32, error) {
	n, ok := parseIntLiteral(text)
	if !ok {
		return 0, &gcnerr.SyntaxError{Message: fmt.Sprintf("bad branch target %q", text)}
	}
	delta := n - int64(pc) - 4
	if delta%4 != 0 {
		return 0, &gcnerr.SemanticError{Message: "branch target is not word-aligned"}
	}
	field := delta >> 2
	if field < -32768 || field > 32767 {
		return 0, &gcnerr.SemanticError{Message: "branch target out of 16-bit signed range"}
	}
	return int32(field), nil
}

func parseIntLiteral(text string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseImmediateOrPending(text string, pending *[]gcnerr.PendingTarget) (uint32, bool) {
	if strings.HasPrefix(text, "@") {
		*pending = append(*pending, gcnerr.PendingTarget{Kind: gcnerr.TargetLiteralDWord})
		return 0, true
	}
	n, ok := parseIntLiteral(text)
	if !ok {
		return 0, false
	}
	return uint32(n), true
}

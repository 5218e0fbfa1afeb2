package encoding

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// SMRDCodec implements spec.md §4.4.c's pre-GCN1.2 scalar-memory format
// (a single 32-bit word with an 8-bit immediate-or-SGPR offset).
type SMRDCodec struct{}

func (SMRDCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMRD wants sdst, sbase, offset"}
	}
	sdst, err := operand.Parse(req.Operands[0], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMRD destination", Wrapped: err}
	}
	sbase, err := operand.Parse(req.Operands[1], scalarOperandContext(req.Arch, 6))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMRD sbase", Wrapped: err}
	}
	var imm, offset uint32
	op, err := operand.Parse(req.Operands[2], scalarOperandContext(req.Arch, 8))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMRD offset", Wrapped: err}
	}
	if op.HasLiteral() {
		imm = 1
		offset = op.Literal & 0xFF
		if offset != op.Literal {
			req.warn(fmt.Sprintf("offset 0x%x truncated to 8 bits", op.Literal))
		}
	} else {
		offset = uint32(op.Range.Start)
	}

	var word uint32
	PutField(&word, smrdTopPos, smrdTopWidth, smrdTopValue)
	PutField(&word, smrdOpPos, smrdOpWidth, req.Entry.Primary)
	PutField(&word, smrdSDstPos, smrdSDstWidth, uint32(sdst.Range.Start))
	PutField(&word, smrdSBasePos, smrdSBaseWidth, uint32(sbase.Range.Start)>>1) // SBASE addresses an SGPR pair
	PutField(&word, smrdImmPos, 1, imm)
	PutField(&word, smrdOffsetPos, smrdOffsetWidth, offset)
	return AssembleResult{Words: []uint32{word}}, nil
}

func (SMRDCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, smrdOpPos, smrdOpWidth)
	sdst := GetField(word, smrdSDstPos, smrdSDstWidth)
	sbase := GetField(word, smrdSBasePos, smrdSBaseWidth) << 1
	imm := GetField(word, smrdImmPos, 1)
	offset := GetField(word, smrdOffsetPos, smrdOffsetWidth)

	entries := findByPrimary(isa.SMRD, op, a)
	name := illName("SMRD", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	var offsetText string
	if imm != 0 {
		offsetText = fmt.Sprintf("0x%x", offset)
	} else {
		offsetText = fmt.Sprintf("s%d", offset)
	}
	text := fmt.Sprintf("%s s%d, s[%d:%d], %s", name, sdst, sbase, sbase+1, offsetText)
	return DisassembleResult{Text: text}, 4, nil
}

// SMEMCodec implements spec.md §4.4.c's GCN1.2+ scalar-memory format: a
// 64-bit instruction word with a 21-bit signed, or 20-bit unsigned,
// offset living in word1 (GCN1.4's `nv` modifier further splits the
// offset into separate immediate/SGPR-offset forms per spec.md §4.5).
type SMEMCodec struct{}

func (SMEMCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMEM wants sdata, sbase, offset"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	sdata, err := operand.Parse(req.Operands[0], scalarOperandContext(req.Arch, 7))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMEM sdata", Wrapped: err}
	}
	sbase, err := operand.Parse(req.Operands[1], scalarOperandContext(req.Arch, 6))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMEM sbase", Wrapped: err}
	}

	var imm, offset uint32
	op, err := operand.Parse(req.Operands[2], scalarOperandContext(req.Arch, 21))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "SMEM offset", Wrapped: err}
	}
	if op.HasLiteral() {
		imm = 1
		offset = op.Literal & 0x1FFFFF
		if offset != op.Literal {
			req.warn(fmt.Sprintf("offset 0x%x truncated to 21 bits", op.Literal))
		}
	} else {
		offset = uint32(op.Range.Start)
	}

	var w uint64
	PutField64(&w, smemTopPos, smemTopWidth, smemTopValue)
	PutField64(&w, smemOpPos, smemOpWidth, uint64(req.Entry.Primary))
	PutField64(&w, smemSDataPos, smemSDataWidth, uint64(sdata.Range.Start))
	PutField64(&w, smemSBasePos, smemSBaseWidth, uint64(sbase.Range.Start)>>1)
	PutField64(&w, smemImmPos, 1, uint64(imm))
	if boolField(mod.GLC) {
		PutField64(&w, smemGLCPos, 1, 1)
	}
	PutField64(&w, smemOffsetPos, smemOffsetWidth, uint64(offset))

	return AssembleResult{Words: []uint32{uint32(w), uint32(w >> 32)}}, nil
}

func (SMEMCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated SMEM instruction")
	}
	w := uint64(words[0]) | uint64(words[1])<<32
	op := uint32(GetField64(w, smemOpPos, smemOpWidth))
	sdata := GetField64(w, smemSDataPos, smemSDataWidth)
	sbase := GetField64(w, smemSBasePos, smemSBaseWidth) << 1
	imm := GetField64(w, smemImmPos, 1)
	glc := GetField64(w, smemGLCPos, 1) != 0
	offset := GetField64(w, smemOffsetPos, smemOffsetWidth)

	entries := findByPrimary(isa.SMEM, op, a)
	name := illName("SMEM", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	var offsetText string
	if imm != 0 {
		offsetText = fmt.Sprintf("0x%x", offset)
	} else {
		offsetText = fmt.Sprintf("s%d", offset)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s s%d, s[%d:%d], %s", name, sdata, sbase, sbase+1, offsetText)
	if glc {
		b.WriteString(" glc")
	}
	return DisassembleResult{Text: b.String()}, 8, nil
}

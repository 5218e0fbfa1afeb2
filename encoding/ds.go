package encoding

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// DSCodec implements spec.md §4.4.c's local/shared-memory format: a
// 64-bit instruction word carrying a GDS flag, two byte offsets, and
// address/data/dest VGPR fields in the high word.
type DSCodec struct{}

func dsOperandCtx(a arch.Arch) operand.Context {
	return operand.Context{FieldWidth: 8, Float: operand.FloatNone, Arch: a}
}

func (DSCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	mod, pending, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	ctx := dsOperandCtx(req.Arch)

	var vdst, addr, data0, data1 operand.Operand
	hasVDst := req.Entry.Mode&isa.ModeIsLoad != 0
	idx := 0
	if hasVDst {
		vdst, err = operand.Parse(req.Operands[idx], ctx)
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "DS destination", Wrapped: err}
		}
		idx++
	}
	if idx >= len(req.Operands) {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "DS instruction wants an address operand"}
	}
	addr, err = operand.Parse(req.Operands[idx], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "DS address", Wrapped: err}
	}
	idx++
	if idx < len(req.Operands) {
		data0, err = operand.Parse(req.Operands[idx], ctx)
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "DS data0", Wrapped: err}
		}
		idx++
	}
	if idx < len(req.Operands) {
		data1, err = operand.Parse(req.Operands[idx], ctx)
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "DS data1", Wrapped: err}
		}
	}

	var offset0, offset1 uint32
	if mod.Offset != nil {
		offset0 = uint32(*mod.Offset) & 0xFF
		offset1 = (uint32(*mod.Offset) >> 8) & 0xFF
		if *mod.Offset < 0 || *mod.Offset > 0xFFFF {
			req.warn(fmt.Sprintf("offset:%d truncated to 16 bits", *mod.Offset))
		}
	}
	_ = pending

	var w uint64
	PutField64(&w, dsTopPos, dsTopWidth, dsTopValue)
	PutField64(&w, dsOpPos, dsOpWidth, uint64(req.Entry.Primary))
	if mod.GDS {
		PutField64(&w, dsGDSPos, 1, 1)
	}
	PutField64(&w, dsOffset0Pos, dsOffset0Width, uint64(offset0))
	PutField64(&w, dsOffset1Pos, dsOffset1Width, uint64(offset1))
	PutField64(&w, dsAddrPos, dsAddrWidth, uint64(encodeDSField(addr)))
	PutField64(&w, dsData0Pos, dsData0Width, uint64(encodeDSField(data0)))
	PutField64(&w, dsData1Pos, dsData1Width, uint64(encodeDSField(data1)))
	PutField64(&w, dsVDstPos, dsVDstWidth, uint64(encodeDSField(vdst)))

	return AssembleResult{Words: []uint32{uint32(w), uint32(w >> 32)}}, nil
}

func encodeDSField(op operand.Operand) uint32 {
	if op.Range.End == 0 && op.Range.Start == 0 {
		return 0
	}
	v, err := encodeVGPR(op)
	if err != nil {
		return 0
	}
	return v
}

func (DSCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated DS instruction")
	}
	w := uint64(words[0]) | uint64(words[1])<<32
	op := uint32(GetField64(w, dsOpPos, dsOpWidth))
	gds := GetField64(w, dsGDSPos, 1) != 0
	offset0 := GetField64(w, dsOffset0Pos, dsOffset0Width)
	offset1 := GetField64(w, dsOffset1Pos, dsOffset1Width)
	addr := uint32(GetField64(w, dsAddrPos, dsAddrWidth))
	data0 := uint32(GetField64(w, dsData0Pos, dsData0Width))
	data1 := uint32(GetField64(w, dsData1Pos, dsData1Width))
	vdst := uint32(GetField64(w, dsVDstPos, dsVDstWidth))

	entries := findByPrimary(isa.DS, op, a)
	name := illName("DS", op)
	var mode isa.ModeFlags
	if len(entries) > 0 {
		name = entries[0].Mnemonic
		mode = entries[0].Mode
	}
	ctx := dsOperandCtx(a)
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(' ')
	if mode&isa.ModeIsLoad != 0 {
		fmt.Fprintf(&b, "%s, ", operand.Print(decodeVGPR(vdst), ctx))
	}
	fmt.Fprintf(&b, "%s", operand.Print(decodeVGPR(addr), ctx))
	if mode&isa.ModeIsStore != 0 {
		fmt.Fprintf(&b, ", %s", operand.Print(decodeVGPR(data0), ctx))
		if data1 != 0 {
			fmt.Fprintf(&b, ", %s", operand.Print(decodeVGPR(data1), ctx))
		}
	}
	if offset0 != 0 || offset1 != 0 {
		fmt.Fprintf(&b, " offset0:%d offset1:%d", offset0, offset1)
	}
	if gds {
		b.WriteString(" gds")
	}
	return DisassembleResult{Text: b.String()}, 8, nil
}

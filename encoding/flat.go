package encoding

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// flatSegment is the FLAT/SCRATCH/GLOBAL sub-mode selector packed at
// layout.go's flatSegPos/flatSegWidth.
type flatSegment uint32

const (
	segFlat    flatSegment = 0
	segScratch flatSegment = 1
	segGlobal  flatSegment = 2
)

// FlatCodec implements spec.md §4.4.c's unified FLAT/GLOBAL/SCRATCH
// memory format. GLOBAL/SCRATCH only exist from GCN1.4 on
// (arch.Caps.HasGlobal / HasFlatScratch); the codec rejects them
// earlier otherwise.
type FlatCodec struct{ Segment flatSegment }

func flatOperandCtx(a arch.Arch) operand.Context {
	return operand.Context{FieldWidth: 8, Float: operand.FloatNone, Arch: a}
}

// NewFlatCodec returns the FlatCodec for the requested FLAT/GLOBAL/
// SCRATCH class, for callers outside this package that only have the
// isa.EncodingClass to hand (dispatch's registry).
func NewFlatCodec(class isa.EncodingClass) FlatCodec {
	switch class {
	case isa.GLOBAL:
		return FlatCodec{Segment: segGlobal}
	case isa.SCRATCH:
		return FlatCodec{Segment: segScratch}
	default:
		return FlatCodec{Segment: segFlat}
	}
}

// ClassifyFlatSegment reads a FLAT-family word0's SEG sub-field to
// tell FLAT/GLOBAL/SCRATCH apart, per spec.md §4.6's dispatch rule.
func ClassifyFlatSegment(word0 uint32) isa.EncodingClass {
	switch flatSegment(GetField(word0, flatSegPos, flatSegWidth)) {
	case segGlobal:
		return isa.GLOBAL
	case segScratch:
		return isa.SCRATCH
	default:
		return isa.FLAT
	}
}

func (c FlatCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	caps := arch.CapsFor(req.Arch)
	if c.Segment == segGlobal && !caps.HasGlobal {
		return AssembleResult{}, &gcnerr.SemanticError{Message: fmt.Sprintf("global_* not available on %s", req.Arch)}
	}
	if c.Segment == segScratch && !caps.HasFlatScratch {
		return AssembleResult{}, &gcnerr.SemanticError{Message: fmt.Sprintf("scratch_* not available on %s", req.Arch)}
	}
	if len(req.Operands) < 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "FLAT/GLOBAL/SCRATCH wants at least vdst/vdata and an address"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	ctx := flatOperandCtx(req.Arch)

	isLoad := req.Entry.Mode&isa.ModeIsLoad != 0
	var vdst, addr, data, saddr operand.Operand
	idx := 0
	if isLoad {
		vdst, err = operand.Parse(req.Operands[idx], ctx)
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "FLAT destination", Wrapped: err}
		}
		idx++
	}
	addr, err = operand.Parse(req.Operands[idx], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "FLAT address", Wrapped: err}
	}
	idx++
	if !isLoad && idx < len(req.Operands) {
		data, err = operand.Parse(req.Operands[idx], ctx)
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "FLAT data", Wrapped: err}
		}
		idx++
	}
	if idx < len(req.Operands) {
		saddr, err = operand.Parse(req.Operands[idx], scalarOperandContext(req.Arch, 7))
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "FLAT saddr", Wrapped: err}
		}
	}

	var instOffset uint32
	if mod.InstOffset != nil {
		instOffset = uint32(*mod.InstOffset) & 0xFFF
		if instOffset != uint32(*mod.InstOffset) {
			req.warn(fmt.Sprintf("offset:%d truncated to 12 bits", *mod.InstOffset))
		}
	}

	var w uint64
	PutField64(&w, flatTopPos, flatTopWidth, flatTopValue)
	PutField64(&w, flatSegPos, flatSegWidth, uint64(c.Segment))
	PutField64(&w, flatOpPos, flatOpWidth, uint64(req.Entry.Primary))
	if boolField(mod.GLC) {
		PutField64(&w, flatGLCPos, 1, 1)
	}
	if boolField(mod.SLC) {
		PutField64(&w, flatSLCPos, 1, 1)
	}
	if mod.LDS {
		PutField64(&w, flatLDSPos, 1, 1)
	}
	PutField64(&w, flatInstOffsetPos, flatInstOffsetWidth, uint64(instOffset))
	PutField64(&w, flatAddrPos, flatAddrWidth, uint64(encodeDSField(addr)))
	PutField64(&w, flatDataPos, flatDataWidth, uint64(encodeDSField(data)))
	PutField64(&w, flatVDstPos, flatVDstWidth, uint64(encodeDSField(vdst)))
	if c.Segment != segFlat {
		PutField64(&w, flatSAddrPos, flatSAddrWidth, uint64(saddr.Range.Start))
	}

	return AssembleResult{Words: []uint32{uint32(w), uint32(w >> 32)}}, nil
}

func (c FlatCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated FLAT/GLOBAL/SCRATCH instruction")
	}
	w := uint64(words[0]) | uint64(words[1])<<32
	op := uint32(GetField64(w, flatOpPos, flatOpWidth))
	glc := GetField64(w, flatGLCPos, 1) != 0
	slc := GetField64(w, flatSLCPos, 1) != 0
	lds := GetField64(w, flatLDSPos, 1) != 0
	offset := GetField64(w, flatInstOffsetPos, flatInstOffsetWidth)
	addr := uint32(GetField64(w, flatAddrPos, flatAddrWidth))
	data := uint32(GetField64(w, flatDataPos, flatDataWidth))
	vdst := uint32(GetField64(w, flatVDstPos, flatVDstWidth))
	saddr := uint32(GetField64(w, flatSAddrPos, flatSAddrWidth))

	class := isa.FLAT
	switch c.Segment {
	case segGlobal:
		class = isa.GLOBAL
	case segScratch:
		class = isa.SCRATCH
	}
	entries := findByPrimary(class, op, a)
	name := illName(class.String(), op)
	var mode isa.ModeFlags
	if len(entries) > 0 {
		name = entries[0].Mnemonic
		mode = entries[0].Mode
	}
	ctx := flatOperandCtx(a)
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(' ')
	if mode&isa.ModeIsLoad != 0 {
		fmt.Fprintf(&b, "%s, ", operand.Print(decodeVGPR(vdst), ctx))
	}
	fmt.Fprintf(&b, "%s", operand.Print(decodeVGPR(addr), ctx))
	if mode&isa.ModeIsStore != 0 {
		fmt.Fprintf(&b, ", %s", operand.Print(decodeVGPR(data), ctx))
	}
	if c.Segment != segFlat {
		fmt.Fprintf(&b, ", s[%d:%d]", saddr, saddr+1)
	}
	if offset != 0 {
		fmt.Fprintf(&b, " offset:%d", offset)
	}
	if glc {
		b.WriteString(" glc")
	}
	if slc {
		b.WriteString(" slc")
	}
	if lds {
		b.WriteString(" lds")
	}
	return DisassembleResult{Text: b.String()}, 8, nil
}

package encoding

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// floatWidthFromMnemonic infers the operand context's default float
// width from the usual GCN mnemonic suffixes. Grounded on the teacher's
// Encoder.inferWidth (encoder/encoder.go) switch-on-suffix idiom.
func floatWidthFromMnemonic(name string) operand.FloatWidth {
	switch {
	case strings.HasSuffix(name, "f16"), strings.Contains(name, "f16_"):
		return operand.Float16
	case strings.HasSuffix(name, "f64"), strings.Contains(name, "f64_"):
		return operand.Float64
	case strings.HasSuffix(name, "f32"), strings.Contains(name, "f32_"):
		return operand.Float32
	}
	return operand.FloatNone
}

func vopContext(a arch.Arch, mnemonic string, width int) operand.Context {
	return operand.Context{FieldWidth: width, Float: floatWidthFromMnemonic(mnemonic), Arch: a}
}

// encodeVGPR returns the raw 0..255 VGPR index for a vector-only field
// (VOP2/VOP1/VOPC's VDST and VSRC1, which cannot reach a scalar source).
func encodeVGPR(op operand.Operand) (uint32, error) {
	if !op.Range.IsVector() {
		return 0, &gcnerr.SemanticError{Message: "expected a vector register"}
	}
	return uint32(op.Range.Start) - operand.VGPRBase, nil
}

func decodeVGPR(code uint32) operand.Operand {
	start := uint16(code) + operand.VGPRBase
	return operand.Operand{Range: operand.Range{Start: start, End: start + 1}}
}

// VOPSrc0Field reads a VOP2/VOP1/VOPC word's SRC0 field, which
// dispatch uses to tell a plain short-form word apart from one
// redirected to a following SDWA/DPP sub-word (SDWASentinel/
// DPPSentinel).
func VOPSrc0Field(word0 uint32) uint32 {
	return GetField(word0, vopSrc0Pos, vopSrc0Width)
}

// encodeSrc0 writes the 9-bit SRC0 field, which reaches the full SGPR /
// special / inline-constant / VGPR / literal space (spec.md §3's unified
// SRC code space happens to line up with VGPRBase=256 exactly).
func encodeSrc0(text string, ctx operand.Context) (uint32, *uint32, error) {
	op, err := operand.Parse(text, ctx)
	if err != nil {
		return 0, nil, &gcnerr.SyntaxError{Message: "SRC0 operand", Wrapped: err}
	}
	if op.HasLiteral() {
		lit := op.Literal
		return LiteralSentinel, &lit, nil
	}
	return uint32(op.Range.Start), nil, nil
}

// VOP2Codec implements spec.md §4.4.b's two-vector-source short form
// (VDST, VSRC1 vector-only, SRC0 full space).
type VOP2Codec struct{}

func (VOP2Codec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP2 wants 3 operands"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP2 destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	src0, lit, err := encodeSrc0(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, err
	}
	vsrc1, err := operand.Parse(req.Operands[2], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP2 vsrc1", Wrapped: err}
	}
	vsrc1Code, err := encodeVGPR(vsrc1)
	if err != nil {
		return AssembleResult{}, err
	}

	var word uint32
	word = 0 // bit31 = 0 selects the VOP2/VOP1/VOPC family
	PutField(&word, vop2OpPos, vop2OpWidth, req.Entry.Primary)
	PutField(&word, vopVDstPos, vopVDstWidth, vdstCode)
	PutField(&word, vopSrc1Pos, vopSrc1Width, vsrc1Code)
	PutField(&word, vopSrc0Pos, vopSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOP2Codec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, vop2OpPos, vop2OpWidth)
	vdst := GetField(word, vopVDstPos, vopVDstWidth)
	vsrc1 := GetField(word, vopSrc1Pos, vopSrc1Width)
	src0 := GetField(word, vopSrc0Pos, vopSrc0Width)

	entries := findByPrimary(isa.VOP2, op, a)
	name := illName("VOP2", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[1]
		consumed = 8
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, %s, %s", name,
		operand.Print(decodeVGPR(vdst), ctx),
		printScalarField(src0, lit, ctx),
		operand.Print(decodeVGPR(vsrc1), ctx))
	return DisassembleResult{Text: text}, consumed, nil
}

// VOP1Codec implements spec.md §4.4.b's one-vector-source short form.
type VOP1Codec struct{}

func (VOP1Codec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP1 wants 2 operands"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOP1 destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	src0, lit, err := encodeSrc0(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, err
	}

	var word uint32
	PutField(&word, vopBit31Pos, 1, 0)
	PutField(&word, vop2OpPos, 6, vop1FixedBits)
	PutField(&word, vop1OpPos, vop1OpWidth, req.Entry.Primary)
	PutField(&word, vopVDstPos, vopVDstWidth, vdstCode)
	PutField(&word, vopSrc0Pos, vopSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOP1Codec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, vop1OpPos, vop1OpWidth)
	vdst := GetField(word, vopVDstPos, vopVDstWidth)
	src0 := GetField(word, vopSrc0Pos, vopSrc0Width)

	entries := findByPrimary(isa.VOP1, op, a)
	name := illName("VOP1", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[1]
		consumed = 8
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, %s", name, operand.Print(decodeVGPR(vdst), ctx), printScalarField(src0, lit, ctx))
	return DisassembleResult{Text: text}, consumed, nil
}

// VOPCCodec implements spec.md §4.4.b's compare short form, writing
// VCC (or EXEC for the _b64 variants, handled upstream) implicitly.
type VOPCCodec struct{}

func (VOPCCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 2 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOPC wants 2 operands"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 9)
	src0, lit, err := encodeSrc0(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, err
	}
	vsrc1, err := operand.Parse(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VOPC vsrc1", Wrapped: err}
	}
	vsrc1Code, err := encodeVGPR(vsrc1)
	if err != nil {
		return AssembleResult{}, err
	}

	var word uint32
	PutField(&word, vopBit31Pos, 1, 0)
	PutField(&word, vop2OpPos, 6, vopcFixedBits)
	PutField(&word, vopcOpPos, vopcOpWidth, req.Entry.Primary)
	PutField(&word, vopSrc1Pos, vopSrc1Width, vsrc1Code)
	PutField(&word, vopSrc0Pos, vopSrc0Width, src0)

	res := AssembleResult{Words: []uint32{word}}
	if lit != nil {
		res.Words = append(res.Words, *lit)
	}
	return res, nil
}

func (VOPCCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, vopcOpPos, vopcOpWidth)
	vsrc1 := GetField(word, vopSrc1Pos, vopSrc1Width)
	src0 := GetField(word, vopSrc0Pos, vopSrc0Width)

	entries := findByPrimary(isa.VOPC, op, a)
	name := illName("VOPC", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	consumed := 4
	var lit uint32
	if src0 == LiteralSentinel {
		lit = words[1]
		consumed = 8
	}
	ctx := vopContext(a, name, 9)
	text := fmt.Sprintf("%s %s, %s", name, printScalarField(src0, lit, ctx), operand.Print(decodeVGPR(vsrc1), ctx))
	return DisassembleResult{Text: text}, consumed, nil
}

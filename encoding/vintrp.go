package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// VINTRPCodec implements spec.md §4.4.b's parameter-interpolation short
// form: `v_interp_pN_f32 vdst, vsrc, attrNN.{x|y|z|w}`. Promotes to
// VOP3A exactly like VOP2/VOP1/VOPC (handled by Promote), in which case
// src0 carries +0x100 when the `high` modifier is set (spec.md §4.4.c).
type VINTRPCodec struct{}

const (
	vintrpVSrcPos, vintrpVSrcWidth = 0, 8
	vintrpAttrChanPos, vintrpAttrChanWidth = 8, 2
	vintrpAttrPos, vintrpAttrWidth = 10, 6
	vintrpOpPos, vintrpOpWidth     = 16, 2
	vintrpVDstPos, vintrpVDstWidth = 18, 8
	// Top prefix and field layout grounded on GCNAsmEncode1.cpp's
	// parseVINTRPEncoding: word = 0xc8000000 | src | attrVal<<8 |
	// code1<<16 | dst<<18.
	vintrpTopPos, vintrpTopWidth = 26, 6
	vintrpTopValue               = 0x32
)

func parseAttr(text string) (attr uint32, chan_ uint32, err error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	idx := strings.Index(lower, ".")
	if idx < 0 || !strings.HasPrefix(lower, "attr") {
		return 0, 0, fmt.Errorf("expected attrNN.x|y|z|w, got %q", text)
	}
	n, err := strconv.ParseUint(lower[4:idx], 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed attribute number in %q: %w", text, err)
	}
	switch lower[idx+1:] {
	case "x":
		chan_ = 0
	case "y":
		chan_ = 1
	case "z":
		chan_ = 2
	case "w":
		chan_ = 3
	default:
		return 0, 0, fmt.Errorf("unknown attribute channel in %q", text)
	}
	return uint32(n), chan_, nil
}

func (VINTRPCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "v_interp_* wants vdst, vsrc, attrN.chan"}
	}
	ctx := vopContext(req.Arch, req.Entry.Mnemonic, 8)
	vdst, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VINTRP destination", Wrapped: err}
	}
	vdstCode, err := encodeVGPR(vdst)
	if err != nil {
		return AssembleResult{}, err
	}
	vsrc, err := operand.Parse(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VINTRP source", Wrapped: err}
	}
	vsrcCode, err := encodeVGPR(vsrc)
	if err != nil {
		return AssembleResult{}, err
	}
	attr, chanN, err := parseAttr(req.Operands[2])
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "VINTRP attribute", Wrapped: err}
	}

	var word uint32
	PutField(&word, vintrpTopPos, vintrpTopWidth, vintrpTopValue)
	PutField(&word, vintrpOpPos, vintrpOpWidth, req.Entry.Primary)
	PutField(&word, vintrpVDstPos, vintrpVDstWidth, vdstCode)
	PutField(&word, vintrpVSrcPos, vintrpVSrcWidth, vsrcCode)
	PutField(&word, vintrpAttrPos, vintrpAttrWidth, attr)
	PutField(&word, vintrpAttrChanPos, vintrpAttrChanWidth, chanN)
	return AssembleResult{Words: []uint32{word}}, nil
}

func (VINTRPCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	word := words[0]
	op := GetField(word, vintrpOpPos, vintrpOpWidth)
	vdst := GetField(word, vintrpVDstPos, vintrpVDstWidth)
	vsrc := GetField(word, vintrpVSrcPos, vintrpVSrcWidth)
	attr := GetField(word, vintrpAttrPos, vintrpAttrWidth)
	chanN := GetField(word, vintrpAttrChanPos, vintrpAttrChanWidth)

	entries := findByPrimary(isa.VINTRP, op, a)
	name := illName("VINTRP", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := vopContext(a, name, 8)
	chanNames := [4]string{"x", "y", "z", "w"}
	text := fmt.Sprintf("%s %s, %s, attr%d.%s", name,
		operand.Print(decodeVGPR(vdst), ctx), operand.Print(decodeVGPR(vsrc), ctx), attr, chanNames[chanN])
	return DisassembleResult{Text: text}, 4, nil
}

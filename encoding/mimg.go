package encoding

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// MIMGCodec implements spec.md §4.4.c's image-memory format:
// `image_* vdata, vaddr, srsrc[, ssamp] dmask:N [unorm] [glc] [slc] [da] [r128] [tfe] [lwe] [d16]`.
type MIMGCodec struct{}

func mimgOperandCtx(a arch.Arch) operand.Context {
	return operand.Context{FieldWidth: 8, Float: operand.FloatNone, Arch: a}
}

func (MIMGCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) < 3 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "image_* wants vdata, vaddr, srsrc[, ssamp]"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	ctx := mimgOperandCtx(req.Arch)
	vdata, err := operand.Parse(req.Operands[0], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "MIMG vdata", Wrapped: err}
	}
	vaddr, err := operand.Parse(req.Operands[1], ctx)
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "MIMG vaddr", Wrapped: err}
	}
	srsrc, err := operand.Parse(req.Operands[2], scalarOperandContext(req.Arch, 5))
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "MIMG srsrc", Wrapped: err}
	}
	var ssamp operand.Operand
	if len(req.Operands) > 3 {
		ssamp, err = operand.Parse(req.Operands[3], scalarOperandContext(req.Arch, 5))
		if err != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: "MIMG ssamp", Wrapped: err}
		}
	}

	vaddrCode, err := encodeVGPR(vaddr)
	if err != nil {
		return AssembleResult{}, err
	}
	vdataCode, err := encodeVGPR(vdata)
	if err != nil {
		return AssembleResult{}, err
	}

	var dmask uint32 = 0xF
	if mod.DMask != nil {
		dmask = uint32(*mod.DMask)
	}

	var w uint64
	PutField64(&w, mimgTopPos, mimgTopWidth, mimgTopValue)
	PutField64(&w, mimgOpPos, mimgOpWidth, uint64(req.Entry.Primary))
	PutField64(&w, mimgDMaskPos, mimgDMaskWidth, uint64(dmask))
	if mod.Unorm {
		PutField64(&w, mimgUnormPos, 1, 1)
	}
	if boolField(mod.GLC) {
		PutField64(&w, mimgGLCPos, 1, 1)
	}
	if mod.DA {
		PutField64(&w, mimgDAPos, 1, 1)
	}
	if mod.R128 {
		PutField64(&w, mimgR128Pos, 1, 1)
	}
	if mod.TFE {
		PutField64(&w, mimgTFEPos, 1, 1)
	}
	if mod.LWE {
		PutField64(&w, mimgLWEPos, 1, 1)
	}
	if boolField(mod.SLC) {
		PutField64(&w, mimgSLCPos, 1, 1)
	}
	if mod.D16 {
		PutField64(&w, mimgD16Pos, 1, 1)
	}
	PutField64(&w, mimgVAddrPos, mimgVAddrWidth, uint64(vaddrCode))
	PutField64(&w, mimgVDataPos, mimgVDataWidth, uint64(vdataCode))
	PutField64(&w, mimgSRSrcPos, mimgSRSrcWidth, uint64(srsrc.Range.Start)>>2)
	if len(req.Operands) > 3 {
		PutField64(&w, mimgSSampPos, mimgSSampWidth, uint64(ssamp.Range.Start)>>2)
	}

	return AssembleResult{Words: []uint32{uint32(w), uint32(w >> 32)}}, nil
}

func (MIMGCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated MIMG instruction")
	}
	w := uint64(words[0]) | uint64(words[1])<<32
	op := uint32(GetField64(w, mimgOpPos, mimgOpWidth))
	dmask := GetField64(w, mimgDMaskPos, mimgDMaskWidth)
	unorm := GetField64(w, mimgUnormPos, 1) != 0
	glc := GetField64(w, mimgGLCPos, 1) != 0
	da := GetField64(w, mimgDAPos, 1) != 0
	r128 := GetField64(w, mimgR128Pos, 1) != 0
	tfe := GetField64(w, mimgTFEPos, 1) != 0
	lwe := GetField64(w, mimgLWEPos, 1) != 0
	slc := GetField64(w, mimgSLCPos, 1) != 0
	d16 := GetField64(w, mimgD16Pos, 1) != 0
	vaddr := uint32(GetField64(w, mimgVAddrPos, mimgVAddrWidth))
	vdata := uint32(GetField64(w, mimgVDataPos, mimgVDataWidth))
	srsrc := uint32(GetField64(w, mimgSRSrcPos, mimgSRSrcWidth)) << 2
	ssamp := uint32(GetField64(w, mimgSSampPos, mimgSSampWidth)) << 2

	entries := findByPrimary(isa.MIMG, op, a)
	name := illName("image", op)
	if len(entries) > 0 {
		name = entries[0].Mnemonic
	}
	ctx := mimgOperandCtx(a)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s, %s, s[%d:%d]", name,
		operand.Print(decodeVGPR(vdata), ctx), operand.Print(decodeVGPR(vaddr), ctx), srsrc, srsrc+7)
	if ssamp != 0 {
		fmt.Fprintf(&b, ", s[%d:%d]", ssamp, ssamp+3)
	}
	fmt.Fprintf(&b, " dmask:0x%x", dmask)
	flags := []struct {
		name string
		set  bool
	}{
		{"unorm", unorm}, {"glc", glc}, {"slc", slc}, {"da", da},
		{"r128", r128}, {"tfe", tfe}, {"lwe", lwe}, {"d16", d16},
	}
	for _, f := range flags {
		if f.set {
			b.WriteByte(' ')
			b.WriteString(f.name)
		}
	}
	return DisassembleResult{Text: b.String()}, 8, nil
}

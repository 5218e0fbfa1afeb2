package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/operand"
)

// EXPCodec implements spec.md §4.4.c's export format: `exp target, vsrc0, vsrc1, vsrc2, vsrc3 [done] [compr] [vm]`.
// There is exactly one mnemonic ("exp"); target names the export slot
// (mrt0..mrt7, mrtz, pos0..pos3, param0..param31).
type EXPCodec struct{}

func exportTargetCode(text string) (uint32, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case lower == "mrtz":
		return 9, nil
	case strings.HasPrefix(lower, "mrt"):
		n, err := strconv.ParseUint(lower[3:], 10, 8)
		if err != nil || n > 7 {
			return 0, fmt.Errorf("bad export target %q", text)
		}
		return uint32(n), nil
	case strings.HasPrefix(lower, "pos"):
		n, err := strconv.ParseUint(lower[3:], 10, 8)
		if err != nil || n > 3 {
			return 0, fmt.Errorf("bad export target %q", text)
		}
		return 12 + uint32(n), nil
	case strings.HasPrefix(lower, "param"):
		n, err := strconv.ParseUint(lower[5:], 10, 8)
		if err != nil || n > 31 {
			return 0, fmt.Errorf("bad export target %q", text)
		}
		return 32 + uint32(n), nil
	}
	return 0, fmt.Errorf("unrecognized export target %q", text)
}

func exportTargetName(code uint32) string {
	switch {
	case code <= 7:
		return fmt.Sprintf("mrt%d", code)
	case code == 9:
		return "mrtz"
	case code >= 12 && code <= 15:
		return fmt.Sprintf("pos%d", code-12)
	case code >= 32 && code <= 63:
		return fmt.Sprintf("param%d", code-32)
	}
	return fmt.Sprintf("target%d", code)
}

func (EXPCodec) Assemble(req AssembleRequest) (AssembleResult, error) {
	if len(req.Operands) != 5 {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "exp wants target, vsrc0, vsrc1, vsrc2, vsrc3"}
	}
	mod, _, err := modParseClause(req)
	if err != nil {
		return AssembleResult{}, err
	}
	target, err := exportTargetCode(req.Operands[0])
	if err != nil {
		return AssembleResult{}, &gcnerr.SyntaxError{Message: "exp target", Wrapped: err}
	}
	ctx := operand.Context{FieldWidth: 8, Float: operand.FloatNone, Arch: req.Arch}
	var srcs [4]uint32
	for i := 0; i < 4; i++ {
		op, perr := operand.Parse(req.Operands[i+1], ctx)
		if perr != nil {
			return AssembleResult{}, &gcnerr.SyntaxError{Message: fmt.Sprintf("exp vsrc%d", i), Wrapped: perr}
		}
		code, verr := encodeVGPR(op)
		if verr != nil {
			return AssembleResult{}, verr
		}
		srcs[i] = code
	}

	var w uint64
	PutField64(&w, expTopPos, expTopWidth, expTopValue)
	PutField64(&w, expTargetPos, expTargetWidth, uint64(target))
	PutField64(&w, expEnPos, expEnWidth, 0xF)
	if mod.Compr {
		PutField64(&w, expComprPos, 1, 1)
	}
	if mod.Done {
		PutField64(&w, expDonePos, 1, 1)
	}
	if mod.VM {
		PutField64(&w, expVMPos, 1, 1)
	}
	PutField64(&w, expVSrc0Pos, expVSrc0Width, uint64(srcs[0]))
	PutField64(&w, expVSrc1Pos, expVSrc1Width, uint64(srcs[1]))
	PutField64(&w, expVSrc2Pos, expVSrc2Width, uint64(srcs[2]))
	PutField64(&w, expVSrc3Pos, expVSrc3Width, uint64(srcs[3]))

	return AssembleResult{Words: []uint32{uint32(w), uint32(w >> 32)}}, nil
}

func (EXPCodec) Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error) {
	if len(words) < 2 {
		return DisassembleResult{}, 0, fmt.Errorf("truncated EXP instruction")
	}
	w := uint64(words[0]) | uint64(words[1])<<32
	target := uint32(GetField64(w, expTargetPos, expTargetWidth))
	compr := GetField64(w, expComprPos, 1) != 0
	done := GetField64(w, expDonePos, 1) != 0
	vm := GetField64(w, expVMPos, 1) != 0
	s0 := uint32(GetField64(w, expVSrc0Pos, expVSrc0Width))
	s1 := uint32(GetField64(w, expVSrc1Pos, expVSrc1Width))
	s2 := uint32(GetField64(w, expVSrc2Pos, expVSrc2Width))
	s3 := uint32(GetField64(w, expVSrc3Pos, expVSrc3Width))

	ctx := operand.Context{FieldWidth: 8, Float: operand.FloatNone, Arch: a}
	text := fmt.Sprintf("exp %s, %s, %s, %s, %s", exportTargetName(target),
		operand.Print(decodeVGPR(s0), ctx), operand.Print(decodeVGPR(s1), ctx),
		operand.Print(decodeVGPR(s2), ctx), operand.Print(decodeVGPR(s3), ctx))
	if compr {
		text += " compr"
	}
	if done {
		text += " done"
	}
	if vm {
		text += " vm"
	}
	return DisassembleResult{Text: text}, 8, nil
}

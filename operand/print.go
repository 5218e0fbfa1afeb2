package operand

import (
	"fmt"
	"math"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
)

// Print is the reverse mapping of Parse (spec.md §4.3 "Print"):
// register ranges print as their canonical name, inline constants as
// their mnemonic form, and literals as hex annotated with a decoded
// float when the context's default type is a float.
func Print(op Operand, ctx Context) string {
	var body string
	if op.Range.IsLiteral() {
		body = printLiteral(op.Literal, ctx)
	} else {
		body = printRange(op.Range)
	}
	return wrapMods(body, op.Mods)
}

func wrapMods(body string, mods ModBits) string {
	if mods&ModSext != 0 {
		body = fmt.Sprintf("sext(%s)", body)
	}
	if mods&ModAbs != 0 {
		body = fmt.Sprintf("|%s|", body)
	}
	if mods&ModNeg != 0 {
		body = "-" + body
	}
	return body
}

func printRange(r Range) string {
	if r.Var != nil {
		return r.Var.Name
	}
	if name, ok := namedSpecial(r); ok {
		return name
	}
	if r.Start >= InlineIntZeroBase && r.Start < InlineIntZeroBase+65 {
		return fmt.Sprintf("%d", int(r.Start)-InlineIntZeroBase)
	}
	if r.Start >= InlineIntNegBase && r.Start < InlineIntNegBase+16 {
		return fmt.Sprintf("%d", -(int(r.Start)-InlineIntNegBase+1))
	}
	if name, ok := canonicalFloatName(r.Start); ok {
		return name
	}
	switch {
	case r.Start >= VGPRBase:
		return printFamily("v", r.Start-VGPRBase, r.End-VGPRBase)
	case r.Start >= TTMPBase && r.Start < TTMPBase+16:
		return printFamily("ttmp", r.Start-TTMPBase, r.End-TTMPBase)
	default:
		return printFamily("s", r.Start, r.End)
	}
}

func printFamily(prefix string, start, end uint16) string {
	if end-start <= 1 {
		return fmt.Sprintf("%s%d", prefix, start)
	}
	return fmt.Sprintf("%s[%d:%d]", prefix, start, end-1)
}

func namedSpecial(r Range) (string, bool) {
	switch r.Start {
	case M0:
		return "m0", true
	case VCCLo:
		if r.End == VCCHi+1 {
			return "vcc", true
		}
		return "vcc_lo", true
	case VCCHi:
		return "vcc_hi", true
	case EXECLo:
		if r.End == EXECHi+1 {
			return "exec", true
		}
		return "exec_lo", true
	case EXECHi:
		return "exec_hi", true
	case TBALo:
		return "tba_lo", true
	case TBAHi:
		return "tba_hi", true
	case TMALo:
		return "tma_lo", true
	case TMAHi:
		return "tma_hi", true
	case FlatScratchLo:
		return "flat_scratch_lo", true
	case FlatScratchHi:
		return "flat_scratch_hi", true
	case XnackMaskLo:
		return "xnack_mask_lo", true
	case XnackMaskHi:
		return "xnack_mask_hi", true
	case SharedBase:
		return "shared_base", true
	case SharedLimit:
		return "shared_limit", true
	case PrivateBase:
		return "private_base", true
	case PrivateLimit:
		return "private_limit", true
	case PopsExitingWaveID:
		return "pops_exiting_wave_id", true
	case VCCZ:
		return "vccz", true
	case EXECZ:
		return "execz", true
	case SCC:
		return "scc", true
	}
	return "", false
}

func canonicalFloatName(code uint16) (string, bool) {
	for _, cf := range arch.CanonicalFloats {
		if uint16(cf.Code) == code {
			return cf.Name, true
		}
	}
	return "", false
}

// printLiteral renders the hex form plus, for a float-typed field, an
// annotated decoded value (spec.md §4.3: "0x3d4c /* 1.3242h */").
func printLiteral(word uint32, ctx Context) string {
	hex := fmt.Sprintf("0x%x", word)
	if ctx.Float == FloatNone {
		return hex
	}
	f := float64(math.Float32frombits(word))
	if ctx.Float == Float16 {
		h := uint16(word)
		f = (1 + float64(h&0x3ff)/1024) * math.Ldexp(1, int(h>>10&0x1f)-15)
		if h&0x8000 != 0 {
			f = -f
		}
	}
	decoded := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
	return fmt.Sprintf("%s /* %sh */", hex, decoded)
}

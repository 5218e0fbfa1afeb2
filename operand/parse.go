package operand

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
)

// Parse implements the seven-case grammar of spec.md §4.3, checking
// the cases in this order: VOP operand modifier syntax (recursing with
// modifiers stripped), lit(expr) wrapper, @-prefixed expression,
// declared variable, scalar register family, vector register family,
// and numeric/float literal.
// Grounded on the teacher's Encoder.parseRegister/parseImmediate
// (encoder/encoder.go), generalized from ARM's single "R<n>" family to
// GCN's several register families plus inline-constant collapsing.
func Parse(text string, ctx Context) (Operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Operand{}, fmt.Errorf("empty operand")
	}

	// Case 7: modifier wrappers, checked first since they wrap an inner
	// expression that still has to run the other six cases.
	if mods, inner, ok := peelModifier(text); ok {
		op, err := Parse(inner, ctx)
		if err != nil {
			return Operand{}, err
		}
		op.Mods |= mods
		return op, nil
	}

	// Case 5: lit(expr) forces literal encoding.
	if inner, ok := strings.CutPrefix(text, "lit("); ok {
		inner = strings.TrimSuffix(inner, ")")
		val, err := evalExpr(strings.TrimSpace(inner))
		if err != nil {
			return Operand{}, fmt.Errorf("lit(): %w", err)
		}
		return Operand{Range: Range{Start: LiteralCode}, Literal: val}, nil
	}

	// Case 4: @-prefixed expression (an unresolved symbolic value,
	// always forced to the literal slot since its numeric value is not
	// known at parse time).
	if inner, ok := strings.CutPrefix(text, "@"); ok {
		return Operand{Range: Range{Start: LiteralCode}, Literal: 0, Mods: 0}, parseAtRefCheck(inner)
	}

	// Case 3: a previously declared register variable.
	if ctx.Vars != nil {
		if r, ok := ctx.Vars[strings.ToLower(text)]; ok {
			return Operand{Range: r}, nil
		}
	}

	// Case 1: scalar register family.
	if r, ok, err := parseScalarFamily(text, ctx.Arch); ok || err != nil {
		return Operand{Range: r}, err
	}

	// Case 2: vector register family.
	if r, ok, err := parseVectorFamily(text); ok || err != nil {
		return Operand{Range: r}, err
	}

	// Case 6: numeric or floating-point literal, with inline-constant
	// collapsing.
	return parseNumericOrFloat(text, ctx)
}

func parseAtRefCheck(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("@ expression missing operand name")
	}
	return nil
}

// peelModifier strips at most one layer of sext()/abs()/-x/|x| and
// reports the ModBits it implies. Parse recurses on the stripped text
// so nested combinations (e.g. -abs(v3)) accumulate correctly.
func peelModifier(text string) (ModBits, string, bool) {
	if inner, ok := strings.CutPrefix(text, "sext("); ok && strings.HasSuffix(inner, ")") {
		return ModSext, strings.TrimSuffix(inner, ")"), true
	}
	if inner, ok := strings.CutPrefix(text, "abs("); ok && strings.HasSuffix(inner, ")") {
		return ModAbs, strings.TrimSuffix(inner, ")"), true
	}
	if strings.HasPrefix(text, "|") && strings.HasSuffix(text, "|") && len(text) >= 2 {
		return ModAbs, text[1 : len(text)-1], true
	}
	if inner, ok := strings.CutPrefix(text, "-"); ok {
		// A bare leading "-" on a numeric literal is part of the number,
		// not a NEG modifier; only treat it as NEG when the remainder
		// names a register or another modifier wrapper.
		if looksLikeRegisterOrWrapper(inner) {
			return ModNeg, inner, true
		}
	}
	return 0, text, false
}

func looksLikeRegisterOrWrapper(s string) bool {
	switch {
	case strings.HasPrefix(s, "s") || strings.HasPrefix(s, "v"):
		return len(s) > 1 && (s[1] >= '0' && s[1] <= '9' || s[1] == '[')
	case strings.HasPrefix(s, "sext(") || strings.HasPrefix(s, "abs(") || strings.HasPrefix(s, "|"):
		return true
	default:
		return isNamedSpecial(strings.ToLower(s))
	}
}

func isNamedSpecial(lower string) bool {
	switch {
	case strings.HasPrefix(lower, "vcc"), strings.HasPrefix(lower, "exec"),
		strings.HasPrefix(lower, "tba"), strings.HasPrefix(lower, "tma"),
		strings.HasPrefix(lower, "ttmp"), strings.HasPrefix(lower, "flat_scratch"),
		strings.HasPrefix(lower, "xnack_mask"), lower == "m0",
		lower == "shared_base", lower == "shared_limit",
		lower == "private_base", lower == "private_limit",
		lower == "pops_exiting_wave_id", lower == "scc":
		return true
	}
	return false
}

// parseScalarFamily recognizes spec.md §4.3 case 1's name list.
func parseScalarFamily(text string, a arch.Arch) (Range, bool, error) {
	lower := strings.ToLower(text)
	switch {
	case lower == "m0":
		return fixed(M0, 1), true, nil
	case lower == "vcc":
		return Range{Start: VCCLo, End: VCCHi + 1}, true, nil
	case lower == "vcc_lo":
		return fixed(VCCLo, 1), true, nil
	case lower == "vcc_hi":
		return fixed(VCCHi, 1), true, nil
	case lower == "vccz":
		return fixed(VCCZ, 0), true, nil
	case lower == "execz":
		return fixed(EXECZ, 0), true, nil
	case lower == "scc":
		return fixed(SCC, 0), true, nil
	case lower == "exec":
		return Range{Start: EXECLo, End: EXECHi + 1}, true, nil
	case lower == "exec_lo":
		return fixed(EXECLo, 1), true, nil
	case lower == "exec_hi":
		return fixed(EXECHi, 1), true, nil
	case lower == "tba", lower == "tba_lo":
		return fixed(TBALo, 1), true, nil
	case lower == "tba_hi":
		return fixed(TBAHi, 1), true, nil
	case lower == "tma", lower == "tma_lo":
		return fixed(TMALo, 1), true, nil
	case lower == "tma_hi":
		return fixed(TMAHi, 1), true, nil
	case lower == "flat_scratch", lower == "flat_scratch_lo":
		if !arch.CapsFor(a).HasFlatScratch && lower == "flat_scratch_lo" {
			return Range{}, false, fmt.Errorf("flat_scratch_lo not available on %s", a)
		}
		return fixed(FlatScratchLo, 1), true, nil
	case lower == "flat_scratch_hi":
		return fixed(FlatScratchHi, 1), true, nil
	case lower == "xnack_mask", lower == "xnack_mask_lo":
		return fixed(XnackMaskLo, 1), true, nil
	case lower == "xnack_mask_hi":
		return fixed(XnackMaskHi, 1), true, nil
	case lower == "shared_base":
		return fixed(SharedBase, 1), true, nil
	case lower == "shared_limit":
		return fixed(SharedLimit, 1), true, nil
	case lower == "private_base":
		return fixed(PrivateBase, 1), true, nil
	case lower == "private_limit":
		return fixed(PrivateLimit, 1), true, nil
	case lower == "pops_exiting_wave_id":
		return fixed(PopsExitingWaveID, 1), true, nil
	case strings.HasPrefix(lower, "ttmp["):
		start, end, err := parseBracketRange(lower, "ttmp[")
		if err != nil {
			return Range{}, true, err
		}
		return Range{Start: uint16(TTMPBase) + start, End: uint16(TTMPBase) + end}, true, nil
	case strings.HasPrefix(lower, "ttmp"):
		n, err := strconv.ParseUint(lower[len("ttmp"):], 10, 16)
		if err != nil {
			return Range{}, false, nil
		}
		return fixed(TTMPBase+int(n), 1), true, nil
	case strings.HasPrefix(lower, "s["):
		start, end, err := parseBracketRange(lower, "s[")
		if err != nil {
			return Range{}, true, err
		}
		return Range{Start: start, End: end}, true, nil
	case strings.HasPrefix(lower, "s") && len(lower) > 1 && isDigit(lower[1]):
		n, err := strconv.ParseUint(lower[1:], 10, 16)
		if err != nil {
			return Range{}, false, nil
		}
		if int(n) >= arch.CapsFor(a).MaxSGPR {
			return Range{}, true, fmt.Errorf("s%d exceeds max SGPR count on %s", n, a)
		}
		return fixed(int(n), 1), true, nil
	}
	return Range{}, false, nil
}

// parseVectorFamily recognizes spec.md §4.3 case 2's "v<n>"/"v[n:m]".
func parseVectorFamily(text string) (Range, bool, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "v["):
		start, end, err := parseBracketRange(lower, "v[")
		if err != nil {
			return Range{}, true, err
		}
		return Range{Start: uint16(VGPRBase) + start, End: uint16(VGPRBase) + end}, true, nil
	case strings.HasPrefix(lower, "v") && len(lower) > 1 && isDigit(lower[1]):
		n, err := strconv.ParseUint(lower[1:], 10, 16)
		if err != nil {
			return Range{}, false, nil
		}
		return fixed(VGPRBase+int(n), 1), true, nil
	}
	return Range{}, false, nil
}

// parseBracketRange parses "prefix<n>:<m>]" into a half-open [n, m+1)
// range relative to the family's base (caller adds the base offset).
func parseBracketRange(lower, prefix string) (uint16, uint16, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(lower, prefix), "]")
	parts := strings.SplitN(body, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed register range %q", lower)
	}
	lo, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed register range %q: %w", lower, err)
	}
	hi, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed register range %q: %w", lower, err)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("malformed register range %q: end before start", lower)
	}
	return uint16(lo), uint16(hi) + 1, nil
}

// fixed builds a width-register range at start. Width 0 builds a fixed
// code marker (inline constant, vccz/execz/scc): Start=code, End=0.
func fixed(start, width int) Range {
	if width == 0 {
		return Range{Start: uint16(start)}
	}
	return Range{Start: uint16(start), End: uint16(start + width)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseNumericOrFloat implements spec.md §4.3 parse constraint 4: an
// integer in -16..64 or one of the nine canonical floats collapses to
// an inline-constant code; everything else becomes a 32-bit literal.
func parseNumericOrFloat(text string, ctx Context) (Operand, error) {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		if i >= -16 && i <= 64 {
			return Operand{Range: fixed(inlineIntCode(i), 0)}, nil
		}
		return Operand{Range: Range{Start: LiteralCode}, Literal: uint32(int32(i))}, nil
	}
	if u, err := strconv.ParseUint(text, 0, 64); err == nil {
		if u <= 64 {
			return Operand{Range: fixed(inlineIntCode(int64(u)), 0)}, nil
		}
		return Operand{Range: Range{Start: LiteralCode}, Literal: uint32(u)}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Operand{}, fmt.Errorf("not a register, inline constant, or literal: %q", text)
	}
	if code, ok := canonicalFloatCode(f, ctx); ok {
		return Operand{Range: fixed(code, 0)}, nil
	}
	if ctx.BuggyCompat && f == 0 {
		// spec.md §4.3: in buggy-compat mode, a float-typed 0 collapses
		// to the same inline code as the integer 0, not just integer
		// literals.
		return Operand{Range: fixed(inlineIntCode(0), 0)}, nil
	}
	return Operand{Range: Range{Start: LiteralCode}, Literal: floatBitsForContext(f, ctx)}, nil
}

// inlineIntCode maps -16..64 to the fixed SRC codes 193..208 / 128..192.
func inlineIntCode(i int64) int {
	if i < 0 {
		return InlineIntNegBase + int(-i) - 1
	}
	return InlineIntZeroBase + int(i)
}

// canonicalFloatCode matches f against the nine canonical floats for
// the context's default float width, per spec.md §4.3's width-
// sensitive collapsing rule.
func canonicalFloatCode(f float64, ctx Context) (int, bool) {
	for _, cf := range arch.CanonicalFloats {
		if cf.Code == arch.InlineConstOneOverTwoPi && !ctx.acceptsOneOverTwoPi() {
			continue
		}
		if f == cf.F64 {
			return cf.Code, true
		}
	}
	return 0, false
}

func floatBitsForContext(f float64, ctx Context) uint32 {
	switch ctx.Float {
	case Float16:
		return uint32(float16Bits(f))
	case Float64:
		return uint32(math.Float64bits(f) >> 32) // high word only; caller owns low word
	default:
		return math.Float32bits(float32(f))
	}
}

// float16Bits is a minimal round-to-nearest FP32->FP16 conversion,
// sufficient for literal printing/round-tripping of assembler-supplied
// half constants; it does not need to handle subnormal edge cases with
// hardware precision since FP16 literals are rare outside VOP3P.
func float16Bits(f float64) uint16 {
	bits := math.Float32bits(float32(f))
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff
	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1f:
		return sign | 0x7c00
	default:
		return sign | uint16(exp)<<10 | uint16(mant>>13)
	}
}

// evalExpr evaluates a simple literal expression for lit(...); GCN
// assembly expressions here are plain integers (hex, decimal, or
// negative) since symbolic arithmetic resolves through the pending-
// target mechanism instead.
func evalExpr(text string) (uint32, error) {
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot evaluate %q: %w", text, err)
	}
	return uint32(int32(i)), nil
}

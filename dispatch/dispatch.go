// Package dispatch is the DISPATCH component spec.md §2 and §4.6
// describe: the single entry point that resolves a mnemonic (or a raw
// instruction word) to the right ENCODING codec and calls it. Every
// codec in package encoding is fully self-contained but otherwise
// unreachable; dispatch is what wires mnemonic text and leading-bit
// patterns to a concrete isa.Entry + encoding.Codec pair, the way the
// teacher's encoder.Encoder.Encode switch picks an encodeFn by
// mnemonic and the teacher's disassembler picks a decode path by
// leading opcode bits.
package dispatch

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/encoding"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/operand"
)

// registry maps a final (post-promotion) encoding class to the codec
// that implements it. SDWA/DPP are not here: they share VOP2/VOP1/
// VOPC's class slot and are selected separately, since which codec
// applies depends on more than the class alone.
var registry = map[isa.EncodingClass]encoding.Codec{
	isa.SOP2:    encoding.SOP2Codec{},
	isa.SOP1:    encoding.SOP1Codec{},
	isa.SOPK:    encoding.SOPKCodec{},
	isa.SOPC:    encoding.SOPCCodec{},
	isa.SOPP:    encoding.SOPPCodec{},
	isa.SMRD:    encoding.SMRDCodec{},
	isa.SMEM:    encoding.SMEMCodec{},
	isa.VOP2:    encoding.VOP2Codec{},
	isa.VOP1:    encoding.VOP1Codec{},
	isa.VOPC:    encoding.VOPCCodec{},
	isa.VINTRP:  encoding.VINTRPCodec{},
	isa.VOP3A:   encoding.VOP3ACodec{},
	isa.VOP3B:   encoding.VOP3BCodec{},
	isa.VOP3P:   encoding.VOP3PCodec{},
	isa.DS:      encoding.DSCodec{},
	isa.MUBUF:   encoding.MUBUFCodec{MTBUF: false},
	isa.MTBUF:   encoding.MUBUFCodec{MTBUF: true},
	isa.MIMG:    encoding.MIMGCodec{},
	isa.EXP:     encoding.EXPCodec{},
	isa.FLAT:    encoding.NewFlatCodec(isa.FLAT),
	isa.GLOBAL:  encoding.NewFlatCodec(isa.GLOBAL),
	isa.SCRATCH: encoding.NewFlatCodec(isa.SCRATCH),
}

// Assemble resolves mnemonic (after stripping any _e32/_e64/_dpp/_sdwa
// suffix) against the instruction table, decides the final encoding
// class via encoding.Promote, and calls that class's codec. log is
// optional and receives any gcnerr.Warning the codec reports (field
// truncation and the like); pass nil to discard them.
func Assemble(mnemonic string, operands []string, modifierText string, a arch.Arch, pc uint32, log *zap.Logger) (encoding.AssembleResult, error) {
	base, prefWidth, prefVOP := isa.SplitSuffix(mnemonic)
	candidates := isa.Lookup(base, a)
	if len(candidates) == 0 {
		return encoding.AssembleResult{}, &gcnerr.SemanticError{
			Message: fmt.Sprintf("unknown mnemonic %q on %s", base, a),
		}
	}
	entry := candidates[0]
	class := resolveClass(entry, operands, modifierText, a, prefWidth, prefVOP)
	codec := codecFor(class, prefVOP, modifierText)
	if codec == nil {
		return encoding.AssembleResult{}, &gcnerr.SemanticError{
			Message: fmt.Sprintf("%s has no codec for encoding class %s", base, class),
		}
	}
	req := encoding.AssembleRequest{
		Entry:        entry,
		Operands:     operands,
		ModifierText: modifierText,
		Arch:         a,
		PC:           pc,
		Logger:       log,
	}
	return codec.Assemble(req)
}

// resolveClass decides, for a mnemonic whose table row is one of the
// VOP2/VOP1/VOPC/VINTRP short forms, whether it stays short-form or
// promotes to VOP3A/VOP3B per spec.md §4.4's three promotion rules
// (encoding.Promote). Every other class is already final.
func resolveClass(entry isa.Entry, operandsText []string, modifierText string, a arch.Arch, prefWidth isa.PreferredWidth, prefVOP isa.PreferredVOP) isa.EncodingClass {
	switch entry.Class {
	case isa.VOP2, isa.VOP1, isa.VOPC, isa.VINTRP:
	default:
		return entry.Class
	}
	ctx := operand.Context{FieldWidth: 9, Float: operand.FloatNone, Arch: a}
	parsed := make([]operand.Operand, 0, len(operandsText))
	for _, t := range operandsText {
		if op, err := operand.Parse(t, ctx); err == nil {
			parsed = append(parsed, op)
		}
	}
	return encoding.Promote(encoding.PromotionCandidate{
		Entry:        entry,
		Operands:     parsed,
		ModifierText: modifierText,
		Arch:         a,
		PreferWidth:  prefWidth,
		PreferVOP:    prefVOP,
	})
}

// codecFor resolves class (and, for the short forms, the SDWA/DPP
// override) to a concrete Codec.
func codecFor(class isa.EncodingClass, prefVOP isa.PreferredVOP, modifierText string) encoding.Codec {
	switch class {
	case isa.VOP2, isa.VOP1, isa.VOPC:
		switch {
		case prefVOP == isa.VOPSDWA || strings.Contains(modifierText, "sdwa"):
			return encoding.SDWACodec{Base: class}
		case prefVOP == isa.VOPDPP || strings.Contains(modifierText, "dpp"):
			return encoding.DPPCodec{Base: class}
		}
	}
	return registry[class]
}

// ClassifyWord reads a raw word0's leading bits and names the
// encoding class it belongs to, per spec.md §4.6's dispatch rule:
// bit31=0 selects the VOP2/VOP1/VOPC family (split by bits30:25);
// bits31:30="10" selects the scalar family, split by the 7-bit
// selector at bits29:23 into SOP1/SOPC/SOPP/SOP2; SOPK shares that
// same "10" top-level prefix and a 0xB nibble at bits31:28 with
// SOP1/SOPC/SOPP (whose selector also begins "11"), so the 7-bit
// selector is checked first and SOPK is only reached when none of
// 0x7D/0x7E/0x7F matched; bits31:30="11" selects the two-word
// family, split by a 6-bit value at bits31:26 (with SMRD, which only
// exists pre-GCN1.2 and uses a narrower 5-bit value, checked first
// since GCN1.2+'s SMEM/EXP otherwise occupy the same 5-bit prefix).
// VOP3A/VOP3B and FLAT/GLOBAL/SCRATCH need a further look at the word
// to fully resolve; ClassifyWord returns the coarser VOP3A/FLAT tag
// for those and leaves the refinement to Disassemble.
func ClassifyWord(word0 uint32, a arch.Arch) (isa.EncodingClass, bool) {
	if word0>>31 == 0 {
		switch (word0 >> 25) & 0x3F {
		case 0x3F:
			return isa.VOP1, true
		case 0x3E:
			return isa.VOPC, true
		default:
			return isa.VOP2, true
		}
	}
	if (word0>>30)&0x3 != 0x3 {
		switch (word0 >> 23) & 0x7F {
		case 0x7D:
			return isa.SOP1, true
		case 0x7E:
			return isa.SOPC, true
		case 0x7F:
			return isa.SOPP, true
		}
		if (word0>>28)&0xF == 0xB {
			return isa.SOPK, true
		}
		return isa.SOP2, true
	}
	if !arch.CapsFor(a).HasSMEM && (word0>>27)&0x1F == 0x18 {
		return isa.SMRD, true
	}
	switch (word0 >> 26) & 0x3F {
	case 0x30:
		return isa.SMEM, true
	case 0x34:
		return isa.VOP3A, true // refined by ClassifyVOP3 in Disassemble
	case 0x36:
		return isa.DS, true
	case 0x38:
		return isa.MUBUF, true
	case 0x3A:
		return isa.MTBUF, true
	case 0x3C:
		return isa.MIMG, true
	case 0x31:
		return isa.EXP, true
	case 0x37:
		return isa.FLAT, true // refined by ClassifyFlatSegment in Disassemble
	case 0x32:
		return isa.VINTRP, true
	}
	return 0, false
}

// Disassemble classifies words[0]'s leading bits, resolves any
// coarse class to its final codec (VOP3A/B/P, FLAT/GLOBAL/SCRATCH,
// SDWA/DPP), and decodes.
func Disassemble(words []uint32, a arch.Arch) (encoding.DisassembleResult, int, error) {
	if len(words) == 0 {
		return encoding.DisassembleResult{}, 0, fmt.Errorf("no words to decode")
	}
	class, ok := ClassifyWord(words[0], a)
	if !ok {
		return encoding.DisassembleResult{}, 0, fmt.Errorf("unrecognized instruction word 0x%08x", words[0])
	}
	switch class {
	case isa.VOP3A:
		class = encoding.ClassifyVOP3(words[0], a)
	case isa.FLAT:
		class = encoding.ClassifyFlatSegment(words[0])
	case isa.VOP2, isa.VOP1, isa.VOPC:
		switch encoding.VOPSrc0Field(words[0]) {
		case encoding.SDWASentinel:
			return encoding.SDWACodec{Base: class}.Disassemble(words, a)
		case encoding.DPPSentinel:
			return encoding.DPPCodec{Base: class}.Disassemble(words, a)
		}
	}
	codec, ok := registry[class]
	if !ok || codec == nil {
		return encoding.DisassembleResult{}, 0, fmt.Errorf("no codec registered for %s", class)
	}
	return codec.Disassemble(words, a)
}

// SizeOf returns the byte length of the instruction at the front of
// words, the size oracle a splitter needs to chop a flat word stream
// into individual instructions. It runs the full Disassemble and
// discards the text, so each instruction is decoded to text on the way.
func SizeOf(words []uint32, a arch.Arch) (int, error) {
	_, n, err := Disassemble(words, a)
	return n, err
}

// Package encoding implements the ENCODING component of spec.md §4.4:
// one codec per wire format, sharing a single bit-field read/write
// driver. Grounded on the teacher's `vm`-package shift-constant + mask
// idiom (vm/arch_constants.go's ConditionShift, Mask4Bit, ...),
// generalized from one constant per ARM field to a runtime-
// parameterized (position, width) pair, since GCN has far more
// distinct field shapes than ARM's condition/opcode/register nibbles.
package encoding

import (
	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
	"github.com/lookbusy1344/gcnasm/modifier"
	"go.uber.org/zap"
)

// modParseClause is the shared modifier.Parse entry point every codec
// file calls, so the (class-specific gating, pending-target) wiring
// lives in one place.
func modParseClause(req AssembleRequest) (modifier.Clause, []modifier.Pending, error) {
	if req.ModifierText == "" {
		return modifier.Clause{}, nil, nil
	}
	return modifier.Parse(req.ModifierText, req.Arch, req.Entry.Class)
}

// PutField writes value's low width bits into word at bit position pos.
func PutField(word *uint32, pos, width int, value uint32) {
	mask := uint32(1)<<width - 1
	*word &^= mask << pos
	*word |= (value & mask) << pos
}

// GetField reads a width-bit field out of word at bit position pos.
func GetField(word uint32, pos, width int) uint32 {
	mask := uint32(1)<<width - 1
	return (word >> pos) & mask
}

// PutField64 is PutField over a 64-bit word, used by SMEM/FLAT/DS
// two-word layouts that treat both words as one logical field space.
func PutField64(word *uint64, pos, width int, value uint64) {
	mask := uint64(1)<<width - 1
	*word &^= mask << pos
	*word |= (value & mask) << pos
}

// GetField64 reads a width-bit field out of a 64-bit word at pos.
func GetField64(word uint64, pos, width int) uint64 {
	mask := uint64(1)<<width - 1
	return (word >> pos) & mask
}

// AssembleRequest is everything a Codec needs to encode one instruction
// (spec.md §9's "tagged-variant encoder descriptor" note: the dispatcher
// already resolved the table row; the codec only encodes).
type AssembleRequest struct {
	Entry        isa.Entry
	Operands     []string
	ModifierText string
	Arch         arch.Arch
	PC           uint32
	// Logger receives gcnerr.Warning reports (truncated offsets,
	// out-of-range fields). Nil-safe: a codec that never truncates
	// anything never has to check it.
	Logger *zap.Logger
}

// warn reports w through req.Logger if one is set.
func (req AssembleRequest) warn(message string) {
	gcnerr.Warning{Message: message}.Log(req.Logger)
}

// AssembleResult is the encoded byte-pair plus any pending splice
// targets the host driver must patch once deferred expressions resolve.
type AssembleResult struct {
	Words   []uint32
	Extra   []byte
	Pending []gcnerr.PendingTarget
}

// DisassembleResult is one printed instruction line.
type DisassembleResult struct {
	Text string
}

// Codec is the shared encode/decode contract every encoding-class file
// implements (spec.md §4.4's "All encoders share a single driver").
type Codec interface {
	Assemble(req AssembleRequest) (AssembleResult, error)
	Disassemble(words []uint32, a arch.Arch) (DisassembleResult, int, error)
}

// LiteralSentinel is the SRC-field value meaning "a 32-bit literal
// follows in the next word" (spec.md §3).
const LiteralSentinel = 0xFF

// SDWASentinel and DPPSentinel are the src0 values that redirect a
// VOP2/VOP1/VOPC word to a following SDWA/DPP sub-word (spec.md §4.4.d).
const (
	SDWASentinel = 0xF9
	DPPSentinel  = 0xFA
)

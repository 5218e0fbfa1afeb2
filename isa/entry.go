// Package isa holds the static instruction table: one entry per legal
// (mnemonic, encoding-class) pair, fused at init time so a single
// lookup reaches every encoding a mnemonic can reach on a given
// architecture. Grounded on the teacher's encoder.Encoder mnemonic
// switch (encoder/encoder.go), generalized from a Go switch statement
// into data because GCN's mnemonic space is far larger and each
// mnemonic may resolve to more than one encoding class.
package isa

import "github.com/lookbusy1344/gcnasm/arch"

// EncodingClass names one of the wire formats spec.md §4.4 describes.
type EncodingClass int

// The ordering here matters beyond readability: fuse() sorts same-
// mnemonic rows by (Mnemonic, Class) and folds a later VOP3A/VOP3B row
// into the first qualifying earlier row for that mnemonic. VINTRP therefore must
// sort before VOP3A/VOP3B so a VINTRP "short form" row survives as the
// fusion target, with the VOP3-promoted opcode landing in its Secondary
// field — never the other way around.
const (
	SOP2 EncodingClass = iota
	SOP1
	SOPK
	SOPC
	SOPP
	SMRD
	SMEM
	VOP2
	VOP1
	VOPC
	VINTRP
	VOP3A
	VOP3B
	VOP3P
	DS
	MUBUF
	MTBUF
	MIMG
	EXP
	FLAT
	GLOBAL
	SCRATCH
)

func (c EncodingClass) String() string {
	names := [...]string{
		"SOP2", "SOP1", "SOPK", "SOPC", "SOPP", "SMRD", "SMEM",
		"VOP2", "VOP1", "VOPC", "VINTRP", "VOP3A", "VOP3B", "VOP3P",
		"DS", "MUBUF", "MTBUF", "MIMG", "EXP", "FLAT", "GLOBAL", "SCRATCH",
	}
	if int(c) < 0 || int(c) >= len(names) {
		return "EncodingClass(?)"
	}
	return names[c]
}

// ModeFlags carries semantic hints the encoder driver and dispatcher
// need without re-deriving them from the mnemonic text each time.
type ModeFlags uint32

const (
	ModeIsLoad ModeFlags = 1 << iota
	ModeIsStore
	ModeIsAtomic
	ModeAllowsClamp
	ModeAllowsOpSel
	ModeAllowsOMod
	ModeDestWide  // destination occupies 2+ registers (e.g. 64-bit dest)
	ModeSrcWide   // a source occupies 2+ registers
	ModeIsBranch  // SOPK/SOPP PC-relative branch
	ModeIsCall
	ModeIsEnd
	ModeVOP3BForm // promotes with an extra SDST (div_scale, add_co, ...)
)

// Entry is one row of the static instruction table.
type Entry struct {
	Mnemonic  string
	Class     EncodingClass
	Mode      ModeFlags
	Primary   uint32
	Secondary uint32 // filled by the VOP3/VINTRP fusion pass; 0 = unfused
	ArchMask  uint8
}

// HasSecondary reports whether the fusion pass promoted this entry with
// a VOP3/VINTRP secondary opcode. Fused-opcode-0 is indistinguishable
// from unfused; no GCN mnemonic in this table's VOP3 promotion actually
// lands on opcode 0, so this is not a practical ambiguity.
func (e Entry) HasSecondary() bool { return e.Secondary != 0 }

// LegalOn reports whether e is available on a.
func (e Entry) LegalOn(a arch.Arch) bool {
	return e.ArchMask&a.Mask() != 0
}

// Package modifier implements the MODIFIERS component of spec.md
// §4.5: parsing and printing the trailing modifier clause, and the
// per-modifier architecture/encoding-class gating that turns an
// out-of-generation modifier into a semantic error. Grounded on the
// teacher's Encoder.parseShift (encoder/encoder.go) — a small
// whitespace-tokenized clause parser dispatching by keyword — widened
// from ARM's single shift-suffix grammar to GCN's much larger set of
// named flags, bracketed arrays, and compound functions.
package modifier

import (
	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
)

// Format names the MTBUF data/number format pair used on architectures
// before GCN1.5's single 7-bit format field.
type Format struct {
	DFmt uint8
	NFmt uint8
	Raw7 uint8 // GCN1.5 7-bit combined field; valid when RawSet
	RawSet bool
}

// Dim names one of MIMG's eight GCN1.5 dimensions.
type Dim uint8

const (
	Dim1D Dim = iota
	Dim2D
	Dim3D
	DimCube
	Dim1DArray
	Dim2DArray
	Dim2DMsaa
	Dim2DMsaaArray
)

// SDWASel names an SDWA byte/word/dword source or destination select.
type SDWASel uint8

const (
	SelByte0 SDWASel = iota
	SelByte1
	SelByte2
	SelByte3
	SelWord0
	SelWord1
	SelDWord
)

// HwReg is the decoded hwreg(id, offset, width) tuple SOPK's
// s_getreg/s_setreg carry (spec.md §4.4.a).
type HwReg struct {
	ID     uint8
	Offset uint8
	Width  uint8 // stored as width-1 on the wire; this field is the real width
}

// SendMsg is the decoded sendmsg(message[, gs_op[, stream]]) tuple.
type SendMsg struct {
	Message uint8
	GSOp    uint8
	Stream  uint8
	HasGSOp bool
	HasStream bool
}

// Waitcnt is the three-counter composite of spec.md §3's "Waitcnt
// composite" note. Widths vary by architecture; see Encode/Decode.
type Waitcnt struct {
	VMCnt   uint8
	EXPCnt  uint8
	LGKMCnt uint8
}

// Clause is every modifier spec.md §4.4/§4.5 names, one optional field
// each; nil/zero means "not present, use default". Print emits in the
// stable order spec.md §6 requires: destination-side, then source-
// side, then flags.
type Clause struct {
	GLC *bool
	SLC *bool
	DLC *bool

	Offset     *int32
	OffsetSGPR bool
	InstOffset *int32

	DMask *uint8
	Format *Format
	Dim    *Dim

	DstSel  *SDWASel
	Src0Sel *SDWASel
	Src1Sel *SDWASel

	RowShl  *uint8
	RowShr  *uint8
	RowRor  *uint8
	WaveShl *uint8
	WaveShr *uint8
	WaveRol *uint8
	WaveRor *uint8
	RowMirror      bool
	RowHalfMirror  bool
	RowBcast15     bool
	RowBcast31     bool

	QuadPerm  *[4]uint8
	BankMask  *uint8
	RowMask   *uint8
	BoundCtrl bool

	OpSel   *[4]bool
	OpSelHi *[4]bool
	NegLo   *[4]bool
	NegHi   *[4]bool

	Abs   bool
	Neg   bool
	Sext  bool
	Clamp bool

	Mul  *uint8
	Div  *uint8
	OMod *uint8

	Compr bool
	VM    bool
	Done  bool
	TFE   bool
	LDS   bool
	NV    bool
	High  bool
	VOP3  bool
	SDWA  bool
	DPP   bool

	OffEn bool
	IdxEn bool
	Addr64 bool
	Unorm bool
	DA    bool
	R128  bool
	LWE   bool
	D16   bool
	A16   bool
	GDS   bool

	HwReg   *HwReg
	SendMsg *SendMsg
	Waitcnt *Waitcnt
}

// gate reports a semantic error when a modifier is used outside its
// legal architecture/encoding-class combination. Parse checks gates
// through requireGate for dlc, nv, sdwa, dpp, op_sel, op_sel_hi and dim
// only; the other Clause fields are set without one.
type gate struct {
	name    string
	allowed func(arch.Arch, isa.EncodingClass) bool
}

func gcn14Plus(a arch.Arch, _ isa.EncodingClass) bool { return arch.CapsFor(a).HasOpSel }
func gcn12Plus(a arch.Arch, _ isa.EncodingClass) bool { return arch.IsGCN12OrLater(a) }
func gcn15Only(a arch.Arch, _ isa.EncodingClass) bool { return arch.CapsFor(a).HasDimField }

func classIs(want isa.EncodingClass) func(arch.Arch, isa.EncodingClass) bool {
	return func(_ arch.Arch, c isa.EncodingClass) bool { return c == want }
}

func classIn(classes ...isa.EncodingClass) func(arch.Arch, isa.EncodingClass) bool {
	return func(_ arch.Arch, c isa.EncodingClass) bool {
		for _, want := range classes {
			if c == want {
				return true
			}
		}
		return false
	}
}

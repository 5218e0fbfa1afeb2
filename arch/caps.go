package arch

// Caps is the capability mask derived from an Arch. Every other
// component reads Caps instead of branching on the Arch value directly,
// per the "architecture as a value" design note: genuinely different
// wire formats (SMRD vs SMEM) still switch on Arch, but everything else
// switches on a capability.
type Caps struct {
	HasSMEM         bool // SMEM replaces SMRD (GCN1.2+)
	HasSDWA         bool // VOP_SDWA sub-word encoding
	HasDPP          bool // VOP_DPP cross-lane encoding
	HasFlatScratch  bool // FLAT SCRATCH sub-mode
	HasGlobal       bool // FLAT GLOBAL sub-mode
	HasVOP3P        bool // packed 16-bit VOP3P encoding
	HasOpSel        bool // op_sel / op_sel_hi modifiers
	HasDimField     bool // MIMG dim: modifier (GCN1.5)
	HasSGPRUnaligned bool // GCN1.2+ relaxed 2-SGPR alignment rule
	HasExtraSDWAVOPC bool // GCN1.4 non-VGPR src0/src1 via extra SDWA bits
	HasSMEMNV       bool // GCN1.4 nv + separate immediate/SGPR offset
	HasSCallB64     bool // GCN1.4+ s_call_b64
	TTMPCount       int  // number of TTMP registers
	MaxSGPR         int  // highest legal SGPR count (exclusive)
}

// CapsFor returns the capability set for a.
func CapsFor(a Arch) Caps {
	c := Caps{
		TTMPCount: 12,
		MaxSGPR:   104,
	}
	switch a {
	case GCN10, GCN11:
		// base case already correct: no SMEM, no SDWA/DPP, no VOP3P.
	case GCN12:
		c.HasSMEM = true
		c.HasSDWA = true
		c.HasDPP = true
		c.HasSGPRUnaligned = true
	case GCN14, GCN141:
		c.HasSMEM = true
		c.HasSDWA = true
		c.HasDPP = true
		c.HasSGPRUnaligned = true
		c.HasFlatScratch = true
		c.HasGlobal = true
		c.HasVOP3P = true
		c.HasOpSel = true
		c.TTMPCount = 16
		c.HasExtraSDWAVOPC = true
		c.HasSMEMNV = true
		c.HasSCallB64 = true
	case GCN15:
		c.HasSMEM = true
		c.HasSDWA = true
		c.HasDPP = true
		c.HasSGPRUnaligned = true
		c.HasFlatScratch = true
		c.HasGlobal = true
		c.HasVOP3P = true
		c.HasOpSel = true
		c.HasDimField = true
		c.TTMPCount = 16
		c.HasExtraSDWAVOPC = true
		c.HasSMEMNV = true
		c.HasSCallB64 = true
	}
	return c
}

// IsGCN12OrLater reports whether a has the GCN1.2 SMEM/SDWA/DPP baseline.
func IsGCN12OrLater(a Arch) bool { return a >= GCN12 }

// HasSDWA reports whether a supports the VOP_SDWA sub-word encoding.
func HasSDWA(a Arch) bool { return CapsFor(a).HasSDWA }

// HasOpSel reports whether a supports op_sel/op_sel_hi.
func HasOpSel(a Arch) bool { return CapsFor(a).HasOpSel }

// HasFlatScratch reports whether a supports the FLAT SCRATCH sub-mode.
func HasFlatScratch(a Arch) bool { return CapsFor(a).HasFlatScratch }

// TTMPCount returns the number of trap-temporary registers on a.
func TTMPCount(a Arch) int { return CapsFor(a).TTMPCount }

// MaxSGPR returns the exclusive upper bound of legal SGPR numbers on a.
func MaxSGPR(a Arch) int { return CapsFor(a).MaxSGPR }

// AcceptsInlineOneOverTwoPi reports whether the 1/(2*pi) inline constant
// is recognized for the given default float type width (16, 32 or 64).
func AcceptsInlineOneOverTwoPi(a Arch, floatWidth int) bool {
	return floatWidth == 16 || floatWidth == 32 || floatWidth == 64
}

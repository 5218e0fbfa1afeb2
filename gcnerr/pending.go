package gcnerr

// TargetKind names how a later-resolved integer must be spliced into
// already-emitted bytes, per spec.md §3's "Pending expression target".
type TargetKind int

const (
	TargetLiteralDWord  TargetKind = iota // full 32-bit literal word
	TargetSOPKBranch                      // 16-bit signed (target-pc-4)>>2
	TargetSOPCImmByte                     // SOPC 8-bit immediate
	TargetSMRDOffsetU8                    // SMRD 8-bit unsigned byte offset
	TargetSMEMOffsetU20                    // SMEM 20-bit unsigned
	TargetSMEMOffsetS21                    // SMEM 21-bit signed
	TargetDSOffset16                      // DS 16-bit offset
	TargetDSOffsetSplit8x2                 // DS two packed 8-bit offsets
	TargetMUBUFOffset12                   // MUBUF/MTBUF 12-bit offset
	TargetFlatOffset12U                   // FLAT 12-bit unsigned inst_offset
	TargetFlatOffset13S                   // FLAT 13-bit signed inst_offset
	TargetFlatOffset11U                   // SCRATCH 11-bit unsigned inst_offset
)

func (k TargetKind) String() string {
	names := [...]string{
		"LiteralDWord", "SOPKBranch", "SOPCImmByte", "SMRDOffsetU8",
		"SMEMOffsetU20", "SMEMOffsetS21", "DSOffset16", "DSOffsetSplit8x2",
		"MUBUFOffset12", "FlatOffset12U", "FlatOffset13S", "FlatOffset11U",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "TargetKind(?)"
	}
	return names[k]
}

// PendingTarget records where a not-yet-resolved value must be spliced
// once the host driver resolves the expression that produced it. The
// core has already emitted zero-filled placeholder bits at ByteOffset.
type PendingTarget struct {
	ByteOffset int
	Kind       TargetKind
}

package encoding

// Bit-field positions for every encoding class's base word(s). The
// VOP3, SDWA, DPP, DS, MUBUF, MIMG, EXP and FLAT/GLOBAL/SCRATCH blocks
// below each name the GCNAsmEncode1.cpp/GCNAsmEncode2.cpp bit-packing
// formula they are grounded on (see DESIGN.md). The remaining positions
// carry no such citation; MTBUF shares MUBUF's layout and VOP3P's
// op_sel/op_sel_hi/neg_hi are not wired (see the notes at those blocks).
const (
	scalarTopPos, scalarTopWidth = 30, 2 // 0b10 for SOP2/SOP1/SOPC/SOPP
	scalarTopValue               = 0x2

	sop2SelectorPos, sop2SelectorWidth = 23, 7
	sop2OpPos, sop2OpWidth             = 23, 7
	sop2SDSTPos, sop2SDSTWidth         = 16, 7
	sop2SSrc1Pos, sop2SSrc1Width       = 8, 8
	sop2SSrc0Pos, sop2SSrc0Width       = 0, 8

	sop1Selector = 0x7D
	sop1SDSTPos, sop1SDSTWidth = 16, 7
	sop1OpPos, sop1OpWidth     = 8, 8
	sop1SSrc0Pos, sop1SSrc0Width = 0, 8

	sopcSelector = 0x7E
	sopcOpPos, sopcOpWidth     = 16, 7
	sopcSSrc1Pos, sopcSSrc1Width = 8, 8
	sopcSSrc0Pos, sopcSSrc0Width = 0, 8

	sopkTopPos, sopkTopWidth = 28, 4 // 0b1011
	sopkTopValue             = 0xB
	sopkOpPos, sopkOpWidth   = 23, 5
	sopkSDSTPos, sopkSDSTWidth = 16, 7
	sopkSimm16Pos, sopkSimm16Width = 0, 16

	soppSelector = 0x7F
	soppOpPos, soppOpWidth     = 16, 7
	soppSimm16Pos, soppSimm16Width = 0, 16

	// VOP2/VOP1/VOPC share the word0 shape below, distinguished by the
	// fixed bits at 30:25 when bit31=0 (spec.md §4.6's dispatch rule).
	vopBit31Pos = 31
	vop2OpPos, vop2OpWidth   = 25, 6
	vop1FixedBits            = 0x3F // bits30:25 == 0b111111 selects VOP1
	vopcFixedBits            = 0x3E // bits30:25 == 0b111110 selects VOPC
	vop1OpPos, vop1OpWidth   = 9, 8
	vopcOpPos, vopcOpWidth   = 17, 8
	vopVDstPos, vopVDstWidth = 17, 8
	vopSrc1Pos, vopSrc1Width = 9, 8
	vopSrc0Pos, vopSrc0Width = 0, 9

	// VOP3 family: fixed 0b110100 prefix at bits31:26, then a 10-bit OP
	// field and a two-word layout shared by VOP3A/VOP3B/VOP3P/VINTRP's
	// promoted form. Grounded on GCNAsmEncode1.cpp's parseVOP3Encoding
	// (the GCN1.2+ branch: word0 = 0xd0000000 | code<<16 | dst |
	// abs0<<8|abs1<<9|abs2<<10 | clamp<<15; word1 = src0 | src1<<9 |
	// src2<<18 | omod<<27 | neg0<<29|neg1<<30|neg2<<31). Neg lives in
	// word1 for every VOP3 class, including VOP3P's neg_lo.
	vop3Prefix                = 0x34
	vop3PrefixPos, vop3PrefixWidth = 26, 6
	vop3OpPos, vop3OpWidth     = 16, 10
	vop3aVDstPos, vop3aVDstWidth = 0, 8
	vop3aAbsPos, vop3aAbsWidth   = 8, 3
	vop3aClampPos                = 15
	vop3bSDstPos, vop3bSDstWidth = 8, 7 // VOP3B repurposes word0's high bits as a second (SGPR-pair) destination

	vop3Src0Pos, vop3Src0Width = 0, 9
	vop3Src1Pos, vop3Src1Width = 9, 9
	vop3Src2Pos, vop3Src2Width = 18, 9
	vop3OModPos, vop3OModWidth = 27, 2
	vop3NegPos, vop3NegWidth   = 29, 3 // word1: neg0/neg1/neg2 (VOP3P: neg_lo)

	// VOP3P's op_sel/op_sel_hi/neg_hi are parsed by MODIFIERS but not
	// wired into the wire format: word0's abs0/abs1/abs2 slot (bits8-10)
	// carries neg_hi instead for VOP3P, and no seed scenario exercises
	// packed op_sel, so this is scoped out rather than guessed at.

	// SDWA sub-word (word1 following a VOP2/VOP1/VOPC word whose SRC0
	// was the 0xF9 sentinel). Grounded on GCNAsmEncode1.cpp's
	// encodeVOPWords SDWA branch: word1 = src0 | dstSel<<8 |
	// dstUnused<<11 | clamp<<13 | (modifiers&3)<<14 | src0Sel<<16 |
	// sext0<<19 | neg0<<20 | abs0<<21 | nonVGPR0<<23 | src1Sel<<24 |
	// sext1<<27 | neg1<<28 | abs1<<29 | nonVGPR1<<31.
	sdwaSrc0Pos, sdwaSrc0Width       = 0, 8
	sdwaDstSelPos, sdwaDstSelWidth   = 8, 3
	sdwaDstUnusedPos, sdwaDstUnusedWidth = 11, 2
	sdwaClampPos                     = 13
	sdwaSrc0SelPos, sdwaSrc0SelWidth = 16, 3
	sdwaSrc0SextPos                  = 19
	sdwaSrc0NegPos                   = 20
	sdwaSrc0AbsPos                   = 21
	sdwaSrc1SelPos, sdwaSrc1SelWidth = 24, 3
	sdwaSrc1SextPos                  = 27
	sdwaSrc1NegPos                   = 28
	sdwaSrc1AbsPos                   = 29

	// DPP sub-word. Grounded on the same function's DPP branch: word1 =
	// src0 | dppCtrl<<8 | boundCtrl<<19 | neg0<<20 | abs0<<21 | neg1<<22 |
	// abs1<<23 | bankMask<<24 | rowMask<<28.
	dppCtrlPos, dppCtrlWidth   = 8, 9
	dppBoundCtrlPos            = 19
	dppBankMaskPos, dppBankMaskWidth = 24, 4
	dppRowMaskPos, dppRowMaskWidth   = 28, 4

	// SMRD (32-bit, pre-GCN1.2). Top field is 5 bits (27..31) so it
	// doesn't collide with the 5-bit op field below it (22..26), and its
	// value's top two bits are "11" per spec.md §4.6's dispatch rule
	// (SMRD/SMEM share the "11" family with VOP3/DS/MUBUF/MIMG/EXP/FLAT).
	smrdTopPos, smrdTopWidth = 27, 5
	smrdTopValue             = 0x18
	smrdOpPos, smrdOpWidth   = 22, 5
	smrdSDstPos, smrdSDstWidth = 15, 7
	smrdSBasePos, smrdSBaseWidth = 9, 6
	smrdImmPos                 = 8
	smrdOffsetPos, smrdOffsetWidth = 0, 8

	// SMEM (64-bit, GCN1.2+).
	smemTopPos, smemTopWidth = 26, 6
	smemTopValue             = 0x30
	smemOpPos, smemOpWidth   = 18, 8
	smemSDataPos, smemSDataWidth = 6, 8
	smemSBasePos, smemSBaseWidth = 0, 6
	smemGLCPos                 = 16
	smemImmPos                 = 17
	smemOffsetPos, smemOffsetWidth = 32, 21 // lives in word1

	// DS (two-word). Grounded on GCNAsmEncode1.cpp's DS word builder
	// (GCN1.2+ branch): word0 = 0xd8000000 | offset | gds<<16 | code1<<17.
	dsTopPos, dsTopWidth = 26, 6
	dsTopValue           = 0x36
	dsOpPos, dsOpWidth   = 17, 9
	dsGDSPos             = 16
	dsOffset0Pos, dsOffset0Width = 0, 8
	dsOffset1Pos, dsOffset1Width = 8, 8
	dsAddrPos, dsAddrWidth       = 32, 8
	dsData0Pos, dsData0Width     = 40, 8
	dsData1Pos, dsData1Width     = 48, 8
	dsVDstPos, dsVDstWidth       = 56, 8

	// MUBUF/MTBUF (two-word). Grounded on GCNAsmEncode2.cpp's MUBUF
	// branch (GCN1.2, pre-GCN1.5): word0 = 0xe0000000 | offset |
	// offen<<12 | idxen<<13 | glc<<14 | lds<<16 | slc<<17 | code1<<18;
	// word1 = vaddr | vdata<<8 | (srsrc>>2)<<16 | tfe<<23 | soffset<<24.
	mubufTopPos, mubufTopWidth = 26, 6
	mubufTopValue              = 0x38
	mtbufTopValue              = 0x3A
	mubufOpPos, mubufOpWidth   = 18, 8
	mubufOffsetPos, mubufOffsetWidth = 0, 12
	mubufOffenPos              = 12
	mubufIdxenPos              = 13
	mubufGLCPos                = 14
	mubufAddr64Pos             = 15
	mubufLDSPos                = 16
	mubufSLCPos                = 17
	mubufVAddrPos, mubufVAddrWidth = 32, 8
	mubufVDataPos, mubufVDataWidth = 40, 8
	mubufSRSrcPos, mubufSRSrcWidth = 48, 6
	mubufTFEPos                = 55
	mubufSOffsetPos, mubufSOffsetWidth = 56, 8
	// MTBUF's own code/format fields sit at different bit positions than
	// MUBUF's (code1<<15 plus a dfmt/nfmt or packed-format field above
	// it) and its SLC flag moves to word1 bit22 instead of word0 bit17;
	// reproducing that distinct shape is scoped out in favor of sharing
	// MUBUF's word layout, so MTBUF's numeric format field parses/prints
	// via MODIFIERS only and isn't wired into the wire format (DESIGN.md).

	// MIMG (two-word, optional trailing VADDR bytes on GCN1.5). Grounded
	// on GCNAsmEncode2.cpp's parseMIMGEncoding: word0 = 0xf0000000 |
	// dmask<<8 | unorm<<12 | glc<<13 | da<<14 | r128<<15 | tfe<<16 |
	// lwe<<17 | code1<<18 | slc<<25.
	mimgTopPos, mimgTopWidth = 26, 6
	mimgTopValue             = 0x3C
	mimgOpPos, mimgOpWidth   = 18, 7
	mimgDMaskPos, mimgDMaskWidth = 8, 4
	mimgUnormPos             = 12
	mimgGLCPos               = 13
	mimgDAPos                = 14
	mimgR128Pos              = 15
	mimgTFEPos               = 16
	mimgLWEPos               = 17
	mimgSLCPos               = 25
	mimgVAddrPos, mimgVAddrWidth = 32, 8
	mimgVDataPos, mimgVDataWidth = 40, 8
	mimgSRSrcPos, mimgSRSrcWidth = 48, 5
	mimgSSampPos, mimgSSampWidth = 53, 5
	mimgD16Pos               = 63

	// EXP (two-word; the vsrc fields live in word1). Grounded on GCNAsmEncode2.cpp's parseEXPEncoding:
	// word0 = 0xc4000000 (GCN1.2+; pre-GCN1.2 uses 0xf8000000 instead,
	// scoped out since this codec targets the unified GCN1.2+ shape) |
	// enMask | target<<4 | compr<<10 | done<<11 | vm<<12.
	expTopPos, expTopWidth = 26, 6
	expTopValue            = 0x31
	expEnPos, expEnWidth   = 0, 4
	expTargetPos, expTargetWidth = 4, 6
	expComprPos            = 10
	expDonePos             = 11
	expVMPos               = 12
	expVSrc0Pos, expVSrc0Width = 32, 8
	expVSrc1Pos, expVSrc1Width = 40, 8
	expVSrc2Pos, expVSrc2Width = 48, 8
	expVSrc3Pos, expVSrc3Width = 56, 8

	// FLAT/GLOBAL/SCRATCH (two-word). Grounded on GCNAsmEncode2.cpp's
	// parseFLATEncoding: word0 = 0xdc000000 | instOffset | lds<<13 |
	// seg<<14 | glc<<16 | slc<<17 | op<<18 | dlc<<12.
	flatTopPos, flatTopWidth = 26, 6
	flatTopValue             = 0x37
	flatSegPos, flatSegWidth = 14, 2 // 0=FLAT, 1=SCRATCH, 2=GLOBAL
	flatOpPos, flatOpWidth   = 18, 8
	flatGLCPos               = 16
	flatSLCPos               = 17
	flatLDSPos               = 13
	flatAddrPos, flatAddrWidth = 32, 8
	flatDataPos, flatDataWidth = 40, 8
	flatSAddrPos, flatSAddrWidth = 48, 7
	flatVDstPos, flatVDstWidth   = 56, 8
	flatInstOffsetPos, flatInstOffsetWidth = 0, 12
)

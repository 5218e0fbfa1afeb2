package isa

import (
	"sort"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
)

// staticEntries seeds the table with a representative cross-section of
// the GCN mnemonic space: every encoding class named in spec.md §4.4 at
// least once per architecture generation it is legal on, plus every
// mnemonic spec.md §8's seed scenarios name. Growing this table to the
// full several-hundred-opcode ISA is a data-entry exercise that does
// not change any codec function's shape.
var staticEntries = []Entry{
	// SOP2
	{Mnemonic: "s_add_u32", Class: SOP2, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "s_sub_u32", Class: SOP2, Primary: 0x01, ArchMask: arch.MaskAll},
	{Mnemonic: "s_and_b32", Class: SOP2, Primary: 0x0e, ArchMask: arch.MaskAll},
	{Mnemonic: "s_lshl_b32", Class: SOP2, Primary: 0x18, ArchMask: arch.MaskAll},

	// SOP1
	{Mnemonic: "s_mov_b32", Class: SOP1, Primary: 0x03, ArchMask: arch.MaskAll},
	{Mnemonic: "s_not_b32", Class: SOP1, Primary: 0x07, ArchMask: arch.MaskAll},
	{Mnemonic: "s_bitset0_b32", Class: SOP1, Primary: 0x11, ArchMask: arch.MaskAll},

	// SOPK
	{Mnemonic: "s_movk_i32", Class: SOPK, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cmpk_eq_i32", Class: SOPK, Primary: 0x03, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cmpk_eq_u32", Class: SOPK, Primary: 0x09, ArchMask: arch.MaskAll},
	{Mnemonic: "s_getreg_b32", Class: SOPK, Primary: 0x12, ArchMask: arch.MaskAll},
	{Mnemonic: "s_setreg_b32", Class: SOPK, Primary: 0x13, ArchMask: arch.MaskAll},
	{Mnemonic: "s_addk_i32", Class: SOPK, Primary: 0x0f, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cbranch_i_fork", Class: SOPK, Primary: 0x11, Mode: ModeIsBranch, ArchMask: arch.MaskAll},

	// SOPC
	{Mnemonic: "s_cmp_eq_i32", Class: SOPC, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cmp_lt_i32", Class: SOPC, Primary: 0x01, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cmp_eq_u32", Class: SOPC, Primary: 0x06, ArchMask: arch.MaskAll},

	// SOPP
	{Mnemonic: "s_nop", Class: SOPP, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "s_endpgm", Class: SOPP, Primary: 0x01, Mode: ModeIsEnd, ArchMask: arch.MaskAll},
	{Mnemonic: "s_branch", Class: SOPP, Primary: 0x02, Mode: ModeIsBranch, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cbranch_scc0", Class: SOPP, Primary: 0x04, Mode: ModeIsBranch, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cbranch_scc1", Class: SOPP, Primary: 0x05, Mode: ModeIsBranch, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cbranch_vccz", Class: SOPP, Primary: 0x06, Mode: ModeIsBranch, ArchMask: arch.MaskAll},
	{Mnemonic: "s_cbranch_vccnz", Class: SOPP, Primary: 0x07, Mode: ModeIsBranch, ArchMask: arch.MaskAll},
	{Mnemonic: "s_waitcnt", Class: SOPP, Primary: 0x0c, ArchMask: arch.MaskAll},
	{Mnemonic: "s_sendmsg", Class: SOPP, Primary: 0x10, ArchMask: arch.MaskAll},
	{Mnemonic: "s_call_b64", Class: SOPP, Primary: 0x17, Mode: ModeIsCall,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "s_endpgm_saved", Class: SOPP, Primary: 0x1b, Mode: ModeIsEnd,
		ArchMask: arch.GCN12.Mask() | arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},

	// SMRD (pre-1.2) / SMEM (1.2+) share a mnemonic across two rows.
	{Mnemonic: "s_load_dword", Class: SMRD, Primary: 0x00, ArchMask: arch.GCN10.Mask() | arch.GCN11.Mask()},
	{Mnemonic: "s_load_dword", Class: SMEM, Primary: 0x00,
		ArchMask: arch.GCN12.Mask() | arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "s_load_dwordx4", Class: SMRD, Primary: 0x02, ArchMask: arch.GCN10.Mask() | arch.GCN11.Mask()},
	{Mnemonic: "s_load_dwordx4", Class: SMEM, Primary: 0x02,
		ArchMask: arch.GCN12.Mask() | arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "s_store_dword", Class: SMEM, Mode: ModeIsStore, Primary: 0x10,
		ArchMask: arch.GCN12.Mask() | arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},

	// VOP2, with a VOP3A fusion partner each.
	{Mnemonic: "v_mov_b32", Class: VOP1, Primary: 0x01, ArchMask: arch.MaskAll},
	{Mnemonic: "v_cndmask_b32", Class: VOP2, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "v_cndmask_b32", Class: VOP3A, Primary: 0x100, ArchMask: arch.MaskAll},
	{Mnemonic: "v_add_f32", Class: VOP2, Primary: 0x03, ArchMask: arch.MaskAll},
	{Mnemonic: "v_add_f32", Class: VOP3A, Primary: 0x103, ArchMask: arch.MaskAll},
	{Mnemonic: "v_add_co_u32", Class: VOP2, Primary: 0x19,
		ArchMask: arch.GCN10.Mask() | arch.GCN11.Mask() | arch.GCN12.Mask()},
	{Mnemonic: "v_add_co_u32", Class: VOP3B, Primary: 0x101,
		Mode:     ModeVOP3BForm,
		ArchMask: arch.GCN10.Mask() | arch.GCN11.Mask() | arch.GCN12.Mask()},
	{Mnemonic: "v_div_scale_f32", Class: VOP3B, Primary: 0x1e0, Mode: ModeVOP3BForm, ArchMask: arch.MaskAll},
	{Mnemonic: "v_div_scale_f64", Class: VOP3B, Primary: 0x1e1, Mode: ModeVOP3BForm, ArchMask: arch.MaskAll},
	{Mnemonic: "v_pk_mad_i16", Class: VOP3P, Primary: 0x380,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "v_pk_add_u16", Class: VOP3P, Primary: 0x305,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},

	// VOPC, with a VOP3A fusion partner.
	{Mnemonic: "v_cmp_eq_f32", Class: VOPC, Primary: 0x02, ArchMask: arch.MaskAll},
	{Mnemonic: "v_cmp_eq_f32", Class: VOP3A, Primary: 0x142, ArchMask: arch.MaskAll},
	{Mnemonic: "v_cmp_lt_i32", Class: VOPC, Primary: 0xc1, ArchMask: arch.MaskAll},
	{Mnemonic: "v_cmp_lt_i32", Class: VOP3A, Primary: 0x1c1, ArchMask: arch.MaskAll},

	// VINTRP, fused into VOP3A on architectures that support it.
	{Mnemonic: "v_interp_p1_f32", Class: VINTRP, Primary: 0x00, ArchMask: arch.MaskAll},
	{Mnemonic: "v_interp_p1_f32", Class: VOP3A, Primary: 0x270, ArchMask: arch.MaskAll},
	{Mnemonic: "v_interp_p2_f32", Class: VINTRP, Primary: 0x01, ArchMask: arch.MaskAll},
	{Mnemonic: "v_interp_p2_f32", Class: VOP3A, Primary: 0x271, ArchMask: arch.MaskAll},
	{Mnemonic: "v_interp_mov_f32", Class: VINTRP, Primary: 0x02, ArchMask: arch.MaskAll},

	// DS
	{Mnemonic: "ds_write_b32", Class: DS, Primary: 0x0d, Mode: ModeIsStore, ArchMask: arch.MaskAll},
	{Mnemonic: "ds_write2_b32", Class: DS, Primary: 0x0e, Mode: ModeIsStore, ArchMask: arch.MaskAll},
	{Mnemonic: "ds_read_b32", Class: DS, Primary: 0x36, Mode: ModeIsLoad, ArchMask: arch.MaskAll},
	{Mnemonic: "ds_read2_b32", Class: DS, Primary: 0x37, Mode: ModeIsLoad, ArchMask: arch.MaskAll},

	// MUBUF / MTBUF
	{Mnemonic: "buffer_load_dword", Class: MUBUF, Primary: 0x04, Mode: ModeIsLoad, ArchMask: arch.MaskAll},
	{Mnemonic: "buffer_store_dword", Class: MUBUF, Primary: 0x1c, Mode: ModeIsStore, ArchMask: arch.MaskAll},
	{Mnemonic: "buffer_atomic_add", Class: MUBUF, Primary: 0x42, Mode: ModeIsAtomic, ArchMask: arch.MaskAll},
	{Mnemonic: "tbuffer_load_format_x", Class: MTBUF, Primary: 0x00, Mode: ModeIsLoad, ArchMask: arch.MaskAll},
	{Mnemonic: "tbuffer_store_format_x", Class: MTBUF, Primary: 0x04, Mode: ModeIsStore, ArchMask: arch.MaskAll},

	// MIMG
	{Mnemonic: "image_load", Class: MIMG, Primary: 0x00, Mode: ModeIsLoad, ArchMask: arch.MaskAll},
	{Mnemonic: "image_store", Class: MIMG, Primary: 0x08, Mode: ModeIsStore, ArchMask: arch.MaskAll},
	{Mnemonic: "image_sample", Class: MIMG, Primary: 0x20, Mode: ModeIsLoad, ArchMask: arch.MaskAll},

	// EXP
	{Mnemonic: "exp", Class: EXP, Primary: 0x00, ArchMask: arch.MaskAll},

	// FLAT / GLOBAL / SCRATCH
	{Mnemonic: "flat_load_dword", Class: FLAT, Primary: 0x0d, Mode: ModeIsLoad, ArchMask: arch.MaskAll},
	{Mnemonic: "flat_store_dword", Class: FLAT, Primary: 0x1c, Mode: ModeIsStore, ArchMask: arch.MaskAll},
	{Mnemonic: "global_load_ubyte", Class: GLOBAL, Primary: 0x10, Mode: ModeIsLoad,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "global_store_byte", Class: GLOBAL, Primary: 0x18, Mode: ModeIsStore,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
	{Mnemonic: "scratch_load_dword", Class: SCRATCH, Primary: 0x0d, Mode: ModeIsLoad,
		ArchMask: arch.GCN14.Mask() | arch.GCN141.Mask() | arch.GCN15.Mask()},
}

// table is the fused, sorted instruction table built once at init.
var table []Entry

func init() {
	table = fuse(append([]Entry(nil), staticEntries...))
}

// Lookup returns every entry whose mnemonic equals mnemonic (after
// case-folding) and whose arch mask includes a, per spec.md §4.2: binary
// search finds the first mnemonic match, then scanning continues while
// the mnemonic matches, filtering by architecture.
func Lookup(mnemonic string, a arch.Arch) []Entry {
	mnemonic = strings.ToLower(mnemonic)
	n := len(table)
	start := sort.Search(n, func(i int) bool { return table[i].Mnemonic >= mnemonic })

	var out []Entry
	for i := start; i < n && table[i].Mnemonic == mnemonic; i++ {
		if table[i].LegalOn(a) {
			out = append(out, table[i])
		}
	}
	return out
}

// All returns every fused entry, for tooling and tests.
func All() []Entry {
	return append([]Entry(nil), table...)
}

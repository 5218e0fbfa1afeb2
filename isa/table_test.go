package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
)

func TestLookupFindsEveryClassOnce(t *testing.T) {
	entries := Lookup("s_add_u32", arch.GCN12)
	require.Len(t, entries, 1)
	assert.Equal(t, SOP2, entries[0].Class)
	assert.Equal(t, uint32(0x00), entries[0].Primary)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	entries := Lookup("S_ADD_U32", arch.GCN12)
	require.Len(t, entries, 1)
}

func TestSMRDSMEMSplitByArch(t *testing.T) {
	old := Lookup("s_load_dword", arch.GCN11)
	require.Len(t, old, 1)
	assert.Equal(t, SMRD, old[0].Class)

	newer := Lookup("s_load_dword", arch.GCN12)
	require.Len(t, newer, 1)
	assert.Equal(t, SMEM, newer[0].Class)
}

func TestVOP3FusionReachesBothFormsInOneLookup(t *testing.T) {
	entries := Lookup("v_cndmask_b32", arch.GCN12)
	require.Len(t, entries, 1)
	assert.Equal(t, VOP2, entries[0].Class)
	assert.Equal(t, uint32(0x00), entries[0].Primary)
	assert.Equal(t, uint32(0x100), entries[0].Secondary)
}

func TestVOP3BFusionSetsVOP3BMode(t *testing.T) {
	entries := Lookup("v_add_co_u32", arch.GCN12)
	require.Len(t, entries, 1)
	assert.NotZero(t, entries[0].Mode&ModeVOP3BForm)
}

func TestVINTRPFusionReachesVOP3(t *testing.T) {
	entries := Lookup("v_interp_p1_f32", arch.GCN12)
	require.Len(t, entries, 1)
	assert.Equal(t, VINTRP, entries[0].Class)
	assert.Equal(t, uint32(0x270), entries[0].Secondary)
}

func TestUnknownMnemonicReturnsNothing(t *testing.T) {
	assert.Empty(t, Lookup("not_a_real_mnemonic", arch.GCN12))
}

func TestArchGating(t *testing.T) {
	assert.Empty(t, Lookup("global_load_ubyte", arch.GCN10))
	assert.NotEmpty(t, Lookup("global_load_ubyte", arch.GCN14))
}

func TestSplitSuffix(t *testing.T) {
	base, width, vop := SplitSuffix("v_add_f32_e32")
	assert.Equal(t, "v_add_f32", base)
	assert.Equal(t, Width32, width)
	assert.Equal(t, VOPNormal, vop)

	base, width, vop = SplitSuffix("v_add_f32_dpp")
	assert.Equal(t, "v_add_f32", base)
	assert.Equal(t, WidthUnknown, width)
	assert.Equal(t, VOPDPP, vop)
}

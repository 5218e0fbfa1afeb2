package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
)

// seedScenarios mirrors the six worked examples every encoding class must
// reproduce bit-exact: mixed word-count (one vs. two words), mixed
// architecture revision, and a case (global_load_ubyte) that only exists
// from GCN1.4 on.
var seedScenarios = []struct {
	name  string
	arch  arch.Arch
	words []uint32
	size  int
	text  string
}{
	{"s_add_u32", arch.GCN12, []uint32{0x80153d04, 0x00000000}, 4, "s_add_u32 s21, s4, s61"},
	{"s_waitcnt", arch.GCN12, []uint32{0xbf8c0d36, 0x00000000}, 4, "s_waitcnt vmcnt(6) & expcnt(3) & lgkmcnt(13)"},
	{"v_div_scale_f32", arch.GCN12, []uint32{0xd1e02537, 0x07974d4f}, 8, "v_div_scale_f32 v55, s[37:38], v79, v166, v229"},
	{"v_cndmask_b32 (sdwa)", arch.GCN12, []uint32{0x0134d6f9, 0x0000003d}, 8, "v_cndmask_b32 v154, v61, v107 dst_sel:byte0 src0_sel:byte0 src1_sel:byte0"},
	{"v_pk_mad_i16", arch.GCN14, []uint32{0xd3804037, 0x1f974d4f}, 8, "v_pk_mad_i16 v55, v79, v166, v229"},
	{"global_load_ubyte", arch.GCN14, []uint32{0xdc438000, 0x2f3100bb}, 8, "global_load_ubyte v47, v187, s[49:50] glc slc"},
}

func TestDisassembleSeedScenarios(t *testing.T) {
	for _, s := range seedScenarios {
		t.Run(s.name, func(t *testing.T) {
			res, n, err := Disassemble(s.words, s.arch)
			require.NoError(t, err)
			assert.Equal(t, s.size, n)
			assert.Equal(t, s.text, res.Text)
		})
	}
}

func TestClassifyWordDoesNotConfuseSOPPWithSOPK(t *testing.T) {
	// s_waitcnt's selector bits happen to share SOPK's 0xB top nibble;
	// the 7-bit SOP1/SOPC/SOPP selector must be checked first.
	class, ok := ClassifyWord(0xbf8c0d36, arch.GCN12)
	require.True(t, ok)
	assert.Equal(t, isa.SOPP, class)
}

func TestClassifyWordFindsRealSOPK(t *testing.T) {
	// s_cbranch_i_fork-style SOPK still classifies correctly once SOPP's
	// carve-out is no longer eating its prefix: any 0xB word whose 7-bit
	// selector isn't 0x7D/0x7E/0x7F is SOPK.
	w := uint32(0xB0000000) // bits31:28 = 1011, bits27:23 = 0 (not 0x7D/0x7E/0x7F)
	class, ok := ClassifyWord(w, arch.GCN12)
	require.True(t, ok)
	assert.Equal(t, isa.SOPK, class)
}

func TestAssembleRoundTripsScalarAndVOP3(t *testing.T) {
	cases := []struct {
		name      string
		arch      arch.Arch
		mnemonic  string
		operands  []string
		words     []uint32
	}{
		{"s_add_u32", arch.GCN12, "s_add_u32", []string{"s21", "s4", "s61"}, []uint32{0x80153d04}},
		{"v_div_scale_f32", arch.GCN12, "v_div_scale_f32", []string{"v55", "s[37:38]", "v79", "v166", "v229"}, []uint32{0xd1e02537, 0x07974d4f}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := Assemble(c.mnemonic, c.operands, "", c.arch, 0, nil)
			require.NoError(t, err)
			assert.Equal(t, c.words, res.Words)
		})
	}
}

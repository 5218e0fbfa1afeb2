package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
)

func TestVOP3BDisassembleDivScale(t *testing.T) {
	res, n, err := VOP3BCodec{}.Disassemble([]uint32{0xd1e02537, 0x07974d4f}, arch.GCN12)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "v_div_scale_f32 v55, s[37:38], v79, v166, v229", res.Text)
}

func TestVOP3PDisassemblePackedMad(t *testing.T) {
	res, n, err := VOP3PCodec{}.Disassemble([]uint32{0xd3804037, 0x1f974d4f}, arch.GCN14)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "v_pk_mad_i16 v55, v79, v166, v229", res.Text)
}

func TestClassifyVOP3DistinguishesBAndP(t *testing.T) {
	assert.Equal(t, classifyFor(t, 0xd1e02537, arch.GCN12), "VOP3B")
	assert.Equal(t, classifyFor(t, 0xd3804037, arch.GCN14), "VOP3P")
}

func classifyFor(t *testing.T, word0 uint32, a arch.Arch) string {
	t.Helper()
	return ClassifyVOP3(word0, a).String()
}

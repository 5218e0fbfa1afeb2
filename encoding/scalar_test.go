package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
)

func TestSOP2DisassembleAddU32(t *testing.T) {
	res, n, err := SOP2Codec{}.Disassemble([]uint32{0x80153d04, 0x00000000}, arch.GCN12)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "s_add_u32 s21, s4, s61", res.Text)
}

func TestSOPPDisassembleWaitcnt(t *testing.T) {
	res, n, err := SOPPCodec{}.Disassemble([]uint32{0xbf8c0d36, 0x00000000}, arch.GCN12)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "s_waitcnt vmcnt(6) & expcnt(3) & lgkmcnt(13)", res.Text)
}

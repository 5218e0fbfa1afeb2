package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
)

func TestParseBareFlags(t *testing.T) {
	c, pending, err := Parse("glc slc tfe", arch.GCN12, isa.MUBUF)
	require.NoError(t, err)
	assert.Empty(t, pending)
	require.NotNil(t, c.GLC)
	assert.True(t, *c.GLC)
	require.NotNil(t, c.SLC)
	assert.True(t, *c.SLC)
	assert.True(t, c.TFE)
}

func TestParseOffsetNumeric(t *testing.T) {
	c, _, err := Parse("offset:123", arch.GCN12, isa.MUBUF)
	require.NoError(t, err)
	require.NotNil(t, c.Offset)
	assert.EqualValues(t, 123, *c.Offset)
}

func TestParseOffsetDeferred(t *testing.T) {
	c, pending, err := Parse("offset:@label", arch.GCN12, isa.MUBUF)
	require.NoError(t, err)
	assert.Nil(t, c.Offset)
	require.Len(t, pending, 1)
	assert.Equal(t, "offset", pending[0].Field)
}

func TestParseHwReg(t *testing.T) {
	c, _, err := Parse("hwreg(1,0,5)", arch.GCN12, isa.SOPK)
	require.NoError(t, err)
	require.NotNil(t, c.HwReg)
	assert.Equal(t, HwReg{ID: 1, Offset: 0, Width: 5}, *c.HwReg)
}

func TestParseSendMsg(t *testing.T) {
	c, _, err := Parse("sendmsg(2,3)", arch.GCN12, isa.SOPP)
	require.NoError(t, err)
	require.NotNil(t, c.SendMsg)
	assert.Equal(t, uint8(2), c.SendMsg.Message)
	assert.True(t, c.SendMsg.HasGSOp)
	assert.Equal(t, uint8(3), c.SendMsg.GSOp)
}

func TestParseSDWASelectors(t *testing.T) {
	c, _, err := Parse("dst_sel:byte0 src0_sel:byte0 src1_sel:byte0", arch.GCN12, isa.VOP2)
	require.NoError(t, err)
	require.NotNil(t, c.DstSel)
	assert.Equal(t, SelByte0, *c.DstSel)
}

func TestParseOpSelGatedByArch(t *testing.T) {
	_, _, err := Parse("op_sel:[1,0,1,1]", arch.GCN12, isa.VOP3A)
	assert.Error(t, err)

	c, _, err := Parse("op_sel:[1,0,1,1]", arch.GCN14, isa.VOP3A)
	require.NoError(t, err)
	require.NotNil(t, c.OpSel)
	assert.Equal(t, [4]bool{true, false, true, true}, *c.OpSel)
}

func TestModifierIdempotence(t *testing.T) {
	clauses := []string{
		"glc slc",
		"offset:123",
		"dst_sel:byte0 src0_sel:byte0 src1_sel:byte0",
	}
	for _, text := range clauses {
		c1, _, err := Parse(text, arch.GCN12, isa.VOP2)
		require.NoError(t, err)
		printed := Print(c1)
		c2, _, err := Parse(printed, arch.GCN12, isa.VOP2)
		require.NoError(t, err)
		assert.Equal(t, c1, c2)
	}
}

func TestWaitcntRoundTrip(t *testing.T) {
	w, err := ParseWaitcnt("vmcnt(6) & expcnt(3) & lgkmcnt(13)")
	require.NoError(t, err)
	assert.Equal(t, Waitcnt{VMCnt: 6, EXPCnt: 3, LGKMCnt: 13}, w)

	payload := Encode(w, arch.GCN12)
	assert.Equal(t, uint16(0x0d36), payload)

	decoded := Decode(payload, arch.GCN12)
	assert.Equal(t, w, decoded)
}

func TestWaitcntWideVMCnt(t *testing.T) {
	w := Waitcnt{VMCnt: 0x3f, EXPCnt: 0, LGKMCnt: 0}
	payload := Encode(w, arch.GCN14)
	decoded := Decode(payload, arch.GCN14)
	assert.Equal(t, w, decoded)
}

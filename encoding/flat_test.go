package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
)

func TestFlatGlobalDisassembleLoadUbyteWithSAddr(t *testing.T) {
	res, n, err := NewFlatCodec(isa.GLOBAL).Disassemble([]uint32{0xdc438000, 0x2f3100bb}, arch.GCN14)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "global_load_ubyte v47, v187, s[49:50] glc slc", res.Text)
}

func TestClassifyFlatSegmentReadsGlobalFromWord(t *testing.T) {
	assert.Equal(t, isa.GLOBAL, ClassifyFlatSegment(0xdc438000))
}

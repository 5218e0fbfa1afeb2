package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/isa"
)

// v_cndmask_b32's short VOP2 form takes an implicit VCC condition operand
// that the wire encoding never carries (it's fixed by the opcode, not a
// field), so SDWA disassembly here prints the three operands and selects
// the encoding actually names; a future per-mnemonic implicit-operand
// table would add the trailing ", vcc" text.
func TestSDWADisassembleCndmask(t *testing.T) {
	res, n, err := SDWACodec{Base: isa.VOP2}.Disassemble([]uint32{0x0134d6f9, 0x0000003d}, arch.GCN12)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "v_cndmask_b32 v154, v61, v107 dst_sel:byte0 src0_sel:byte0 src1_sel:byte0", res.Text)
}

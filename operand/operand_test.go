package operand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gcnasm/arch"
)

func ctx32() Context { return Context{FieldWidth: 9, Float: Float32, Arch: arch.GCN12} }

func TestParseScalarSingle(t *testing.T) {
	op, err := Parse("s5", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 5, End: 6}, op.Range)
}

func TestParseScalarRange(t *testing.T) {
	op, err := Parse("s[4:7]", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 4, End: 8}, op.Range)
}

func TestParseVectorSingle(t *testing.T) {
	op, err := Parse("v12", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: VGPRBase + 12, End: VGPRBase + 13}, op.Range)
}

func TestParseVCCNames(t *testing.T) {
	op, err := Parse("vcc", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: VCCLo, End: VCCHi + 1}, op.Range)

	op, err = Parse("vcc_lo", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: VCCLo, End: VCCLo + 1}, op.Range)
}

func TestParseInlineIntPositive(t *testing.T) {
	op, err := Parse("42", ctx32())
	require.NoError(t, err)
	assert.True(t, op.Range.IsInlineConstant())
	assert.Equal(t, uint16(InlineIntZeroBase+42), op.Range.Start)
}

func TestParseInlineIntNegative(t *testing.T) {
	op, err := Parse("-16", ctx32())
	require.NoError(t, err)
	assert.Equal(t, uint16(InlineIntNegBase+15), op.Range.Start)
}

func TestParseOutOfRangeIntBecomesLiteral(t *testing.T) {
	op, err := Parse("100", ctx32())
	require.NoError(t, err)
	assert.True(t, op.Range.IsLiteral())
	assert.Equal(t, uint32(100), op.Literal)
}

func TestParseCanonicalFloat(t *testing.T) {
	op, err := Parse("0.5", ctx32())
	require.NoError(t, err)
	assert.Equal(t, uint16(arch.InlineConstHalf), op.Range.Start)

	op, err = Parse("-1.0", ctx32())
	require.NoError(t, err)
	assert.Equal(t, uint16(arch.InlineConstNegOne), op.Range.Start)
}

func TestParseModifierAbs(t *testing.T) {
	op, err := Parse("abs(v3)", ctx32())
	require.NoError(t, err)
	assert.Equal(t, Range{Start: VGPRBase + 3, End: VGPRBase + 4}, op.Range)
	assert.NotZero(t, op.Mods&ModAbs)
}

func TestParseModifierPipeAbs(t *testing.T) {
	op, err := Parse("|v3|", ctx32())
	require.NoError(t, err)
	assert.NotZero(t, op.Mods&ModAbs)
}

func TestParseModifierNeg(t *testing.T) {
	op, err := Parse("-v3", ctx32())
	require.NoError(t, err)
	assert.NotZero(t, op.Mods&ModNeg)
	assert.Equal(t, Range{Start: VGPRBase + 3, End: VGPRBase + 4}, op.Range)
}

func TestParseModifierSext(t *testing.T) {
	op, err := Parse("sext(s7)", ctx32())
	require.NoError(t, err)
	assert.NotZero(t, op.Mods&ModSext)
}

func TestParseLiteralExpr(t *testing.T) {
	op, err := Parse("lit(0x1234)", ctx32())
	require.NoError(t, err)
	assert.True(t, op.Range.IsLiteral())
	assert.Equal(t, uint32(0x1234), op.Literal)
}

func TestParseDeclaredVariable(t *testing.T) {
	ctx := ctx32()
	ctx.Vars = map[string]Range{"mydst": {Start: VGPRBase + 9, End: VGPRBase + 10}}
	op, err := Parse("mydst", ctx)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: VGPRBase + 9, End: VGPRBase + 10}, op.Range)
}

func TestPrintRoundTripsScalarAndVector(t *testing.T) {
	ctx := ctx32()
	for _, text := range []string{"s5", "s[4:7]", "v12", "vcc"} {
		op, err := Parse(text, ctx)
		require.NoError(t, err)
		assert.Equal(t, text, Print(op, ctx))
	}
}

func TestPrintLiteralAnnotatesFloat(t *testing.T) {
	ctx := ctx32()
	op, err := Parse("200", ctx)
	require.NoError(t, err)
	out := Print(op, ctx)
	assert.Contains(t, out, "0x")
	assert.Contains(t, out, "/*")
}

func TestAlignmentOK(t *testing.T) {
	assert.True(t, Range{Start: 4, End: 6}.AlignmentOK(false))
	assert.False(t, Range{Start: 5, End: 7}.AlignmentOK(false))
	assert.True(t, Range{Start: 5, End: 7}.AlignmentOK(true))
	assert.True(t, Range{Start: 8, End: 12}.AlignmentOK(false))
	assert.False(t, Range{Start: 6, End: 10}.AlignmentOK(false))
}

package modifier

import (
	"fmt"
	"strings"
)

// Print renders c in the stable destination/source/flags order spec.md
// §6 requires, omitting every field left at its default (nil/false/zero).
func Print(c Clause) string {
	var parts []string

	// Destination-side.
	if c.DstSel != nil {
		parts = append(parts, "dst_sel:"+selName(*c.DstSel))
	}
	if c.DMask != nil {
		parts = append(parts, fmt.Sprintf("dmask:0x%x", *c.DMask))
	}
	if c.Compr {
		parts = append(parts, "compr")
	}

	// Source-side.
	if c.Src0Sel != nil {
		parts = append(parts, "src0_sel:"+selName(*c.Src0Sel))
	}
	if c.Src1Sel != nil {
		parts = append(parts, "src1_sel:"+selName(*c.Src1Sel))
	}
	if c.OpSel != nil {
		parts = append(parts, "op_sel:"+boolArrayStr(*c.OpSel))
	}
	if c.OpSelHi != nil {
		parts = append(parts, "op_sel_hi:"+boolArrayStr(*c.OpSelHi))
	}
	if c.NegLo != nil {
		parts = append(parts, "neg_lo:"+boolArrayStr(*c.NegLo))
	}
	if c.NegHi != nil {
		parts = append(parts, "neg_hi:"+boolArrayStr(*c.NegHi))
	}
	if c.QuadPerm != nil {
		parts = append(parts, fmt.Sprintf("quad_perm:[%d,%d,%d,%d]", c.QuadPerm[0], c.QuadPerm[1], c.QuadPerm[2], c.QuadPerm[3]))
	}
	if c.RowShl != nil {
		parts = append(parts, fmt.Sprintf("row_shl:%d", *c.RowShl))
	}
	if c.RowShr != nil {
		parts = append(parts, fmt.Sprintf("row_shr:%d", *c.RowShr))
	}
	if c.RowRor != nil {
		parts = append(parts, fmt.Sprintf("row_ror:%d", *c.RowRor))
	}
	if c.WaveShl != nil {
		parts = append(parts, fmt.Sprintf("wave_shl:%d", *c.WaveShl))
	}
	if c.WaveShr != nil {
		parts = append(parts, fmt.Sprintf("wave_shr:%d", *c.WaveShr))
	}
	if c.WaveRol != nil {
		parts = append(parts, fmt.Sprintf("wave_rol:%d", *c.WaveRol))
	}
	if c.WaveRor != nil {
		parts = append(parts, fmt.Sprintf("wave_ror:%d", *c.WaveRor))
	}
	if c.RowMirror {
		parts = append(parts, "row_mirror")
	}
	if c.RowHalfMirror {
		parts = append(parts, "row_half_mirror")
	}
	if c.RowBcast15 {
		parts = append(parts, "row_bcast15")
	}
	if c.RowBcast31 {
		parts = append(parts, "row_bcast31")
	}
	if c.BankMask != nil {
		parts = append(parts, fmt.Sprintf("bank_mask:0x%x", *c.BankMask))
	}
	if c.RowMask != nil {
		parts = append(parts, fmt.Sprintf("row_mask:0x%x", *c.RowMask))
	}
	if c.BoundCtrl {
		parts = append(parts, "bound_ctrl")
	}
	if c.Abs {
		parts = append(parts, "abs")
	}
	if c.Neg {
		parts = append(parts, "neg")
	}
	if c.Sext {
		parts = append(parts, "sext")
	}
	if c.Mul != nil {
		parts = append(parts, fmt.Sprintf("mul:%d", *c.Mul))
	}
	if c.Div != nil {
		parts = append(parts, fmt.Sprintf("div:%d", *c.Div))
	}
	if c.OMod != nil {
		parts = append(parts, fmt.Sprintf("omod:%d", *c.OMod))
	}
	if c.Format != nil {
		if c.Format.RawSet {
			parts = append(parts, fmt.Sprintf("format:%d", c.Format.Raw7))
		} else {
			parts = append(parts, fmt.Sprintf("format:[%d,%d]", c.Format.DFmt, c.Format.NFmt))
		}
	}
	if c.Dim != nil {
		parts = append(parts, "dim:"+dimName(*c.Dim))
	}
	if c.HwReg != nil {
		parts = append(parts, fmt.Sprintf("hwreg(%d,%d,%d)", c.HwReg.ID, c.HwReg.Offset, c.HwReg.Width))
	}
	if c.SendMsg != nil {
		parts = append(parts, printSendMsg(*c.SendMsg))
	}
	if c.Waitcnt != nil {
		parts = append(parts, c.Waitcnt.Print())
	}
	if c.Offset != nil {
		parts = append(parts, fmt.Sprintf("offset:%d", *c.Offset))
	}
	if c.InstOffset != nil {
		parts = append(parts, fmt.Sprintf("inst_offset:%d", *c.InstOffset))
	}

	// Flags.
	appendBool(&parts, c.GLC, "glc")
	appendBool(&parts, c.SLC, "slc")
	appendBool(&parts, c.DLC, "dlc")
	if c.OffEn {
		parts = append(parts, "offen")
	}
	if c.IdxEn {
		parts = append(parts, "idxen")
	}
	if c.Addr64 {
		parts = append(parts, "addr64")
	}
	if c.Unorm {
		parts = append(parts, "unorm")
	}
	if c.DA {
		parts = append(parts, "da")
	}
	if c.R128 {
		parts = append(parts, "r128")
	}
	if c.LWE {
		parts = append(parts, "lwe")
	}
	if c.D16 {
		parts = append(parts, "d16")
	}
	if c.A16 {
		parts = append(parts, "a16")
	}
	if c.GDS {
		parts = append(parts, "gds")
	}
	if c.VM {
		parts = append(parts, "vm")
	}
	if c.Done {
		parts = append(parts, "done")
	}
	if c.TFE {
		parts = append(parts, "tfe")
	}
	if c.LDS {
		parts = append(parts, "lds")
	}
	if c.NV {
		parts = append(parts, "nv")
	}
	if c.High {
		parts = append(parts, "high")
	}
	if c.VOP3 {
		parts = append(parts, "vop3")
	}
	if c.SDWA {
		parts = append(parts, "sdwa")
	}
	if c.DPP {
		parts = append(parts, "dpp")
	}

	return strings.Join(parts, " ")
}

func appendBool(parts *[]string, b *bool, name string) {
	if b == nil {
		return
	}
	if *b {
		*parts = append(*parts, name)
	} else {
		*parts = append(*parts, name+":0")
	}
}

func selName(s SDWASel) string {
	names := [...]string{"byte0", "byte1", "byte2", "byte3", "word0", "word1", "dword"}
	if int(s) < 0 || int(s) >= len(names) {
		return "byte0"
	}
	return names[s]
}

func boolArrayStr(arr [4]bool) string {
	bits := make([]string, 4)
	for i, v := range arr {
		if v {
			bits[i] = "1"
		} else {
			bits[i] = "0"
		}
	}
	return "[" + strings.Join(bits, ",") + "]"
}

func dimName(d Dim) string {
	for name, v := range dimNames {
		if v == d {
			return name
		}
	}
	return "1d"
}

func printSendMsg(sm SendMsg) string {
	s := fmt.Sprintf("sendmsg(%d", sm.Message)
	if sm.HasGSOp {
		s += fmt.Sprintf(",%d", sm.GSOp)
	}
	if sm.HasStream {
		s += fmt.Sprintf(",%d", sm.Stream)
	}
	return s + ")"
}

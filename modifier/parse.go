package modifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
	"github.com/lookbusy1344/gcnasm/isa"
)

// Pending names a modifier field whose value was an unresolved
// expression (an "@name" token); the encoding layer zero-fills the
// corresponding bits and turns this into a gcnerr.PendingTarget once it
// knows the field's absolute byte offset (spec.md §4.4 step 5).
type Pending struct {
	Field string
}

// Parse tokenizes a whitespace-separated modifier clause and dispatches
// each element to its own small setter, following the teacher's
// Encoder.parseShift keyword-switch idiom (encoder/encoder.go) widened
// to GCN's larger vocabulary. The generation-limited modifiers (dlc, nv,
// sdwa, dpp, op_sel, op_sel_hi, dim) consult a gate before being
// applied, and an out-of-generation use becomes a gcnerr.SemanticError;
// the other modifiers are accepted without a gate check.
func Parse(text string, a arch.Arch, class isa.EncodingClass) (Clause, []Pending, error) {
	var c Clause
	var pending []Pending
	for _, tok := range strings.Fields(text) {
		name, arg, hasArg := splitToken(tok)
		lower := strings.ToLower(name)
		var err error
		switch {
		case lower == "glc":
			err = setTriBool(&c.GLC, arg, hasArg)
		case lower == "slc":
			err = setTriBool(&c.SLC, arg, hasArg)
		case lower == "dlc":
			if err = requireGate(a, class, "dlc", gcn12Plus); err == nil {
				err = setTriBool(&c.DLC, arg, hasArg)
			}
		case lower == "offen":
			c.OffEn = true
		case lower == "idxen":
			c.IdxEn = true
		case lower == "addr64":
			c.Addr64 = true
		case lower == "unorm":
			c.Unorm = true
		case lower == "da":
			c.DA = true
		case lower == "r128":
			c.R128 = true
		case lower == "lwe":
			c.LWE = true
		case lower == "d16":
			c.D16 = true
		case lower == "a16":
			c.A16 = true
		case lower == "gds":
			c.GDS = true
		case lower == "bound_ctrl":
			c.BoundCtrl = true
		case lower == "compr":
			c.Compr = true
		case lower == "vm":
			c.VM = true
		case lower == "done":
			c.Done = true
		case lower == "tfe":
			c.TFE = true
		case lower == "lds":
			c.LDS = true
		case lower == "nv":
			if err = requireGate(a, class, "nv", func(a arch.Arch, _ isa.EncodingClass) bool {
				return arch.CapsFor(a).HasSMEMNV
			}); err == nil {
				c.NV = true
			}
		case lower == "high":
			c.High = true
		case lower == "vop3":
			c.VOP3 = true
		case lower == "sdwa":
			if err = requireGate(a, class, "sdwa", func(a arch.Arch, _ isa.EncodingClass) bool {
				return arch.CapsFor(a).HasSDWA
			}); err == nil {
				c.SDWA = true
			}
		case lower == "dpp":
			if err = requireGate(a, class, "dpp", func(a arch.Arch, _ isa.EncodingClass) bool {
				return arch.CapsFor(a).HasDPP
			}); err == nil {
				c.DPP = true
			}
		case lower == "abs":
			c.Abs = true
		case lower == "neg":
			c.Neg = true
		case lower == "sext":
			c.Sext = true
		case lower == "clamp":
			c.Clamp = true
		case lower == "row_mirror":
			c.RowMirror = true
		case lower == "row_half_mirror":
			c.RowHalfMirror = true
		case lower == "row_bcast15":
			c.RowBcast15 = true
		case lower == "row_bcast31":
			c.RowBcast31 = true
		case lower == "offset":
			err = setOffset(&c, arg, &pending)
		case lower == "inst_offset":
			err = setInstOffset(&c, arg, &pending)
		case lower == "dmask":
			err = setUint8(&c.DMask, arg)
		case lower == "row_shl":
			err = setUint8(&c.RowShl, arg)
		case lower == "row_shr":
			err = setUint8(&c.RowShr, arg)
		case lower == "row_ror":
			err = setUint8(&c.RowRor, arg)
		case lower == "wave_shl":
			err = setUint8(&c.WaveShl, arg)
		case lower == "wave_shr":
			err = setUint8(&c.WaveShr, arg)
		case lower == "wave_rol":
			err = setUint8(&c.WaveRol, arg)
		case lower == "wave_ror":
			err = setUint8(&c.WaveRor, arg)
		case lower == "bank_mask":
			err = setUint8(&c.BankMask, arg)
		case lower == "row_mask":
			err = setUint8(&c.RowMask, arg)
		case lower == "mul":
			err = setUint8(&c.Mul, arg)
		case lower == "div":
			err = setUint8(&c.Div, arg)
		case lower == "omod":
			err = setUint8(&c.OMod, arg)
		case lower == "quad_perm":
			err = setQuadPerm(&c, arg)
		case lower == "op_sel":
			if err = requireGate(a, class, "op_sel", gcn14Plus); err == nil {
				err = setBoolArray(&c.OpSel, arg)
			}
		case lower == "op_sel_hi":
			if err = requireGate(a, class, "op_sel_hi", gcn14Plus); err == nil {
				err = setBoolArray(&c.OpSelHi, arg)
			}
		case lower == "neg_lo":
			err = setBoolArray(&c.NegLo, arg)
		case lower == "neg_hi":
			err = setBoolArray(&c.NegHi, arg)
		case lower == "dst_sel":
			err = setSel(&c.DstSel, arg)
		case lower == "src0_sel":
			err = setSel(&c.Src0Sel, arg)
		case lower == "src1_sel":
			err = setSel(&c.Src1Sel, arg)
		case lower == "dim":
			if err = requireGate(a, class, "dim", gcn15Only); err == nil {
				err = setDim(&c, arg)
			}
		case lower == "format":
			err = setFormat(&c, a, arg)
		case strings.HasPrefix(lower, "hwreg("):
			err = setHwReg(&c, tok)
		case strings.HasPrefix(lower, "sendmsg("):
			err = setSendMsg(&c, tok)
		case strings.HasPrefix(lower, "waitcnt") || strings.Contains(lower, "vmcnt") ||
			strings.Contains(lower, "expcnt") || strings.Contains(lower, "lgkmcnt"):
			// s_waitcnt's payload is printed/parsed across the whole
			// remaining clause (spec.md: "composite field"); hand the
			// rest of the text to the dedicated waitcnt parser and stop
			// token-by-token processing.
			wc, werr := ParseWaitcnt(text)
			if werr != nil {
				return c, pending, werr
			}
			c.Waitcnt = &wc
			return c, pending, nil
		default:
			return c, pending, &gcnerr.SyntaxError{Message: fmt.Sprintf("unrecognized modifier %q", tok)}
		}
		if err != nil {
			return c, pending, err
		}
	}
	return c, pending, nil
}

func splitToken(tok string) (name, arg string, hasArg bool) {
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		return tok[:i], tok[i+1:], true
	}
	return tok, "", false
}

func requireGate(a arch.Arch, class isa.EncodingClass, name string, allowed func(arch.Arch, isa.EncodingClass) bool) error {
	if allowed(a, class) {
		return nil
	}
	return &gcnerr.SemanticError{Message: fmt.Sprintf("modifier %q not legal on %s/%s", name, a, class)}
}

func setTriBool(field **bool, arg string, hasArg bool) error {
	v := true
	if hasArg {
		switch arg {
		case "0":
			v = false
		case "1":
			v = true
		default:
			return &gcnerr.SyntaxError{Message: fmt.Sprintf("expected 0 or 1, got %q", arg)}
		}
	}
	*field = &v
	return nil
}

func setUint8(field **uint8, arg string) error {
	if strings.HasPrefix(arg, "@") {
		return &gcnerr.SyntaxError{Message: "unresolved numeric modifier must use offset:/inst_offset:"}
	}
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("expected integer, got %q", arg), Wrapped: err}
	}
	v := uint8(n)
	*field = &v
	return nil
}

func setOffset(c *Clause, arg string, pending *[]Pending) error {
	if strings.HasPrefix(arg, "@") {
		*pending = append(*pending, Pending{Field: "offset"})
		return nil
	}
	n, err := strconv.ParseInt(arg, 0, 32)
	if err != nil {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad offset %q", arg), Wrapped: err}
	}
	v := int32(n)
	c.Offset = &v
	return nil
}

func setInstOffset(c *Clause, arg string, pending *[]Pending) error {
	if strings.HasPrefix(arg, "@") {
		*pending = append(*pending, Pending{Field: "inst_offset"})
		return nil
	}
	n, err := strconv.ParseInt(arg, 0, 32)
	if err != nil {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad inst_offset %q", arg), Wrapped: err}
	}
	v := int32(n)
	c.InstOffset = &v
	return nil
}

func setQuadPerm(c *Clause, arg string) error {
	nums, err := parseBracketInts(arg, 4)
	if err != nil {
		return err
	}
	var qp [4]uint8
	for i, n := range nums {
		qp[i] = uint8(n)
	}
	c.QuadPerm = &qp
	return nil
}

func setBoolArray(field **[4]bool, arg string) error {
	nums, err := parseBracketInts(arg, 4)
	if err != nil {
		return err
	}
	var arr [4]bool
	for i, n := range nums {
		arr[i] = n != 0
	}
	*field = &arr
	return nil
}

func parseBracketInts(arg string, want int) ([]int, error) {
	arg = strings.TrimPrefix(arg, "[")
	arg = strings.TrimSuffix(arg, "]")
	parts := strings.Split(arg, ",")
	if len(parts) != want {
		return nil, &gcnerr.SyntaxError{Message: fmt.Sprintf("expected %d values, got %q", want, arg)}
	}
	out := make([]int, want)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &gcnerr.SyntaxError{Message: fmt.Sprintf("bad value %q", p), Wrapped: err}
		}
		out[i] = n
	}
	return out, nil
}

func setSel(field **SDWASel, arg string) error {
	var v SDWASel
	switch arg {
	case "byte0":
		v = SelByte0
	case "byte1":
		v = SelByte1
	case "byte2":
		v = SelByte2
	case "byte3":
		v = SelByte3
	case "word0":
		v = SelWord0
	case "word1":
		v = SelWord1
	case "dword":
		v = SelDWord
	default:
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("unrecognized select %q", arg)}
	}
	*field = &v
	return nil
}

var dimNames = map[string]Dim{
	"1d": Dim1D, "2d": Dim2D, "3d": Dim3D, "cube": DimCube,
	"1d_array": Dim1DArray, "2d_array": Dim2DArray,
	"2d_msaa": Dim2DMsaa, "2d_msaa_array": Dim2DMsaaArray,
}

func setDim(c *Clause, arg string) error {
	d, ok := dimNames[arg]
	if !ok {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("unrecognized dim %q", arg)}
	}
	c.Dim = &d
	return nil
}

func setFormat(c *Clause, a arch.Arch, arg string) error {
	if arch.CapsFor(a).HasDimField {
		n, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad format %q", arg), Wrapped: err}
		}
		c.Format = &Format{Raw7: uint8(n), RawSet: true}
		return nil
	}
	nums, err := parseBracketInts(arg, 2)
	if err != nil {
		return err
	}
	c.Format = &Format{DFmt: uint8(nums[0]), NFmt: uint8(nums[1])}
	return nil
}

func setHwReg(c *Clause, tok string) error {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "hwreg("), ")")
	nums, err := parseBracketInts("["+inner+"]", 3)
	if err != nil {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad hwreg(...): %q", tok), Wrapped: err}
	}
	c.HwReg = &HwReg{ID: uint8(nums[0]), Offset: uint8(nums[1]), Width: uint8(nums[2])}
	return nil
}

func setSendMsg(c *Clause, tok string) error {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "sendmsg("), ")")
	parts := strings.Split(inner, ",")
	sm := SendMsg{}
	n, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 0, 8)
	if err != nil {
		return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad sendmsg(...): %q", tok), Wrapped: err}
	}
	sm.Message = uint8(n)
	if len(parts) >= 2 {
		n, err = strconv.ParseUint(strings.TrimSpace(parts[1]), 0, 8)
		if err != nil {
			return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad sendmsg(...): %q", tok), Wrapped: err}
		}
		sm.GSOp, sm.HasGSOp = uint8(n), true
	}
	if len(parts) >= 3 {
		n, err = strconv.ParseUint(strings.TrimSpace(parts[2]), 0, 8)
		if err != nil {
			return &gcnerr.SyntaxError{Message: fmt.Sprintf("bad sendmsg(...): %q", tok), Wrapped: err}
		}
		sm.Stream, sm.HasStream = uint8(n), true
	}
	c.SendMsg = &sm
	return nil
}

package modifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gcnasm/arch"
	"github.com/lookbusy1344/gcnasm/gcnerr"
)

// Waitcnt bit-field positions, constant across every architecture:
// vmcnt low 4 bits at [3:0], expcnt 3 bits at [6:4], lgkmcnt 4 bits at
// [11:8]. GCN1.4 widens vmcnt with two extra bits at [15:14] (spec.md
// §3's "Waitcnt composite" note), reassembled into a 6-bit counter.
const (
	vmcntLowPos  = 0
	vmcntLowW    = 4
	expcntPos    = 4
	expcntW      = 3
	lgkmcntPos   = 8
	lgkmcntW     = 4
	vmcntHighPos = 14
	vmcntHighW   = 2
)

// DefaultWaitcntPayload is the "wait for everything" encoding, all
// sub-counters saturated — GCN1.4's documented default mask.
const DefaultWaitcntPayload = 0xcf7f

func hasWideVMCnt(a arch.Arch) bool { return a >= arch.GCN14 }

// Encode packs w into the 16-bit SOPP payload for a.
func Encode(w Waitcnt, a arch.Arch) uint16 {
	var word uint32
	word = putBits(word, vmcntLowPos, vmcntLowW, uint32(w.VMCnt)&0xf)
	word = putBits(word, expcntPos, expcntW, uint32(w.EXPCnt)&0x7)
	word = putBits(word, lgkmcntPos, lgkmcntW, uint32(w.LGKMCnt)&0xf)
	if hasWideVMCnt(a) {
		word = putBits(word, vmcntHighPos, vmcntHighW, uint32(w.VMCnt>>4)&0x3)
	}
	return uint16(word)
}

// Decode unpacks a 16-bit SOPP payload into its three sub-counters.
func Decode(payload uint16, a arch.Arch) Waitcnt {
	word := uint32(payload)
	w := Waitcnt{
		VMCnt:   uint8(getBits(word, vmcntLowPos, vmcntLowW)),
		EXPCnt:  uint8(getBits(word, expcntPos, expcntW)),
		LGKMCnt: uint8(getBits(word, lgkmcntPos, lgkmcntW)),
	}
	if hasWideVMCnt(a) {
		w.VMCnt |= uint8(getBits(word, vmcntHighPos, vmcntHighW)) << 4
	}
	return w
}

func putBits(word uint32, pos, width int, value uint32) uint32 {
	mask := uint32(1)<<width - 1
	word &^= mask << pos
	word |= (value & mask) << pos
	return word
}

func getBits(word uint32, pos, width int) uint32 {
	mask := uint32(1)<<width - 1
	return (word >> pos) & mask
}

// ParseWaitcnt parses the composite "vmcnt(N) & expcnt(N) & lgkmcnt(N)"
// form spec.md §8 shows, in any order and with any subset present
// (missing counters default to their saturated/max value, meaning
// "don't wait").
func ParseWaitcnt(text string) (Waitcnt, error) {
	w := Waitcnt{VMCnt: 0xf, EXPCnt: 0x7, LGKMCnt: 0xf}
	for _, field := range strings.Split(text, "&") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, arg, err := splitFuncCall(field)
		if err != nil {
			return Waitcnt{}, err
		}
		n, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return Waitcnt{}, &gcnerr.SyntaxError{Message: fmt.Sprintf("bad waitcnt field %q", field), Wrapped: err}
		}
		switch strings.ToLower(name) {
		case "vmcnt":
			w.VMCnt = uint8(n)
		case "expcnt":
			w.EXPCnt = uint8(n)
		case "lgkmcnt":
			w.LGKMCnt = uint8(n)
		default:
			return Waitcnt{}, &gcnerr.SyntaxError{Message: fmt.Sprintf("unrecognized waitcnt field %q", name)}
		}
	}
	return w, nil
}

func splitFuncCall(field string) (name, arg string, err error) {
	open := strings.IndexByte(field, '(')
	if open < 0 || !strings.HasSuffix(field, ")") {
		return "", "", &gcnerr.SyntaxError{Message: fmt.Sprintf("malformed waitcnt field %q", field)}
	}
	return field[:open], field[open+1 : len(field)-1], nil
}

// Print renders w in the same "vmcnt(N) & expcnt(N) & lgkmcnt(N)" form
// ParseWaitcnt accepts, omitting any sub-counter at its "don't wait"
// saturated value to match typical disassembler output. When every
// sub-counter is saturated, all three are printed with their values.
func (w Waitcnt) Print() string {
	var parts []string
	if w.VMCnt != 0xf {
		parts = append(parts, fmt.Sprintf("vmcnt(%d)", w.VMCnt))
	}
	if w.EXPCnt != 0x7 {
		parts = append(parts, fmt.Sprintf("expcnt(%d)", w.EXPCnt))
	}
	if w.LGKMCnt != 0xf {
		parts = append(parts, fmt.Sprintf("lgkmcnt(%d)", w.LGKMCnt))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("vmcnt(%d) & expcnt(%d) & lgkmcnt(%d)", w.VMCnt, w.EXPCnt, w.LGKMCnt)
	}
	return strings.Join(parts, " & ")
}

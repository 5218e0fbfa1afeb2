package isa

import "sort"

// fuse runs the VOP3A/VOP3B/VINTRP fusion pass described in spec.md
// §4.2: a later VOP3-class row whose mnemonic already has an earlier,
// not-yet-fused row folds its opcode into that earlier row's Secondary
// slot and intersects the two arch masks, instead of remaining a
// separate lookup target. It mutates the first matching prior row in
// place.
//
// spec.md §9 flags an Open Question here: this contract assumes at
// most one unfused prior row per mnemonic. When two arch masks
// partition a mnemonic across three rows, the first-match mutation can
// overwrite a row that a different row should have fused into instead.
// We preserve that literal behavior rather than silently reinterpreting
// it — see DESIGN.md's "Open Question decisions" entry for fuse().
func fuse(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Mnemonic != entries[j].Mnemonic {
			return entries[i].Mnemonic < entries[j].Mnemonic
		}
		return entries[i].Class < entries[j].Class
	})

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Class == VOP3A || e.Class == VOP3B || e.Class == VINTRP {
			if target := findFusionTarget(result, e); target >= 0 {
				result[target].Secondary = e.Primary
				result[target].ArchMask &= e.ArchMask
				if e.Class == VOP3B {
					result[target].Mode |= ModeVOP3BForm
				}
				continue
			}
		}
		result = append(result, e)
	}
	return result
}

// findFusionTarget returns the index of the first existing row with the
// same mnemonic, an arch mask that is a superset of e's, and no
// secondary opcode yet assigned — or -1 if none qualifies.
func findFusionTarget(existing []Entry, e Entry) int {
	for i, prior := range existing {
		if prior.Mnemonic != e.Mnemonic {
			continue
		}
		if prior.Secondary != 0 {
			continue
		}
		if prior.ArchMask&e.ArchMask != e.ArchMask {
			continue
		}
		return i
	}
	return -1
}

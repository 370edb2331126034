package hypua

import "unicode"

const (
	// PUAFirst is the lowest Hanyang PUA code.
	PUAFirst = 0xE0BC
	// PUALast is the highest Hanyang PUA code.
	PUALast = 0xF8F7
)

// PUARange returns the Hanyang PUA block for use with unicode.Is. Each call
// returns a new table the caller may keep or modify.
func PUARange() *unicode.RangeTable {
	return &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: PUAFirst, Hi: PUALast, Stride: 1}},
	}
}

// IsPUA reports whether r lies in the Hanyang PUA range. It does not check
// whether r has a table entry; see [ToIPF] for that.
func IsPUA(r rune) bool {
	return r >= PUAFirst && r <= PUALast
}

// ToIPF returns the IPF decomposition of a Hanyang PUA code. ok is false for
// any rune without a table entry, whether or not it is in the PUA range.
//
//	ToIPF('\uE4CF') // "ᄙᅰ", true
//	ToIPF('사')      // "", false
func ToIPF(r rune) (ipf string, ok bool) {
	ipf, ok = ipfTable[r]
	return ipf, ok
}

// TableSize returns the number of PUA codes with a known decomposition.
func TableSize() int {
	return len(ipfTable)
}

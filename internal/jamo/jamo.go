package jamo

import "unicode"

// Kind is the position a conjoining jamo takes inside an IPF syllable.
type Kind int

const (
	Other Kind = iota
	Leading
	Vowel
	Trailing
	Filler
)

// Conjoining jamo blocks: Hangul Jamo, Jamo Extended-A and Extended-B.
var (
	leading = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x115E, Stride: 1},
		{Lo: 0xA960, Hi: 0xA97C, Stride: 1},
	}}
	vowel = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x1161, Hi: 0x11A7, Stride: 1},
		{Lo: 0xD7B0, Hi: 0xD7C6, Stride: 1},
	}}
	trailing = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x11A8, Hi: 0x11FF, Stride: 1},
		{Lo: 0xD7CB, Hi: 0xD7FB, Stride: 1},
	}}
)

// Role classifies r by its conjoining jamo block.
func Role(r rune) Kind {
	switch {
	case r == 0x115F || r == 0x1160:
		// Choseong and jungseong fillers.
		return Filler
	case unicode.Is(leading, r):
		return Leading
	case unicode.Is(vowel, r):
		return Vowel
	case unicode.Is(trailing, r):
		return Trailing
	default:
		return Other
	}
}

func (k Kind) String() string {
	switch k {
	case Leading:
		return "leading"
	case Vowel:
		return "vowel"
	case Trailing:
		return "trailing"
	case Filler:
		return "filler"
	default:
		return "other"
	}
}

// ValidIPF reports whether runes form a leading, vowel, optional trailing
// sequence. A single rune of any kind is accepted for symbol glyphs.
func ValidIPF(runes []rune) bool {
	switch len(runes) {
	case 1:
		return true
	case 2:
		return isLead(runes[0]) && isVowel(runes[1])
	case 3:
		return isLead(runes[0]) && isVowel(runes[1]) && Role(runes[2]) == Trailing
	default:
		return false
	}
}

func isLead(r rune) bool {
	k := Role(r)
	return k == Leading || k == Filler && r == 0x115F
}

func isVowel(r rune) bool {
	k := Role(r)
	return k == Vowel || k == Filler && r == 0x1160
}

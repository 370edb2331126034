package hypua

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ToIPFString replaces every Hanyang PUA code in s with its IPF
// decomposition.
//
// If s contains no rune in the PUA range, s itself is returned and nothing is
// allocated. PUA-range runes without a table entry are kept as they are.
func ToIPFString(s string) string {
	i := strings.IndexFunc(s, IsPUA)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	b.WriteString(s[:i])
	s = s[i:]

	for len(s) > 0 {
		// PUA run.
		n := strings.IndexFunc(s, notPUA)
		if n < 0 {
			n = len(s)
		}
		writePUA(&b, s[:n])
		s = s[n:]

		// Plain run.
		n = strings.IndexFunc(s, IsPUA)
		if n < 0 {
			n = len(s)
		}
		b.WriteString(s[:n])
		s = s[n:]
	}
	return b.String()
}

// ToIPFBytes is like [ToIPFString] for byte slices. If b contains no PUA
// code, b itself is returned.
func ToIPFBytes(b []byte) []byte {
	i := bytes.IndexFunc(b, IsPUA)
	if i < 0 {
		return b
	}

	out := make([]byte, 0, len(b)+len(b)/2)
	out = append(out, b[:i]...)
	for p := i; p < len(b); {
		r, size := utf8.DecodeRune(b[p:])
		if IsPUA(r) {
			if ipf, ok := ToIPF(r); ok {
				out = append(out, ipf...)
				p += size
				continue
			}
		}
		out = append(out, b[p:p+size]...)
		p += size
	}
	return out
}

// Stats describes the PUA content of a text.
type Stats struct {
	// Legacy counts runes in the PUA range.
	Legacy int `json:"legacy"`
	// Resolved counts PUA runes with a table entry.
	Resolved int `json:"resolved"`
	// Unmapped counts PUA runes left unchanged.
	Unmapped int `json:"unmapped"`
}

// Changed reports whether conversion alters the text.
func (s Stats) Changed() bool {
	return s.Resolved > 0
}

// Analyze counts the PUA runes in s without converting it.
func Analyze(s string) Stats {
	var st Stats
	for i := strings.IndexFunc(s, IsPUA); i >= 0 && i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if !IsPUA(r) {
			continue
		}
		st.Legacy++
		if _, ok := ToIPF(r); ok {
			st.Resolved++
		} else {
			st.Unmapped++
		}
	}
	return st
}

// ContainsPUA reports whether s holds any rune in the PUA range.
func ContainsPUA(s string) bool {
	return strings.IndexFunc(s, IsPUA) >= 0
}

func writePUA(b *strings.Builder, run string) {
	for _, r := range run {
		if ipf, ok := ToIPF(r); ok {
			b.WriteString(ipf)
		} else {
			b.WriteRune(r)
		}
	}
}

func notPUA(r rune) bool { return !IsPUA(r) }

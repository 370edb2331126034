package hypua

import (
	"io"
	"iter"
	"unicode/utf8"
)

// IPFIterator walks a string rune by rune, expanding each Hanyang PUA code
// into its IPF jamo. A full decomposition is drained before the source
// advances.
//
// An IPFIterator is single-pass and must not be advanced from more than one
// goroutine at a time.
type IPFIterator struct {
	src     string
	pending string
}

// NewIPFIterator returns an iterator over the converted runes of s.
func NewIPFIterator(s string) *IPFIterator {
	return &IPFIterator{src: s}
}

// Next returns the next converted rune. ok is false once the source is
// exhausted.
func (it *IPFIterator) Next() (r rune, ok bool) {
	for {
		if it.pending != "" {
			r, size := utf8.DecodeRuneInString(it.pending)
			it.pending = it.pending[size:]
			return r, true
		}
		if it.src == "" {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(it.src)
		it.src = it.src[size:]
		ipf, found := ToIPF(r)
		if !found {
			return r, true
		}
		it.pending = ipf
	}
}

// IPFRunes returns the converted runes of s as a sequence. Every range over
// the result starts from the beginning of s.
func IPFRunes(s string) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		it := NewIPFIterator(s)
		for {
			r, ok := it.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// RuneReader wraps an io.RuneReader and expands Hanyang PUA codes read from
// it into IPF jamo.
type RuneReader struct {
	src     io.RuneReader
	pending string
}

// NewRuneReader returns a RuneReader reading from r.
func NewRuneReader(r io.RuneReader) *RuneReader {
	return &RuneReader{src: r}
}

// ReadRune implements io.RuneReader. size is the UTF-8 length of the
// returned rune, not the number of source bytes consumed.
func (rr *RuneReader) ReadRune() (r rune, size int, err error) {
	for {
		if rr.pending != "" {
			r, size = utf8.DecodeRuneInString(rr.pending)
			rr.pending = rr.pending[size:]
			return r, size, nil
		}
		r, size, err = rr.src.ReadRune()
		if err != nil {
			return 0, 0, err
		}
		ipf, found := ToIPF(r)
		if !found {
			return r, size, nil
		}
		rr.pending = ipf
	}
}

package hypua

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Transformer converts Hanyang PUA codes to IPF inside a
// golang.org/x/text/transform chain. Bytes that are not valid UTF-8 are
// copied unchanged.
type Transformer struct{ transform.NopResetter }

var _ transform.SpanningTransformer = Transformer{}

// Span implements transform.SpanningTransformer. It reports the prefix of
// src that conversion leaves untouched.
func (Transformer) Span(src []byte, atEOF bool) (n int, err error) {
	for n < len(src) {
		if src[n] < utf8.RuneSelf {
			n++
			continue
		}
		if !utf8.FullRune(src[n:]) {
			if !atEOF {
				return n, transform.ErrShortSrc
			}
			return len(src), nil
		}
		r, size := utf8.DecodeRune(src[n:])
		if _, ok := ToIPF(r); ok {
			return n, transform.ErrEndOfSpan
		}
		n += size
	}
	return n, nil
}

// Transform implements transform.Transformer.
func (Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		out := src[nSrc : nSrc+size]
		if ipf, ok := ToIPF(r); ok {
			if nDst+len(ipf) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], ipf)
		} else {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], out)
		}
		nSrc += size
	}
	return nDst, nSrc, nil
}

// NewReader returns a reader that yields the contents of r converted to IPF.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, Transformer{})
}

// NewWriter returns a writer that converts to IPF before writing to w.
// Close must be called to flush buffered input.
func NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, Transformer{})
}

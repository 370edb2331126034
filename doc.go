/*
Package hypua converts Hanyang private-use-area (PUA) codes into IPF text.

Old Hangul documents produced with the Hanyang font store whole syllables,
many of them using archaic jamo, as single codepoints in the range
U+E0BC..U+F8F7. This package replaces each such codepoint with the standard
conjoining jamo sequence (leading consonant, vowel, optional trailing
consonant) so the text renders without the legacy font.

# Converting strings

[ToIPFString] converts a whole string. Text without PUA codes is returned as
is, without copying:

	fmt.Println(hypua.ToIPFString("이런 젼\uF341로 어린 百姓이 니르고져 \uF4D4 배 이셔도."))

# Iterating over runes

[IPFRunes] yields the converted text one rune at a time and never buffers
more than one decomposition:

	for r := range hypua.IPFRunes(text) {
		// ...
	}

[NewRuneReader] does the same for any [io.RuneReader], and [Transformer]
plugs the conversion into golang.org/x/text/transform pipelines.

# Unmapped codes

A codepoint inside the PUA range that has no table entry is passed through
unchanged by every conversion in this package.

# Mapping table

The table is compiled from table.txt by go generate. The shipped table.txt is
a seed subset of the Hanyang mapping (see [TableSize]); codes outside it are
treated as unmapped. To convert real corpora, replace table.txt with the full
dataset, in either "E4CF 1119&1170" or "E4CF:1119&1170" record form, and run
go generate.
*/
package hypua

// Package dataset parses the Hanyang PUA mapping file that tables.go is
// generated from.
//
// Each record is a 4-digit hex PUA code and a '&'-joined list of hex jamo.
// The two halves are either separate fields ("E4CF 1119&1170") or one field
// with a single separator byte between them ("E4CF:1119&1170"). Records are
// separated by whitespace; lines starting with '#' are comments. Any
// malformed record fails the whole parse so that a partial table is never
// produced.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jusunglee/hypua/internal/jamo"
)

const (
	// PUAFirst and PUALast bound the Hanyang PUA block.
	PUAFirst = 0xE0BC
	PUALast  = 0xF8F7

	// MaxIPF is the longest decomposition a record may carry.
	MaxIPF = 3

	maxLine = 1 << 20
)

var (
	ErrSyntax    = errors.New("malformed record")
	ErrRange     = errors.New("code outside the PUA range")
	ErrDuplicate = errors.New("duplicate code")
	ErrOrder     = errors.New("decomposition is not in IPF order")
)

// Entry is one PUA code and its IPF decomposition.
type Entry struct {
	Code rune
	IPF  []rune
}

// String returns the decomposition as text.
func (e Entry) String() string {
	return string(e.IPF)
}

// Parse reads every record from r. The result is sorted by code.
// Duplicate codes are rejected rather than resolved.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	seen := make(map[rune]int)

	scanner := bufio.NewScanner(r)
	// The whole table may sit on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		for _, rec := range splitRecords(line) {
			entry, err := parseRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", num, err)
			}
			if prev, ok := seen[entry.Code]; ok {
				return nil, fmt.Errorf("line %d: %w %04X (first seen on line %d)", num, ErrDuplicate, entry.Code, prev)
			}
			seen[entry.Code] = num
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return int(a.Code - b.Code)
	})
	return entries, nil
}

type record struct {
	raw   string
	key   string
	value string
}

// splitRecords groups the whitespace-separated fields of line into records.
// A 4-byte field is a code whose decomposition is the next field; a longer
// field carries both halves around one separator byte.
func splitRecords(line string) []record {
	fields := strings.Fields(line)
	var recs []record
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch {
		case len(f) == 4 && i+1 < len(fields):
			recs = append(recs, record{raw: f + " " + fields[i+1], key: f, value: fields[i+1]})
			i++
		case len(f) > 4:
			recs = append(recs, record{raw: f, key: f[:4], value: f[5:]})
		default:
			recs = append(recs, record{raw: f, key: f})
		}
	}
	return recs
}

func parseRecord(rec record) (Entry, error) {
	key, value := rec.key, rec.value
	if value == "" {
		return Entry{}, fmt.Errorf("%w: %q has no decomposition", ErrSyntax, rec.raw)
	}
	if len(key) != 4 {
		return Entry{}, fmt.Errorf("%w: code %q must be 4 hex digits", ErrSyntax, key)
	}
	code, err := parseCodepoint(key)
	if err != nil {
		return Entry{}, err
	}
	if code < PUAFirst || code > PUALast {
		return Entry{}, fmt.Errorf("%w: %04X", ErrRange, code)
	}

	parts := strings.Split(value, "&")
	if len(parts) > MaxIPF {
		return Entry{}, fmt.Errorf("%w: %04X has %d jamo, at most %d allowed", ErrSyntax, code, len(parts), MaxIPF)
	}
	ipf := make([]rune, 0, len(parts))
	for _, p := range parts {
		if len(p) < 4 || len(p) > 6 {
			return Entry{}, fmt.Errorf("%w: jamo %q must be 4 to 6 hex digits", ErrSyntax, p)
		}
		r, err := parseCodepoint(p)
		if err != nil {
			return Entry{}, err
		}
		ipf = append(ipf, r)
	}
	return Entry{Code: code, IPF: ipf}, nil
}

func parseCodepoint(s string) (rune, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not hex", ErrSyntax, s)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: %q is not a Unicode scalar value", ErrSyntax, s)
	}
	return r, nil
}

// Validate checks that every decomposition is in IPF order.
func Validate(entries []Entry) error {
	var errs []error
	for _, e := range entries {
		if !jamo.ValidIPF(e.IPF) {
			errs = append(errs, fmt.Errorf("%w: %04X -> % X", ErrOrder, e.Code, e.IPF))
		}
	}
	return errors.Join(errs...)
}

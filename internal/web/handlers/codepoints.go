package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/jamo"
)

type jamoResponse struct {
	Codepoint string `json:"codepoint"`
	Char      string `json:"char"`
	Role      string `json:"role"`
}

type codepointResponse struct {
	Codepoint string         `json:"codepoint"`
	InRange   bool           `json:"in_range"`
	IPF       string         `json:"ipf"`
	Jamo      []jamoResponse `json:"jamo"`
}

// Codepoint looks up a single legacy codepoint. The path value is hex, with
// an optional U+ or 0x prefix.
func Codepoint(w http.ResponseWriter, r *http.Request) {
	cp, err := parseCodepoint(r.PathValue("cp"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ipf, ok := hypua.ToIPF(cp)
	if !ok {
		writeError(w, http.StatusNotFound, "codepoint not mapped")
		return
	}

	resp := codepointResponse{
		Codepoint: formatCodepoint(cp),
		InRange:   hypua.IsPUA(cp),
		IPF:       ipf,
	}
	for _, j := range ipf {
		resp.Jamo = append(resp.Jamo, jamoResponse{
			Codepoint: formatCodepoint(j),
			Char:      string(j),
			Role:      jamo.Role(j).String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseCodepoint(s string) (rune, error) {
	hex := s
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		if rest, ok := strings.CutPrefix(hex, prefix); ok {
			hex = rest
			break
		}
	}
	if hex == "" {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	return rune(n), nil
}

func formatCodepoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

type tableResponse struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Size  int    `json:"size"`
}

func Table(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tableResponse{
		First: formatCodepoint(hypua.PUAFirst),
		Last:  formatCodepoint(hypua.PUALast),
		Size:  hypua.TableSize(),
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/jamo"
	"github.com/peterbourgon/ff/v4"
	"github.com/samber/lo"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	unmappedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func newInspectCmd(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("inspect").SetParent(parent)

	return &ff.Command{
		Name:      "inspect",
		Usage:     "hypua inspect TEXT...",
		ShortHelp: "list the legacy codepoints in TEXT and their decompositions",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return errors.New("inspect needs some text")
			}
			return inspect(os.Stdout, strings.Join(args, " "))
		},
	}
}

type inspectRow struct {
	Code   rune
	IPF    string
	Mapped bool
}

// inspectRows returns one row per distinct legacy codepoint in text, in order
// of first appearance.
func inspectRows(text string) []inspectRow {
	legacy := lo.Uniq(lo.Filter([]rune(text), func(r rune, _ int) bool {
		return hypua.IsPUA(r)
	}))
	return lo.Map(legacy, func(r rune, _ int) inspectRow {
		ipf, ok := hypua.ToIPF(r)
		return inspectRow{Code: r, IPF: ipf, Mapped: ok}
	})
}

func (row inspectRow) cells() []string {
	if !row.Mapped {
		return []string{fmt.Sprintf("U+%04X", row.Code), "", "", "unmapped"}
	}
	codes := lo.Map([]rune(row.IPF), func(r rune, _ int) string {
		return fmt.Sprintf("U+%04X", r)
	})
	roles := lo.Map([]rune(row.IPF), func(r rune, _ int) string {
		return jamo.Role(r).String()
	})
	return []string{
		fmt.Sprintf("U+%04X", row.Code),
		row.IPF,
		strings.Join(codes, " "),
		strings.Join(roles, " "),
	}
}

func inspect(w io.Writer, text string) error {
	rows := inspectRows(text)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, subtleStyle.Render("no legacy codepoints"))
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("PUA", "IPF", "JAMO", "ROLES").
		Rows(lo.Map(rows, func(row inspectRow, _ int) []string { return row.cells() })...).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case !rows[r].Mapped:
				return unmappedStyle
			default:
				return cellStyle
			}
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, hypua.ToIPFString(text))
	return err
}

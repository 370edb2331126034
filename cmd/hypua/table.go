package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jusunglee/hypua"
	"github.com/jusunglee/hypua/internal/dataset"
	"github.com/peterbourgon/ff/v4"
	"github.com/samber/lo"
)

func newTableCmd(parent *ff.FlagSet, log *slog.Logger) *ff.Command {
	fs := ff.NewFlagSet("table").SetParent(parent)
	check := fs.StringLong("check", "", "parse and validate a mapping dataset file")

	return &ff.Command{
		Name:      "table",
		Usage:     "hypua table [--check FILE]",
		ShortHelp: "describe the built-in mapping table or validate a dataset",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			if *check == "" {
				_, err := fmt.Fprintf(os.Stdout, "U+%04X..U+%04X %d entries\n", hypua.PUAFirst, hypua.PUALast, hypua.TableSize())
				return err
			}

			f, err := os.Open(*check)
			if err != nil {
				return fmt.Errorf("opening dataset: %w", err)
			}
			defer f.Close()

			res, err := checkDataset(f)
			if err != nil {
				return fmt.Errorf("%s: %w", *check, err)
			}
			log.InfoContext(ctx, "dataset ok",
				"file", *check,
				"entries", res.Entries,
				"missing", len(res.Missing),
				"differs", len(res.Differs),
			)
			for _, e := range res.Differs {
				log.WarnContext(ctx, "differs from built-in table", "entry", e.String())
			}
			return nil
		},
	}
}

type checkResult struct {
	Entries int
	// Missing are dataset entries with no built-in mapping.
	Missing []dataset.Entry
	// Differs are dataset entries whose decomposition disagrees with the
	// built-in mapping.
	Differs []dataset.Entry
}

func checkDataset(r io.Reader) (checkResult, error) {
	entries, err := dataset.Parse(r)
	if err != nil {
		return checkResult{}, err
	}
	if err := dataset.Validate(entries); err != nil {
		return checkResult{}, err
	}

	missing, known := lo.FilterReject(entries, func(e dataset.Entry, _ int) bool {
		_, ok := hypua.ToIPF(e.Code)
		return !ok
	})
	differs := lo.Filter(known, func(e dataset.Entry, _ int) bool {
		ipf, _ := hypua.ToIPF(e.Code)
		return ipf != string(e.IPF)
	})

	return checkResult{
		Entries: len(entries),
		Missing: missing,
		Differs: differs,
	}, nil
}

// Command hypua converts Hanyang PUA encoded Old Hangul text to standard
// conjoining jamo.
//
// Usage:
//
//	hypua convert < old.txt > new.txt
//	hypua convert --out-dir converted/ corpus/*.txt
//	hypua convert --in-place --workers 8 corpus/*.txt
//	hypua inspect "<text>"
//	hypua table --check hanyang-pua.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jusunglee/hypua/internal/logger"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	log := logger.New()

	rootFlags := ff.NewFlagSet("hypua")
	root := &ff.Command{
		Name:      "hypua",
		Usage:     "hypua <subcommand> [flags]",
		ShortHelp: "convert Hanyang PUA Old Hangul to conjoining jamo",
		Flags:     rootFlags,
		Subcommands: []*ff.Command{
			newConvertCmd(rootFlags, log),
			newInspectCmd(rootFlags),
			newTableCmd(rootFlags, log),
		},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Parse(os.Args[1:], ff.WithEnvVarPrefix("HYPUA")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	if err := root.Run(ctx); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root.GetSelected()))
			return nil
		}
		return err
	}
	return nil
}

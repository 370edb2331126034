package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/jusunglee/hypua"
	"github.com/peterbourgon/ff/v4"
	"golang.org/x/sync/errgroup"
)

func newConvertCmd(parent *ff.FlagSet, log *slog.Logger) *ff.Command {
	fs := ff.NewFlagSet("convert").SetParent(parent)
	var (
		outDir  = fs.StringLong("out-dir", "", "write converted files into this directory")
		inPlace = fs.BoolLong("in-place", "overwrite input files with their conversion")
		workers = fs.Int64Long("workers", 4, "files converted concurrently")
		stats   = fs.BoolLong("stats", "log legacy codepoint counts per input")
	)

	return &ff.Command{
		Name:      "convert",
		Usage:     "hypua convert [--out-dir DIR | --in-place] [FILE...]",
		ShortHelp: "convert stdin or files to conjoining jamo",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			opts := convertOptions{
				outDir:  *outDir,
				inPlace: *inPlace,
				workers: int(*workers),
				stats:   *stats,
			}
			if len(args) == 0 {
				st, err := convertStream(os.Stdout, os.Stdin)
				if err != nil {
					return fmt.Errorf("converting stdin: %w", err)
				}
				if opts.stats {
					logStats(ctx, log, "-", st)
				}
				return nil
			}
			return convertFiles(ctx, log, args, opts)
		},
	}
}

type convertOptions struct {
	outDir  string
	inPlace bool
	workers int
	stats   bool
}

var (
	errConflictingOutput = errors.New("--out-dir and --in-place are mutually exclusive")
	errDuplicateOutput   = errors.New("inputs share an output path")
)

func convertFiles(ctx context.Context, log *slog.Logger, files []string, opts convertOptions) error {
	if opts.outDir != "" && opts.inPlace {
		return errConflictingOutput
	}

	// Without a destination, files are concatenated to stdout in order.
	if opts.outDir == "" && !opts.inPlace {
		for _, file := range files {
			st, err := convertToWriter(os.Stdout, file)
			if err != nil {
				return err
			}
			if opts.stats {
				logStats(ctx, log, file, st)
			}
		}
		return nil
	}

	if err := checkOutputs(files, opts.outDir); err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := outputPath(file, opts.outDir)
			st, err := convertFile(file, dst)
			if err != nil {
				return err
			}
			if opts.stats {
				logStats(ctx, log, file, st)
			}
			return nil
		})
	}
	return g.Wait()
}

// outputPath returns where the conversion of file goes. An empty outDir means
// in place.
func outputPath(file, outDir string) string {
	if outDir == "" {
		return file
	}
	return filepath.Join(outDir, filepath.Base(file))
}

// checkOutputs rejects inputs that would be written to the same path, such as
// a/x.txt and b/x.txt under one --out-dir.
func checkOutputs(files []string, outDir string) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		dst := filepath.Clean(outputPath(file, outDir))
		if prev, ok := seen[dst]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", errDuplicateOutput, prev, file, dst)
		}
		seen[dst] = file
	}
	return nil
}

func convertToWriter(w io.Writer, file string) (hypua.Stats, error) {
	f, err := os.Open(file)
	if err != nil {
		return hypua.Stats{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	st, err := convertStream(w, f)
	if err != nil {
		return hypua.Stats{}, fmt.Errorf("converting %s: %w", file, err)
	}
	return st, nil
}

// convertFile converts src into dst through a temporary file in dst's
// directory, so src == dst is safe and readers never see a partial file.
func convertFile(src, dst string) (hypua.Stats, error) {
	in, err := os.Open(src)
	if err != nil {
		return hypua.Stats{}, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return hypua.Stats{}, fmt.Errorf("stat %s: %w", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return hypua.Stats{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	st, err := convertStream(tmp, in)
	if err != nil {
		tmp.Close()
		return hypua.Stats{}, fmt.Errorf("converting %s: %w", src, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return hypua.Stats{}, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return hypua.Stats{}, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return hypua.Stats{}, fmt.Errorf("replacing %s: %w", dst, err)
	}
	return st, nil
}

func convertStream(w io.Writer, r io.Reader) (hypua.Stats, error) {
	var counter statsCounter
	_, err := io.Copy(w, hypua.NewReader(io.TeeReader(r, &counter)))
	if err != nil {
		return hypua.Stats{}, err
	}
	counter.flush()
	return counter.st, nil
}

// statsCounter accumulates hypua.Analyze over a byte stream, carrying a
// rune split across writes into the next one.
type statsCounter struct {
	st    hypua.Stats
	carry []byte
}

func (c *statsCounter) Write(p []byte) (int, error) {
	buf := append(c.carry, p...)
	n := len(buf)
	for i := max(0, n-utf8.UTFMax+1); i < n; i++ {
		if utf8.RuneStart(buf[i]) && !utf8.FullRune(buf[i:]) {
			n = i
			break
		}
	}
	c.add(hypua.Analyze(string(buf[:n])))
	c.carry = append(c.carry[:0], buf[n:]...)
	return len(p), nil
}

func (c *statsCounter) flush() {
	c.add(hypua.Analyze(string(c.carry)))
	c.carry = c.carry[:0]
}

func (c *statsCounter) add(st hypua.Stats) {
	c.st.Legacy += st.Legacy
	c.st.Resolved += st.Resolved
	c.st.Unmapped += st.Unmapped
}

func logStats(ctx context.Context, log *slog.Logger, name string, st hypua.Stats) {
	level := slog.LevelInfo
	if st.Unmapped > 0 {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "converted",
		"input", name,
		"legacy", st.Legacy,
		"resolved", st.Resolved,
		"unmapped", st.Unmapped,
	)
}

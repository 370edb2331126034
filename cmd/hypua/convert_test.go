package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jusunglee/hypua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	legacyText = "\uF341\uF4D4\uE0BC end"
	ipfText    = "\u110E\u119E\u1112\u1169\u11D9\uE0BC end"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStatsCounterSplitRunes(t *testing.T) {
	var c statsCounter
	for i := range len(legacyText) {
		n, err := c.Write([]byte{legacyText[i]})
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
	c.flush()

	assert.Equal(t, hypua.Analyze(legacyText), c.st)
	assert.Equal(t, hypua.Stats{Legacy: 3, Resolved: 2, Unmapped: 1}, c.st)
}

func TestConvertStream(t *testing.T) {
	var out bytes.Buffer
	st, err := convertStream(&out, strings.NewReader(legacyText))
	require.NoError(t, err)

	assert.Equal(t, ipfText, out.String())
	assert.Equal(t, 2, st.Resolved)
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestConvertFileInPlace(t *testing.T) {
	path := writeInput(t, t.TempDir(), "in.txt", legacyText)

	st, err := convertFile(path, path)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Unmapped)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ipfText, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestConvertFileMissingInput(t *testing.T) {
	_, err := convertFile(filepath.Join(t.TempDir(), "nope.txt"), filepath.Join(t.TempDir(), "out.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertFilesOutDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "converted")

	files := []string{
		writeInput(t, in, "a.txt", legacyText),
		writeInput(t, in, "b.txt", "plain text"),
		writeInput(t, in, "c.txt", "\uF53A"),
	}

	err := convertFiles(context.Background(), discard, files, convertOptions{outDir: out, workers: 2, stats: true})
	require.NoError(t, err)

	want := map[string]string{
		"a.txt": ipfText,
		"b.txt": "plain text",
		"c.txt": "\u1112\u119E\u11AB",
	}
	for name, content := range want {
		got, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, content, string(got), name)
	}

	original, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, legacyText, string(original), "inputs are untouched")
}

func TestConvertFilesConflictingOutput(t *testing.T) {
	err := convertFiles(context.Background(), discard, []string{"x"}, convertOptions{outDir: "out", inPlace: true})
	assert.ErrorIs(t, err, errConflictingOutput)
}

func TestConvertFilesSameBaseNameUnderOutDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "b"), 0o755))
	files := []string{
		writeInput(t, filepath.Join(root, "a"), "x.txt", legacyText),
		writeInput(t, filepath.Join(root, "b"), "x.txt", "plain text"),
	}
	out := filepath.Join(t.TempDir(), "converted")

	err := convertFiles(context.Background(), discard, files, convertOptions{outDir: out, workers: 2})
	require.ErrorIs(t, err, errDuplicateOutput)
	assert.Contains(t, err.Error(), files[0])
	assert.Contains(t, err.Error(), files[1])

	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is written when outputs collide")
}

func TestConvertFilesSameInputTwiceInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "in.txt", legacyText)

	err := convertFiles(context.Background(), discard, []string{path, filepath.Join(dir, ".", "in.txt")}, convertOptions{inPlace: true})
	require.ErrorIs(t, err, errDuplicateOutput)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, legacyText, string(got))
}

func TestConvertFilesStopsOnError(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeInput(t, dir, "ok.txt", legacyText),
		filepath.Join(dir, "missing.txt"),
	}
	err := convertFiles(context.Background(), discard, files, convertOptions{inPlace: true, workers: 1})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "corpus/a.txt", outputPath("corpus/a.txt", ""))
	assert.Equal(t, filepath.Join("out", "a.txt"), outputPath("corpus/a.txt", "out"))
}

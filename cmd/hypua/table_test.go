package main

import (
	"strings"
	"testing"

	"github.com/jusunglee/hypua/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDataset(t *testing.T) {
	data := `# sample
F341 110E&119E
F53A 1112&119E&11AE
E0BC 1100&1161
`
	res, err := checkDataset(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Entries)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, rune(0xE0BC), res.Missing[0].Code)
	require.Len(t, res.Differs, 1)
	assert.Equal(t, rune(0xF53A), res.Differs[0].Code)
}

func TestCheckDatasetErrors(t *testing.T) {
	_, err := checkDataset(strings.NewReader("F341 110E\nF341 110E\n"))
	assert.ErrorIs(t, err, dataset.ErrDuplicate)

	_, err = checkDataset(strings.NewReader("F341 119E&110E\n"))
	assert.Error(t, err, "vowel before leading consonant fails validation")
}

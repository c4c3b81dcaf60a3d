package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"hello", true},
		{"don't", true},
		{"café", true},
		{"", false},
		{"12345", false},
		{"a@b", false},
		{"www", false},
		{"ww", true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidInput(tc.input), "input '%s'", tc.input)
		})
	}
}

func TestCapitalPattern(t *testing.T) {
	assert.Nil(t, ParseCapitals("hello"))
	assert.Equal(t, "Hello", ParseCapitals("He").Apply("hello"))
	assert.Equal(t, "ÉCOLE", ParseCapitals("ÉCOLE").Apply("école"))
	assert.Equal(t, "hi", ParseCapitals("").Apply("hi"))
	// pattern longer than the word
	assert.Equal(t, "AB", ParseCapitals("ABCD").Apply("ab"))
}

func TestFormatWithCommas(t *testing.T) {
	assert.Equal(t, "0", FormatWithCommas(0))
	assert.Equal(t, "999", FormatWithCommas(999))
	assert.Equal(t, "1,000", FormatWithCommas(1000))
	assert.Equal(t, "65,535", FormatWithCommas(65535))
	assert.Equal(t, "12,345,678", FormatWithCommas(12345678))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("The")
	assert.False(t, f.ShouldInclude("the"))
	assert.True(t, f.ShouldInclude("there"))
	assert.False(t, f.ShouldInclude("There"))
}

func TestSuggestionFilterFinalSigma(t *testing.T) {
	assert.Equal(t, "οδος", Lower("ΟΔΟΣ"))

	f := NewSuggestionFilter("ΟΔΟΣ")
	assert.False(t, f.ShouldInclude("οδος"), "echo of the input must be dropped")
	assert.True(t, f.ShouldInclude("οδοστρωμα"))
}

func TestCreateRankList(t *testing.T) {
	assert.Empty(t, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}))

	failed := WriteFileAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return io.ErrShortWrite
	})
	assert.ErrorIs(t, failed, io.ErrShortWrite)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestWriteFileAtomicMode(t *testing.T) {
	dir := t.TempDir()
	write := func(path string) {
		require.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "data")
			return err
		}))
	}

	fresh := filepath.Join(dir, "fresh.txt")
	write(fresh)
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	write(existing)
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

package suggest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestCompleter(t *testing.T, opts Options, words map[string]uint64) *Completer {
	t.Helper()
	c := NewCompleter(opts)
	for w, f := range words {
		_, err := c.AddWord(w, f)
		require.NoError(t, err)
	}
	return c
}

func words(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Word
	}
	return out
}

func TestComplete(t *testing.T) {
	c := newTestCompleter(t, Options{HotCacheSize: 16}, map[string]uint64{
		"hello":   40,
		"help":    90,
		"helmet":  10,
		"hell":    40,
		"he":      500,
		"world":   70,
		"Hamburg": 30,
		"école":   12,
	})

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{"ordered by frequency", "hel", 10, []string{"help", "hell", "hello", "helmet"}},
		{"limit", "hel", 2, []string{"help", "hell"}},
		{"echo excluded", "he", 10, []string{"help", "hell", "hello", "helmet"}},
		{"unbounded", "hel", 0, []string{"help", "hell", "hello", "helmet"}},
		{"no match", "xyz", 10, []string{}},
		{"capitals reapplied", "Hel", 2, []string{"Help", "Hell"}},
		{"terms stored with capitals", "Ham", 5, []string{"Hamburg"}},
		{"case folded echo excluded", "HE", 1, []string{"HElp"}},
		{"unicode folding", "ÉC", 5, []string{"ÉCole"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Complete(tt.prefix, tt.limit)
			assert.Equal(t, tt.want, words(got))
		})
	}
}

func TestCompleteFrequencies(t *testing.T) {
	c := newTestCompleter(t, Options{}, map[string]uint64{"alpha": 3, "alps": 7})

	got := c.Complete("al", 5)
	require.Len(t, got, 2)
	assert.Equal(t, Suggestion{Word: "alps", Frequency: 7}, got[0])
	assert.Equal(t, Suggestion{Word: "alpha", Frequency: 3}, got[1])
}

func TestCompleteMergeTieBreak(t *testing.T) {
	c := newTestCompleter(t, Options{}, map[string]uint64{
		"Abe":  5,
		"abc":  5,
		"abby": 9,
	})

	// "Abe" matches as typed, "abc" and "abby" through the folded prefix.
	assert.Equal(t, []string{"Abby", "Abc", "Abe"}, words(c.Complete("Ab", 5)))
}

func TestCompleteFinalSigmaEcho(t *testing.T) {
	c := newTestCompleter(t, Options{}, map[string]uint64{
		"οδος":      8,
		"οδοστρωμα": 3,
	})

	assert.Equal(t, []string{"οδοστρωμα"}, words(c.Complete("οδος", 5)))
	assert.Equal(t, []string{"ΟΔΟΣτρωμα"}, words(c.Complete("ΟΔΟΣ", 5)))
}

func TestCompleteThresholds(t *testing.T) {
	opts := Options{
		MinFreqThreshold:   20,
		MinFreqShortPrefix: 50,
		ShortPrefixLen:     2,
	}
	c := newTestCompleter(t, opts, map[string]uint64{
		"apple":  60,
		"apply":  30,
		"apron":  10,
		"banana": 5,
	})

	assert.Equal(t, []string{"apple"}, words(c.Complete("ap", 10)))
	assert.Equal(t, []string{"apple", "apply"}, words(c.Complete("app", 10)))
	assert.Empty(t, c.Complete("ban", 10))
}

func TestCompleteInvalidPrefix(t *testing.T) {
	c := newTestCompleter(t, Options{}, map[string]uint64{"abc": 1})
	assert.Nil(t, c.Complete("a\xff", 5))
}

func TestAddWordAccumulates(t *testing.T) {
	c := NewCompleter(Options{})

	total, err := c.AddWord("go", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)

	total, err = c.AddWord("go", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), total)

	_, err = c.AddWord("", 1)
	assert.ErrorIs(t, err, trie.ErrEmptyTerm)
}

func TestAddWordInvalidatesCache(t *testing.T) {
	c := newTestCompleter(t, Options{HotCacheSize: 8}, map[string]uint64{
		"cart": 10,
		"care": 5,
	})

	assert.Equal(t, []string{"cart", "care"}, words(c.Complete("car", 5)))
	assert.Equal(t, 1, c.Stats()["hotCacheEntries"])

	_, err := c.AddWord("card", 20)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Stats()["hotCacheEntries"])
	assert.Equal(t, []string{"card", "cart", "care"}, words(c.Complete("car", 5)))

	_, err = c.AddWord("care", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"care", "card"}, words(c.Complete("car", 2)))
}

func TestCompleteServedFromCache(t *testing.T) {
	c := newTestCompleter(t, Options{HotCacheSize: 8}, map[string]uint64{
		"one":   1,
		"only":  2,
		"onset": 3,
	})

	first := c.Complete("on", 2)
	second := c.Complete("on", 2)
	assert.Equal(t, first, second)

	stats := c.Stats()
	assert.Equal(t, 1, stats["hotCacheHits"])
	assert.Equal(t, 1, stats["hotCacheMisses"])
}

func TestWithTrieClearsCache(t *testing.T) {
	c := newTestCompleter(t, Options{HotCacheSize: 8}, map[string]uint64{"sun": 1})
	c.Complete("su", 5)

	err := c.WithTrie(func(tr *trie.Trie) error {
		_, err := tr.Insert("sunny", 9)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sunny", "sun"}, words(c.Complete("su", 5)))
}

func TestLoadDictionaryAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("red 3\nrose 9\nrow 1\n"), 0644))

	c := NewCompleter(Options{HotCacheSize: 4})
	require.NoError(t, c.LoadDictionary(path, 0, dictionary.DefaultOptions()))
	assert.Equal(t, []string{"rose", "red", "row"}, words(c.Complete("r", 5)))

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf, " "))
	assert.Equal(t, "rose 9\nred 3\nrow 1\n", buf.String())

	out := filepath.Join(dir, "saved.txt")
	require.NoError(t, c.SaveFile(out, "\t"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "rose\t9\nred\t3\nrow\t1\n", string(data))

	stats := c.Stats()
	assert.Equal(t, 3, stats["totalWords"])
	assert.Equal(t, 9, stats["maxFrequency"])
	assert.Equal(t, 0, stats["chunkLoader"])
}

func TestRequestMoreWords(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_0001.txt"), []byte("a 1\nb 2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_0002.txt"), []byte("c 3\nd 4\n"), 0644))

	c := NewCompleter(Options{})
	require.NoError(t, c.LoadDictionary(dir, 2, dictionary.DefaultOptions()))
	assert.Equal(t, 2, c.Stats()["totalWords"])
	assert.Equal(t, 1, c.Stats()["loadedChunks"])

	added, err := c.RequestMoreWords(1)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	stats := c.Stats()
	assert.Equal(t, 4, stats["totalWords"])
	assert.Equal(t, 2, stats["loadedChunks"])
	assert.Equal(t, 2, stats["availableChunks"])
	assert.Equal(t, 1, stats["chunkLoader"])
}

func TestRequestMoreWordsWithoutLoader(t *testing.T) {
	c := NewCompleter(Options{})
	added, err := c.RequestMoreWords(10)
	require.NoError(t, err)
	assert.Zero(t, added)
}

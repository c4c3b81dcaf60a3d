/*
Package dictionary reads and writes dictionaries for the completion trie.

A dictionary is plain delimited text, one "term<sep>weight" record per line
(the columns are configurable). It is either a single file or a directory of
chunks named dict_0001.txt, dict_0002.txt, ... that are loaded in order until
a word limit is reached.
*/
package dictionary

import (
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/trie"
)

// Options tells the loader how to split records.
type Options struct {
	Separator   string
	TermIndex   int
	WeightIndex int
}

// DefaultOptions reads "term weight" lines.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig().Dict)
}

// OptionsFromConfig maps the [dict] config section onto Options.
func OptionsFromConfig(dict config.DictConfig) Options {
	return Options{
		Separator:   dict.Separator,
		TermIndex:   dict.TermIndex,
		WeightIndex: dict.WeightIndex,
	}
}

// LoadTextFile inserts every record of the file at path into t and returns
// how many new terms it added. On error t is left as it was.
func LoadTextFile(t *trie.Trie, path string, opts Options) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	before := t.Len()
	if err := t.Load(file, opts.TermIndex, opts.WeightIndex, opts.Separator); err != nil {
		return 0, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	return t.Len() - before, nil
}

// SaveTextFile writes t to path, heaviest terms first. The file is replaced
// atomically so a failed save never truncates an existing dictionary.
func SaveTextFile(t *trie.Trie, path, separator string) error {
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return t.Save(w, separator)
	})
	if err != nil {
		return fmt.Errorf("failed to save dictionary %s: %w", path, err)
	}
	return nil
}

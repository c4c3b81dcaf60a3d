package suggest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

type Suggestion struct {
	Word      string
	Frequency uint64
}

// Options tunes filtering and caching of a Completer.
type Options struct {
	MinFreqThreshold   uint64
	MinFreqShortPrefix uint64
	ShortPrefixLen     int
	HotCacheSize       int
}

// OptionsFromConfig reads thresholds from [dict] and the cache size from [cache].
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinFreqThreshold:   uint64(max(cfg.Dict.MinFreqThreshold, 0)),
		MinFreqShortPrefix: uint64(max(cfg.Dict.MinFreqShortPrefix, 0)),
		ShortPrefixLen:     cfg.Dict.ShortPrefixLen,
		HotCacheSize:       cfg.Cache.HotCacheSize,
	}
}

// Completer serves completions from a trie. Lookups share a read lock,
// inserts and loads take the write lock.
type Completer struct {
	mu          sync.RWMutex
	trie        *trie.Trie
	hotCache    *HotCache
	chunkLoader *dictionary.ChunkLoader
	opts        Options
}

func NewCompleter(opts Options) *Completer {
	c := &Completer{
		trie: trie.New(),
		opts: opts,
	}
	if opts.HotCacheSize > 0 {
		c.hotCache = NewHotCache(opts.HotCacheSize)
	}
	return c
}

// AddWord adds frequency to word and returns the word's new total.
func (c *Completer) AddWord(word string, frequency uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total, err := c.trie.Insert(word, frequency)
	if err != nil {
		return 0, err
	}
	if c.hotCache != nil {
		c.hotCache.Invalidate(word)
	}
	return total, nil
}

// Complete returns up to limit suggestions for prefix, most frequent first.
// A limit <= 0 returns every match. The prefix is matched lower-cased and,
// when it has capitals, also as typed; the capitals of the input are
// re-applied to lower-case matches.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	if !utf8.ValidString(prefix) {
		log.Debugf("Rejecting invalid UTF-8 prefix %q", prefix)
		return nil
	}
	if limit < 0 {
		limit = trie.Unbounded
	}

	lowerPrefix := utils.Lower(prefix)
	capitals := utils.ParseCapitals(prefix)
	threshold := c.threshold(lowerPrefix)

	// one extra slot for the echo of the input, which is never suggested
	topK := trie.Unbounded
	if limit > 0 {
		topK = limit + 1
	}

	c.mu.RLock()
	lower := c.lookup(lowerPrefix, topK)
	var asTyped []trie.Completion
	if lowerPrefix != prefix {
		asTyped = c.lookup(prefix, topK)
	}
	c.mu.RUnlock()

	filter := utils.NewSuggestionFilter(prefix)
	suggestions := make([]Suggestion, 0, len(lower)+len(asTyped))
	for _, comp := range asTyped {
		if comp.Weight < threshold || !filter.ShouldInclude(comp.Term) {
			continue
		}
		suggestions = append(suggestions, Suggestion{Word: comp.Term, Frequency: comp.Weight})
	}
	for _, comp := range lower {
		word := capitals.Apply(comp.Term)
		if comp.Weight < threshold || !filter.ShouldInclude(word) {
			continue
		}
		suggestions = append(suggestions, Suggestion{Word: word, Frequency: comp.Weight})
	}

	if asTyped != nil {
		sort.Slice(suggestions, func(i, j int) bool {
			if suggestions[i].Frequency != suggestions[j].Frequency {
				return suggestions[i].Frequency > suggestions[j].Frequency
			}
			return suggestions[i].Word < suggestions[j].Word
		})
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// lookup runs a trie lookup through the hot cache. Callers hold c.mu for
// reading, which keeps Put from racing an invalidating insert.
func (c *Completer) lookup(prefix string, topK int) []trie.Completion {
	cacheable := c.hotCache != nil && prefix != ""
	if cacheable {
		if completions, ok := c.hotCache.Get(prefix, topK); ok {
			return completions
		}
	}

	completions, err := c.trie.Lookup(prefix, topK)
	if err != nil {
		log.Errorf("Error looking up prefix '%s': %v", prefix, err)
		return nil
	}
	if cacheable {
		c.hotCache.Put(prefix, topK, completions)
	}
	return completions
}

func (c *Completer) threshold(prefix string) uint64 {
	if utf8.RuneCountInString(prefix) <= c.opts.ShortPrefixLen || utils.IsRepetitive(prefix) {
		return c.opts.MinFreqShortPrefix
	}
	return c.opts.MinFreqThreshold
}

// WithTrie runs fn with the write lock held and drops the hot cache
// afterwards, for bulk changes such as loading a dictionary.
func (c *Completer) WithTrie(fn func(t *trie.Trie) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := fn(c.trie)
	if c.hotCache != nil {
		c.hotCache.Clear()
	}
	return err
}

// LoadDictionary loads a text dictionary or chunk directory. Chunk
// directories stay attached so RequestMoreWords can load further chunks.
func (c *Completer) LoadDictionary(path string, maxWords int, opts dictionary.Options) error {
	return c.WithTrie(func(t *trie.Trie) error {
		loader, err := dictionary.Load(t, path, maxWords, opts)
		if err != nil {
			return err
		}
		c.chunkLoader = loader
		log.Debugf("Loaded %d words from %s", t.Len(), path)
		return nil
	})
}

// RequestMoreWords loads further dictionary chunks until at least
// additionalWords new words are present. It returns how many were added.
func (c *Completer) RequestMoreWords(additionalWords int) (int, error) {
	var added int
	err := c.WithTrie(func(t *trie.Trie) error {
		if c.chunkLoader == nil {
			return nil // No-op if no chunk loader
		}
		var err error
		added, err = c.chunkLoader.LoadMore(t, additionalWords)
		return err
	})
	return added, err
}

// Save writes every word to w, heaviest first.
func (c *Completer) Save(w io.Writer, separator string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Save(w, separator)
}

// SaveFile replaces the file at path with the current dictionary.
func (c *Completer) SaveFile(path, separator string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := dictionary.SaveTextFile(c.trie, path, separator); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	return nil
}

func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	trieStats := c.trie.Stats()
	var loaderStats *dictionary.LoaderStats
	if c.chunkLoader != nil {
		s := c.chunkLoader.GetStats()
		loaderStats = &s
	}
	c.mu.RUnlock()

	maxFrequency := trieStats.MaxWeight
	if maxFrequency > math.MaxInt {
		maxFrequency = math.MaxInt
	}
	stats := map[string]int{
		"totalWords":   trieStats.Terms,
		"nodes":        trieStats.Nodes,
		"maxFrequency": int(maxFrequency),
	}

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}

	if loaderStats != nil {
		stats["loadedChunks"] = loaderStats.LoadedChunks
		stats["availableChunks"] = loaderStats.AvailableChunks
		stats["chunkLoader"] = 1
	} else {
		stats["chunkLoader"] = 0
	}
	return stats
}

package suggest

import (
	"math"
	"sync"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheEntry struct {
	// topK the completions were computed for, trie.Unbounded for all
	topK        int
	completions []trie.Completion
	lastAccess  int64
}

// covers reports whether the entry can answer a request for topK results.
func (e *cacheEntry) covers(topK int) bool {
	if e.topK == trie.Unbounded {
		return true
	}
	if topK == trie.Unbounded {
		return false
	}
	// a short list means the prefix has no more matches
	return e.topK >= topK || len(e.completions) < e.topK
}

// HotCache remembers lookup results per prefix. Entries live in a patricia
// trie so that inserting a word can drop exactly the cached prefixes of it.
type HotCache struct {
	entries     *patricia.Trie
	size        int
	maxEntries  int
	accessCount int64
	hits        int64
	misses      int64
	mu          sync.Mutex
}

// NewHotCache creates a cache holding at most maxEntries prefixes.
func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		entries:    patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached completions for prefix, cut to topK.
func (hc *HotCache) Get(prefix string, topK int) ([]trie.Completion, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.entries.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return nil, false
	}
	entry := item.(*cacheEntry)
	if !entry.covers(topK) {
		hc.misses++
		return nil, false
	}
	hc.hits++
	entry.lastAccess = hc.nextAccessTime()

	out := entry.completions
	if topK != trie.Unbounded && len(out) > topK {
		out = out[:topK]
	}
	return append([]trie.Completion(nil), out...), true
}

// Put stores completions computed for prefix with the given topK.
func (hc *HotCache) Put(prefix string, topK int, completions []trie.Completion) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	entry := &cacheEntry{
		topK:        topK,
		completions: append([]trie.Completion(nil), completions...),
		lastAccess:  hc.nextAccessTime(),
	}
	key := patricia.Prefix(prefix)
	if hc.entries.Get(key) != nil {
		hc.entries.Set(key, entry)
		return
	}
	if hc.size >= hc.maxEntries {
		hc.evictLRU()
	}
	if hc.entries.Insert(key, entry) {
		hc.size++
	}
}

// Invalidate drops every cached prefix of word, the only entries whose
// results can change when word is inserted.
func (hc *HotCache) Invalidate(word string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []patricia.Prefix
	err := hc.entries.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, item patricia.Item) error {
		stale = append(stale, append(patricia.Prefix(nil), p...))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting hot cache prefixes: %v", err)
	}
	stale = append(stale, patricia.Prefix(word))
	for _, p := range stale {
		if hc.entries.Delete(p) {
			hc.size--
		}
	}
}

// Clear drops every entry, used after bulk loads.
func (hc *HotCache) Clear() {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.entries = patricia.NewTrie()
	hc.size = 0
}

// Stats reports cache size and hit counters.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": hc.size,
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
		"hotCacheMisses":  int(hc.misses),
	}
}

func (hc *HotCache) nextAccessTime() int64 {
	hc.accessCount++
	return hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest patricia.Prefix
	var oldestTime int64 = math.MaxInt64

	hc.entries.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if entry := item.(*cacheEntry); entry.lastAccess < oldestTime {
			oldestTime = entry.lastAccess
			oldest = append(oldest[:0], p...)
		}
		return nil
	})

	if oldest != nil && hc.entries.Delete(oldest) {
		hc.size--
		log.Debugf("Evicted prefix '%s' from hot cache", string(oldest))
	}
}

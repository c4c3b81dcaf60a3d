package trie

import (
	"fmt"
	"math/rand"
	"testing"
)

func benchTrie(b *testing.B, words int) *Trie {
	b.Helper()
	rng := rand.New(rand.NewSource(1))
	tr := New()
	for i := 0; i < words; i++ {
		if _, err := tr.Insert(fmt.Sprintf("word%d", rng.Intn(words*4)), uint64(rng.Intn(100000))); err != nil {
			b.Fatal(err)
		}
	}
	return tr
}

func BenchmarkInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	terms := make([]string, 4096)
	for i := range terms {
		terms[i] = fmt.Sprintf("word%d", rng.Intn(1<<20))
	}
	tr := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(terms[i%len(terms)], uint64(i))
	}
}

// 100k words, top 10 against an unbounded walk of the same prefix
func BenchmarkLookup(b *testing.B) {
	tr := benchTrie(b, 100000)
	for _, k := range []int{10, Unbounded} {
		b.Run(fmt.Sprintf("top_%d", k), func(b *testing.B) {
			inputs := []string{"w", "wo", "word1", "word12", "word9"}
			for i := 0; i < b.N; i++ {
				tr.Lookup(inputs[i%len(inputs)], k)
			}
		})
	}
}

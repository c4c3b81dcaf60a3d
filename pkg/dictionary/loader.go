package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

const (
	chunkPrefix  = "dict_"
	chunkExt     = ".txt"
	chunkPattern = chunkPrefix + "*" + chunkExt
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	LoadedWords     int
	LoadedChunks    int
	AvailableChunks int
}

// ChunkLoader loads a chunked dictionary into a trie a chunk at a time.
// It does not own the trie and is not safe for concurrent use; callers
// serialize it together with the trie writes.
type ChunkLoader struct {
	dirPath      string
	maxWords     int
	opts         Options
	loadedChunks map[int]bool
	loadedWords  int
	log          *log.Logger
}

// NewChunkLoader creates a loader for the chunks in dirPath. maxWords caps
// the initial load, 0 loads every chunk.
func NewChunkLoader(dirPath string, maxWords int, opts Options) *ChunkLoader {
	return &ChunkLoader{
		dirPath:      dirPath,
		maxWords:     maxWords,
		opts:         opts,
		loadedChunks: make(map[int]bool),
		log:          logger.New("dict"),
	}
}

// scanChunks lists dict_NNNN.txt files in dirPath sorted by chunk id
func scanChunks(dirPath string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dirPath, chunkPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), chunkPrefix), chunkExt)
		chunkID, err := strconv.Atoi(idStr)
		if err != nil || chunkID < 0 {
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// countLines counts records in a chunk without parsing them
func countLines(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	buf := make([]byte, 32*1024)
	count, last := 0, byte('\n')
	for {
		n, err := file.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}

// GetAvailableChunks scans the directory for chunk files with their sizes
func (cl *ChunkLoader) GetAvailableChunks() ([]ChunkInfo, error) {
	chunks, err := scanChunks(cl.dirPath)
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		wordCount, err := countLines(chunks[i].Filename)
		if err != nil {
			cl.log.Warnf("Failed to get word count for chunk %s: %v", chunks[i].Filename, err)
			continue
		}
		chunks[i].WordCount = wordCount
	}
	return chunks, nil
}

// LoadInitial loads chunks in id order until the trie holds maxWords terms.
func (cl *ChunkLoader) LoadInitial(t *trie.Trie) error {
	chunks, err := scanChunks(cl.dirPath)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", cl.dirPath)
	}
	cl.log.Debugf("Found %d chunk files", len(chunks))

	for _, chunk := range chunks {
		if cl.maxWords > 0 && t.Len() >= cl.maxWords {
			break
		}
		if err := cl.loadChunk(t, chunk); err != nil {
			return err
		}
	}
	return nil
}

// LoadChunk loads a specific chunk by ID. Loading a chunk twice is a no-op.
func (cl *ChunkLoader) LoadChunk(t *trie.Trie, chunkID int) error {
	if cl.loadedChunks[chunkID] {
		return nil
	}
	chunks, err := scanChunks(cl.dirPath)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		if chunk.ChunkID == chunkID {
			return cl.loadChunk(t, chunk)
		}
	}
	return fmt.Errorf("chunk %d not found in %s", chunkID, cl.dirPath)
}

func (cl *ChunkLoader) loadChunk(t *trie.Trie, chunk ChunkInfo) error {
	if cl.loadedChunks[chunk.ChunkID] {
		return nil
	}
	added, err := LoadTextFile(t, chunk.Filename, cl.opts)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", chunk.ChunkID, err)
	}
	cl.loadedChunks[chunk.ChunkID] = true
	cl.loadedWords += added
	cl.log.Debugf("Chunk %d loaded: %d new words", chunk.ChunkID, added)
	return nil
}

// LoadMore loads the next unloaded chunks until at least additionalWords
// new terms were added or no chunk is left. It returns the number of new terms.
func (cl *ChunkLoader) LoadMore(t *trie.Trie, additionalWords int) (int, error) {
	chunks, err := scanChunks(cl.dirPath)
	if err != nil {
		return 0, err
	}
	before := t.Len()
	for _, chunk := range chunks {
		if t.Len()-before >= additionalWords {
			break
		}
		if err := cl.loadChunk(t, chunk); err != nil {
			return t.Len() - before, err
		}
	}
	return t.Len() - before, nil
}

// GetLoadedChunkIDs returns the ids of loaded chunks in order
func (cl *ChunkLoader) GetLoadedChunkIDs() []int {
	ids := make([]int, 0, len(cl.loadedChunks))
	for id := range cl.loadedChunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GetStats returns current loading statistics
func (cl *ChunkLoader) GetStats() LoaderStats {
	chunks, err := scanChunks(cl.dirPath)
	if err != nil {
		cl.log.Warnf("Failed to scan chunks in %s: %v", cl.dirPath, err)
	}
	return LoaderStats{
		LoadedWords:     cl.loadedWords,
		LoadedChunks:    len(cl.loadedChunks),
		AvailableChunks: len(chunks),
	}
}

// Load fills t from path, which is either a text dictionary or a chunk
// directory. For chunk directories the returned loader can load more chunks
// later; for text files it is nil.
func Load(t *trie.Trie, path string, maxWords int, opts Options) (*ChunkLoader, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatChunkDir:
		cl := NewChunkLoader(path, maxWords, opts)
		if err := cl.LoadInitial(t); err != nil {
			return nil, err
		}
		return cl, nil
	default:
		added, err := LoadTextFile(t, path, opts)
		if err != nil {
			return nil, err
		}
		log.Debugf("Loaded %d words from %s", added, path)
		return nil, nil
	}
}

package trie

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxLineSize bounds a single dictionary record.
const maxLineSize = 1 << 20

// ParseError reports a record that stopped a Load.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trie: line %d: field %q: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type record struct {
	term   string
	weight uint64
}

// Load reads one record per line, splits it on separator and inserts the
// term found at termIndex with the weight found at weightIndex.
//
// Records with fewer than two fields, without the requested columns, or with
// an empty term are skipped. A weight that is not a non-negative integer, a
// term that is not valid UTF-8 or a read error aborts the load and leaves the
// trie untouched.
func (t *Trie) Load(r io.Reader, termIndex, weightIndex int, separator string) error {
	if separator == "" {
		return ErrEmptySeparator
	}
	if termIndex < 0 || weightIndex < 0 {
		return fmt.Errorf("trie: negative field index (term %d, weight %d)", termIndex, weightIndex)
	}

	var staged []record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		parts := strings.Split(strings.TrimSuffix(sc.Text(), "\r"), separator)
		if len(parts) < 2 || termIndex >= len(parts) || weightIndex >= len(parts) {
			continue
		}
		term := parts[termIndex]
		if term == "" {
			continue
		}
		if !utf8.ValidString(term) {
			return &ParseError{Line: line, Field: term, Err: ErrInvalidUTF8}
		}
		raw := strings.TrimSpace(parts[weightIndex])
		weight, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &ParseError{Line: line, Field: raw, Err: err}
		}
		staged = append(staged, record{term: term, weight: weight})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("trie: reading line %d: %w", line+1, err)
	}

	for _, rec := range staged {
		if _, err := t.Insert(rec.term, rec.weight); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every term as "term<separator>weight", heaviest first.
// Terms containing the separator or a newline will not load back intact.
func (t *Trie) Save(w io.Writer, separator string) error {
	if separator == "" {
		return ErrEmptySeparator
	}
	bw := bufio.NewWriter(w)
	for _, c := range t.lookup("", Unbounded) {
		if _, err := bw.WriteString(c.Term); err != nil {
			return err
		}
		if _, err := bw.WriteString(separator); err != nil {
			return err
		}
		if _, err := bw.WriteString(strconv.FormatUint(c.Weight, 10)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

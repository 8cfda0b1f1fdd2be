// Package wordlist loads the static word knowledge the classifier depends
// on: headword tables, stop words, compounds, prefixes and root words. All
// values are immutable once loaded and safe to share between goroutines.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// WordSet is an immutable set of lowercase words.
type WordSet map[string]struct{}

// NewWordSet builds a set from words, lowercasing each.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Contains reports whether w is in the set. w must already be lowercase.
func (s WordSet) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// Words returns the members in sorted order.
func (s WordSet) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of s and other.
func (s WordSet) Union(other WordSet) WordSet {
	out := make(WordSet, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// ReadLines reads a one-word-per-line list. Blank lines and lines starting
// with '#' are skipped.
func ReadLines(r io.Reader) (WordSet, error) {
	s := make(WordSet)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadLines reads a one-word-per-line file.
func LoadLines(path string) (WordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

// LoadCommaList reads a comma separated list such as the stop word and
// prefix files.
func LoadCommaList(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitCommaList(string(b)), nil
}

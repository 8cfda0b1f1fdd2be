package nlp

import (
	"sort"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"
)

// Snowball is the English snowball (Porter2) stemmer.
type Snowball struct{}

// Stem lowercases and stems word. Stop words are stemmed too.
func (Snowball) Stem(word string) string {
	return snowballeng.Stem(strings.ToLower(word), true)
}

// PrefixStemmer strips a known prefix before delegating to another stemmer.
// A prefix is only removed when what remains is a root word, so "unhappy"
// stems as "happy" but "under" is left alone.
type PrefixStemmer struct {
	prefixes []string
	roots    Lexicon
	next     Stemmer
}

// NewPrefixStemmer builds a PrefixStemmer. Prefixes are tried longest first.
// A nil next stemmer defaults to Snowball.
func NewPrefixStemmer(prefixes []string, roots Lexicon, next Stemmer) *PrefixStemmer {
	sorted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	if next == nil {
		next = Snowball{}
	}
	return &PrefixStemmer{prefixes: sorted, roots: roots, next: next}
}

func (s *PrefixStemmer) Stem(word string) string {
	return s.next.Stem(s.RemovePrefix(word))
}

// RemovePrefix returns word without its prefix when the residual is a root
// word, and word unchanged otherwise. A hyphen directly after the prefix is
// removed with it. Stripping is cumulative: once a prefix has been removed
// the shorter prefixes are tried against the residual, so "re-unite" can
// fall through "re-" to a root.
func (s *PrefixStemmer) RemovePrefix(word string) string {
	if s.roots == nil {
		return word
	}
	rest := word
	for _, p := range s.prefixes {
		if !strings.HasPrefix(rest, p) {
			continue
		}
		rest = strings.TrimPrefix(rest[len(p):], "-")
		if s.roots.Contains(rest) {
			return rest
		}
	}
	return word
}

package readability

import (
	"regexp"
	"strings"
	"unicode"
)

// A sentence is a run of non-terminators starting at a word boundary,
// followed by its terminators.
var reSentence = regexp.MustCompile(`\b[^.!?]+[.!?]*`)

// contraction suffixes that keep their apostrophe
var contractions = []string{"ve", "ll", "re", "t", "s", "d", "m"}

// RemovePunctuation strips punctuation from text. Apostrophes survive only
// when they introduce a contraction ("don't", "we've"); every other
// character that is neither a word character nor whitespace becomes a
// space. Runs of whitespace are collapsed.
func RemovePunctuation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		switch {
		case r == '\'':
			if startsContraction(runes[i+1:]) {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		case isWordRune(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func startsContraction(rest []rune) bool {
	for _, c := range contractions {
		n := len(c)
		if len(rest) < n || string(rest[:n]) != c {
			continue
		}
		if len(rest) == n || !isWordRune(rest[n]) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// Words returns the words of text after punctuation removal.
func Words(text string) []string {
	return strings.Fields(RemovePunctuation(text))
}

// LexiconCount counts the words of text.
func LexiconCount(text string) int { return len(Words(text)) }

// MiniwordCount counts words of at most three characters.
func MiniwordCount(text string) int {
	n := 0
	for _, w := range Words(text) {
		if len([]rune(w)) <= 3 {
			n++
		}
	}
	return n
}

// SplitSentences returns the sentences of text.
func SplitSentences(text string) []string {
	return reSentence.FindAllString(text, -1)
}

// SentenceCount counts sentences with more than two words. It never returns
// less than one.
func SentenceCount(text string) int {
	n := 0
	for _, s := range SplitSentences(text) {
		if LexiconCount(s) > 2 {
			n++
		}
	}
	return max(1, n)
}

// LimitByWordCount truncates text to about limit words. With keepSentences
// whole sentences are added until the limit is reached, so the result may
// run past it; otherwise the first limit words are kept. A limit <= 0
// returns text unchanged.
func LimitByWordCount(text string, limit int, keepSentences bool) string {
	if limit <= 0 {
		return text
	}
	if !keepSentences {
		words := strings.Fields(text)
		if len(words) > limit {
			words = words[:limit]
		}
		return strings.Join(words, " ")
	}
	var b strings.Builder
	for _, s := range SplitSentences(text) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		if LexiconCount(b.String()) >= limit {
			break
		}
	}
	return b.String()
}

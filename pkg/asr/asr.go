// Package asr compares recognizer output against reference transcripts.
package asr

import (
	"errors"
	"strings"

	"github.com/agext/levenshtein"
)

// ErrVocabularyTooLarge is returned when a transcript pair has more distinct
// words than WER can encode.
var ErrVocabularyTooLarge = errors.New("too many distinct words")

// Words are encoded as runes from the supplementary private use planes so
// the rune-level edit distance can be reused at word level.
const (
	wordRuneBase = 0xF0000
	wordRuneMax  = 0x10FFFD
)

// Rate is an error rate together with the counts behind it.
type Rate struct {
	Distance  int
	RefLength int
	Value     float64
}

func rate(dist, refLen int) Rate {
	r := Rate{Distance: dist, RefLength: refLen}
	switch {
	case dist == 0:
		r.Value = 0
	case refLen == 0:
		r.Value = 1
	default:
		r.Value = float64(dist) / float64(refLen)
	}
	return r
}

// CER returns the character error rate of hyp against ref.
func CER(ref, hyp string) Rate {
	return rate(levenshtein.Distance(ref, hyp, nil), len([]rune(ref)))
}

// WER returns the word error rate of hyp against ref. Words are compared
// case-sensitively after whitespace splitting; normalise beforehand if
// needed.
func WER(ref, hyp string) (Rate, error) {
	refWords, hypWords := strings.Fields(ref), strings.Fields(hyp)
	vocab := make(map[string]rune)
	encode := func(words []string) (string, error) {
		var b strings.Builder
		for _, w := range words {
			r, ok := vocab[w]
			if !ok {
				r = rune(wordRuneBase + len(vocab))
				if r > wordRuneMax {
					return "", ErrVocabularyTooLarge
				}
				vocab[w] = r
			}
			b.WriteRune(r)
		}
		return b.String(), nil
	}
	a, err := encode(refWords)
	if err != nil {
		return Rate{}, err
	}
	b, err := encode(hypWords)
	if err != nil {
		return Rate{}, err
	}
	return rate(levenshtein.Distance(a, b, nil), len(refWords)), nil
}

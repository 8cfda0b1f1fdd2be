// Package readability computes content features and readability formulas
// for English transcripts.
package readability

import (
	"strings"

	"github.com/japaniel/listenability/pkg/nlp"
)

// Version returns the current version of the package.
func Version() string { return "0.1.0" }

// Token is a tagged token of a sentence.
type Token struct {
	Surface string // the text as it appears
	Tag     string // Penn Treebank tag, e.g. "NNS"
	// Category is the lemmatizer category derived from Tag.
	Category nlp.Category
}

// Sentence represents a sentence containing tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Segmenter splits text into sentences.
type Segmenter interface {
	Sentences(text string) ([]string, error)
}

// Analyzer handles sentence segmentation and tagging.
type Analyzer struct {
	seg    Segmenter
	tagger nlp.PosTagger
}

// NewAnalyzer creates an Analyzer backed by the prose models.
func NewAnalyzer() (*Analyzer, error) {
	p, err := nlp.NewProse(0)
	if err != nil {
		return nil, err
	}
	return &Analyzer{seg: p, tagger: p}, nil
}

// NewAnalyzerWith creates an Analyzer from explicit collaborators.
func NewAnalyzerWith(seg Segmenter, tagger nlp.PosTagger) *Analyzer {
	return &Analyzer{seg: seg, tagger: tagger}
}

// Analyze tokenizes and tags text, dropping whitespace-only tokens.
func (a *Analyzer) Analyze(text string) ([]Token, error) {
	tagged, err := a.tagger.Tag(text)
	if err != nil {
		return nil, err
	}
	result := make([]Token, 0, len(tagged))
	for _, t := range tagged {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		result = append(result, Token{
			Surface:  t.Text,
			Tag:      t.Tag,
			Category: nlp.CategoryFor(t.Tag),
		})
	}
	return result, nil
}

// AnalyzeDocument splits the text into sentences and tokenizes each sentence.
func (a *Analyzer) AnalyzeDocument(text string) ([]Sentence, error) {
	rawSentences, err := a.seg.Sentences(text)
	if err != nil {
		return nil, err
	}
	var result []Sentence
	for _, s := range rawSentences {
		if strings.TrimSpace(s) == "" {
			continue
		}
		tokens, err := a.Analyze(s)
		if err != nil {
			return nil, err
		}
		result = append(result, Sentence{
			Text:   s,
			Tokens: tokens,
		})
	}
	return result, nil
}

// TaggedTokens flattens the tokens of sentences.
func TaggedTokens(sentences []Sentence) []nlp.TaggedToken {
	var out []nlp.TaggedToken
	for _, s := range sentences {
		for _, t := range s.Tokens {
			out = append(out, nlp.TaggedToken{Text: t.Surface, Tag: t.Tag})
		}
	}
	return out
}

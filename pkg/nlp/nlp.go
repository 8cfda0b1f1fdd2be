// Package nlp defines the language-processing capabilities the classifier
// and the readability scorer depend on, together with implementations backed
// by snowball (stemming) and prose (tagging, segmentation, named entities).
package nlp

import "strings"

// Category is the coarse grammatical category a lemmatizer works with.
type Category byte

const (
	Noun      Category = 'n'
	Verb      Category = 'v'
	Adjective Category = 'a'
	Adverb    Category = 'r'
)

func (c Category) String() string {
	switch c {
	case Noun:
		return "noun"
	case Verb:
		return "verb"
	case Adjective:
		return "adjective"
	case Adverb:
		return "adverb"
	}
	return "unknown"
}

// Column returns the name of the headword table column that holds lemmas for
// this category (lemma_n, lemma_v, lemma_a, lemma_r).
func (c Category) Column() string { return "lemma_" + string(c) }

// CategoryFor maps a Penn Treebank tag to a Category. The checks run in
// order on the uppercased tag: anything containing "V" is a verb, then "JJ"
// an adjective, then "RB" an adverb. Everything else, including unknown
// tags, is a noun.
func CategoryFor(tag string) Category {
	tag = strings.ToUpper(tag)
	switch {
	case strings.Contains(tag, "V"):
		return Verb
	case strings.Contains(tag, "JJ"):
		return Adjective
	case strings.Contains(tag, "RB"):
		return Adverb
	default:
		return Noun
	}
}

// Stemmer reduces a word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// Lemmatizer returns the dictionary form of a word for a category.
type Lemmatizer interface {
	Lemmatize(word string, cat Category) string
}

// TaggedToken is a token with its Penn Treebank part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// PosTagger tokenizes and tags a piece of text.
type PosTagger interface {
	Tag(text string) ([]TaggedToken, error)
}

// Entity is a named entity span, e.g. {"Obama", "PERSON"}.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer extracts named entities from text.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// Lexicon reports whether a word is a known English word.
type Lexicon interface {
	Contains(word string) bool
}

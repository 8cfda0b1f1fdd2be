package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/wordlist"
)

var (
	reComparative = regexp.MustCompile(`e[rs]t?$`)
	reAdverbLy    = regexp.MustCompile(`ly$`)
)

// Familiarity decides whether a word counts as familiar against a reference
// list of easy words (the Dale–Chall list). Unlike Classify it consults a
// named-entity recognizer: proper nouns naming people and places are
// treated as familiar.
type Familiarity struct {
	list       *wordlist.HeadwordTable
	lemmatizer nlp.Lemmatizer
	tagger     nlp.PosTagger
	ner        nlp.EntityRecognizer
}

// NewFamiliarity returns a Familiarity check over list. tagger and ner may
// be nil, in which case the checks that need them never match.
func NewFamiliarity(list *wordlist.HeadwordTable, lemmatizer nlp.Lemmatizer, tagger nlp.PosTagger, ner nlp.EntityRecognizer) *Familiarity {
	return &Familiarity{list: list, lemmatizer: lemmatizer, tagger: tagger, ner: ner}
}

// IsFamiliar reports whether word, tagged tag, is familiar. Only the first
// applicable rule is consulted.
func (f *Familiarity) IsFamiliar(word, tag string) bool {
	lower := strings.ToLower(word)
	switch {
	case f.list.Contains(lower):
		return true
	case isNumeric(word):
		return true
	case strings.HasSuffix(word, "en"):
		return false
	case tag == "NNP":
		return f.namesPersonOrPlace(word)
	case isVerbTag(tag):
		if f.lemmatizer == nil {
			return false
		}
		_, ok := f.list.ByLemma(nlp.Verb, f.lemmatizer.Lemmatize(lower, nlp.Verb))
		return ok
	case tag == "JJ" || tag == "JJR" || tag == "JJS":
		if _, ok := f.list.ByLemma(nlp.Adjective, reComparative.ReplaceAllString(lower, "")); ok {
			return true
		}
		if strings.HasSuffix(word, "n") {
			// adjectives formed from a noun, e.g. "Canadian" -> "Canadia"
			return f.taggedAsNoun(word[:len(word)-1])
		}
		return false
	case tag == "RB":
		return f.list.Contains(reAdverbLy.ReplaceAllString(lower, ""))
	case strings.Contains(word, "-"):
		parts := strings.Fields(strings.ReplaceAll(lower, "-", " "))
		for _, p := range parts {
			if !f.list.Contains(p) {
				return false
			}
		}
		return true
	}
	return false
}

// CountFamiliar counts the familiar tokens among toks, skipping punctuation.
func (f *Familiarity) CountFamiliar(toks []nlp.TaggedToken) int {
	n := 0
	for _, t := range toks {
		if t.Text == "" || isPunctuation(t.Text) {
			continue
		}
		if f.IsFamiliar(t.Text, t.Tag) {
			n++
		}
	}
	return n
}

func (f *Familiarity) namesPersonOrPlace(word string) bool {
	if f.ner == nil {
		return false
	}
	ents, err := f.ner.Entities(word)
	if err != nil || len(ents) == 0 {
		return false
	}
	label := ents[0].Label
	return label == "PERSON" || label == "GPE"
}

func (f *Familiarity) taggedAsNoun(word string) bool {
	if f.tagger == nil || word == "" {
		return false
	}
	toks, err := f.tagger.Tag(word)
	if err != nil || len(toks) == 0 {
		return false
	}
	switch toks[0].Tag {
	case "NN", "NNP", "NNS":
		return true
	}
	return false
}

func isVerbTag(tag string) bool {
	switch tag {
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return true
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// isPunctuation reports whether s is a single ASCII punctuation character.
func isPunctuation(s string) bool {
	return len(s) == 1 && strings.ContainsAny(s, "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~")
}

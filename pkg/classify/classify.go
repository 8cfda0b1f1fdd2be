// Package classify assigns difficulty classes to English words.
//
// A word's class comes from the first of these lookups that matches:
//
//  1. the stop word set (class 1);
//  2. the word column of the headword table;
//  3. the better of two fallbacks:
//     the word's stem, looked up in the stem column and as a headword,
//     and the word's lemma for its POS category, looked up in the matching
//     lemma column and as a headword.
//
// Words matched by none of them get Unknown (11), which is also the hardest
// class. Compound words take the hardest class among their constituents.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/wordlist"
)

// Class is a difficulty class in [Easiest, Unknown].
type Class float64

const (
	// Easiest is the class of stop words and the floor for compounds.
	Easiest Class = 1
	// Unknown is assigned to words no lookup matches. It is also the
	// maximum class.
	Unknown Class = 11
)

// ErrUnknownCompound is returned by ClassifyCompound for words that are not
// in the compound dictionary.
var ErrUnknownCompound = errors.New("unknown compound")

// Classifier classifies words against a fixed set of resources. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	headwords  *wordlist.HeadwordTable
	stopwords  wordlist.WordSet
	compounds  wordlist.Compounds
	stemmer    nlp.Stemmer
	lemmatizer nlp.Lemmatizer
	cascade    lookup
}

// New returns a Classifier using res and the given stemmer and lemmatizer.
func New(res *wordlist.Resources, stemmer nlp.Stemmer, lemmatizer nlp.Lemmatizer) *Classifier {
	c := &Classifier{
		headwords:  res.Headwords,
		stopwords:  res.Stopwords,
		compounds:  res.Compounds,
		stemmer:    stemmer,
		lemmatizer: lemmatizer,
	}
	c.cascade = defaultCascade()
	return c
}

// NewDefault returns a Classifier with the prefix-aware snowball stemmer and
// the morphy lemmatizer, both using res.Roots as their lexicon.
func NewDefault(res *wordlist.Resources) *Classifier {
	return New(res,
		nlp.NewPrefixStemmer(res.Prefixes, res.Roots, nlp.Snowball{}),
		nlp.NewMorphy(res.Roots))
}

// Result explains how a class was reached.
type Result struct {
	Word  string
	Tag   string
	Class Class
	// Source names the lookup that produced Class; empty when Unknown was
	// assigned because nothing matched.
	Source string
	// Stem and Lemma are set only when the fallback lookups ran.
	Stem  string
	Lemma string
}

// Classify returns the difficulty class of word given its Penn Treebank
// tag. The word is lowercased first. An empty word is Unknown.
func (c *Classifier) Classify(word, tag string) Class {
	return c.Explain(word, tag).Class
}

// Explain classifies word and reports which lookup decided the class.
func (c *Classifier) Explain(word, tag string) Result {
	p := &probe{c: c, word: strings.ToLower(strings.TrimSpace(word)), tag: tag}
	res := Result{Word: p.word, Tag: tag, Class: Unknown}
	if p.word == "" {
		return res
	}
	if m, ok := c.cascade(p); ok {
		res.Class, res.Source = m.class, m.source
	}
	res.Stem, res.Lemma = p.stem, p.lemma
	return res
}

// IsCompound reports whether word is in the compound dictionary.
func (c *Classifier) IsCompound(word string) bool {
	_, ok := c.compounds.Parts(strings.ToLower(word))
	return ok
}

// ClassifyCompound classifies a registered compound as the hardest of its
// constituents, each classified with the compound's tag. The result is never
// below Easiest.
func (c *Classifier) ClassifyCompound(compound, tag string) (Class, error) {
	parts, ok := c.compounds.Parts(strings.ToLower(compound))
	if !ok {
		return Unknown, fmt.Errorf("%w: %q", ErrUnknownCompound, compound)
	}
	class := Easiest
	for _, w := range parts {
		class = max(class, c.Classify(w, tag))
	}
	return class, nil
}

// Resolve classifies word as a compound when it is one and as a plain word
// otherwise.
func (c *Classifier) Resolve(word, tag string) Class {
	if class, err := c.ClassifyCompound(word, tag); err == nil {
		return class
	}
	return c.Classify(word, tag)
}

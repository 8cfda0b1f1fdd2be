package classify

import (
	"errors"
	"testing"

	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStemmer stems through a fixed table and returns unknown words as is.
type mapStemmer struct {
	stems map[string]string
	calls int
}

func (s *mapStemmer) Stem(w string) string {
	s.calls++
	if st, ok := s.stems[w]; ok {
		return st
	}
	return w
}

// mapLemmatizer lemmatizes through a table keyed by category then word.
type mapLemmatizer map[nlp.Category]map[string]string

func (l mapLemmatizer) Lemmatize(w string, cat nlp.Category) string {
	if lem, ok := l[cat][w]; ok {
		return lem
	}
	return w
}

func hw(word, stem, lemma string, class float64) wordlist.Headword {
	return wordlist.Headword{
		Word: word, Stem: stem,
		LemmaN: lemma, LemmaV: lemma, LemmaA: lemma, LemmaR: lemma,
		Class: class, HasClass: true,
	}
}

func newTestClassifier(t *testing.T) (*Classifier, *mapStemmer) {
	t.Helper()
	res := &wordlist.Resources{
		Headwords: wordlist.NewHeadwordTable([]wordlist.Headword{
			hw("cat", "cat", "cat", 3),
			hw("run", "run", "run", 2),
			hw("dog", "dog", "dog", 4),
			hw("dog", "dog", "dog", 9), // duplicate: first row wins
			hw("worker", "work", "worker", 6),
			hw("sitter", "sitter", "sitter", 5),
			{Word: "gloomy", Stem: "foo", LemmaN: "gloomy", Class: 8, HasClass: true},
			{Word: "murk", Stem: "murk", LemmaN: "fooz", Class: 7, HasClass: true},
		}),
		Stopwords: wordlist.NewWordSet("the", "a", "baby", "is"),
		Compounds: wordlist.Compounds{
			"babysitter": {"baby", "sitter"},
			"thea":       {"the", "a"},
			"dogcat":     {"dog", "cat"},
			"catblorp":   {"cat", "blorp"},
		},
	}
	stemmer := &mapStemmer{stems: map[string]string{
		"cats":    "cat",
		"running": "runn",
		"working": "work",
		"foos":    "foo",
		"workers": "worker",
	}}
	lemmatizer := mapLemmatizer{
		nlp.Verb: {"running": "run", "ran": "run"},
		nlp.Noun: {"foos": "fooz", "cats": "cat"},
	}
	return New(res, stemmer, lemmatizer), stemmer
}

func TestStopwordsAreEasiest(t *testing.T) {
	c, _ := newTestClassifier(t)
	for _, tag := range []string{"DT", "NN", "VB", "JJ", "RB", ""} {
		assert.Equal(t, Easiest, c.Classify("the", tag), "tag %q", tag)
		assert.Equal(t, Easiest, c.Classify("The", tag), "tag %q", tag)
	}
}

func TestHeadwordClassIgnoresTag(t *testing.T) {
	c, _ := newTestClassifier(t)
	for _, tag := range []string{"NN", "VB", "JJ", "RB", "XYZ"} {
		assert.Equal(t, Class(3), c.Classify("cat", tag))
		assert.Equal(t, Class(2), c.Classify("RUN", tag))
		assert.Equal(t, Class(4), c.Classify("dog", tag), "first row should win")
	}
}

func TestUnknownHeadwordFallsThrough(t *testing.T) {
	res := &wordlist.Resources{
		Headwords: wordlist.NewHeadwordTable([]wordlist.Headword{
			hw("runnings", "runnings", "runnings", 11),
			hw("run", "run", "run", 2),
		}),
		Stopwords: wordlist.NewWordSet(),
	}
	stemmer := &mapStemmer{stems: map[string]string{"runnings": "run"}}
	c := New(res, stemmer, mapLemmatizer{nlp.Noun: {"runnings": "run"}})

	got := c.Explain("runnings", "NNS")
	assert.Equal(t, Class(2), got.Class)
	assert.NotEqual(t, "headword", got.Source)
	assert.Equal(t, "run", got.Stem)

	// nothing easier found: the row's class stands
	c = New(res, &mapStemmer{}, mapLemmatizer{})
	assert.Equal(t, Unknown, c.Classify("runnings", "NNS"))
}

func TestHeadwordHitSkipsStemming(t *testing.T) {
	c, stemmer := newTestClassifier(t)
	c.Classify("cat", "NN")
	c.Classify("the", "DT")
	assert.Zero(t, stemmer.calls)
}

func TestUnknownWord(t *testing.T) {
	c, _ := newTestClassifier(t)
	assert.Equal(t, Unknown, c.Classify("zyzzyva", "NN"))
	assert.Equal(t, Unknown, c.Classify("zyzzyva", "VB"))
	assert.Equal(t, Unknown, c.Classify("", "NN"))
	assert.Equal(t, Unknown, c.Classify("   ", "NN"))
}

func TestClassifyIsDeterministic(t *testing.T) {
	c, _ := newTestClassifier(t)
	for _, w := range []string{"cats", "running", "zyzzyva", "the", "foos"} {
		first := c.Classify(w, "NNS")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, c.Classify(w, "NNS"), w)
		}
	}
}

func TestClassRange(t *testing.T) {
	c, _ := newTestClassifier(t)
	for _, w := range []string{"cats", "running", "zyzzyva", "the", "foos", "working", "dog"} {
		for _, tag := range []string{"NN", "VBG", "JJ", "RB"} {
			got := c.Classify(w, tag)
			assert.GreaterOrEqual(t, float64(got), float64(Easiest))
			assert.LessOrEqual(t, float64(got), float64(Unknown))
		}
	}
}

func TestPluralFallsBackToStem(t *testing.T) {
	c, _ := newTestClassifier(t)
	assert.Equal(t, Class(3), c.Classify("cats", "NNS"))
}

func TestFallbackTakesEasierOfStemAndLemma(t *testing.T) {
	c, _ := newTestClassifier(t)
	// stem "foo" hits gloomy (8) in the stem column, lemma "fooz" hits murk
	// (7) in lemma_n.
	res := c.Explain("foos", "NNS")
	assert.Equal(t, Class(7), res.Class)
	assert.Equal(t, "lemma_n", res.Source)
	assert.Equal(t, "foo", res.Stem)
	assert.Equal(t, "fooz", res.Lemma)

	// As a verb the lemma is "foos" itself, which misses; the stem wins.
	res = c.Explain("foos", "VBZ")
	assert.Equal(t, Class(8), res.Class)
	assert.Equal(t, "stem", res.Source)
}

func TestTagSelectsLemma(t *testing.T) {
	c, _ := newTestClassifier(t)
	// The stem "runn" matches nothing, so the class depends on the lemma.
	assert.Equal(t, Class(2), c.Classify("running", "VBG"))
	assert.Equal(t, Class(2), c.Classify("running", "VB"))
	assert.Equal(t, Unknown, c.Classify("running", "NN"))
}

func TestStemColumnHit(t *testing.T) {
	c, _ := newTestClassifier(t)
	res := c.Explain("working", "NN")
	assert.Equal(t, Class(6), res.Class)
	assert.Equal(t, "stem", res.Source)
}

func TestExplainSources(t *testing.T) {
	c, _ := newTestClassifier(t)
	assert.Equal(t, "stopword", c.Explain("a", "DT").Source)
	assert.Equal(t, "headword", c.Explain("cat", "NN").Source)
	// "cat" is both a stem and a headword; ties go to the stem column.
	assert.Equal(t, "stem", c.Explain("cats", "NNS").Source)
	assert.Equal(t, "stem-headword", c.Explain("workers", "NNS").Source)
	assert.Equal(t, "", c.Explain("zyzzyva", "NN").Source)
}

func TestClassifyCompound(t *testing.T) {
	c, _ := newTestClassifier(t)

	got, err := c.ClassifyCompound("thea", "NN")
	require.NoError(t, err)
	assert.Equal(t, Easiest, got, "all-stopword compound")

	got, err = c.ClassifyCompound("babysitter", "NN")
	require.NoError(t, err)
	assert.Equal(t, Class(5), got, "max of 1 and 5")

	got, err = c.ClassifyCompound("DogCat", "NN")
	require.NoError(t, err)
	assert.Equal(t, Class(4), got)

	got, err = c.ClassifyCompound("catblorp", "NN")
	require.NoError(t, err)
	assert.Equal(t, Unknown, got)
}

func TestClassifyCompoundUnknown(t *testing.T) {
	c, _ := newTestClassifier(t)
	_, err := c.ClassifyCompound("cat", "NN")
	assert.True(t, errors.Is(err, ErrUnknownCompound))
}

func TestResolve(t *testing.T) {
	c, _ := newTestClassifier(t)
	assert.True(t, c.IsCompound("Babysitter"))
	assert.False(t, c.IsCompound("cat"))
	assert.Equal(t, Class(5), c.Resolve("babysitter", "NN"))
	assert.Equal(t, Class(3), c.Resolve("cats", "NNS"))
}

func TestNewDefault(t *testing.T) {
	res := &wordlist.Resources{
		Headwords: wordlist.NewHeadwordTable([]wordlist.Headword{hw("happy", "happi", "happy", 2)}),
		Stopwords: wordlist.DefaultStopwords(),
		Prefixes:  []string{"un"},
		Roots:     wordlist.NewWordSet("happy"),
	}
	c := NewDefault(res)
	// "unhappy" loses its prefix and stems to the headword's stem.
	assert.Equal(t, Class(2), c.Classify("unhappy", "JJ"))
	assert.Equal(t, Easiest, c.Classify("the", "DT"))
}

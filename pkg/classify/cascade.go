package classify

import (
	"github.com/japaniel/listenability/pkg/nlp"
	"github.com/japaniel/listenability/pkg/wordlist"
)

// probe carries one word through the cascade. The stem and lemma are
// computed on first use so the direct lookups never pay for them.
type probe struct {
	c    *Classifier
	word string
	tag  string

	stem       string
	lemma      string
	stemmed    bool
	lemmatized bool
}

func (p *probe) Stem() string {
	if !p.stemmed {
		p.stem, p.stemmed = p.c.stemmer.Stem(p.word), true
	}
	return p.stem
}

func (p *probe) Lemma() string {
	if !p.lemmatized {
		p.lemma, p.lemmatized = p.c.lemmatizer.Lemmatize(p.word, nlp.CategoryFor(p.tag)), true
	}
	return p.lemma
}

type match struct {
	class  Class
	source string
}

// lookup returns the class found for a probe, or false on a miss.
type lookup func(p *probe) (match, bool)

// firstOf returns the result of the first lookup that hits.
func firstOf(ls ...lookup) lookup {
	return func(p *probe) (match, bool) {
		for _, l := range ls {
			if m, ok := l(p); ok {
				return m, true
			}
		}
		return match{}, false
	}
}

// minOf runs every lookup and keeps the easiest hit. Ties go to the earlier
// lookup.
func minOf(ls ...lookup) lookup {
	return func(p *probe) (match, bool) {
		var best match
		found := false
		for _, l := range ls {
			if m, ok := l(p); ok && (!found || m.class < best.class) {
				best, found = m, true
			}
		}
		return best, found
	}
}

func defaultCascade() lookup {
	return firstOf(
		stopword,
		headword,
		minOf(
			minOf(stemColumn, stemHeadword),
			minOf(lemmaColumn, lemmaHeadword),
		),
	)
}

func stopword(p *probe) (match, bool) {
	if p.c.stopwords.Contains(p.word) {
		return match{Easiest, "stopword"}, true
	}
	return match{}, false
}

// headword treats a row carrying the Unknown class as a miss so the stem
// and lemma lookups still get a chance.
func headword(p *probe) (match, bool) {
	m, ok := classOf(p.c.headwords.ByWord(p.word))("headword")
	if !ok || m.class == Unknown {
		return match{}, false
	}
	return m, true
}

func stemColumn(p *probe) (match, bool) {
	return classOf(p.c.headwords.ByStem(p.Stem()))("stem")
}

func stemHeadword(p *probe) (match, bool) {
	return classOf(p.c.headwords.ByWord(p.Stem()))("stem-headword")
}

func lemmaColumn(p *probe) (match, bool) {
	cat := nlp.CategoryFor(p.tag)
	return classOf(p.c.headwords.ByLemma(cat, p.Lemma()))(cat.Column())
}

func lemmaHeadword(p *probe) (match, bool) {
	return classOf(p.c.headwords.ByWord(p.Lemma()))("lemma-headword")
}

func classOf(h wordlist.Headword, ok bool) func(source string) (match, bool) {
	return func(source string) (match, bool) {
		if !ok || !h.HasClass {
			return match{}, false
		}
		return match{Class(h.Class), source}, true
	}
}

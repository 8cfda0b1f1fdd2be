package wordlist

import (
	"errors"
	"fmt"
)

// Paths locates the resource files. Empty paths fall back to the embedded
// defaults (stop words, prefixes, dependent clause markers) or to an empty
// resource (compounds, familiar list, roots).
type Paths struct {
	Headwords  string
	Familiar   string
	Stopwords  string
	Prefixes   string
	Compounds  string
	Roots      string
	DepMarkers string
}

// Resources bundles every knowledge source. Build it once at startup and
// pass it to the consumers; nothing in it is modified afterwards.
type Resources struct {
	Headwords  *HeadwordTable
	Familiar   *HeadwordTable
	Stopwords  WordSet
	Compounds  Compounds
	Prefixes   []string
	Roots      WordSet
	DepMarkers []string
}

// ErrNoHeadwords is returned by Load when no headword table is configured.
var ErrNoHeadwords = errors.New("headword table path is required")

// Load reads all resources named in p.
func Load(p Paths) (*Resources, error) {
	if p.Headwords == "" {
		return nil, ErrNoHeadwords
	}
	r := &Resources{}
	var err error

	if r.Headwords, err = LoadHeadwords(p.Headwords, true); err != nil {
		return nil, fmt.Errorf("headwords: %w", err)
	}
	if p.Familiar != "" {
		if r.Familiar, err = LoadHeadwords(p.Familiar, false); err != nil {
			return nil, fmt.Errorf("familiar list: %w", err)
		}
	}

	r.Stopwords = DefaultStopwords()
	if p.Stopwords != "" {
		words, err := LoadCommaList(p.Stopwords)
		if err != nil {
			return nil, fmt.Errorf("stopwords: %w", err)
		}
		r.Stopwords = NewWordSet(words...)
	}

	r.Prefixes = DefaultPrefixes()
	if p.Prefixes != "" {
		if r.Prefixes, err = LoadCommaList(p.Prefixes); err != nil {
			return nil, fmt.Errorf("prefixes: %w", err)
		}
	}

	r.DepMarkers = DefaultDepMarkers()
	if p.DepMarkers != "" {
		if r.DepMarkers, err = LoadCommaList(p.DepMarkers); err != nil {
			return nil, fmt.Errorf("dependent clause markers: %w", err)
		}
	}

	r.Compounds = Compounds{}
	if p.Compounds != "" {
		if r.Compounds, err = LoadCompounds(p.Compounds); err != nil {
			return nil, fmt.Errorf("compounds: %w", err)
		}
	}

	r.Roots = WordSet{}
	if p.Roots != "" {
		if r.Roots, err = LoadLines(p.Roots); err != nil {
			return nil, fmt.Errorf("roots: %w", err)
		}
	}
	r.Roots = r.Roots.Union(r.headwordWords())
	return r, nil
}

// headwordWords collects the surface forms of the headword and familiar
// tables so the root lexicon always knows them.
func (r *Resources) headwordWords() WordSet {
	out := make(WordSet)
	for _, t := range []*HeadwordTable{r.Headwords, r.Familiar} {
		if t == nil {
			continue
		}
		for _, h := range t.Rows() {
			out[h.Word] = struct{}{}
		}
	}
	return out
}

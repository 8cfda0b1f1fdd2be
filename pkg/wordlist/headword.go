package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/japaniel/listenability/pkg/nlp"
)

// Class bounds accepted in a headword table.
const (
	MinClass = 1.0
	MaxClass = 11.0
)

// Column names of the detailed headword CSV.
const (
	ColWord   = "word"
	ColStem   = "stem"
	ColLemmaN = "lemma_n"
	ColLemmaV = "lemma_v"
	ColLemmaA = "lemma_a"
	ColLemmaR = "lemma_r"
	ColClass  = "hw_class"
)

// Header is the column order written by Expand and expected by the loader.
var Header = []string{ColWord, ColStem, ColLemmaN, ColLemmaV, ColLemmaA, ColLemmaR, ColClass}

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Headword is one row of a headword table.
type Headword struct {
	Word   string
	Stem   string
	LemmaN string
	LemmaV string
	LemmaA string
	LemmaR string
	// Class is only meaningful when HasClass is set; familiar-word lists
	// carry no class column.
	Class    float64
	HasClass bool
}

// Lemma returns the lemma column matching cat.
func (h Headword) Lemma(cat nlp.Category) string {
	switch cat {
	case nlp.Verb:
		return h.LemmaV
	case nlp.Adjective:
		return h.LemmaA
	case nlp.Adverb:
		return h.LemmaR
	default:
		return h.LemmaN
	}
}

// HeadwordTable indexes headword rows by surface form, stem and per-category
// lemma. When several rows share a key the first one in file order wins.
type HeadwordTable struct {
	rows   []Headword
	byWord map[string]int
	byStem map[string]int
	byLem  map[nlp.Category]map[string]int
}

// NewHeadwordTable indexes rows.
func NewHeadwordTable(rows []Headword) *HeadwordTable {
	t := &HeadwordTable{
		rows:   rows,
		byWord: make(map[string]int, len(rows)),
		byStem: make(map[string]int, len(rows)),
		byLem: map[nlp.Category]map[string]int{
			nlp.Noun:      make(map[string]int),
			nlp.Verb:      make(map[string]int),
			nlp.Adjective: make(map[string]int),
			nlp.Adverb:    make(map[string]int),
		},
	}
	for i, r := range rows {
		index(t.byWord, r.Word, i)
		index(t.byStem, r.Stem, i)
		for cat, m := range t.byLem {
			index(m, r.Lemma(cat), i)
		}
	}
	return t
}

func index(m map[string]int, key string, i int) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = i
	}
}

// Len returns the number of rows.
func (t *HeadwordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns the rows in file order. Callers must not modify the slice.
func (t *HeadwordTable) Rows() []Headword {
	if t == nil {
		return nil
	}
	return t.rows
}

// ByWord returns the first row whose word column equals w.
func (t *HeadwordTable) ByWord(w string) (Headword, bool) {
	if t == nil {
		return Headword{}, false
	}
	return t.lookup(t.byWord, w)
}

// ByStem returns the first row whose stem column equals s.
func (t *HeadwordTable) ByStem(s string) (Headword, bool) {
	if t == nil {
		return Headword{}, false
	}
	return t.lookup(t.byStem, s)
}

// ByLemma returns the first row whose lemma column for cat equals l.
func (t *HeadwordTable) ByLemma(cat nlp.Category, l string) (Headword, bool) {
	if t == nil {
		return Headword{}, false
	}
	return t.lookup(t.byLem[cat], l)
}

// Contains reports whether w appears in the word column.
func (t *HeadwordTable) Contains(w string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byWord[w]
	return ok
}

func (t *HeadwordTable) lookup(m map[string]int, key string) (Headword, bool) {
	if key == "" {
		return Headword{}, false
	}
	i, ok := m[key]
	if !ok {
		return Headword{}, false
	}
	return t.rows[i], true
}

// ReadHeadwords parses a headword CSV with a header row. Columns are located
// by name, so extra columns are ignored. When requireClass is set the
// hw_class column must be present and every class must lie in
// [MinClass, MaxClass].
func ReadHeadwords(r io.Reader, requireClass bool) (*HeadwordTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range Header[:6] {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	classCol, hasClass := cols[ColClass]
	if requireClass && !hasClass {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColClass)
	}

	field := func(rec []string, name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Headword
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		h := Headword{
			Word:   field(rec, ColWord),
			Stem:   field(rec, ColStem),
			LemmaN: field(rec, ColLemmaN),
			LemmaV: field(rec, ColLemmaV),
			LemmaA: field(rec, ColLemmaA),
			LemmaR: field(rec, ColLemmaR),
		}
		if hasClass && classCol < len(rec) && strings.TrimSpace(rec[classCol]) != "" {
			c, err := strconv.ParseFloat(strings.TrimSpace(rec[classCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: class: %w", line, err)
			}
			if c < MinClass || c > MaxClass {
				return nil, fmt.Errorf("line %d: class %v outside [%v, %v]", line, c, MinClass, MaxClass)
			}
			h.Class, h.HasClass = c, true
		} else if requireClass {
			return nil, fmt.Errorf("line %d: missing class", line)
		}
		rows = append(rows, h)
	}
	return NewHeadwordTable(rows), nil
}

// LoadHeadwords reads a headword CSV from path.
func LoadHeadwords(path string, requireClass bool) (*HeadwordTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadHeadwords(f, requireClass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

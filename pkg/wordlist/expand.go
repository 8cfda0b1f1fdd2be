package wordlist

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/japaniel/listenability/pkg/nlp"
)

// Entry is a row of a plain word list: a word and an optional class.
type Entry struct {
	Word     string
	Class    float64
	HasClass bool
}

// ReadPlainList parses lines of the form "word" or "word,class".
func ReadPlainList(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		word, class, hasClass := strings.Cut(text, ",")
		e := Entry{Word: strings.ToLower(strings.TrimSpace(word))}
		if hasClass {
			c, err := strconv.ParseFloat(strings.TrimSpace(class), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: class: %w", line, err)
			}
			e.Class, e.HasClass = c, true
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// Expand derives the stem and the four category lemmas of every entry.
func Expand(entries []Entry, stemmer nlp.Stemmer, lemmatizer nlp.Lemmatizer) []Headword {
	out := make([]Headword, 0, len(entries))
	for _, e := range entries {
		out = append(out, Headword{
			Word:     e.Word,
			Stem:     stemmer.Stem(e.Word),
			LemmaN:   lemmatizer.Lemmatize(e.Word, nlp.Noun),
			LemmaV:   lemmatizer.Lemmatize(e.Word, nlp.Verb),
			LemmaA:   lemmatizer.Lemmatize(e.Word, nlp.Adjective),
			LemmaR:   lemmatizer.Lemmatize(e.Word, nlp.Adverb),
			Class:    e.Class,
			HasClass: e.HasClass,
		})
	}
	return out
}

// WriteHeadwords writes rows as a detailed CSV readable by ReadHeadwords.
// The class column is written when withClass is set.
func WriteHeadwords(w io.Writer, rows []Headword, withClass bool) error {
	cw := csv.NewWriter(w)
	header := Header
	if !withClass {
		header = Header[:6]
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range rows {
		rec := []string{h.Word, h.Stem, h.LemmaN, h.LemmaV, h.LemmaA, h.LemmaR}
		if withClass {
			rec = append(rec, strconv.FormatFloat(h.Class, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

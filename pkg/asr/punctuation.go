package asr

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMarks are the punctuation marks scored by PunctuationF1.
var DefaultMarks = []string{".", "?", ","}

var reAlnum = regexp.MustCompile(`[a-z0-9]`)

// PunctuationScore holds per-mark F1 scores and their micro average.
type PunctuationScore struct {
	Marks []string
	F1    []float64
	Micro float64
}

// PunctuationF1 scores the punctuation of pred against truth. Both texts are
// split on whitespace; tokens of truth without a lowercase letter or digit
// (isolated dashes, ellipses) are dropped, after which both sides must have
// the same number of tokens. A token is labelled positive for a mark when it
// contains it. A score with nothing to compare is 1.
func PunctuationF1(truth, pred string, marks []string) (PunctuationScore, error) {
	if len(marks) == 0 {
		marks = DefaultMarks
	}
	var trueToks []string
	for _, t := range strings.Fields(truth) {
		if reAlnum.MatchString(t) {
			trueToks = append(trueToks, t)
		}
	}
	predToks := strings.Fields(pred)
	if len(trueToks) != len(predToks) {
		return PunctuationScore{}, fmt.Errorf("token count mismatch: truth %d, prediction %d", len(trueToks), len(predToks))
	}

	score := PunctuationScore{Marks: marks, F1: make([]float64, len(marks))}
	var tpAll, fpAll, fnAll int
	for i, m := range marks {
		var tp, fp, fn int
		for j := range trueToks {
			t, p := strings.Contains(trueToks[j], m), strings.Contains(predToks[j], m)
			switch {
			case t && p:
				tp++
			case p:
				fp++
			case t:
				fn++
			}
		}
		score.F1[i] = f1(tp, fp, fn)
		tpAll, fpAll, fnAll = tpAll+tp, fpAll+fp, fnAll+fn
	}
	score.Micro = f1(tpAll, fpAll, fnAll)
	return score, nil
}

func f1(tp, fp, fn int) float64 {
	den := 2*tp + fp + fn
	if den == 0 {
		return 1
	}
	return float64(2*tp) / float64(den)
}

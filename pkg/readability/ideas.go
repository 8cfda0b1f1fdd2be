package readability

import "strings"

var finiteVerbTags = map[string]bool{"VBD": true, "VBP": true, "VBZ": true, "MD": true}

// splitMarkers lowercases markers and splits multi-word ones into words.
func splitMarkers(markers []string) [][]string {
	out := make([][]string, 0, len(markers))
	for _, m := range markers {
		if f := strings.Fields(strings.ToLower(m)); len(f) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// IndependentClauses estimates the independent clauses of a tagged sentence.
// Every finite verb or modal opens a clause; the clause is dependent when a
// dependent-clause marker appears after the previous clause's verb and
// before its own. A sentence with words but no finite verb is one clause.
func IndependentClauses(s Sentence, markers [][]string) int {
	clauses, dependent := 0, 0
	pending, hasWord := false, false
	for i, t := range s.Tokens {
		if hasWordRune(t.Surface) {
			hasWord = true
		}
		if startsMarker(s.Tokens[i:], markers) {
			pending = true
		}
		if finiteVerbTags[t.Tag] {
			clauses++
			if pending {
				dependent++
				pending = false
			}
		}
	}
	if clauses == 0 {
		if hasWord {
			return 1
		}
		return 0
	}
	return clauses - dependent
}

func startsMarker(toks []Token, markers [][]string) bool {
	for _, m := range markers {
		if len(m) > len(toks) {
			continue
		}
		match := true
		for j, w := range m {
			if strings.ToLower(toks[j].Surface) != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// IdeaUnitLength is the mean number of words per independent clause, or zero
// when there is none.
func IdeaUnitLength(words int, sentences []Sentence, markers [][]string) float64 {
	units := 0
	for _, s := range sentences {
		units += IndependentClauses(s, markers)
	}
	if units == 0 {
		return 0
	}
	return float64(words) / float64(units)
}

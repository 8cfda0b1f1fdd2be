package nlp

import "strings"

type detachment struct{ suffix, repl string }

// Inflectional detachment rules, tried in order for every candidate form.
var detachments = map[Category][]detachment{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adverb: nil,
}

// Irregular forms that no detachment rule can reach.
var defaultExceptions = map[Category]map[string][]string{
	Noun: {
		"children": {"child"}, "men": {"man"}, "women": {"woman"},
		"feet": {"foot"}, "teeth": {"tooth"}, "geese": {"goose"},
		"mice": {"mouse"}, "people": {"person"}, "oxen": {"ox"},
		"data": {"datum"}, "criteria": {"criterion"}, "phenomena": {"phenomenon"},
		"analyses": {"analysis"}, "crises": {"crisis"}, "theses": {"thesis"},
	},
	Verb: {
		"am": {"be"}, "is": {"be"}, "are": {"be"}, "was": {"be"}, "were": {"be"},
		"been": {"be"}, "being": {"be"}, "has": {"have"}, "had": {"have"},
		"did": {"do"}, "done": {"do"}, "does": {"do"}, "went": {"go"},
		"gone": {"go"}, "ran": {"run"}, "running": {"run"}, "began": {"begin"},
		"begun": {"begin"}, "came": {"come"}, "saw": {"see"}, "seen": {"see"},
		"took": {"take"}, "taken": {"take"}, "gave": {"give"}, "given": {"give"},
		"made": {"make"}, "said": {"say"}, "told": {"tell"}, "thought": {"think"},
		"brought": {"bring"}, "bought": {"buy"}, "caught": {"catch"},
		"taught": {"teach"}, "found": {"find"}, "knew": {"know"}, "known": {"know"},
		"wrote": {"write"}, "written": {"write"}, "spoke": {"speak"},
		"spoken": {"speak"}, "got": {"get"}, "gotten": {"get"}, "left": {"leave"},
		"felt": {"feel"}, "kept": {"keep"}, "held": {"hold"}, "stood": {"stand"},
		"understood": {"understand"}, "met": {"meet"}, "paid": {"pay"},
		"sat": {"sit"}, "ate": {"eat"}, "eaten": {"eat"}, "drove": {"drive"},
		"driven": {"drive"}, "fell": {"fall"}, "fallen": {"fall"},
		"grew": {"grow"}, "grown": {"grow"}, "won": {"win"}, "lost": {"lose"},
		"chose": {"choose"}, "chosen": {"choose"}, "flew": {"fly"}, "flown": {"fly"},
		"sent": {"send"}, "built": {"build"}, "spent": {"spend"}, "led": {"lead"},
		"stopped": {"stop"}, "planned": {"plan"}, "getting": {"get"},
		"putting": {"put"}, "sitting": {"sit"}, "swimming": {"swim"},
	},
	Adjective: {
		"better": {"good"}, "best": {"good"}, "worse": {"bad"}, "worst": {"bad"},
		"further": {"far"}, "farther": {"far"}, "furthest": {"far"},
		"bigger": {"big"}, "biggest": {"big"}, "hotter": {"hot"}, "hottest": {"hot"},
	},
	Adverb: {
		"better": {"well"}, "best": {"well"},
	},
}

// Morphy is a rule-and-exception lemmatizer in the style of WordNet's morphy:
// a form is accepted as a lemma only when the lexicon knows it. When several
// candidates are valid the shortest wins; when none is, the word is returned
// unchanged.
type Morphy struct {
	lexicon    Lexicon
	exceptions map[Category]map[string][]string
	owned      bool
}

// NewMorphy returns a Morphy lemmatizer validating candidates against lexicon.
func NewMorphy(lexicon Lexicon) *Morphy {
	return &Morphy{lexicon: lexicon, exceptions: defaultExceptions}
}

// AddException registers an irregular form for a category.
func (m *Morphy) AddException(cat Category, form string, lemmas ...string) {
	if !m.owned {
		m.exceptions = copyExceptions(m.exceptions)
		m.owned = true
	}
	if m.exceptions[cat] == nil {
		m.exceptions[cat] = make(map[string][]string)
	}
	m.exceptions[cat][form] = lemmas
}

func (m *Morphy) Lemmatize(word string, cat Category) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return word
	}
	candidates := m.morphy(word, cat)
	if len(candidates) == 0 {
		return word
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

func (m *Morphy) morphy(word string, cat Category) []string {
	// An irregular form only yields the lemmas the lexicon knows, plus the
	// form itself when it is a word in its own right.
	if lemmas, ok := m.exceptions[cat][word]; ok {
		return m.filter(append([]string{word}, lemmas...))
	}
	forms := applyRules([]string{word}, cat)
	if valid := m.filter(append([]string{word}, forms...)); len(valid) > 0 {
		return valid
	}
	// Keep detaching until a valid form appears or nothing is left.
	for depth := 0; len(forms) > 0 && depth < 4; depth++ {
		forms = applyRules(forms, cat)
		if valid := m.filter(forms); len(valid) > 0 {
			return valid
		}
	}
	return nil
}

func (m *Morphy) filter(forms []string) []string {
	seen := make(map[string]struct{}, len(forms))
	var out []string
	for _, f := range forms {
		if _, ok := seen[f]; ok || m.lexicon == nil || !m.lexicon.Contains(f) {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func applyRules(forms []string, cat Category) []string {
	var out []string
	for _, f := range forms {
		for _, d := range detachments[cat] {
			if strings.HasSuffix(f, d.suffix) && len(f) > len(d.suffix) {
				out = append(out, f[:len(f)-len(d.suffix)]+d.repl)
			}
		}
	}
	return out
}

func copyExceptions(src map[Category]map[string][]string) map[Category]map[string][]string {
	dst := make(map[Category]map[string][]string, len(src))
	for cat, forms := range src {
		dst[cat] = make(map[string][]string, len(forms))
		for k, v := range forms {
			dst[cat][k] = v
		}
	}
	return dst
}

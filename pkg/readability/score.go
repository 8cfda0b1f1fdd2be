package readability

import (
	"strings"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/nlp"
)

// monosyllable counting skips these
var monosyllableIgnore = map[string]bool{"the": true, "is": true, "are": true, "was": true, "were": true}

// DefaultHardClass is the class from which a word counts as hard.
const DefaultHardClass classify.Class = 5

// Resolver classifies a word, handling compounds.
type Resolver interface {
	Resolve(word, tag string) classify.Class
}

// Features are the raw content features of a text.
type Features struct {
	Sentences         int
	Syllables         int
	Words             int
	Miniwords         int
	Monosyllables     int
	NotFamiliar       int
	AvgSentenceLength float64
	AvgWordLength     float64 // syllables per word
	// MeanClass is the mean difficulty class over word tokens; zero when
	// no classifier is configured.
	MeanClass float64
	HardWords int
	// IdeaUnitLength is words per independent clause; zero without
	// dependent-clause markers.
	IdeaUnitLength float64
}

// Scores pairs features with the formulas computed from them.
type Scores struct {
	Features
	Metrics map[Metric]float64
}

// Options tune a Scorer.
type Options struct {
	// Limit truncates texts to about this many words; zero disables.
	Limit int
	// KeepSentences extends a truncation to the end of the sentence.
	KeepSentences bool
	// HardClass is the class from which a word is hard; zero uses
	// DefaultHardClass.
	HardClass classify.Class
	// DepMarkers are the words opening a dependent clause, used for the
	// idea unit length.
	DepMarkers []string
}

// Scorer computes Scores for texts. The familiarity check and classifier
// are optional; without them NotFamiliar equals Words and the class profile
// is left empty. A Scorer is safe for concurrent use when its collaborators
// are.
type Scorer struct {
	analyzer  *Analyzer
	syllables *Syllables
	familiar  *classify.Familiarity
	classes   Resolver
	markers   [][]string
	opts      Options
}

// NewScorer returns a Scorer. A nil syllables counter uses the heuristic.
func NewScorer(analyzer *Analyzer, syllables *Syllables, familiar *classify.Familiarity, classes Resolver, opts Options) *Scorer {
	if syllables == nil {
		syllables = NewSyllables()
	}
	if opts.HardClass == 0 {
		opts.HardClass = DefaultHardClass
	}
	return &Scorer{
		analyzer:  analyzer,
		syllables: syllables,
		familiar:  familiar,
		classes:   classes,
		markers:   splitMarkers(opts.DepMarkers),
		opts:      opts,
	}
}

// Score computes the features and formulas of text.
func (s *Scorer) Score(text string) (Scores, error) {
	text = strings.TrimSpace(text)
	if s.opts.Limit > 0 {
		text = LimitByWordCount(text, s.opts.Limit, s.opts.KeepSentences)
	}

	var f Features
	f.Sentences = SentenceCount(text)
	words := Words(text)
	f.Words = len(words)
	for _, w := range words {
		n := s.syllables.Count(w)
		f.Syllables += n
		if len([]rune(w)) <= 3 {
			f.Miniwords++
		}
		if n == 1 && !monosyllableIgnore[strings.ToLower(w)] {
			f.Monosyllables++
		}
	}
	if f.Words > 0 {
		f.AvgSentenceLength = float64(f.Words) / float64(f.Sentences)
		f.AvgWordLength = float64(f.Syllables) / float64(f.Words)
	}

	f.NotFamiliar = f.Words
	if s.analyzer != nil && (s.familiar != nil || s.classes != nil || len(s.markers) > 0) && f.Words > 0 {
		sents, err := s.analyzer.AnalyzeDocument(text)
		if err != nil {
			return Scores{}, err
		}
		toks := TaggedTokens(sents)
		if s.familiar != nil {
			f.NotFamiliar = max(0, f.Words-s.familiar.CountFamiliar(toks))
		}
		if s.classes != nil {
			f.MeanClass, f.HardWords = s.profile(toks)
		}
		if len(s.markers) > 0 {
			f.IdeaUnitLength = IdeaUnitLength(f.Words, sents, s.markers)
		}
	}

	return Scores{
		Features: f,
		Metrics: map[Metric]float64{
			DCR:  DaleChall(f.Words, f.Sentences, f.NotFamiliar),
			FEL:  FangEasyListening(f.Words, f.Sentences, f.Syllables),
			FKGL: FleschKincaidGrade(f.Words, f.Sentences, f.Syllables),
			FRE:  FleschReadingEase(f.Words, f.Sentences, f.Syllables),
			LW:   LinsearWrite(text, s.syllables),
			MER:  McAlpineEFLAW(f.Words, f.Sentences, f.Miniwords),
		},
	}, nil
}

// profile classifies the word tokens and returns their mean class and the
// number at or above the hard class.
func (s *Scorer) profile(toks []nlp.TaggedToken) (float64, int) {
	total, n, hard := 0.0, 0, 0
	for _, t := range toks {
		if !hasWordRune(t.Text) {
			continue
		}
		c := s.classes.Resolve(t.Text, t.Tag)
		total += float64(c)
		n++
		if c >= s.opts.HardClass {
			hard++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), hard
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}

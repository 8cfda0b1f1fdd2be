package readability

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Metric names a readability or listenability formula.
type Metric string

const (
	DCR  Metric = "DCR"  // Dale–Chall readability
	FEL  Metric = "FEL"  // Fang's easy listening
	FKGL Metric = "FKGL" // Flesch–Kincaid grade level
	FRE  Metric = "FRE"  // Flesch reading ease
	LLD  Metric = "LLD"  // listenability by lexical difficulty; needs idea units
	LW   Metric = "LW"   // Linsear Write
	MER  Metric = "MER"  // McAlpine EFLAW
	RL   Metric = "RL"   // Rogers' listenability; needs a dependency parser
)

// Metrics lists the metrics Score computes, in output order.
var Metrics = []Metric{DCR, FEL, FKGL, FRE, LW, MER}

// ListenabilityMetrics and ReadabilityMetrics group metrics by origin.
var (
	ListenabilityMetrics = []Metric{FEL, LLD, RL}
	ReadabilityMetrics   = []Metric{DCR, FKGL, FRE, LW, MER}
)

// ParseMetric parses a metric name case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case DCR, FEL, FKGL, FRE, LLD, LW, MER, RL:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// DaleChall returns the Dale–Chall score for the given counts.
func DaleChall(words, sentences, difficult int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	pct := 100 * float64(difficult) / float64(words)
	score := 0.1579*pct + 0.0496*float64(words)/float64(sentences)
	if pct > 5 {
		score += 3.6365
	}
	return score
}

// FleschKincaidGrade returns the Flesch–Kincaid grade level.
func FleschKincaidGrade(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 0.39*float64(words)/float64(sentences) + 11.8*float64(syllables)/float64(words) - 15.59
}

// FleschReadingEase returns the Flesch reading ease score.
func FleschReadingEase(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 206.835 - 1.015*float64(words)/float64(sentences) - 84.6*float64(syllables)/float64(words)
}

// McAlpineEFLAW returns (words + miniwords) / sentences.
func McAlpineEFLAW(words, sentences, miniwords int) float64 {
	if sentences == 0 {
		return 0
	}
	return float64(words+miniwords) / float64(sentences)
}

// FangEasyListening returns the syllables beyond one per word, per sentence.
func FangEasyListening(words, sentences, syllables int) float64 {
	if sentences == 0 {
		return 0
	}
	return float64(syllables-words) / float64(sentences)
}

// LinsearWrite scores the first 100 words of text. Words of three or more
// syllables weigh three, the rest one.
func LinsearWrite(text string, syl *Syllables) float64 {
	sample := LimitByWordCount(text, 100, false)
	easy, hard := 0, 0
	for _, w := range Words(sample) {
		if syl.Count(w) < 3 {
			easy++
		} else {
			hard++
		}
	}
	if easy+hard == 0 {
		return 0
	}
	n := float64(easy+3*hard) / float64(SentenceCount(sample))
	if n > 20 {
		return n / 2
	}
	return (n - 2) / 2
}

var metricTitles = map[Metric]string{
	DCR:  "Dale–Chall Readability Formula",
	FEL:  "Fang's Easy Listening",
	FKGL: "Flesch–Kincaid Grade Level",
	FRE:  "Flesch Reading-Ease",
	LLD:  "LLD",
	LW:   "Linsear Write",
	MER:  "McAlpine EFLAW(TM) Readability",
	RL:   "Rogers' Listenability Formula",
}

// Title returns the display name of m.
func (m Metric) Title() string {
	if t, ok := metricTitles[m]; ok {
		return t
	}
	return string(m)
}

// Lower band edges per metric; the last band is open ended.
var metricBins = map[Metric][]float64{
	DCR: {5, 6, 7, 8, 9, 10, 11, 12, 13},
	FEL: {0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20},
	FRE: {0, 10, 30, 50, 60, 70, 80, 90, 100},
	LLD: {0, 1, 2, 3, 4, 5, 6},
	LW:  {30, 40, 50, 60, 70, 80, 90},
	MER: {0, 21, 26, 30, 40},
	RL:  {0, 2, 4, 6, 8, 10, 12, 14},
}

// Banded reports whether Band knows edges for m.
func (m Metric) Banded() bool {
	_, ok := metricBins[m]
	return ok
}

// Band places a score into one of the metric's bands. Bands are closed on
// the right, so a score equal to an edge falls into the lower band; scores
// at or below the first edge have no band. Reading ease counts down, so its
// band numbers are reversed.
func Band(m Metric, score float64) (int, bool) {
	bins, ok := metricBins[m]
	if !ok || math.IsNaN(score) || score <= bins[0] {
		return 0, false
	}
	band := sort.SearchFloat64s(bins, score) - 1
	if m == FRE {
		band = len(bins) - 1 - band
	}
	return band, true
}

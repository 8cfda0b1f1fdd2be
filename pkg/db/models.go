package db

import "time"

// Corpus is a named collection of transcripts produced by one system
// (human transcription or an ASR engine).
type Corpus struct {
	ID     int64
	Name   string
	System string
	Source string
	// RunID identifies the latest scoring run over the corpus.
	RunID         string
	LastProcessed int
	AddedAt       time.Time
}

// Document is one transcript of a corpus.
type Document struct {
	ID       int64
	CorpusID int64
	UttID    string
	Level    string
}

// Score is the persisted feature and formula row of a document. Formula
// columns are nil when the metric was not computed.
type Score struct {
	DocumentID        int64
	RunID             string
	Sentences         int
	Words             int
	Syllables         int
	Miniwords         int
	Monosyllables     int
	NotFamiliar       int
	AvgSentenceLength float64
	AvgWordLength     float64
	MeanClass         float64
	HardWords         int
	IdeaUnitLength    float64
	DCR               *float64
	FEL               *float64
	FKGL              *float64
	FRE               *float64
	LW                *float64
	MER               *float64
}

// Word is a classified word seen in some document.
type Word struct {
	ID    int64
	Word  string
	Class float64
}

// WordCount is a word with its occurrences in one document.
type WordCount struct {
	Word
	OccurrenceCount int
}

// ScoredDocument pairs a document with its score row.
type ScoredDocument struct {
	Document
	Score Score
}

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/listenability/pkg/config"
	"github.com/japaniel/listenability/pkg/db"
	"github.com/japaniel/listenability/pkg/ingest"
	"github.com/japaniel/listenability/pkg/readability"
	"github.com/japaniel/listenability/pkg/transcript"
	"github.com/japaniel/listenability/pkg/wordlist"
)

func (a *app) scoreCmd() *cobra.Command {
	var dir, list, corpus, system, out string
	var noDB bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a corpus of transcripts",
		Long: "score reads transcripts from a directory of .txt files or from a list file of " +
			"'<id> <text>' lines, scores them and writes one CSV row per transcript. Scores are " +
			"stored in the database so an interrupted run resumes where it stopped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (dir == "") == (list == "") {
				return errors.New("exactly one of --dir or --list is required")
			}
			var docs []transcript.Transcript
			var err error
			if dir != "" {
				docs, err = transcript.LoadDir(dir)
			} else {
				docs, err = transcript.LoadList(list)
			}
			if err != nil {
				return err
			}
			if corpus == "" {
				corpus = strings.TrimSuffix(filepath.Base(dir+list), filepath.Ext(list))
			}

			ctx := cmd.Context()
			res, err := a.resources(ctx)
			if errors.Is(err, wordlist.ErrNoHeadwords) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no headword table configured; word classes and familiarity are skipped.")
				res, err = nil, nil
			}
			if err != nil {
				return err
			}
			p, err := a.newPipeline(res)
			if err != nil {
				return err
			}

			s := ingest.NewScorer(nil, p.scorer)
			s.Workers = a.cfg.Workers
			s.BatchSize = a.cfg.BatchSize
			s.Source = a.cfg.Source
			s.Logger = a.logger
			if p.classes != nil {
				s.Classes = p.classes
			}
			s.OnProgress = func(cur, total int) {
				a.logf("scored %d/%d documents", cur, total)
			}

			var corpusID int64
			if !noDB {
				conn, err := db.Open(a.cfg.DBPath)
				if err != nil {
					return err
				}
				defer conn.Close()
				if corpusID, err = db.CreateOrGetCorpus(conn, corpus, system, string(a.cfg.Source)); err != nil {
					return err
				}
				s.DB = conn
			}

			results, err := s.Run(ctx, corpusID, docs)
			if err != nil {
				return err
			}

			var rows []scoreRow
			if s.DB != nil {
				// the stored corpus includes documents scored by earlier runs
				stored, err := db.GetScoresByCorpus(s.DB, corpusID)
				if err != nil {
					return err
				}
				for _, sd := range stored {
					rows = append(rows, rowFromStored(sd))
				}
			} else {
				for _, r := range results {
					rows = append(rows, rowFromResult(r))
				}
			}

			w, closeOut, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := writeScores(w, rows); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Scored %d documents (%d this run).\n", len(rows), len(results))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dir, "dir", "", "directory of .txt transcripts")
	f.StringVar(&list, "list", "", "list file of '<id> <text>' lines")
	f.StringVar(&corpus, "corpus", "", "corpus name (default: base name of --dir or --list)")
	f.StringVar(&system, "system", "human", "system that produced the transcripts")
	f.StringVarP(&out, "out", "o", "", "CSV output file (default stdout)")
	f.BoolVar(&noDB, "no-db", false, "score without storing or resuming")
	f.Int("workers", 0, "number of scoring workers")
	f.Int("limit", 0, "truncate transcripts to about this many words")
	f.Bool("keep-sentences", false, "extend truncation to the end of the sentence")
	f.Float64("hard-class", 0, "class from which a word counts as hard")
	f.String("source", "", "material source deciding level labels (voa, elllo)")
	a.bind(f, map[string]string{
		config.KeyWorkers:       "workers",
		config.KeyLimit:         "limit",
		config.KeyKeepSentences: "keep-sentences",
		config.KeyHardClass:     "hard-class",
		config.KeySource:        "source",
	})
	return cmd
}

// scoreRow is one CSV line.
type scoreRow struct {
	UttID    string
	Level    string
	Features readability.Features
	Metrics  map[readability.Metric]float64
}

func rowFromResult(r ingest.Result) scoreRow {
	return scoreRow{UttID: r.Transcript.ID, Level: r.Level, Features: r.Scores.Features, Metrics: r.Scores.Metrics}
}

func rowFromStored(sd db.ScoredDocument) scoreRow {
	s := sd.Score
	row := scoreRow{
		UttID: sd.UttID,
		Level: sd.Level,
		Features: readability.Features{
			Sentences:         s.Sentences,
			Syllables:         s.Syllables,
			Words:             s.Words,
			Miniwords:         s.Miniwords,
			Monosyllables:     s.Monosyllables,
			NotFamiliar:       s.NotFamiliar,
			AvgSentenceLength: s.AvgSentenceLength,
			AvgWordLength:     s.AvgWordLength,
			MeanClass:         s.MeanClass,
			HardWords:         s.HardWords,
			IdeaUnitLength:    s.IdeaUnitLength,
		},
		Metrics: map[readability.Metric]float64{},
	}
	for m, v := range map[readability.Metric]*float64{
		readability.DCR: s.DCR, readability.FEL: s.FEL, readability.FKGL: s.FKGL,
		readability.FRE: s.FRE, readability.LW: s.LW, readability.MER: s.MER,
	} {
		if v != nil {
			row.Metrics[m] = *v
		}
	}
	return row
}

var scoreHeader = []string{
	"utt_id", "level", "sentences", "words", "syllables", "miniwords", "monosyllables",
	"not_familiar", "avg_sentence_length", "avg_word_length", "mean_class", "hard_words", "idea_unit_length",
}

func writeScores(w io.Writer, rows []scoreRow) error {
	cw := csv.NewWriter(w)
	header := append([]string(nil), scoreHeader...)
	for _, m := range readability.Metrics {
		header = append(header, strings.ToLower(string(m)))
		if m.Banded() {
			header = append(header, strings.ToLower(string(m))+"_band")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		f := r.Features
		rec := []string{
			r.UttID, r.Level,
			strconv.Itoa(f.Sentences), strconv.Itoa(f.Words), strconv.Itoa(f.Syllables),
			strconv.Itoa(f.Miniwords), strconv.Itoa(f.Monosyllables), strconv.Itoa(f.NotFamiliar),
			formatFloat(f.AvgSentenceLength), formatFloat(f.AvgWordLength), formatFloat(f.MeanClass),
			strconv.Itoa(f.HardWords), formatFloat(f.IdeaUnitLength),
		}
		for _, m := range readability.Metrics {
			v, ok := r.Metrics[m]
			if ok {
				rec = append(rec, formatFloat(v))
			} else {
				rec = append(rec, "")
			}
			if m.Banded() {
				band, inRange := readability.Band(m, v)
				if ok && inRange {
					rec = append(rec, strconv.Itoa(band))
				} else {
					rec = append(rec, "")
				}
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

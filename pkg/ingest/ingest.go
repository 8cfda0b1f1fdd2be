// Package ingest scores a corpus of transcripts concurrently and persists
// the results. Scoring runs on a worker pool; results are reassembled in
// document order and stored in batches by a BatchWriter. Each batch moves
// the corpus checkpoint in the same transaction, so an interrupted run
// resumes after the last stored document.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/japaniel/listenability/pkg/db"
	"github.com/japaniel/listenability/pkg/readability"
	"github.com/japaniel/listenability/pkg/transcript"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// TextScorer computes the readability scores of one text.
// *readability.Scorer implements it.
type TextScorer interface {
	Score(text string) (readability.Scores, error)
}

// Scorer scores transcripts and stores them under a corpus.
type Scorer struct {
	// DB receives documents, scores and word counts. nil scores without
	// persisting and without resuming.
	DB    *sql.DB
	Texts TextScorer
	// Classes, when set, classifies every word so its occurrences are
	// recorded per document.
	Classes readability.Resolver
	// Source decides how levels are read from utterance IDs; empty leaves
	// levels blank.
	Source    transcript.Source
	BatchSize int
	// RunID tags the score rows written by Run; empty generates one per run.
	RunID string
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *log.Logger
	// OnProgress is called with the number of documents written so far and the corpus size.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewScorer returns a Scorer with default batching and concurrency.
func NewScorer(conn *sql.DB, texts TextScorer) *Scorer {
	return &Scorer{
		DB:        conn,
		Texts:     texts,
		BatchSize: 50,
		Workers:   4,
	}
}

// WordCount is a word of a document with its difficulty class.
type WordCount struct {
	Word  string
	Class float64
	Count int
}

// Result is the outcome of scoring one document.
type Result struct {
	// Index is the position of the document in the corpus.
	Index      int
	Transcript transcript.Transcript
	Level      string
	Scores     readability.Scores
	Words      []WordCount
	Err        error
}

func (s *Scorer) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Run scores docs, skipping those up to the corpus's checkpoint, and returns
// the results of this run in document order. On error it returns the results
// written before the failure.
func (s *Scorer) Run(ctx context.Context, corpusID int64, docs []transcript.Transcript) ([]Result, error) {
	if s.Texts == nil {
		return nil, errors.New("ingest: no text scorer configured")
	}

	lastProcessed := -1
	runID := s.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	if s.DB != nil {
		idx, err := db.GetCorpusProgress(s.DB, corpusID)
		if err != nil {
			s.logf("Warning: Failed to retrieve progress: %v", err)
		} else {
			lastProcessed = idx
		}
		if lastProcessed >= 0 {
			s.logf("Resuming from document index %d (skipping %d documents)", lastProcessed+1, lastProcessed+1)
		}
		if err := db.SetCorpusRun(s.DB, corpusID, runID); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	total := len(docs)
	startIdx := lastProcessed + 1
	if startIdx >= total {
		return nil, nil
	}
	s.logf("Scoring %d documents (run %s)", total-startIdx, runID)

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	var wp WorkerPoolInterface
	if s.PoolFactory != nil {
		wp = s.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan Result, workers*2)
	closedResultCh := false
	doneCh := make(chan error, 1)

	var bw *BatchWriter
	if s.DB != nil {
		bw = NewBatchWriter(s.DB, corpusID, runID, batchSize, 100*time.Millisecond)
		bw.OnCommit = func(n, checkpoint int) {
			s.logf("Stored %d documents, checkpoint at %d", n, checkpoint)
		}
	}

	defer func() {
		wp.Close()
		if !closedResultCh {
			close(resultCh)
		}
		if bw != nil {
			_ = bw.Close()
		}
	}()

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// Consumer: reorder results and hand them to the writer.
	var results []Result
	go func() {
		defer close(doneCh)
		buffer := make(map[int]Result)
		nextIdx := startIdx

		// emit writes out every contiguous buffered result.
		emit := func() error {
			for {
				item, ok := buffer[nextIdx]
				if !ok {
					return nil
				}
				delete(buffer, nextIdx)
				if bw != nil {
					if err := bw.Submit(ctx, item); err != nil {
						return err
					}
				}
				results = append(results, item)
				nextIdx++
				if s.OnProgress != nil && (nextIdx-startIdx)%batchSize == 0 {
					s.OnProgress(nextIdx, total)
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			default:
			}

			res, ok := <-resultCh
			if !ok {
				if err := emit(); err != nil {
					cancel()
					doneCh <- err
					return
				}
				if s.OnProgress != nil {
					s.OnProgress(nextIdx, total)
				}
				doneCh <- nil
				return
			}

			if res.Err != nil {
				// stop producers so they don't block on resultCh
				cancel()
				doneCh <- fmt.Errorf("score %s: %w", res.Transcript.ID, res.Err)
				return
			}
			buffer[res.Index] = res
			if err := emit(); err != nil {
				cancel()
				doneCh <- err
				return
			}
		}
	}()

	// Producer: one scoring job per document.
	var submitErr error
Loop:
	for i := startIdx; i < total; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		doc := docs[i]
		job := func(ctx context.Context) error {
			res := s.scoreDocument(idx, doc)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if !errors.Is(err, ctx.Err()) && !errors.Is(err, ErrPoolClosed) {
				submitErr = err
				cancel()
			}
			break Loop
		}
	}

	// No worker can send after Close returns.
	wp.Close()
	close(resultCh)
	closedResultCh = true

	runErr := <-doneCh
	if submitErr != nil {
		runErr = submitErr
	}

	if bw != nil {
		if err := bw.Close(); err != nil && runErr == nil {
			runErr = err
		}
		bw = nil
	}

	if runErr == nil && parent.Err() != nil {
		runErr = parent.Err()
	}
	return results, runErr
}

// scoreDocument runs the CPU-heavy part of a job.
func (s *Scorer) scoreDocument(index int, doc transcript.Transcript) Result {
	res := Result{Index: index, Transcript: doc}
	if s.Source != "" {
		res.Level = transcript.LevelLabel(s.Source, doc.ID)
	}
	res.Scores, res.Err = s.Texts.Score(doc.Text)
	if res.Err != nil || s.Classes == nil {
		return res
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range readability.Words(doc.Text) {
		w = strings.ToLower(w)
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	for _, w := range order {
		res.Words = append(res.Words, WordCount{
			Word:  w,
			Class: float64(s.Classes.Resolve(w, "")),
			Count: counts[w],
		})
	}
	return res
}

func scoreRow(docID int64, runID string, sc readability.Scores) db.Score {
	f := sc.Features
	row := db.Score{
		DocumentID:        docID,
		RunID:             runID,
		Sentences:         f.Sentences,
		Words:             f.Words,
		Syllables:         f.Syllables,
		Miniwords:         f.Miniwords,
		Monosyllables:     f.Monosyllables,
		NotFamiliar:       f.NotFamiliar,
		AvgSentenceLength: f.AvgSentenceLength,
		AvgWordLength:     f.AvgWordLength,
		MeanClass:         f.MeanClass,
		HardWords:         f.HardWords,
		IdeaUnitLength:    f.IdeaUnitLength,
	}
	metric := func(m readability.Metric) *float64 {
		v, ok := sc.Metrics[m]
		if !ok {
			return nil
		}
		return &v
	}
	row.DCR = metric(readability.DCR)
	row.FEL = metric(readability.FEL)
	row.FKGL = metric(readability.FKGL)
	row.FRE = metric(readability.FRE)
	row.LW = metric(readability.LW)
	row.MER = metric(readability.MER)
	return row
}

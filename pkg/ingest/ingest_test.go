package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/japaniel/listenability/pkg/classify"
	"github.com/japaniel/listenability/pkg/db"
	"github.com/japaniel/listenability/pkg/readability"
	"github.com/japaniel/listenability/pkg/transcript"
	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return conn
}

func textScorer() *readability.Scorer {
	return readability.NewScorer(nil, nil, nil, nil, readability.Options{})
}

func makeDocs(n int) []transcript.Transcript {
	docs := make([]transcript.Transcript, n)
	for i := range docs {
		docs[i] = transcript.Transcript{
			ID:   fmt.Sprintf("utt-%02d-%d", i, i%3+1),
			Text: fmt.Sprintf("The cat sat on the mat number %d. It was a sunny day.", i),
		}
	}
	return docs
}

// slowScorer delays early documents so results arrive out of order.
type slowScorer struct {
	inner TextScorer
	fail  string
}

func (s slowScorer) Score(text string) (readability.Scores, error) {
	if s.fail != "" && strings.Contains(text, s.fail) {
		return readability.Scores{}, errors.New("boom")
	}
	if strings.Contains(text, "number 0.") || strings.Contains(text, "number 1.") {
		time.Sleep(20 * time.Millisecond)
	}
	return s.inner.Score(text)
}

type mapResolver map[string]classify.Class

func (m mapResolver) Resolve(word, tag string) classify.Class {
	if c, ok := m[word]; ok {
		return c
	}
	return classify.Unknown
}

func TestRunResume(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	corpusID, err := db.CreateOrGetCorpus(conn, "test", "human", "voa")
	if err != nil {
		t.Fatal(err)
	}
	docs := makeDocs(10)

	// Documents 0..4 are already done.
	if err := db.UpdateCorpusProgress(conn, corpusID, 4); err != nil {
		t.Fatal(err)
	}

	scorer := NewScorer(conn, textScorer())
	scorer.BatchSize = 2 // Verify batching doesn't interfere

	results, err := scorer.Run(context.Background(), corpusID, docs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i+5 || r.Transcript.ID != docs[i+5].ID {
			t.Fatalf("result %d out of order: %+v", i, r)
		}
	}

	idx, err := db.GetCorpusProgress(conn, corpusID)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 9 {
		t.Fatalf("expected checkpoint 9, got %d", idx)
	}
	stored, err := db.GetScoresByCorpus(conn, corpusID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 5 {
		t.Fatalf("expected 5 stored documents, got %d", len(stored))
	}

	// Nothing left to do on a second run.
	again, err := scorer.Run(context.Background(), corpusID, docs)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no results after completion, got %d", len(again))
	}
}

func TestRunOrdersResultsAndStoresScores(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	corpusID, _ := db.CreateOrGetCorpus(conn, "ordered", "human", "voa")

	docs := makeDocs(12)
	scorer := NewScorer(conn, slowScorer{inner: textScorer()})
	scorer.Workers = 4
	scorer.BatchSize = 3
	scorer.Source = transcript.VOA
	scorer.RunID = "run-test"
	var mu sync.Mutex
	var progress [][2]int
	scorer.OnProgress = func(cur, total int) {
		mu.Lock()
		progress = append(progress, [2]int{cur, total})
		mu.Unlock()
	}

	results, err := scorer.Run(context.Background(), corpusID, docs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != len(docs) {
		t.Fatalf("expected %d results, got %d", len(docs), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("expected index %d, got %d", i, r.Index)
		}
		want, _ := textScorer().Score(docs[i].Text)
		if r.Scores.Words != want.Words || r.Scores.Metrics[readability.FRE] != want.Metrics[readability.FRE] {
			t.Fatalf("document %d scored %+v, want %+v", i, r.Scores, want)
		}
	}
	if results[1].Level != "intermediate" {
		t.Fatalf("expected level intermediate for %s, got %q", results[1].Transcript.ID, results[1].Level)
	}

	stored, err := db.GetScoresByCorpus(conn, corpusID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != len(docs) {
		t.Fatalf("expected %d stored rows, got %d", len(docs), len(stored))
	}
	for i, sd := range stored {
		if sd.UttID != docs[i].ID || sd.Score.RunID != "run-test" || sd.Score.FRE == nil {
			t.Fatalf("unexpected stored row %d: %+v", i, sd)
		}
	}
	c, _ := db.GetCorpus(conn, corpusID)
	if c.RunID != "run-test" {
		t.Fatalf("expected run id recorded on corpus, got %q", c.RunID)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(progress) == 0 || progress[len(progress)-1] != [2]int{12, 12} {
		t.Fatalf("expected final progress 12/12, got %v", progress)
	}
}

func TestRunRecordsWords(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	corpusID, _ := db.CreateOrGetCorpus(conn, "words", "", "")

	docs := []transcript.Transcript{{ID: "a1", Text: "The cat saw the cat."}}
	scorer := NewScorer(conn, textScorer())
	scorer.Classes = mapResolver{"the": 1, "cat": 3, "saw": 2}

	results, err := scorer.Run(context.Background(), corpusID, docs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || len(results[0].Words) != 3 {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].Words[0].Word != "the" || results[0].Words[0].Count != 2 {
		t.Fatalf("expected first word the x2, got %+v", results[0].Words[0])
	}

	stored, _ := db.GetScoresByCorpus(conn, corpusID)
	words, err := db.GetWordsByDocument(conn, stored[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string][2]float64{}
	for _, w := range words {
		got[w.Word.Word] = [2]float64{w.Class, float64(w.OccurrenceCount)}
	}
	if got["cat"] != [2]float64{3, 2} || got["saw"] != [2]float64{2, 1} {
		t.Fatalf("unexpected stored words %v", got)
	}
}

func TestRunWithoutDB(t *testing.T) {
	scorer := NewScorer(nil, textScorer())
	results, err := scorer.Run(context.Background(), 0, makeDocs(5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
}

func TestRunScoreErrorStops(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	corpusID, _ := db.CreateOrGetCorpus(conn, "failing", "", "")

	docs := makeDocs(10)
	scorer := NewScorer(conn, slowScorer{inner: textScorer(), fail: "number 3."})
	_, err := scorer.Run(context.Background(), corpusID, docs)
	if err == nil {
		t.Fatalf("expected scoring error")
	}
	if !strings.Contains(err.Error(), docs[3].ID) {
		t.Fatalf("expected error to name %s, got %v", docs[3].ID, err)
	}
	idx, _ := db.GetCorpusProgress(conn, corpusID)
	if idx >= 3 {
		t.Fatalf("checkpoint must stop before the failing document, got %d", idx)
	}
}

func TestRunContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	corpusID, _ := db.CreateOrGetCorpus(conn, "cancel", "", "")

	scorer := NewScorer(conn, textScorer())
	scorer.BatchSize = 10

	// Create a context that is ALREADY canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := scorer.Run(ctx, corpusID, makeDocs(100))
	if len(results) != 0 {
		t.Errorf("Expected 0 results with cancelled context, got %d", len(results))
	}
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestRunRequiresTextScorer(t *testing.T) {
	if _, err := (&Scorer{}).Run(context.Background(), 0, makeDocs(1)); err == nil {
		t.Fatalf("expected error without a text scorer")
	}
}

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/japaniel/listenability/pkg/db"
)

// BatchWriter stores the scored documents of one corpus run. Documents are
// grouped into transactions of up to size documents, and every transaction
// also moves the corpus checkpoint to its last document. Once a batch fails
// the batches queued behind it are discarded, so the checkpoint never passes
// a document that was not stored.
type BatchWriter struct {
	conn     *sql.DB
	corpusID int64
	runID    string
	size     int

	mu      sync.Mutex
	pending []Result
	lastIdx int
	closed  bool

	batches chan []Result
	stop    chan struct{}
	wg      sync.WaitGroup

	stateMu sync.Mutex
	err     error
	stored  int

	// OnCommit is called after each committed batch with the number of
	// documents it stored and the new checkpoint.
	OnCommit func(stored, checkpoint int)
}

// NewBatchWriter returns a BatchWriter storing documents of corpusID under
// runID. A zero flushInterval disables timed flushes.
func NewBatchWriter(conn *sql.DB, corpusID int64, runID string, size int, flushInterval time.Duration) *BatchWriter {
	if size <= 0 {
		size = 10
	}
	bw := &BatchWriter{
		conn:     conn,
		corpusID: corpusID,
		runID:    runID,
		size:     size,
		pending:  make([]Result, 0, size),
		lastIdx:  -1,
		batches:  make(chan []Result, 2),
		stop:     make(chan struct{}),
	}
	bw.wg.Add(1)
	go bw.commitLoop()
	if flushInterval > 0 {
		bw.wg.Add(1)
		go bw.flushEvery(flushInterval)
	}
	return bw
}

// Submit queues r for storage. Documents must be submitted in increasing
// index order. Submit blocks while two full batches wait for the database,
// and gives up when ctx is done; the documents of that batch are then lost
// and the writer stops storing.
func (bw *BatchWriter) Submit(ctx context.Context, r Result) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if r.Index <= bw.lastIdx {
		return fmt.Errorf("%w: document %d after %d", ErrOutOfOrder, r.Index, bw.lastIdx)
	}
	bw.lastIdx = r.Index
	bw.pending = append(bw.pending, r)
	if len(bw.pending) < bw.size {
		return nil
	}
	return bw.flushLocked(ctx)
}

// flushLocked hands the pending documents to the committer. bw.mu must be
// held.
func (bw *BatchWriter) flushLocked(ctx context.Context) error {
	if len(bw.pending) == 0 {
		return nil
	}
	batch := bw.pending
	bw.pending = make([]Result, 0, bw.size)
	select {
	case bw.batches <- batch:
		return nil
	case <-ctx.Done():
		err := fmt.Errorf("dropped batch of %d documents from %s: %w",
			len(batch), batch[0].Transcript.ID, ctx.Err())
		bw.fail(err)
		return err
	}
}

func (bw *BatchWriter) flushEvery(d time.Duration) {
	defer bw.wg.Done()
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-bw.stop:
			return
		case <-t.C:
			bw.mu.Lock()
			if !bw.closed {
				_ = bw.flushLocked(context.Background())
			}
			bw.mu.Unlock()
		}
	}
}

func (bw *BatchWriter) commitLoop() {
	defer bw.wg.Done()
	for batch := range bw.batches {
		if bw.Err() != nil {
			continue
		}
		if err := bw.commit(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.stateMu.Lock()
		bw.stored += len(batch)
		bw.stateMu.Unlock()
		if bw.OnCommit != nil {
			bw.OnCommit(len(batch), batch[len(batch)-1].Index)
		}
	}
}

// commit stores batch and its checkpoint in one transaction. Pending batches
// still commit while the writer is closing, so it does not use the caller's
// context.
func (bw *BatchWriter) commit(batch []Result) error {
	tx, err := bw.conn.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, r := range batch {
		if err := storeResult(tx, bw.corpusID, bw.runID, r); err != nil {
			return err
		}
	}
	last := batch[len(batch)-1]
	if err := db.UpdateCorpusProgress(tx, bw.corpusID, last.Index); err != nil {
		return fmt.Errorf("failed to save progress at %s: %w", last.Transcript.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch (%d documents): %w", len(batch), err)
	}
	return nil
}

// storeResult writes the document, its score row and its word counts.
func storeResult(tx db.DBExecutor, corpusID int64, runID string, r Result) error {
	docID, err := db.CreateOrGetDocument(tx, corpusID, r.Transcript.ID, r.Level)
	if err != nil {
		return fmt.Errorf("failed to persist document %s: %w", r.Transcript.ID, err)
	}
	if err := db.UpsertScore(tx, scoreRow(docID, runID, r.Scores)); err != nil {
		return fmt.Errorf("failed to persist scores of %s: %w", r.Transcript.ID, err)
	}
	if len(r.Words) == 0 {
		return nil
	}
	if err := db.ClearDocumentWords(tx, docID); err != nil {
		return err
	}
	for _, w := range r.Words {
		wordID, err := db.CreateOrGetWord(tx, w.Word, w.Class)
		if err != nil {
			return fmt.Errorf("failed to persist word %s: %w", w.Word, err)
		}
		if err := db.LinkWordToDocument(tx, wordID, docID, w.Count); err != nil {
			return fmt.Errorf("failed to link word %d: %w", wordID, err)
		}
	}
	return nil
}

func (bw *BatchWriter) fail(err error) {
	bw.stateMu.Lock()
	defer bw.stateMu.Unlock()
	if bw.err == nil {
		bw.err = err
	}
}

// Err returns the first storage error, if any.
func (bw *BatchWriter) Err() error {
	bw.stateMu.Lock()
	defer bw.stateMu.Unlock()
	return bw.err
}

// Stored returns the number of documents committed so far.
func (bw *BatchWriter) Stored() int {
	bw.stateMu.Lock()
	defer bw.stateMu.Unlock()
	return bw.stored
}

// Close stores the pending documents, waits for the queued batches and
// returns the first storage error. Closing twice returns
// ErrBatchWriterClosed.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	_ = bw.flushLocked(context.Background())
	bw.mu.Unlock()

	close(bw.stop)
	close(bw.batches)
	bw.wg.Wait()
	return bw.Err()
}

var (
	ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}
	// ErrOutOfOrder is returned by Submit for a document at or before the
	// last submitted one.
	ErrOutOfOrder = errors.New("document out of order")
)

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }

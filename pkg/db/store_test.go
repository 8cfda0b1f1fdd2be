package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func ptr(f float64) *float64 { return &f }

func TestCreateOrGetCorpus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetCorpus(db, "voa-human", "human", "voa")
	if err != nil {
		t.Fatalf("create corpus: %v", err)
	}
	id2, err := CreateOrGetCorpus(db, "voa-human", "whisper", "")
	if err != nil {
		t.Fatalf("get corpus: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	c, err := GetCorpus(db, id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.System != "human" || c.Source != "voa" || c.LastProcessed != -1 {
		t.Fatalf("unexpected corpus %+v", c)
	}
	if _, err := CreateOrGetCorpus(db, "  ", "", ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestCorpusProgressAndRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id, err := CreateOrGetCorpus(db, "elllo", "human", "elllo")
	if err != nil {
		t.Fatal(err)
	}
	idx, err := GetCorpusProgress(db, id)
	if err != nil {
		t.Fatal(err)
	}
	if idx != -1 {
		t.Fatalf("expected -1 for a fresh corpus, got %d", idx)
	}
	if err := UpdateCorpusProgress(db, id, 7); err != nil {
		t.Fatal(err)
	}
	if err := SetCorpusRun(db, id, "run-1"); err != nil {
		t.Fatal(err)
	}
	c, err := GetCorpus(db, id)
	if err != nil {
		t.Fatal(err)
	}
	if c.LastProcessed != 7 || c.RunID != "run-1" {
		t.Fatalf("unexpected corpus %+v", c)
	}
	if _, err := GetCorpusProgress(db, id+100); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows for a missing corpus, got %v", err)
	}
}

func TestCreateOrGetDocument(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cID, _ := CreateOrGetCorpus(db, "c", "", "")
	d1, err := CreateOrGetDocument(db, cID, "lesson-001-1", "beginner")
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	d2, err := CreateOrGetDocument(db, cID, "lesson-001-1", "")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected same document id, got %d and %d", d1, d2)
	}
	var level string
	if err := db.QueryRow(`SELECT level FROM documents WHERE id = ?`, d1).Scan(&level); err != nil {
		t.Fatal(err)
	}
	if level != "beginner" {
		t.Fatalf("empty level must not overwrite, got %q", level)
	}
	if _, err := CreateOrGetDocument(db, 0, "x", ""); err == nil {
		t.Fatalf("expected error for invalid corpus id")
	}
}

func TestUpsertAndGetScores(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cID, _ := CreateOrGetCorpus(db, "c", "", "")
	dA, _ := CreateOrGetDocument(db, cID, "a1", "beginner")
	dB, _ := CreateOrGetDocument(db, cID, "b2", "intermediate")

	if err := UpsertScore(db, Score{DocumentID: dA, RunID: "r", Sentences: 2, Words: 10, FRE: ptr(90)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := UpsertScore(db, Score{DocumentID: dB, RunID: "r", Sentences: 1, Words: 4, DCR: ptr(5.5)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// rescoring replaces the row
	if err := UpsertScore(db, Score{DocumentID: dA, RunID: "r2", Sentences: 3, Words: 12, FRE: ptr(80)}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := GetScoresByCorpus(db, cID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scored documents, got %d", len(got))
	}
	if got[0].UttID != "a1" || got[0].Score.Words != 12 || got[0].Score.RunID != "r2" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[0].Score.FRE == nil || *got[0].Score.FRE != 80 {
		t.Fatalf("expected FRE 80, got %v", got[0].Score.FRE)
	}
	if got[0].Score.DCR != nil {
		t.Fatalf("expected nil DCR, got %v", *got[0].Score.DCR)
	}
	if got[1].Level != "intermediate" || got[1].Score.DCR == nil || *got[1].Score.DCR != 5.5 {
		t.Fatalf("unexpected second row %+v", got[1])
	}
}

func TestLinkAndQueryWords(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	wID, err := CreateOrGetWord(db, "Cat", 3)
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	cID, _ := CreateOrGetCorpus(db, "c", "", "")
	dID, _ := CreateOrGetDocument(db, cID, "u1", "")
	if err := LinkWordToDocument(db, wID, dID, 1); err != nil {
		t.Fatalf("link: %v", err)
	}
	// Link again to test occurrence_count increment via upsert
	if err := LinkWordToDocument(db, wID, dID, 2); err != nil {
		t.Fatalf("link 2: %v", err)
	}

	words, err := GetWordsByDocument(db, dID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	if words[0].Word.Word != "cat" || words[0].Class != 3 || words[0].OccurrenceCount != 3 {
		t.Fatalf("unexpected word %+v", words[0])
	}

	if err := ClearDocumentWords(db, dID); err != nil {
		t.Fatal(err)
	}
	words, err = GetWordsByDocument(db, dID)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 0 {
		t.Fatalf("expected no words after clear, got %d", len(words))
	}

	if err := LinkWordToDocument(db, wID, dID, 0); err == nil {
		t.Fatalf("expected error for zero increment")
	}
}

func TestCreateOrGetWordKeepsFirstClass(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetWord(db, "run", 2)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := CreateOrGetWord(db, "run", 9)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	var class float64
	if err := db.QueryRow(`SELECT class FROM words WHERE id = ?`, id1).Scan(&class); err != nil {
		t.Fatal(err)
	}
	if class != 2 {
		t.Fatalf("expected class 2, got %v", class)
	}
	if _, err := CreateOrGetWord(db, " ", 1); err == nil {
		t.Fatalf("expected error for empty word")
	}
}

func TestCreateOrGetWordConcurrency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	const n = 8
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := CreateOrGetWord(db, "dog", 4)
			if err != nil {
				t.Errorf("create or get word: %v", err)
				ids <- 0
				return
			}
			ids <- id
		}()
	}
	var first int64
	for i := 0; i < n; i++ {
		id := <-ids
		if id == 0 {
			t.Fatalf("error in goroutine")
		}
		if i == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("expected same id, got %d and %d", first, id)
		}
	}
	var cnt int
	err := db.QueryRow(`SELECT COUNT(*) FROM words WHERE word = ?`, "dog").Scan(&cnt)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 word row, got %d", cnt)
	}
}

func TestCreateOrGetCorpusConcurrency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	const n = 8
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := CreateOrGetCorpus(db, "shared", "human", "voa")
			if err != nil {
				t.Errorf("create or get corpus: %v", err)
				ids <- 0
				return
			}
			ids <- id
		}()
	}
	var first int64
	for i := 0; i < n; i++ {
		id := <-ids
		if id == 0 {
			t.Fatalf("error in goroutine")
		}
		if i == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("expected same id, got %d and %d", first, id)
		}
	}
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM corpora WHERE name = ?`, "shared").Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 corpus row, got %d", cnt)
	}
}

func TestGetWordsAndUpdateClass(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	catID, _ := CreateOrGetWord(db, "cat", 3)
	if _, err := CreateOrGetWord(db, "dog", 4); err != nil {
		t.Fatal(err)
	}
	if err := UpdateWordClass(db, catID, 6); err != nil {
		t.Fatalf("update: %v", err)
	}
	words, err := GetWords(db)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Word != "cat" || words[0].Class != 6 || words[1].Word != "dog" {
		t.Fatalf("unexpected words %+v", words)
	}
	if err := UpdateWordClass(db, 0, 1); err == nil {
		t.Fatalf("expected error for invalid word id")
	}
}

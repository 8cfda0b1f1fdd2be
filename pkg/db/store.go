package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetCorpus returns the id of the corpus named name, inserting it if
// missing. An existing corpus keeps its system and source.
func CreateOrGetCorpus(db DBExecutor, name, system, source string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("corpus name must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(`SELECT id FROM corpora WHERE name = ?`, trimmed).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}

		res, err := db.Exec(`INSERT INTO corpora (name, system, source) VALUES (?, ?, ?)`, trimmed, system, source)
		if err != nil {
			// A concurrent insert won; select again.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}
	return 0, fmt.Errorf("could not create or get corpus after %d retries", maxRetries)
}

// GetCorpus returns the corpus with the given id.
func GetCorpus(db DBExecutor, id int64) (Corpus, error) {
	var c Corpus
	var added sql.NullTime
	err := db.QueryRow(`SELECT id, name, system, source, run_id, last_processed, added_at FROM corpora WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.System, &c.Source, &c.RunID, &c.LastProcessed, &added)
	if err != nil {
		return Corpus{}, err
	}
	if added.Valid {
		c.AddedAt = added.Time
	}
	return c, nil
}

// SetCorpusRun records the id of the scoring run currently writing to the corpus.
func SetCorpusRun(db DBExecutor, corpusID int64, runID string) error {
	_, err := db.Exec(`UPDATE corpora SET run_id = ? WHERE id = ?`, runID, corpusID)
	return err
}

// GetCorpusProgress returns the index of the last document processed for a
// corpus, or -1 when none has been.
func GetCorpusProgress(db DBExecutor, corpusID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed FROM corpora WHERE id = ?", corpusID).Scan(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// UpdateCorpusProgress updates the last processed document index.
func UpdateCorpusProgress(db DBExecutor, corpusID int64, index int) error {
	_, err := db.Exec("UPDATE corpora SET last_processed = ? WHERE id = ?", index, corpusID)
	return err
}

// CreateOrGetDocument returns the id of the document uttID in the corpus,
// inserting it if missing. A non-empty level overwrites the stored one.
func CreateOrGetDocument(db DBExecutor, corpusID int64, uttID, level string) (int64, error) {
	if corpusID <= 0 {
		return 0, fmt.Errorf("corpusID must be positive")
	}
	trimmed := strings.TrimSpace(uttID)
	if trimmed == "" {
		return 0, fmt.Errorf("utterance id must be non-empty")
	}

	var id int64
	err := db.QueryRow(`INSERT INTO documents (corpus_id, utt_id, level) VALUES (?, ?, ?)
		ON CONFLICT(corpus_id, utt_id) DO UPDATE SET
		  level = COALESCE(NULLIF(excluded.level, ''), documents.level)
		RETURNING id`, corpusID, trimmed, level).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert document: %w", err)
	}
	return id, nil
}

// UpsertScore stores the score row of a document, replacing any previous one.
func UpsertScore(db DBExecutor, s Score) error {
	if s.DocumentID <= 0 {
		return fmt.Errorf("documentID must be positive")
	}
	_, err := db.Exec(`INSERT INTO scores (document_id, run_id, sentences, words, syllables, miniwords, monosyllables,
		not_familiar, avg_sentence_length, avg_word_length, mean_class, hard_words, idea_unit_length,
		dcr, fel, fkgl, fre, lw, mer)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(document_id) DO UPDATE SET
	  run_id = excluded.run_id,
	  sentences = excluded.sentences,
	  words = excluded.words,
	  syllables = excluded.syllables,
	  miniwords = excluded.miniwords,
	  monosyllables = excluded.monosyllables,
	  not_familiar = excluded.not_familiar,
	  avg_sentence_length = excluded.avg_sentence_length,
	  avg_word_length = excluded.avg_word_length,
	  mean_class = excluded.mean_class,
	  hard_words = excluded.hard_words,
	  idea_unit_length = excluded.idea_unit_length,
	  dcr = excluded.dcr,
	  fel = excluded.fel,
	  fkgl = excluded.fkgl,
	  fre = excluded.fre,
	  lw = excluded.lw,
	  mer = excluded.mer,
	  scored_at = CURRENT_TIMESTAMP`,
		s.DocumentID, s.RunID, s.Sentences, s.Words, s.Syllables, s.Miniwords, s.Monosyllables,
		s.NotFamiliar, s.AvgSentenceLength, s.AvgWordLength, s.MeanClass, s.HardWords, s.IdeaUnitLength,
		nullableFloat(s.DCR), nullableFloat(s.FEL), nullableFloat(s.FKGL), nullableFloat(s.FRE), nullableFloat(s.LW), nullableFloat(s.MER))
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// GetScoresByCorpus returns the scored documents of a corpus in insertion order.
func GetScoresByCorpus(db DBExecutor, corpusID int64) ([]ScoredDocument, error) {
	rows, err := db.Query(`SELECT d.id, d.corpus_id, d.utt_id, d.level,
		s.run_id, s.sentences, s.words, s.syllables, s.miniwords, s.monosyllables, s.not_familiar,
		s.avg_sentence_length, s.avg_word_length, s.mean_class, s.hard_words, s.idea_unit_length,
		s.dcr, s.fel, s.fkgl, s.fre, s.lw, s.mer
	FROM documents d JOIN scores s ON s.document_id = d.id
	WHERE d.corpus_id = ? ORDER BY d.id`, corpusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScoredDocument
	for rows.Next() {
		var sd ScoredDocument
		s := &sd.Score
		var dcr, fel, fkgl, fre, lw, mer sql.NullFloat64
		if err := rows.Scan(&sd.ID, &sd.CorpusID, &sd.UttID, &sd.Level,
			&s.RunID, &s.Sentences, &s.Words, &s.Syllables, &s.Miniwords, &s.Monosyllables, &s.NotFamiliar,
			&s.AvgSentenceLength, &s.AvgWordLength, &s.MeanClass, &s.HardWords, &s.IdeaUnitLength,
			&dcr, &fel, &fkgl, &fre, &lw, &mer); err != nil {
			return nil, err
		}
		s.DocumentID = sd.ID
		s.DCR, s.FEL, s.FKGL = floatPtr(dcr), floatPtr(fel), floatPtr(fkgl)
		s.FRE, s.LW, s.MER = floatPtr(fre), floatPtr(lw), floatPtr(mer)
		out = append(out, sd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrGetWord returns the id of word, inserting it with class if missing.
// The class of an existing word is kept.
func CreateOrGetWord(db DBExecutor, word string, class float64) (int64, error) {
	trimmedWord := strings.ToLower(strings.TrimSpace(word))
	if trimmedWord == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	err := db.QueryRow(`INSERT INTO words (word, class) VALUES (?, ?)
		ON CONFLICT(word) DO UPDATE SET class = words.class
		RETURNING id`, trimmedWord, class).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// GetWords returns every stored word ordered by id.
func GetWords(db DBExecutor) ([]Word, error) {
	rows, err := db.Query(`SELECT id, word, class FROM words ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Word
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.ID, &w.Word, &w.Class); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateWordClass sets the class of a stored word.
func UpdateWordClass(db DBExecutor, wordID int64, class float64) error {
	if wordID <= 0 {
		return fmt.Errorf("wordID must be positive")
	}
	_, err := db.Exec(`UPDATE words SET class = ? WHERE id = ?`, class, wordID)
	return err
}

// LinkWordToDocument adds incrementAmount occurrences of the word to the document.
func LinkWordToDocument(db DBExecutor, wordID, documentID int64, incrementAmount int) error {
	if wordID <= 0 {
		return fmt.Errorf("wordID must be positive")
	}
	if documentID <= 0 {
		return fmt.Errorf("documentID must be positive")
	}
	if incrementAmount < 1 {
		return fmt.Errorf("incrementAmount must be positive, got %d", incrementAmount)
	}

	_, err := db.Exec(`INSERT INTO word_documents (word_id, document_id, occurrence_count)
	VALUES (?, ?, ?)
	ON CONFLICT(word_id, document_id) DO UPDATE SET
	  occurrence_count = word_documents.occurrence_count + excluded.occurrence_count`,
		wordID, documentID, incrementAmount)
	return err
}

// ClearDocumentWords removes the word links of a document so a rescored
// document does not double its counts.
func ClearDocumentWords(db DBExecutor, documentID int64) error {
	_, err := db.Exec(`DELETE FROM word_documents WHERE document_id = ?`, documentID)
	return err
}

// GetWordsByDocument returns the words of a document ordered by word.
func GetWordsByDocument(db DBExecutor, documentID int64) ([]WordCount, error) {
	rows, err := db.Query(`SELECT w.id, w.word, w.class, wd.occurrence_count
	FROM words w JOIN word_documents wd ON wd.word_id = w.id
	WHERE wd.document_id = ? ORDER BY w.word`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.ID, &wc.Word.Word, &wc.Class, &wc.OccurrenceCount); err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

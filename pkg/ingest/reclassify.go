package ingest

import (
	"database/sql"
	"fmt"

	"github.com/japaniel/listenability/pkg/db"
	"github.com/japaniel/listenability/pkg/readability"
)

// Reclassify recomputes the class of every stored word, e.g. after the
// headword table changed, and returns how many classes changed. Words are
// classified untagged, as Run does.
func Reclassify(conn *sql.DB, classes readability.Resolver) (int, error) {
	words, err := db.GetWords(conn)
	if err != nil {
		return 0, err
	}

	type update struct {
		id    int64
		class float64
	}
	var updates []update
	for _, w := range words {
		if c := float64(classes.Resolve(w.Word, "")); c != w.Class {
			updates = append(updates, update{w.ID, c})
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for _, u := range updates {
		if err := db.UpdateWordClass(tx, u.id, u.class); err != nil {
			return 0, fmt.Errorf("update word %d: %w", u.id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(updates), nil
}

package basedb

import (
	"database/sql"
	"fmt"
)

// DeleteSQL generates the DELETE statement for the provided table. It
// refuses to generate a statement without a where clause and returns
// ErrPrecondition instead. It is used internally by Delete, but is
// exported if you wish to use it directly.
func (db *DB) DeleteSQL(table string) (asSQL string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.takeErr(); err != nil {
		return "", err
	}

	if db.where.blank() {
		return "", fmt.Errorf("%w: delete: where clause is empty", ErrPrecondition)
	}

	return "delete from " + table + " " + db.where.String(), nil
}

// Delete executes the DELETE statement, returning the standard sql.Result
// struct.
func (db *DB) Delete(table string) (sql.Result, error) {
	asSQL, err := db.DeleteSQL(table)
	if err != nil {
		return nil, err
	}
	return db.Exec(asSQL)
}

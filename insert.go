package basedb

import (
	"database/sql"
	"fmt"
	"strings"
)

// InsertSQL generates the INSERT statement for the provided table and
// values. Columns go through QuoteIdentifier, values are rendered as SQL
// literals. It is used internally by Insert, but is exported if you wish
// to use it directly.
func (db *DB) InsertSQL(table string, values Pairs) (asSQL string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.takeErr(); err != nil {
		return "", err
	}

	if table == "" || len(values) == 0 {
		return "", fmt.Errorf("%w: insert: empty table or values", ErrInvalidArgument)
	}

	cols := make([]string, len(values))
	vals := make([]string, len(values))
	for i, pair := range values {
		cols[i] = QuoteIdentifier(pair.Column)
		vals[i] = literal(pair.Value)
	}

	return "insert into " + table + "(" + strings.Join(cols, ",") + ") values(" + strings.Join(vals, ",") + ")", nil
}

// Insert executes the INSERT statement, returning the standard sql.Result
// struct. The generated id is also available from LastInsertID.
func (db *DB) Insert(table string, values Pairs) (sql.Result, error) {
	asSQL, err := db.InsertSQL(table, values)
	if err != nil {
		return nil, err
	}
	return db.Exec(asSQL)
}

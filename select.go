package basedb

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// SelectSQL generates the SELECT statement for the provided table from
// the current field, where and append clauses. It is used internally by
// Select, SelectInto and SelectRow, but is exported if you wish to use it
// directly. The table name is used as-is.
func (db *DB) SelectSQL(table string) (asSQL string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.takeErr(); err != nil {
		return "", err
	}

	asSQL = "select " + db.fields.String() + " from " + table + " " + db.where.String() + " " + db.appends.String()

	return strings.TrimSpace(asSQL), nil
}

// Select executes the SELECT statement and returns the resulting rows.
// The rows must be closed before the connection can be used again.
func (db *DB) Select(table string) (*sqlx.Rows, error) {
	asSQL, err := db.SelectSQL(table)
	if err != nil {
		return nil, err
	}
	return db.Query(asSQL)
}

// SelectInto executes the SELECT statement and loads all the results into
// the provided slice variable.
func (db *DB) SelectInto(into interface{}, table string) error {
	asSQL, err := db.SelectSQL(table)
	if err != nil {
		return err
	}
	return db.selectInto(into, asSQL)
}

// SelectRow executes the SELECT statement and loads the first result into
// the provided variable (which may be a simple variable if only one column
// was selected, or a struct if multiple columns were selected).
func (db *DB) SelectRow(into interface{}, table string) error {
	asSQL, err := db.SelectSQL(table)
	if err != nil {
		return err
	}
	return db.getInto(into, asSQL)
}

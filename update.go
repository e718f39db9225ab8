package basedb

import (
	"database/sql"
	"fmt"
	"strings"
)

// UpdateSQL generates the UPDATE statement for the provided table and
// values, using whatever where clause is currently set. It is used
// internally by Update, but is exported if you wish to use it directly.
func (db *DB) UpdateSQL(table string, values Pairs) (asSQL string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.updateSQL(table, values)
}

func (db *DB) updateSQL(table string, values Pairs) (string, error) {
	if err := db.takeErr(); err != nil {
		return "", err
	}

	if table == "" || len(values) == 0 {
		return "", fmt.Errorf("%w: update: empty table or values", ErrInvalidArgument)
	}

	updates := make([]string, len(values))
	for i, pair := range values {
		updates[i] = QuoteIdentifier(pair.Column) + "=" + literal(pair.Value)
	}

	return "update " + table + " set " + strings.Join(updates, ",") + " " + db.where.String(), nil
}

// Update executes the UPDATE statement, returning the standard sql.Result
// struct. Without a where clause the update applies to every row of the
// table.
func (db *DB) Update(table string, values Pairs) (sql.Result, error) {
	db.mu.Lock()
	asSQL, err := db.updateSQL(table, values)
	unfiltered := db.where.blank()
	db.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if unfiltered {
		db.sess.logger.Warn("update without where clause", "table", table)
	}

	return db.Exec(asSQL)
}

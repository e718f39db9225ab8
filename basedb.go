package basedb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Filter is an interface describing the input of Where. It defines the
// Parse function that renders the complete WHERE clause (including its
// leading " where ").
type Filter interface {
	Parse() (asSQL string, err error)
}

// RawFilter is a WHERE condition written directly in SQL.
type RawFilter string

// Raw creates a filter from an SQL condition. The whole condition is
// checked by InjectCheck, so a condition containing a blacklisted
// pattern is turned into a quoted string literal.
func Raw(condition string) RawFilter {
	return RawFilter(condition)
}

// Parse implements the Filter interface, generating SQL from the
// condition
func (raw RawFilter) Parse() (asSQL string, err error) {
	if strings.TrimSpace(string(raw)) == "" {
		return "", fmt.Errorf("%w: where: empty condition", ErrInvalidArgument)
	}
	return " where " + InjectCheck(string(raw)), nil
}

// Condition compares a field with an operator+value expression such as
// ">0" or `= "zhangsan"`. When HasConnective is set, Connective ("and",
// "or" or anything else) is rendered after the expression and joins it
// with the next condition.
type Condition struct {
	Field         string
	Expr          string
	Connective    string
	HasConnective bool
}

// Conditions is an ordered list of conditions rendered left to right.
// The caller supplies every connective, including a trailing one if it
// wants it there; nothing is added or removed.
type Conditions []Condition

// Cond creates a condition without a connective. Use it for the last
// condition of a list, or write the connective into the expression
// yourself (e.g. Cond("age", "> 1 and")).
func Cond(field, expr string) Condition {
	return Condition{Field: field, Expr: expr}
}

// CondWith creates a condition followed by the provided connective
func CondWith(field, expr, connective string) Condition {
	return Condition{Field: field, Expr: expr, Connective: connective, HasConnective: true}
}

// And creates a condition followed by "and"
func And(field, expr string) Condition {
	return CondWith(field, expr, "and")
}

// Or creates a condition followed by "or"
func Or(field, expr string) Condition {
	return CondWith(field, expr, "or")
}

// Parse renders a single condition
func (cond Condition) Parse() string {
	asSQL := " " + QuoteIdentifier(cond.Field) + " " + InjectCheck(cond.Expr) + " "
	if cond.HasConnective {
		asSQL += cond.Connective + " "
	}
	return asSQL
}

// Parse implements the Filter interface, generating SQL from the
// conditions
func (conds Conditions) Parse() (asSQL string, err error) {
	if len(conds) == 0 {
		return "", fmt.Errorf("%w: where: empty condition list", ErrInvalidArgument)
	}

	var b strings.Builder
	b.WriteString(" where ")
	for _, cond := range conds {
		b.WriteString(cond.Parse())
	}

	return b.String(), nil
}

// ConditionMap maps fields to operator+value expressions. Since maps are
// unordered, conditions are rendered in field name order.
type ConditionMap map[string]string

// Parse implements the Filter interface, generating SQL from the
// conditions
func (m ConditionMap) Parse() (asSQL string, err error) {
	if len(m) == 0 {
		return "", fmt.Errorf("%w: where: empty condition map", ErrInvalidArgument)
	}

	conds := make(Conditions, 0, len(m))
	for _, field := range sortKeys(m) {
		conds = append(conds, Cond(field, m[field]))
	}

	return conds.Parse()
}

// IndirectValue represents an SQL expression (e.g. a column or function
// call) that should be used as a value as-is rather than as a quoted
// string. It is still checked by InjectCheck.
type IndirectValue struct {
	Reference string
}

// Indirect receives a string and injects it into a query as-is rather
// than as a string literal. Never use this with user-supplied input.
func Indirect(value string) IndirectValue {
	return IndirectValue{value}
}

// ToSQL generates SQL for an IndirectValue
func (i IndirectValue) ToSQL() string {
	return InjectCheck(i.Reference)
}

// Pair is a column and the value to store in it.
type Pair struct {
	Column string
	Value  interface{}
}

// Pairs is an ordered list of column/value pairs used by Insert and
// Update.
type Pairs []Pair

// P creates a Pair
func P(column string, value interface{}) Pair {
	return Pair{column, value}
}

// PairsFromMap converts a map of columns and values to Pairs, ordered by
// column name.
func PairsFromMap(m map[string]interface{}) Pairs {
	pairs := make(Pairs, 0, len(m))
	for _, col := range sortKeys(m) {
		pairs = append(pairs, Pair{col, m[col]})
	}
	return pairs
}

func sortKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// literal renders a value for an INSERT or UPDATE statement. Strings are
// escaped and quoted unless numeric, numbers are written bare, and
// IndirectValues are injected as-is after InjectCheck.
func literal(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case IndirectValue:
		return v.ToSQL()
	case string:
		return InjectConvert(v)
	case []byte:
		return InjectConvert(string(v))
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return InjectCheck(fmt.Sprint(v))
	}
}

// Field sets the columns to select, replacing any previously set. It
// receives either a single comma-separated string or a list of names;
// every name goes through QuoteIdentifier. A single argument is always
// split on commas, so Field("COUNT(a,b)") selects two broken columns; use
// Fields for expressions containing commas.
func (db *DB) Field(fields ...string) *DB {
	if len(fields) == 1 {
		fields = strings.Split(fields[0], ",")
	}
	return db.Fields(fields)
}

// Fields is like Field, but every element of the list is one column or
// expression and is never split.
func (db *DB) Fields(fields []string) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return db
	}

	if len(fields) == 0 || (len(fields) == 1 && strings.TrimSpace(fields[0]) == "") {
		db.err = fmt.Errorf("%w: field: empty field list", ErrInvalidArgument)
		return db
	}

	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = QuoteIdentifier(field)
	}

	db.fields.update(strings.Join(quoted, ","))
	return db
}

// Where sets the WHERE clause, replacing any previously set. Pass Raw for
// an SQL condition, or Conditions/ConditionMap for per-field conditions.
func (db *DB) Where(filter Filter) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return db
	}

	if filter == nil {
		db.err = fmt.Errorf("%w: where: unsupported filter", ErrInvalidArgument)
		return db
	}

	asSQL, err := filter.Parse()
	if err != nil {
		db.err = err
		return db
	}

	db.where.update(asSQL)
	return db
}

// Append adds trailing SQL fragments such as "order by id asc" or
// "limit 5" to the statement. Fragments accumulate across calls; they
// are only removed by Reset.
func (db *DB) Append(fragments ...string) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return db
	}

	if len(fragments) == 0 {
		db.err = fmt.Errorf("%w: append: empty input", ErrInvalidArgument)
		return db
	}

	for _, fragment := range fragments {
		db.appends.update(InjectCheck(fragment) + " ")
	}
	return db
}

// Err returns the error recorded by the last failed chain call, if any.
// The error is cleared by the next statement, which returns it.
func (db *DB) Err() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.err
}

// Reset restores all clauses to their defaults ("*" fields, no where and
// no appended fragments) and clears a recorded chain error.
func (db *DB) Reset() *DB {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.resetClauses()
	db.err = nil
	return db
}

func (db *DB) resetClauses() {
	db.fields.reset()
	db.where.reset()
	db.appends.reset()
}

// Clone returns a builder with a copy of the current clauses that shares
// the connection with db. Chains on the clone don't affect db.
func (db *DB) Clone() *DB {
	db.mu.Lock()
	defer db.mu.Unlock()

	return &DB{
		sess:    db.sess,
		fields:  db.fields,
		where:   db.where,
		appends: db.appends,
		err:     db.err,
	}
}

// takeErr returns and clears the recorded chain error. The caller must
// hold db.mu.
func (db *DB) takeErr() error {
	err := db.err
	db.err = nil
	return err
}

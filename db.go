package basedb

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// State is an enumerated type representing the lifecycle state of a
// connection.
type State int

// Uninitialized means no connection was attempted yet
// Connected means the connection is open and reused for all operations
// Failed means the last connection attempt failed
// Closed means the connection was explicitly closed
const (
	Uninitialized State = iota
	Connected
	Failed
	Closed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// session is the part of a DB shared between clones: the connection
// itself and everything that belongs to it rather than to a query.
type session struct {
	x           *sqlx.DB
	cfg         Config
	logger      *slog.Logger
	errHandlers []func(err error)

	mu         sync.Mutex
	state      State
	lastResult sql.Result
}

// DB is a database connection together with the clause accumulator of
// the query builder. The same object opens the connection, collects
// field/where/append clauses across chained calls, and renders and
// executes statements.
//
// Clauses are not reset between statements: a second query on the same
// DB inherits the where and append clauses of the first one unless they
// are overwritten or Reset is called. Methods are safe to call from
// multiple goroutines, but chains from different goroutines interleave
// on the shared clauses; use Clone to get an independent builder.
type DB struct {
	sess *session

	mu      sync.Mutex
	fields  clause
	where   clause
	appends clause
	err     error
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger that executed statements are written to (at
// debug level). By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.sess.logger = logger
		}
	}
}

// WithErrorHandler registers a function that is called with every error
// returned by the driver. The error is still returned to the caller.
func WithErrorHandler(handler func(err error)) Option {
	return func(db *DB) {
		db.sess.errHandlers = append(db.sess.errHandlers, handler)
	}
}

// connect opens and verifies a connection. Replaced in tests.
var connect = func(cfg Config) (*sqlx.DB, error) {
	return sqlx.Connect(cfg.Driver, cfg.DSN())
}

// Open connects to the database described by cfg. The connection pool is
// pinned to a single open connection, so that every statement runs in the
// same session. A connection failure is returned as a *ConnectionError and
// is not retried.
func Open(cfg Config, opts ...Option) (*DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = "mysql"
	}

	x, err := connect(cfg)
	if err != nil {
		return nil, &ConnectionError{Host: cfg.Host, Port: cfg.Port, Err: err}
	}
	x.SetMaxOpenConns(1)

	db := newDB(x, opts)
	db.sess.cfg = cfg
	return db, nil
}

// New creates a new DB instance from an underlying sql.DB object.
// It requires the name of the SQL driver.
func New(db *sql.DB, driverName string, opts ...Option) *DB {
	return newDB(sqlx.NewDb(db, driverName), opts)
}

// Newx creates a new DB instance from an underlying sqlx.DB object
func Newx(db *sqlx.DB, opts ...Option) *DB {
	return newDB(db, opts)
}

func newDB(x *sqlx.DB, opts []Option) *DB {
	db := &DB{
		sess: &session{
			x:      x,
			logger: slog.New(slog.DiscardHandler),
			state:  Connected,
		},
		fields:  newClause(replacePolicy, "*"),
		where:   newClause(replacePolicy, ""),
		appends: newClause(accumulatePolicy, ""),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(db)
		}
	}

	return db
}

var (
	instanceMu    sync.Mutex
	instance      *DB
	instanceState = Uninitialized
	instanceCfg   = DefaultConfig()
	instanceOpts  []Option
)

// Configure sets the configuration and options GetInstance uses the next
// time it has to open a connection. It does not affect an instance that
// is already open.
func Configure(cfg Config, opts ...Option) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	instanceCfg = cfg
	instanceOpts = append([]Option{}, opts...)
}

// GetInstance returns the process-wide DB, opening it on first use with the
// configuration registered through Configure (DefaultConfig otherwise).
// If the connection can't be opened, the *ConnectionError is returned and
// the next call tries again.
func GetInstance() (*DB, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	db, err := Open(instanceCfg, instanceOpts...)
	if err != nil {
		instanceState = Failed
		return nil, err
	}

	instance = db
	instanceState = Connected
	return instance, nil
}

// InstanceState returns the state of the process-wide connection.
func InstanceState() State {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instanceState
}

// Sqlx returns the underlying sqlx.DB object.
func (db *DB) Sqlx() *sqlx.DB {
	return db.sess.x
}

// Config returns the configuration the connection was opened with. It is
// empty for connections created with New or Newx.
func (db *DB) Config() Config {
	return db.sess.cfg
}

// State returns the state of the connection.
func (db *DB) State() State {
	db.sess.mu.Lock()
	defer db.sess.mu.Unlock()
	return db.sess.state
}

// Ping verifies the connection is still alive.
func (db *DB) Ping() error {
	return db.sess.x.Ping()
}

// SelectDB switches the active database of the connection. The name is
// always quoted, so it can't contain backticks or dots.
func (db *DB) SelectDB(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: select db: empty database name", ErrInvalidArgument)
	}
	if strings.ContainsAny(name, "`.") {
		return fmt.Errorf("%w: select db: invalid database name %q", ErrInvalidArgument, name)
	}
	_, err := db.Exec("use `" + name + "`")
	return err
}

// Query sends a statement that returns rows to the database verbatim. The
// returned rows must be closed before the connection can be used again.
func (db *DB) Query(sqlText string) (*sqlx.Rows, error) {
	if sqlText == "" {
		return nil, fmt.Errorf("%w: query: empty statement", ErrInvalidArgument)
	}

	db.sess.logger.Debug("executing statement", "sql", sqlText)

	rows, err := db.sess.x.Queryx(sqlText)
	if err != nil {
		return nil, db.sess.fail(sqlText, err)
	}
	return rows, nil
}

// Exec sends a statement that doesn't return rows to the database
// verbatim, returning the standard sql.Result struct.
func (db *DB) Exec(sqlText string) (sql.Result, error) {
	if sqlText == "" {
		return nil, fmt.Errorf("%w: exec: empty statement", ErrInvalidArgument)
	}

	db.sess.logger.Debug("executing statement", "sql", sqlText)

	res, err := db.sess.x.Exec(sqlText)
	if err != nil {
		return nil, db.sess.fail(sqlText, err)
	}

	db.sess.mu.Lock()
	db.sess.lastResult = res
	db.sess.mu.Unlock()

	return res, nil
}

// selectInto runs a statement and loads all resulting rows into dest.
func (db *DB) selectInto(dest interface{}, sqlText string) error {
	if sqlText == "" {
		return fmt.Errorf("%w: query: empty statement", ErrInvalidArgument)
	}

	db.sess.logger.Debug("executing statement", "sql", sqlText)

	if err := sqlx.Select(db.sess.x, dest, sqlText); err != nil {
		return db.sess.fail(sqlText, err)
	}
	return nil
}

// getInto runs a statement and loads the first resulting row into dest.
func (db *DB) getInto(dest interface{}, sqlText string) error {
	if sqlText == "" {
		return fmt.Errorf("%w: query: empty statement", ErrInvalidArgument)
	}

	db.sess.logger.Debug("executing statement", "sql", sqlText)

	if err := sqlx.Get(db.sess.x, dest, sqlText); err != nil {
		return db.sess.fail(sqlText, err)
	}
	return nil
}

// LastInsertID returns the auto-increment id generated by the most recent
// statement executed on this connection, or zero if it didn't generate
// one. Concurrent callers sharing the connection see each other's ids.
func (db *DB) LastInsertID() (int64, error) {
	db.sess.mu.Lock()
	res := db.sess.lastResult
	db.sess.mu.Unlock()

	if res == nil {
		return 0, nil
	}
	return res.LastInsertId()
}

// ShowTables lists the tables of the active database.
func (db *DB) ShowTables() ([]string, error) {
	var tables []string
	if err := db.selectInto(&tables, "show tables"); err != nil {
		return nil, err
	}
	return tables, nil
}

// Close closes the connection. If db is the process-wide instance, the
// next call to GetInstance opens a new connection.
func (db *DB) Close() error {
	err := db.sess.x.Close()

	db.sess.mu.Lock()
	db.sess.state = Closed
	db.sess.mu.Unlock()

	instanceMu.Lock()
	if instance != nil && instance.sess == db.sess {
		instance = nil
		instanceState = Closed
	}
	instanceMu.Unlock()

	return err
}

// fail wraps a driver error and passes it to the error handlers.
func (s *session) fail(sqlText string, err error) error {
	execErr := &ExecError{Query: sqlText, Err: err}
	s.handleError(execErr)
	return execErr
}

package basedb

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConnector replaces the connect function for the duration of the
// test and resets the process-wide instance afterwards.
func withConnector(t *testing.T, fn func(cfg Config) (*sqlx.DB, error)) {
	t.Helper()

	orig := connect
	connect = fn

	t.Cleanup(func() {
		connect = orig

		instanceMu.Lock()
		instance = nil
		instanceState = Uninitialized
		instanceCfg = DefaultConfig()
		instanceOpts = nil
		instanceMu.Unlock()
	})
}

func TestGetInstance(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	var (
		calls int
		seen  Config
	)
	withConnector(t, func(cfg Config) (*sqlx.DB, error) {
		calls++
		seen = cfg
		return sqlx.NewDb(sqlDB, "mysql"), nil
	})

	assert.Equal(t, Uninitialized, InstanceState())

	cfg := DefaultConfig()
	cfg.Database = "other"
	Configure(cfg)

	first, err := GetInstance()
	require.NoError(t, err)
	second, err := GetInstance()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls, "the connection should be opened once")
	assert.Equal(t, "other", seen.Database)
	assert.Equal(t, seen, first.Config())
	assert.Equal(t, Connected, InstanceState())
	assert.Equal(t, Connected, first.State())
	assert.Equal(t, 1, first.Sqlx().Stats().MaxOpenConnections)

	mock.ExpectClose()
	require.NoError(t, first.Close())
	assert.Equal(t, Closed, first.State())
	assert.Equal(t, Closed, InstanceState())
	require.NoError(t, mock.ExpectationsWereMet())

	third, err := GetInstance()
	require.NoError(t, err)
	assert.NotSame(t, first, third, "a closed instance should be replaced")
	assert.Equal(t, 2, calls)
}

func TestGetInstanceConnectionError(t *testing.T) {
	refused := errors.New("connection refused")

	var calls int
	withConnector(t, func(cfg Config) (*sqlx.DB, error) {
		calls++
		return nil, refused
	})

	db, err := GetInstance()
	require.Nil(t, db)
	require.ErrorIs(t, err, refused)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "10.138.26.22", connErr.Host)
	assert.Equal(t, 8360, connErr.Port)
	assert.Equal(t, "basedb: connect to 10.138.26.22:8360: connection refused", err.Error())
	assert.Equal(t, Failed, InstanceState())

	_, err = GetInstance()
	require.Error(t, err)
	assert.Equal(t, 2, calls, "every call makes exactly one attempt")
}

func TestSelectDB(t *testing.T) {
	db, mock := newMock(t)

	require.ErrorIs(t, db.SelectDB(""), ErrInvalidArgument)
	require.ErrorIs(t, db.SelectDB("  "), ErrInvalidArgument)
	require.ErrorIs(t, db.SelectDB("a`; drop table t; `"), ErrInvalidArgument)
	require.ErrorIs(t, db.SelectDB("other.tbl"), ErrInvalidArgument)
	require.ErrorIs(t, db.SelectDB("`archive`"), ErrInvalidArgument)

	mock.ExpectExec("use `archive`").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, db.SelectDB("archive"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyStatement(t *testing.T) {
	db, _ := newMock(t)

	_, err := db.Query("")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = db.Exec("")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExecError(t *testing.T) {
	var handled []error
	db, mock := newMock(t, WithErrorHandler(func(err error) {
		handled = append(handled, err)
	}))

	driverErr := errors.New("Table 'test.nope' doesn't exist")
	mock.ExpectExec("delete from nope  where id = 1").WillReturnError(driverErr)
	mock.ExpectQuery("select * from nope  where id = 1").WillReturnError(driverErr)

	_, err := db.Where(Raw("id = 1")).Delete("nope")
	require.ErrorIs(t, err, driverErr)
	assert.Equal(t, driverErr.Error(), err.Error(), "driver errors are surfaced verbatim")

	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "delete from nope  where id = 1", execErr.Query)

	_, err = db.Select("nope")
	require.ErrorIs(t, err, driverErr)

	assert.Len(t, handled, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShowTables(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("show tables").
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_test"}).AddRow("tblUser").AddRow("tblOrder"))

	tables, err := db.ShowTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"tblUser", "tblOrder"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "State(9)", State(9).String())
}

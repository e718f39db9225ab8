package basedb

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	runTests(t, func() []test {
		return []test{
			{
				"simple insert",
				func(db *DB) (string, error) {
					return db.InsertSQL("tblUser", Pairs{P("username", "zhangsan"), P("age", 13)})
				},
				"insert into tblUser(`username`,`age`) values('zhangsan',13)",
			},
			{
				"insert with value map",
				func(db *DB) (string, error) {
					return db.InsertSQL("tblUser", PairsFromMap(map[string]interface{}{"username": "zhangsan", "age": 13}))
				},
				"insert into tblUser(`age`,`username`) values(13,'zhangsan')",
			},
			{
				"insert escapes strings",
				func(db *DB) (string, error) {
					return db.InsertSQL("t", Pairs{P("note", `it's a "test"`), P("deleted_at", nil), P("created_at", Indirect("NOW()"))})
				},
				"insert into t(`note`,`deleted_at`,`created_at`) values('it\\'s a \\\"test\\\"',NULL,NOW())",
			},
			{
				"insert ignores the where clause",
				func(db *DB) (string, error) {
					return db.Where(Raw("id = 1")).InsertSQL("t", Pairs{P("a", 1)})
				},
				"insert into t(`a`) values(1)",
			},
		}
	})
}

func TestInsertInvalid(t *testing.T) {
	db, _ := newMock(t)

	_, err := db.Insert("", Pairs{P("a", 1)})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = db.Insert("t", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInsertExec(t *testing.T) {
	db, mock := newMock(t)

	id, err := db.LastInsertID()
	require.NoError(t, err)
	assert.Zero(t, id, "no statement was executed yet")

	mock.ExpectExec("insert into tblUser(`username`,`age`) values('zhangsan',13)").
		WillReturnResult(sqlmock.NewResult(42, 1))

	res, err := db.Insert("tblUser", Pairs{P("username", "zhangsan"), P("age", 13)})
	require.NoError(t, err)

	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	id, err = db.LastInsertID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	require.NoError(t, mock.ExpectationsWereMet())
}

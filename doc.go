// Package basedb is a small fluent SQL builder over a single MySQL
// connection, based on github.com/jmoiron/sqlx.
//
// One object plays two roles: it owns the connection, and it carries the
// clauses of the statement being built. Chained calls to Field, Where and
// Append collect clauses; Select, Insert, Update and Delete render them
// into SQL text and execute it.
//
// basedb does not use placeholders. Every identifier passes through
// QuoteIdentifier and every value through a blacklist sanitizer
// (InjectCheck), which escapes and quotes a value only when it contains
// one of a fixed set of SQL keywords or comment/path characters. Values
// passed to Insert and Update are typed: strings are always escaped and
// quoted (unless numeric), numbers are written as-is.
//
// Clauses are not reset after a statement. Field and Where replace the
// previous clause, Append adds to it, and all three stay in place for the
// next statement until Reset is called. An Update without a where clause
// updates the whole table; a Delete without one is refused.
//
//	import (
//		"fmt"
//		"github.com/ido50/basedb"
//	)
//
//	func main() {
//		db, err := basedb.GetInstance()
//		if err != nil {
//			panic(err)
//		}
//
//		var users []struct {
//			ID       int64  `db:"id"`
//			Username string `db:"username"`
//		}
//		err = db.Field("id", "username").
//			Where(basedb.Conditions{
//				basedb.And("id", ">0"),
//				basedb.Cond("username", `= "zhangsan"`),
//			}).
//			Append("order by id asc").
//			SelectInto(&users, "tblUser")
//		if err != nil {
//			panic(err)
//		}
//
//		_, err = db.Reset().
//			Where(basedb.Raw(`username = "wangwu"`)).
//			Update("tblUser", basedb.Pairs{basedb.P("age", 11)})
//		if err != nil {
//			panic(err)
//		}
//
//		res, err := db.Insert("tblUser", basedb.Pairs{
//			basedb.P("username", "zhangsan"),
//			basedb.P("age", 13),
//		})
//		if err != nil {
//			panic(err)
//		}
//
//		id, _ := res.LastInsertId()
//		fmt.Println(id)
//	}
package basedb

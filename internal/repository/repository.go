package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	Rebind(query string) string
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

// paginate appends the row-limiting clause for the driver. Oracle uses the
// SQL:2008 form, everything else LIMIT/OFFSET. limit <= 0 means no limit.
func paginate(driverName, query string, limit, offset int, args []interface{}) (string, []interface{}) {
	if limit <= 0 && offset <= 0 {
		return query, args
	}
	if driverName == "oracle" {
		query += " OFFSET ? ROWS"
		args = append(args, offset)
		if limit > 0 {
			query += " FETCH NEXT ? ROWS ONLY"
			args = append(args, limit)
		}
		return query, args
	}
	if limit <= 0 {
		limit = -1
	}
	return query + " LIMIT ? OFFSET ?", append(args, limit, offset)
}

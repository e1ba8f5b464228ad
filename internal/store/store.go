// Package store holds the SQL access functions. Queries are written with "?"
// placeholders and rebound for the connected driver, so the same functions
// serve SQLite and PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("not found")

// insertID runs an INSERT statement with a RETURNING id clause appended and
// returns the new id.
func insertID(ctx context.Context, e sqlx.ExtContext, query string, args ...any) (int64, error) {
	var id int64
	if err := e.QueryRowxContext(ctx, e.Rebind(query+` RETURNING id`), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// namedInsertID is insertID for named (":field") statements bound from arg.
func namedInsertID(ctx context.Context, e sqlx.ExtContext, query string, arg any) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, e, query+` RETURNING id`, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("insert returned no id")
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, rows.Err()
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

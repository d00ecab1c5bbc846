package row

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FromSQL reads the current row of rows. rows.Next must have returned true.
func FromSQL(rows *sql.Rows) (*Values, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	values := make([]any, len(columns))
	holders := make([]any, len(columns))
	for i := range values {
		holders[i] = &values[i]
	}

	if err = rows.Scan(holders...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return New(columns, values)
}

// Each calls fn for every remaining row of rows and closes rows when done.
// Iteration stops at the first error returned by fn.
func Each(rows *sql.Rows, fn func(Row) error) error {
	defer rows.Close()

	for rows.Next() {
		r, err := FromSQL(rows)
		if err != nil {
			return err
		}

		if err = fn(r); err != nil {
			return err
		}
	}

	return rows.Err()
}

// FromSqlx reads the current row of rows. rows.Next must have returned true.
func FromSqlx(rows *sqlx.Rows) (*Values, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	values, err := rows.SliceScan()
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return New(columns, values)
}

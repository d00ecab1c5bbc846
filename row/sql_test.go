package row

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEach(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"b.id", "b.s", "c.id"}).
			AddRow(1, "first", 1).
			AddRow(2, []byte("second"), nil),
	)

	rows, err := db.Query("SELECT b.id, b.s, c.id FROM b LEFT JOIN c")
	require.NoError(t, err)

	var got []*Values
	err = Each(rows, func(r Row) error {
		got = append(got, r.(*Values))
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	id, ok := got[0].Get(Normalize("b.id"))
	assert.True(t, ok)
	assert.EqualValues(t, 1, id)

	s, _ := got[1].Get(Normalize("b.s"))
	assert.Equal(t, []byte("second"), s)

	cid, ok := got[1].Get(Normalize("c.id"))
	assert.True(t, ok)
	assert.Nil(t, cid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEach_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2),
	)

	rows, err := db.Query("SELECT id FROM t")
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = Each(rows, func(Row) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestEach_RowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	broken := errors.New("connection reset")
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).RowError(1, broken),
	)

	rows, err := db.Query("SELECT id FROM t")
	require.NoError(t, err)

	err = Each(rows, func(Row) error { return nil })
	assert.ErrorIs(t, err, broken)
}

func TestFromSqlx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"B_ID", "B_S"}).AddRow(7, "seventh"),
	)

	rows, err := sqlx.NewDb(db, "sqlmock").Queryx("SELECT * FROM b")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	v, err := FromSqlx(rows)
	require.NoError(t, err)

	s, ok := v.Get(Normalize("b.s"))
	assert.True(t, ok)
	assert.Equal(t, "seventh", s)
	assert.Equal(t, []string{"B_ID", "B_S"}, v.Names())
}

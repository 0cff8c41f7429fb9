package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AijiY/StudentManagement/pkg/config"
)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWithinTxCommits(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithinTx(context.Background(), db, func(ctx context.Context) error {
		require.NotNil(t, TxFromContext(ctx))
		_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE students SET deleted = true")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithinTx(context.Background(), db, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxJoinsOuterTransaction(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := WithinTx(context.Background(), db, func(outer context.Context) error {
		return WithinTx(outer, db, func(inner context.Context) error {
			assert.Same(t, TxFromContext(outer), TxFromContext(inner))
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnFallsBackToDB(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()

	assert.Same(t, db, Conn(context.Background(), db))
}

func TestDSN(t *testing.T) {
	pg, err := DSN(config.DatabaseConfig{Driver: config.DriverPgx, Host: "db", Port: 5432, User: "u", Password: "p", Name: "students", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=students sslmode=disable", pg)

	my, err := DSN(config.DatabaseConfig{Driver: config.DriverMySQL, Host: "db", Port: 3306, User: "u", Password: "p", Name: "students"})
	require.NoError(t, err)
	assert.Contains(t, my, "u:p@tcp(db:3306)/students")
	assert.Contains(t, my, "parseTime=true")

	_, err = DSN(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

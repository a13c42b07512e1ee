package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Run("applies the schema", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, Migrate(context.Background(), db))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports the failing migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("permission denied for schema public")
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnError(boom)

		err = Migrate(context.Background(), db)
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "apply migration 1")
	})
}

package data

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estately/api/internal/pool"
	"github.com/stretchr/testify/require"
)

// newTestModels backs the repositories with a mock driver so statements and
// results can be scripted without a live database.
func newTestModels(t *testing.T) (Models, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewModels(pool.New(db, 2, 10)), mock
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// execRecorder captures the statement handed to ExecContext and returns a
// canned row count.
type execRecorder struct {
	query string
	args  []interface{}
	rows  int64
}

func (e *execRecorder) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.query = query
	e.args = args
	return fixedResult{rows: e.rows}, nil
}

func (e *execRecorder) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	panic("unexpected QueryContext")
}

func (e *execRecorder) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("unexpected QueryRowContext")
}

type fixedResult struct{ rows int64 }

func (r fixedResult) LastInsertId() (int64, error) { return 0, nil }
func (r fixedResult) RowsAffected() (int64, error) { return r.rows, nil }

// Revoked tokens get the same grace window as expired ones: the delete must
// compare revoked_at against the cutoff instead of sweeping every revoked
// row on sight.
func TestDeleteExpiredTokensKeepsRecentlyRevoked(t *testing.T) {
	rec := &execRecorder{rows: 3}
	cutoff := time.Date(2026, 8, 24, 3, 15, 0, 0, time.UTC)

	n, err := deleteExpiredTokens(context.Background(), rec, cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	require.Contains(t, rec.query, "expires_at < ?")
	require.Contains(t, rec.query, "(revoked_at IS NOT NULL AND revoked_at < ?)")
	require.Len(t, rec.args, 2)
	require.Equal(t, cutoff, rec.args[0])
	require.Equal(t, cutoff, rec.args[1])
}

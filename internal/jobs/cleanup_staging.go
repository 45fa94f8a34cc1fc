package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CleanupExpiredStaging deletes staging rows (print queue, update
// candidates, missing candidates) older than the given age whose session
// is not in keepSessions. Sessions live in process memory, so after a
// restart staging rows can be orphaned; the age sweep catches those,
// while keepSessions protects queues of operators still working past the
// age cutoff (a queued tag keeps its creation timestamp forever).
// Returns the number of rows deleted across all three tables.
func CleanupExpiredStaging(ctx context.Context, age time.Duration, keepSessions []string) (int, error) {
	pool := getPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not registered")
	}
	if keepSessions == nil {
		keepSessions = []string{}
	}

	cutoff := time.Now().Add(-age)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	total := 0

	res, err := tx.Exec(ctx, `
		DELETE FROM sheet_entries
		WHERE printed_at < $1 AND NOT (session_id = ANY($2::uuid[]))`, cutoff, keepSessions)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sheet entries: %w", err)
	}
	total += int(res.RowsAffected())

	res, err = tx.Exec(ctx, `
		DELETE FROM update_candidates
		WHERE update_at < $1 AND NOT (session_id = ANY($2::uuid[]))`, cutoff, keepSessions)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup update candidates: %w", err)
	}
	total += int(res.RowsAffected())

	res, err = tx.Exec(ctx, `
		DELETE FROM missing_candidates
		WHERE updated_at < $1 AND NOT (session_id = ANY($2::uuid[]))`, cutoff, keepSessions)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup missing candidates: %w", err)
	}
	total += int(res.RowsAffected())

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup transaction: %w", err)
	}

	return total, nil
}

// CleanupSessionStaging deletes all staging rows for the given sessions
func CleanupSessionStaging(ctx context.Context, sessionIDs []string) (int, error) {
	pool := getPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not registered")
	}
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	total := 0
	for _, table := range []string{"sheet_entries", "update_candidates", "missing_candidates"} {
		res, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE session_id = ANY($1::uuid[])`, table),
			sessionIDs)
		if err != nil {
			return 0, fmt.Errorf("failed to cleanup %s: %w", table, err)
		}
		total += int(res.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup transaction: %w", err)
	}

	return total, nil
}

// getPool returns the database connection pool
// (registered by the database package to avoid an import cycle)
func getPool() *pgxpool.Pool {
	if dbPoolGetter != nil {
		return dbPoolGetter()
	}
	return nil
}

var dbPoolGetter func() *pgxpool.Pool

// RegisterDBPoolGetter registers the database pool getter function
// This is called by the database package to provide access to the pool
func RegisterDBPoolGetter(getter func() *pgxpool.Pool) {
	dbPoolGetter = getter
}

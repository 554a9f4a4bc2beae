package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
)

func countRows(ctx context.Context, db *database.DB, query string, args ...any) (int64, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (int64, error) {
		var n int64
		err := GetQuerier(ctx, db).QueryRow(ctx, query, args...).Scan(&n)
		return n, err
	})
}

// countBy runs a "key, COUNT(*) ... GROUP BY key" query and returns the counts
// keyed by the first column. Keys with no rows are absent.
func countBy(ctx context.Context, db *database.DB, query string, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := GetQuerier(ctx, db).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count dependents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

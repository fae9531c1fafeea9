package repository

import "context"

const checkAndIncrementRateLimit = `
INSERT INTO rate_limits (chat_id, window_start, count)
VALUES ($1, date_trunc('minute', now()), 1)
ON CONFLICT (chat_id, window_start)
DO UPDATE SET count = rate_limits.count + 1
RETURNING count
`

// CheckAndIncrementRateLimit bumps the per-minute counter for a chat and
// returns the new value.
func (q *Queries) CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, checkAndIncrementRateLimit, chatID).Scan(&count)
	return count, err
}

const cleanupRateLimits = `
DELETE FROM rate_limits
WHERE window_start < now() - interval '10 minutes'
`

func (q *Queries) CleanupRateLimits(ctx context.Context) error {
	_, err := q.db.Exec(ctx, cleanupRateLimits)
	return err
}

package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
)

// BackoffFor doubles INITIAL_BACKOFF per attempt, capped at MAX_BACKOFF.
func BackoffFor(attempt int) time.Duration {
	backoff := INITIAL_BACKOFF
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= MAX_BACKOFF {
			return MAX_BACKOFF
		}
	}
	return backoff
}

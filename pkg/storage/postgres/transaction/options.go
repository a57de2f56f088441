package transaction

import (
	"errors"
	"fmt"
	"time"
)

type Option func(*manager)

func MaxAttempts(attempts int) Option {
	return func(m *manager) {
		m.maxAttempts = attempts
	}
}

// RetryDelays bounds the backoff between attempts of a retryable transaction.
func RetryDelays(base, maxDelay time.Duration) Option {
	return func(m *manager) {
		m.baseRetryDelay = base
		m.maxRetryDelay = maxDelay
	}
}

func (m *manager) validate() error {
	switch {
	case m.db == nil:
		return errors.New("nil database handle")
	case m.maxAttempts <= 0:
		return fmt.Errorf("invalid max attempts %d: must be > 0", m.maxAttempts)
	case m.baseRetryDelay <= 0:
		return fmt.Errorf("invalid base retry delay %s: must be > 0", m.baseRetryDelay)
	case m.maxRetryDelay <= 0:
		return fmt.Errorf("invalid max retry delay %s: must be > 0", m.maxRetryDelay)
	case m.baseRetryDelay > m.maxRetryDelay:
		return fmt.Errorf("base retry delay %s exceeds max retry delay %s",
			m.baseRetryDelay, m.maxRetryDelay)
	}
	return nil
}

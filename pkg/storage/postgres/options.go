package postgres

import (
	"fmt"
	"time"
)

type Option func(*Postgres)

func MaxPoolSize(size int32) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

func MaxConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

// RetryDelays bounds the backoff between connection attempts.
func RetryDelays(base, maxDelay time.Duration) Option {
	return func(p *Postgres) {
		p.baseRetryDelay = base
		p.maxRetryDelay = maxDelay
	}
}

func (p *Postgres) validate() error {
	switch {
	case p.maxPoolSize <= 0:
		return fmt.Errorf("invalid max pool size %d: must be > 0", p.maxPoolSize)
	case p.connAttempts <= 0:
		return fmt.Errorf("invalid connection attempts %d: must be > 0", p.connAttempts)
	case p.baseRetryDelay <= 0:
		return fmt.Errorf("invalid base retry delay %s: must be > 0", p.baseRetryDelay)
	case p.maxRetryDelay <= 0:
		return fmt.Errorf("invalid max retry delay %s: must be > 0", p.maxRetryDelay)
	case p.baseRetryDelay > p.maxRetryDelay:
		return fmt.Errorf("base retry delay %s exceeds max retry delay %s",
			p.baseRetryDelay, p.maxRetryDelay)
	}
	return nil
}

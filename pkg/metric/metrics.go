package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Storage() Storage
		Transaction() Transaction
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Storage interface {
		ObserveQuery(operation string, duration time.Duration, err error)
	}

	// Transaction records one transactional operation after its last attempt.
	Transaction interface {
		Observe(operation string, duration time.Duration, attempts int, err error)
	}
)

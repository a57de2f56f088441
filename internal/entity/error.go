package entity

import (
	"errors"
)

var (
	ErrDataNotFound  = errors.New("data not found")
	ErrDataIntegrity = errors.New("joined row violates data integrity")
	ErrInvalidData   = errors.New("invalid data")
)

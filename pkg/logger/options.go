package logger

import (
	"errors"
	"io"
)

type Option func(*ZapLogger)

func MaxSize(size int) Option {
	return func(l *ZapLogger) {
		l.maxSize = size
	}
}

func MaxBackups(backups int) Option {
	return func(l *ZapLogger) {
		l.maxBackups = backups
	}
}

func MaxAge(age int) Option {
	return func(l *ZapLogger) {
		l.maxAge = age
	}
}

func SetLevel(level Level) Option {
	return func(l *ZapLogger) {
		l.level = toZapLevel(level)
	}
}

// Output replaces stdout as the console sink.
func Output(w io.Writer) Option {
	return func(l *ZapLogger) {
		l.stdout = w
	}
}

// WithoutFile disables the rotated file sink.
func WithoutFile() Option {
	return func(l *ZapLogger) {
		l.filename = ""
	}
}

func (l *ZapLogger) validate() error {
	if l.stdout == nil {
		return errors.New("invalid output: must not be nil")
	}

	if l.filename == "" {
		return nil
	}

	if l.maxSize <= 0 {
		return errors.New("invalid maxSize: must be > 0")
	}

	if l.maxBackups <= 0 {
		return errors.New("invalid maxBackups: must be > 0")
	}

	if l.maxAge <= 0 {
		return errors.New("invalid maxAge: must be > 0")
	}
	return nil
}

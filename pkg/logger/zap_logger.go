package logger

import (
	"fmt"
	"io"
	"os"

	"gallery/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ZapLogger struct {
	logger *zap.Logger
	level  zapcore.Level
	stdout io.Writer

	filename   string
	maxSize    int
	maxBackups int
	maxAge     int
}

func NewZapLogger(cfg *config.Config, opts ...Option) (*ZapLogger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		FunctionKey:   zapcore.OmitKey,
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	zl := &ZapLogger{
		level:      toZapLevel(ParseLevel(cfg.Logger.Level)),
		stdout:     os.Stdout,
		filename:   cfg.Logger.Filename,
		maxSize:    cfg.Logger.MaxSize,
		maxBackups: cfg.Logger.MaxBackups,
		maxAge:     cfg.Logger.MaxAge,
	}

	for _, opt := range opts {
		opt(zl)
	}
	if err := zl.validate(); err != nil {
		return nil, fmt.Errorf("logger.NewZapLogger: validation: %w", err)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(zl.stdout)}
	if zl.filename != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   zl.filename,
			MaxSize:    zl.maxSize,
			MaxBackups: zl.maxBackups,
			MaxAge:     zl.maxAge,
			Compress:   true,
		}))
	}

	level := zl.level
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level
		}),
	)

	zl.logger = zap.New(core,
		zap.Fields(
			zap.String("service", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.Env),
		),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)

	return zl, nil
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

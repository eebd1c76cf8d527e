package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/config"
)

// ServiceName is attached to every entry
const ServiceName = "emotion-service"

// NewLogger creates a new zap logger. Output "stderr" keeps stdout free for
// command output; anything else logs to stdout.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	sink := zapcore.Lock(os.Stdout)
	if cfg.Output == "stderr" {
		sink = zapcore.Lock(os.Stderr)
	}
	return New(cfg, sink), nil
}

// New builds a logger writing to sink. Unknown levels fall back to info.
func New(cfg *config.LogConfig, sink zapcore.WriteSyncer) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", ServiceName))
}

func newEncoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

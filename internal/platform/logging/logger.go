package logging

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/fistfuel/internal/platform/timeutil"
)

// The process logger writes one JSON object per line to stdout. It is built
// on first use so tests can redirect stdout beforehand.
var (
	rootOnce  sync.Once
	rootLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root      *zap.Logger
)

// severityNames follows the Cloud Logging LogSeverity names.
var severityNames = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, ok := severityNames[level]
	if !ok {
		name = "DEFAULT"
	}
	enc.AppendString(name)
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		MessageKey:     "message",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     encodeTimeMicros,
		EncodeLevel:    encodeSeverity,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func buildRoot() {
	out := zapcore.Lock(os.Stdout)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), out, rootLevel)
	root = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(out),
	)
}

// SetLevel changes the minimum level of the process logger. It accepts zap
// level names ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	rootLevel.SetLevel(lvl)
	return nil
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	rootOnce.Do(buildRoot)
	return root
}

// Sync flushes buffered entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

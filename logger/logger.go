package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled, structured JSON logger.
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// New creates a new logger with simple parameters
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	atom := zap.NewAtomicLevelAt(parseLevel(level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.LevelKey = "level"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.CallerKey = zapcore.OmitKey
	encCfg.StacktraceKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(output), atom)

	return &Logger{
		zl:    zap.New(core),
		level: atom,
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

// parseLevel converts string to a zap level, defaulting to INFO
func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Level returns the active level name.
func (l *Logger) Level() string {
	return l.level.Level().CapitalString()
}

// Zap exposes the underlying zap logger for libraries that want one, such as
// the standard library log adapter behind http.Server.ErrorLog.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func toZapFields(fields []map[string]any) []zap.Field {
	if len(fields) == 0 || fields[0] == nil {
		return nil
	}
	out := make([]zap.Field, 0, len(fields[0]))
	for k, v := range fields[0] {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Core logging methods - always structured
func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.zl.Debug(message, toZapFields(fields)...)
}

func (l *Logger) Info(message string, fields ...map[string]any) {
	l.zl.Info(message, toZapFields(fields)...)
}

func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.zl.Warn(message, toZapFields(fields)...)
}

func (l *Logger) Error(message string, fields ...map[string]any) {
	l.zl.Error(message, toZapFields(fields)...)
}

// Specialized logging methods
func (l *Logger) Task(taskID, message string, fields ...map[string]any) {
	zf := append([]zap.Field{
		zap.String("task_id", taskID),
		zap.String("type", "task"),
	}, toZapFields(fields)...)

	l.zl.Info(message, zf...)
}

func (l *Logger) HTTP(method, path string, statusCode int, duration time.Duration, fields ...map[string]any) {
	zf := append([]zap.Field{
		zap.String("http_method", method),
		zap.String("http_path", path),
		zap.Int("http_status", statusCode),
		zap.Int64("duration_ns", duration.Nanoseconds()),
		zap.String("type", "http_request"),
	}, toZapFields(fields)...)

	l.zl.Info("HTTP request completed", zf...)
}

package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZerkerEOD/paytypes-backend/pkg/env"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// Options controls where and how log lines are written
type Options struct {
	// Format selects the encoder: "json" for JSON lines, anything else for console output
	Format string
	// Dir is the directory of the rotating log file. Empty disables file output.
	Dir string
	// Level is the minimum level to output
	Level LogLevel
}

var (
	// IsEnabled controls whether messages are output
	IsEnabled bool
	// CurrentLevel is the minimum level of messages to output
	CurrentLevel LogLevel

	mu     sync.RWMutex
	logger *zap.SugaredLogger

	levelNames = map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARNING",
		LevelError:   "ERROR",
	}
	levelMap = map[string]LogLevel{
		"DEBUG":   LevelDebug,
		"INFO":    LevelInfo,
		"WARNING": LevelWarning,
		"WARN":    LevelWarning,
		"ERROR":   LevelError,
	}
	zapLevels = map[LogLevel]zapcore.Level{
		LevelDebug:   zapcore.DebugLevel,
		LevelInfo:    zapcore.InfoLevel,
		LevelWarning: zapcore.WarnLevel,
		LevelError:   zapcore.ErrorLevel,
	}
)

func init() {
	Reinitialize()
}

// ParseLevel converts a level name to a LogLevel, defaulting to LevelInfo
func ParseLevel(name string) LogLevel {
	if level, ok := levelMap[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level
	}
	return LevelInfo
}

// Reinitialize resets the logger to console output on stdout using the DEBUG and
// LOG_LEVEL environment variables. Logging stays enabled unless DEBUG is explicitly false.
func Reinitialize() {
	IsEnabled = env.GetBoolOrDefault("DEBUG", true)
	CurrentLevel = ParseLevel(env.GetOrDefault("LOG_LEVEL", "INFO"))

	core := zapcore.NewCore(newEncoder(""), zapcore.AddSync(os.Stdout), zapLevels[CurrentLevel])
	swap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)))
}

// Init rebuilds the logger from resolved settings. Output always goes to stdout and,
// when Dir is set, to a rotating file named app.log inside Dir.
func Init(opts Options) error {
	IsEnabled = true
	CurrentLevel = opts.Level

	level := zapLevels[opts.Level]
	encoder := newEncoder(opts.Format)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", opts.Dir, err)
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "app.log"),
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	swap(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel)))

	Info("Logging initialized - Format: %s, Dir: %s, Level: %s", opts.Format, opts.Dir, levelNames[opts.Level])
	return nil
}

// SetLogger replaces the underlying logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	IsEnabled = true
	swap(l.WithOptions(zap.AddCallerSkip(2)))
}

// Sync flushes buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func swap(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
	logger = l.Sugar()
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// Log prints a message with the specified level if logging is enabled
func Log(level LogLevel, format string, v ...interface{}) {
	if !IsEnabled || level < CurrentLevel {
		return
	}

	mu.RLock()
	l := logger
	mu.RUnlock()

	switch level {
	case LevelDebug:
		l.Debugf(format, v...)
	case LevelInfo:
		l.Infof(format, v...)
	case LevelWarning:
		l.Warnf(format, v...)
	default:
		l.Errorf(format, v...)
	}
}

// Debug logs a debug level message
func Debug(format string, v ...interface{}) {
	Log(LevelDebug, format, v...)
}

// Info logs an info level message
func Info(format string, v ...interface{}) {
	Log(LevelInfo, format, v...)
}

// Warning logs a warning level message
func Warning(format string, v ...interface{}) {
	Log(LevelWarning, format, v...)
}

// Error logs an error level message
func Error(format string, v ...interface{}) {
	Log(LevelError, format, v...)
}

// Fatal logs an error level message and exits the process
func Fatal(format string, v ...interface{}) {
	Log(LevelError, format, v...)
	Sync()
	os.Exit(1)
}

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

const (
	LogFilePermissions = 0600
	LogDirPermissions  = 0750
	InfoLogLevel       = "info"
)

// Global variables
var (
	globalLogger *zap.Logger
	loggerMutex  sync.RWMutex
	once         sync.Once

	sessionID     string
	sessionIDOnce sync.Once

	GlobalEnableConsoleLogger = true
	GlobalEnableFileLogger    = true
	GlobalLogDir              = "logs"
	GlobalLogLevel            = InfoLogLevel
)

// Logger wraps zap with the small surface the rest of the codebase uses.
type Logger struct {
	*zap.Logger
}

// SessionID returns the identifier baked into this process's log file names.
// It is generated once per process.
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.NewString()
	})
	return sessionID
}

// InitLoggerOutputs loads logging settings from viper if present.
func InitLoggerOutputs() {
	if viper.IsSet("general.log_dir") {
		GlobalLogDir = viper.GetString("general.log_dir")
	}
	if viper.IsSet("general.log_level") {
		GlobalLogLevel = viper.GetString("general.log_level")
	}
	if viper.IsSet("general.enable_console_logger") {
		GlobalEnableConsoleLogger = viper.GetBool("general.enable_console_logger")
	}
	if viper.IsSet("general.enable_file_logger") {
		GlobalEnableFileLogger = viper.GetBool("general.enable_file_logger")
	}
}

// InitProduction builds the global logger: a console core plus a per-session
// file core (the file name carries the session id for audit purposes).
func InitProduction() {
	once.Do(func() {
		if GlobalLogLevel == "" {
			GlobalLogLevel = InfoLogLevel
		}
		level := zap.NewAtomicLevelAt(getZapLevel(GlobalLogLevel))

		var cores []zapcore.Core
		if GlobalEnableConsoleLogger {
			cores = append(cores, createConsoleCore(level))
		}
		if GlobalEnableFileLogger {
			if fileCore, err := createFileCore(level); err == nil {
				cores = append(cores, fileCore)
			}
		}

		globalLogger = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).
			Named("agent").
			With(zap.String("session_id", SessionID()))
	})
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func createConsoleCore(level zap.AtomicLevel) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stdout),
		level,
	)
}

func createFileCore(level zap.AtomicLevel) (zapcore.Core, error) {
	if err := os.MkdirAll(GlobalLogDir, LogDirPermissions); err != nil {
		return nil, err
	}

	logPath := filepath.Join(GlobalLogDir, fmt.Sprintf("agent_%s.log", SessionID()))
	logFile, err := os.OpenFile(
		logPath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		LogFilePermissions,
	)
	if err != nil {
		return nil, err
	}

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(logFile),
		level,
	), nil
}

// Formatted logging methods
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fmt.Sprintf("[%s]", t.Format("2006-01-02 15:04:05")))
}

func getZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Global functions
func Get() *Logger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if globalLogger == nil {
		InitProduction()
	}
	return &Logger{Logger: globalLogger}
}

// InitTest routes the global logger through the test's own output.
func InitTest(tb zaptest.TestingT) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = zaptest.NewLogger(tb)
}

func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

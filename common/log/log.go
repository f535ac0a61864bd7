package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is handed to every component explicitly; there is no package level logger.
type Logger struct {
	logger *log.Logger
}

func New(appName string, logLevel string) *Logger {
	return NewWithWriter(os.Stdout, appName, logLevel)
}

func NewWithWriter(w io.Writer, appName string, logLevel string) *Logger {
	logger := log.New(w)
	logger.SetPrefix(appName)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat(time.DateTime)
	logger.SetReportCaller(true)
	// skip the wrapper frames below when reporting the caller
	logger.SetCallerOffset(1)

	l := &Logger{logger: logger}
	l.SetLevel(logLevel)
	return l
}

// Discard returns a logger that drops everything, used by tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "", "error")
}

func (l *Logger) SetLevel(logLevel string) {
	if logLevel == "" {
		logLevel = "info"
	}

	switch strings.ToLower(logLevel) {
	case "debug":
		l.logger.SetLevel(log.DebugLevel)
	case "warn":
		l.logger.SetLevel(log.WarnLevel)
	case "error":
		l.logger.SetLevel(log.ErrorLevel)
	default:
		l.logger.SetLevel(log.InfoLevel)
	}
}

// Named returns a child logger whose prefix is extended with name.
func (l *Logger) Named(name string) *Logger {
	prefix := l.logger.GetPrefix()
	if prefix != "" {
		prefix += "." + name
	} else {
		prefix = name
	}
	return &Logger{logger: l.logger.WithPrefix(prefix)}
}

func (l *Logger) Fatal(format string, args ...any) {
	if len(args) == 0 {
		l.logger.Fatal(format)
	} else {
		l.logger.Fatalf(format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if len(args) == 0 {
		l.logger.Info(format)
	} else {
		l.logger.Infof(format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if len(args) == 0 {
		l.logger.Warn(format)
	} else {
		l.logger.Warnf(format, args...)
	}
}

func (l *Logger) Error(format string, args ...any) {
	if len(args) == 0 {
		l.logger.Error(format)
	} else {
		l.logger.Errorf(format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if len(args) == 0 {
		l.logger.Debug(format)
	} else {
		l.logger.Debugf(format, args...)
	}
}

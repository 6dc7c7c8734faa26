package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options - настройки логирования
type Options struct {
	Level  string    // trace, debug, info, warn, error
	Format string    // text или json
	Output io.Writer // по умолчанию os.Stdout
}

// OptionsFromEnv читает LOG_LEVEL и LOG_FORMAT
func OptionsFromEnv() Options {
	opts := Options{Level: "info", Format: "text"}
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok && lvl != "" {
		opts.Level = lvl
	}
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		opts.Format = f
	}
	return opts
}

// Logger - логгер компонента поверх logrus
type Logger struct {
	entry *logrus.Entry
}

// Глобальный логгер и бэкенд
var (
	backend       = logrus.New()
	defaultLogger = &Logger{entry: logrus.NewEntry(backend)}
)

// Configure применяет настройки к общему бэкенду всех логгеров
func Configure(opts Options) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	backend.SetLevel(level)

	if strings.ToLower(opts.Format) == "json" {
		backend.SetFormatter(&logrus.JSONFormatter{})
	} else {
		backend.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.Output != nil {
		backend.SetOutput(opts.Output)
	} else {
		backend.SetOutput(os.Stdout)
	}
}

// InitDefaultLogger настраивает бэкенд и глобальный логгер компонента
func InitDefaultLogger(component string, opts Options) error {
	Configure(opts)
	defaultLogger = NewLogger(component)
	return nil
}

// CloseDefaultLogger сбрасывает буферы перед выходом
func CloseDefaultLogger() {
	if c, ok := backend.Out.(io.Closer); ok && backend.Out != os.Stdout && backend.Out != os.Stderr {
		_ = c.Close()
	}
}

// NewLogger создаёт логгер с полем component
func NewLogger(component string) *Logger {
	return &Logger{entry: backend.WithField("component", component)}
}

// WithField возвращает логгер с дополнительным полем
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.entry.Tracef(format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.entry.Infof(format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// IsDebug сообщает, включён ли уровень DEBUG
func (l *Logger) IsDebug() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}

func Trace(format string, args ...interface{}) { defaultLogger.Trace(format, args...) }
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }

// Package logger wraps logrus with the output/rotation settings from config
// and a few typed event helpers.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"TRAVELPACK_BACK-END/internal/config"
)

// Logger wraps logrus.Logger
type Logger struct {
	*logrus.Logger
}

// Fields is a map of fields for structured logging
type Fields map[string]interface{}

// New creates a logger from config
func New(cfg config.LoggingConfig) (*Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	var output io.Writer = os.Stdout
	if cfg.Output == "file" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, err
		}
		output = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}
	l.SetOutput(output)

	return &Logger{Logger: l}, nil
}

// Discard returns a logger that writes nowhere, for tests
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

// WithFields adds fields to a log entry
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

func (l *Logger) LogRequest(method, path, clientIP string, statusCode int, durationMs int64) {
	entry := l.WithFields(Fields{
		"method":      method,
		"path":        path,
		"client_ip":   clientIP,
		"status_code": statusCode,
		"duration_ms": durationMs,
		"type":        "request",
	})
	switch {
	case statusCode >= 500:
		entry.Error("HTTP request")
	case statusCode >= 400:
		entry.Warn("HTTP request")
	default:
		entry.Info("HTTP request")
	}
}

func (l *Logger) LogAuth(userID, email, provider, action string, success bool) {
	entry := l.WithFields(Fields{
		"user_id":  userID,
		"email":    email,
		"provider": provider,
		"action":   action,
		"success":  success,
		"type":     "auth",
	})
	if success {
		entry.Info("Authentication event")
	} else {
		entry.Warn("Authentication failed")
	}
}

// LogBooking records booking lifecycle events
func (l *Logger) LogBooking(bookingID, userID, packageID, action string, fields Fields) {
	f := Fields{
		"booking_id": bookingID,
		"user_id":    userID,
		"package_id": packageID,
		"action":     action,
		"type":       "booking",
	}
	for k, v := range fields {
		f[k] = v
	}
	l.WithFields(f).Info("Booking event")
}

func (l *Logger) LogDatabase(operation, collection string, durationMs int64, err error) {
	entry := l.WithFields(Fields{
		"operation":   operation,
		"collection":  collection,
		"duration_ms": durationMs,
		"type":        "database",
	})
	if err != nil {
		entry.WithError(err).Error("Database operation failed")
		return
	}
	entry.Debug("Database operation")
}

func (l *Logger) LogSystem(component, action string, success bool, details Fields) {
	f := Fields{
		"component": component,
		"action":    action,
		"success":   success,
		"type":      "system",
	}
	for k, v := range details {
		f[k] = v
	}
	entry := l.WithFields(f)
	if success {
		entry.Info("System event")
	} else {
		entry.Error("System event failed")
	}
}

var defaultLogger = &Logger{Logger: logrus.StandardLogger()}

// Init builds the process-wide logger
func Init(cfg config.LoggingConfig) (*Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defaultLogger = l
	return l, nil
}

// Get returns the process-wide logger; the logrus standard logger until Init runs
func Get() *Logger {
	return defaultLogger
}

package main

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerLogger adapts zap.Logger to the badger.Logger interface
type BadgerLogger struct {
	logger *zap.SugaredLogger
}

// NewBadgerLogger creates a new BadgerLogger adapter
func NewBadgerLogger(logger *zap.Logger) badgerdb.Logger {
	return &BadgerLogger{logger: logger.Named("badger").Sugar()}
}

// Errorf logs an error message
func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error(trim(fmt.Sprintf(format, args...)))
}

// Warningf logs a warning message
func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn(trim(fmt.Sprintf(format, args...)))
}

// Infof logs badger's info messages at debug level
func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug(trim(fmt.Sprintf(format, args...)))
}

// Debugf logs a debug message
func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Debug(trim(fmt.Sprintf(format, args...)))
}

// trim drops the trailing newline badger puts on its messages
func trim(msg string) string {
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		return msg[:n-1]
	}
	return msg
}

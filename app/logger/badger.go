package logger

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// badgerLogger routes badger's printf style logging through zap. Badger is
// chatty at info level, so its info lines are logged at debug.
type badgerLogger struct {
	log *Logger
}

// Badger adapts l to badger's Logger interface. A nil l yields a nil
// interface, which badger treats as "no logging".
func (l *Logger) Badger() badger.Logger {
	if l == nil {
		return nil
	}
	return &badgerLogger{log: l.With("component", "badger")}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error(line(format, args))
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn(line(format, args))
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Debug(line(format, args))
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debug(line(format, args))
}

func line(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	mu            sync.Mutex
	loggerFactory = logging.NewDefaultLoggerFactory()
	loggers       []logging.LeveledLogger
)

type levelSetter interface {
	SetLevel(logging.LogLevel)
}

// NewLogger returns a leveled logger for scope. Its level follows later
// calls to SetLevel.
func NewLogger(scope string) logging.LeveledLogger {
	mu.Lock()
	defer mu.Unlock()

	l := loggerFactory.NewLogger(scope)
	loggers = append(loggers, l)
	return l
}

// ParseLevel converts a level name into a pion log level.
func ParseLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info", "":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}
	return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
}

// SetLevel applies level to the factory and to every logger handed out so far.
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	loggerFactory.DefaultLogLevel = lvl
	for _, l := range loggers {
		if s, ok := l.(levelSetter); ok {
			s.SetLevel(lvl)
		}
	}
	return nil
}

// NewLoggerTo returns a logger for scope writing to w at level. It is not
// affected by SetLevel and is meant for tests.
func NewLoggerTo(scope string, level logging.LogLevel, w io.Writer) logging.LeveledLogger {
	return logging.NewDefaultLeveledLoggerForScope(scope, level, w)
}

package logging

import (
	"bytes"
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.LogLevel{
		"trace":    logging.LogLevelTrace,
		"DEBUG":    logging.LogLevelDebug,
		" info ":   logging.LogLevelInfo,
		"":         logging.LogLevelInfo,
		"warning":  logging.LogLevelWarn,
		"error":    logging.LogLevelError,
		"disabled": logging.LogLevelDisabled,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetLevelUpdatesExistingLoggers(t *testing.T) {
	l := NewLogger("pixelsort/test")
	require.NoError(t, SetLevel("error"))
	defer func() { _ = SetLevel("info") }()

	dl, ok := l.(*logging.DefaultLeveledLogger)
	require.True(t, ok)

	var buf bytes.Buffer
	dl.WithOutput(&buf)
	l.Info("hidden")
	l.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLevel("chatty"))
}

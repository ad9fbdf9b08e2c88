package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("ERROR"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("unknown"))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, output(LoggerSetupParams{}))

	logFile := filepath.Join(t.TempDir(), "service")
	w := output(LoggerSetupParams{LogFileName: logFile, LogToStdout: true})
	require.NotNil(t, w)
	n, err := w.Write([]byte("test line\n"))
	require.NoError(t, err)
	assert.Positive(t, n)

	_, err = os.Stat(logFile + ".log")
	require.NoError(t, err)
}

func TestSentryHook(t *testing.T) {
	var captured []*logrus.Entry
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.capture = func(entry *logrus.Entry) {
		captured = append(captured, entry)
	}

	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.AddHook(hook)
	logger.Info("not captured")
	logger.Error("captured")

	require.Len(t, captured, 1)
	assert.Equal(t, "captured", captured[0].Message)
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

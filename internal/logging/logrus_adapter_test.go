package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"upper-case level is accepted", "WARN", "text", logrus.WarnLevel},
		{"invalid level defaults to info", "loud", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogrusAdapterWithWriter(tt.level, tt.format, &buf)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestLogrusAdapter_JSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("debug", "json", &buf)

	logger.WithField(FieldPage, 3).Debug("row skipped", F(FieldReason, "no_match"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "row skipped", decoded["msg"])
	assert.Equal(t, "no_match", decoded[FieldReason])
	assert.EqualValues(t, 3, decoded[FieldPage])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("warn", "text", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	logger := NewLogrusAdapterFromLogger(logrusLogger)
	logger.
		WithField(FieldSource, "march.pdf").
		WithFields(F(FieldMode, "text")).
		WithError(errors.New("boom")).
		Error("extraction failed")

	output := buf.String()
	assert.Contains(t, output, "extraction failed")
	assert.Contains(t, output, "march.pdf")
	assert.Contains(t, output, "mode=text")
	assert.Contains(t, output, "boom")
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	adapter, ok := NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	adapter := logger.(*LogrusAdapter)
	var buf bytes.Buffer
	adapter.logger.SetOutput(&buf)

	logger.Error("nothing")
	assert.Empty(t, buf.String())

	assert.NotNil(t, OrNop(nil))
	mock := NewMockLogger()
	assert.Same(t, mock, OrNop(mock))
}

func TestConvertFields(t *testing.T) {
	logrusFields := convertFields([]Field{F("a", "x"), F("b", 42)})
	assert.Len(t, logrusFields, 2)
	assert.Equal(t, "x", logrusFields["a"])
	assert.Equal(t, 42, logrusFields["b"])
	assert.Empty(t, convertFields(nil))
}

func TestMockLogger_DerivedLoggersShareSink(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldPage, 1)
	child.WithError(errors.New("bad date")).Debug("row skipped", F(FieldReason, "invalid_date"))
	mock.Info("done")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.True(t, mock.HasEntry("DEBUG", "row skipped"))

	page, ok := entries[0].FieldValue(FieldPage)
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.EqualError(t, entries[0].Error, "bad date")
	assert.Len(t, mock.GetEntriesByLevel("INFO"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestMockLogger_Fatalf(t *testing.T) {
	var mock MockLogger
	mock.Fatalf("cannot open %s", "x.pdf")
	entries := mock.GetEntriesByLevel("FATAL")
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Message, "x.pdf"))
}

func TestImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}

package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLogger_NotInitialized(t *testing.T) {
	var logger MetricsLogger
	assert.ErrorIs(t, logger.LogEvent("hello"), ErrLogNotInitialized)

	var nilLogger *MetricsLogger
	assert.ErrorIs(t, nilLogger.LogEvent(LOG_LEVEL_ERROR, "boom"), ErrLogNotInitialized)
	nilLogger.DeInit()
}

func TestMetricsLogger_Levels(t *testing.T) {
	defer SetCommonLoggerAttributes(LOG_LEVEL_INFO)
	SetCommonLoggerAttributes(LOG_LEVEL_WARN)

	var buf bytes.Buffer
	var logger MetricsLogger
	require.NoError(t, logger.Init(&buf, "", false))
	defer logger.DeInit()

	assert.NoError(t, logger.LogEvent(LOG_LEVEL_WARN, "matched", 2, "times"))
	assert.NoError(t, logger.LogEvent(LOG_LEVEL_INFO, "dropped below level"))
	assert.NoError(t, logger.LogEvent(LOG_LEVEL_ERROR, "failed"))

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "matched 2 times")
	assert.Contains(t, out, "ERROR")
	assert.NotContains(t, out, "dropped below level")
}

func TestMetricsLogger_PlainMessage(t *testing.T) {
	var buf bytes.Buffer
	var logger MetricsLogger
	require.NoError(t, logger.Init(&buf, "", false))
	defer logger.DeInit()

	// a leading int outside the level range is part of the message
	assert.NoError(t, logger.LogEvent(42, "answers"))
	assert.NoError(t, logger.LogEvent("single"))

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "42 answers")
	assert.Contains(t, out, "single")
}

func TestMetricsLogger_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	defer SetLoggerPath(LOG_FOLDER_NAME_WITH_PATH)
	SetLoggerPath(dir)

	var logger MetricsLogger
	require.NoError(t, logger.Init(nil, "cyclemetrics.log", true))
	assert.NoError(t, logger.LogEvent(LOG_LEVEL_INFO, "written to file"))
	logger.DeInit()

	data, err := os.ReadFile(filepath.Join(dir, "cyclemetrics.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

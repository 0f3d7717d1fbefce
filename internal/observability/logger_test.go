package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerTo(&buf, "debug", "json")
	require.NoError(t, err)

	Component(logger, "llm").WithField("key_index", 2).Info("rotated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "llm", entry["component"])
	assert.Equal(t, float64(2), entry["key_index"])
	assert.Equal(t, "rotated", entry["msg"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerTo_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerTo(&buf, "", "")
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerTo_Invalid(t *testing.T) {
	_, err := NewLoggerTo(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = NewLoggerTo(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestComponent_NilLogger(t *testing.T) {
	entry := Component(nil, "chat")
	assert.Equal(t, "chat", entry.Data["component"])
	assert.Same(t, logrus.StandardLogger(), entry.Logger)
}

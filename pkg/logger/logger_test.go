package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsCarryEnv(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("prod", &buf)

	l.Info("server started", "port", 8080)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "server started", record["msg"])
	assert.Equal(t, "prod", record["env"])
	assert.Equal(t, float64(8080), record["port"])
}

func TestProdSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("prod", &buf)

	l.Debug("verbose detail")
	assert.Zero(t, buf.Len())

	l.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestDevKeepsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("dev", &buf)

	l.Debug("verbose detail")
	assert.NotZero(t, buf.Len())
}

func TestErrorErrAttachesError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("prod", &buf)

	l.ErrorErr("query failed", errors.New("connection refused"))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "connection refused", record["error"])
}

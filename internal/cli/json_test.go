package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONSuccess_BasicData(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]string{"key": "value"})
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
}

func TestWriteJSONSuccess_Indented(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]int{"count": 3})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "\n  \"success\"", "output should be indented")
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, nil)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), `"data"`, "nil data should be omitted")
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestWriteJSONError_AllFields(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]string{"unit": "nginx.service"}
	err := WriteJSONError(&buf, "PERMISSION", "Insufficient privileges", "Run as root", details)
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PERMISSION", env.Error.Code)
	assert.Equal(t, "Insufficient privileges", env.Error.Message)
	assert.Equal(t, "Run as root", env.Error.Suggestion)
	require.NotNil(t, env.Error.Details)
}

func TestWriteJSONFromError_StructuredError(t *testing.T) {
	var buf bytes.Buffer

	cause := errors.New(errors.ErrPermission,
		"Insufficient privileges for stop",
		"Run vigil as root or configure passwordless sudo")
	require.NoError(t, WriteJSONFromError(&buf, cause))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.ErrPermission, env.Error.Code)
	assert.Equal(t, "Insufficient privileges for stop", env.Error.Message)
	assert.Equal(t, "Run vigil as root or configure passwordless sudo", env.Error.Suggestion)
}

func TestErrorToJSON_WrappedStructuredError(t *testing.T) {
	inner := errors.New(errors.ErrConfig, "Invalid config format", "Check the YAML syntax")
	wrapped := fmt.Errorf("loading: %w", inner)

	jsonErr := ErrorToJSON(wrapped)
	require.NotNil(t, jsonErr)
	assert.Equal(t, errors.ErrConfig, jsonErr.Code)
	assert.Equal(t, "Invalid config format", jsonErr.Message)
}

func TestErrorToJSON_GenericError(t *testing.T) {
	jsonErr := ErrorToJSON(fmt.Errorf("connection refused"))
	require.NotNil(t, jsonErr)
	assert.Equal(t, ErrCodeUnknown, jsonErr.Code)
	assert.Equal(t, "connection refused", jsonErr.Message)
	assert.Empty(t, jsonErr.Suggestion)
}

func TestErrorToJSON_Nil(t *testing.T) {
	assert.Nil(t, ErrorToJSON(nil))
}

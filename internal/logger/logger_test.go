package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Service: "test", Output: &buf})

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])

	data, ok := line["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test", data["service"])
	assert.Equal(t, "req-42", data["request_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Output: &buf})

	FromContext(context.TODO()).Info("dropped")
	assert.Zero(t, buf.Len())

	FromContext(context.TODO()).Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestIntoContextScopesLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	ctx := IntoContext(context.Background(), FromContext(context.Background()).With("job", "daily_digest"))
	ctx = WithRequestID(ctx, "req-7")
	FromContext(ctx).Info("scoped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	data, ok := line["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "daily_digest", data["job"])
	assert.Equal(t, "req-7", data["request_id"])
}

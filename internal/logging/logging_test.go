package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "debug", "json"))
	t.Cleanup(func() { _ = Setup(nil, "info", "text") })

	logrus.WithField("k", "v").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestSetupRejectsBadInput(t *testing.T) {
	assert.Error(t, Setup(nil, "loud", "text"))
	assert.Error(t, Setup(nil, "info", "xml"))
	require.NoError(t, Setup(nil, "info", "text"))
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, logrus.StandardLogger(), WithContext(context.Background()))

	entry := logrus.WithField("request_id", "abc")
	ctx := NewContext(context.Background(), entry)
	assert.Equal(t, entry, WithContext(ctx))
}
